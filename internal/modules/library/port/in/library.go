package in

import (
	"context"

	"lectern/internal/modules/library/dto"
)

type Usecase interface {
	ListBooks(ctx context.Context) (dto.ListOutput, error)
	GetBook(ctx context.Context, id string) (dto.BookOutput, error)
	UploadBook(ctx context.Context, input dto.UploadInput) (dto.UploadOutput, error)
	WatchProcessing(ctx context.Context, input dto.WatchInput, onChange func(dto.StatusChangeOutput)) error
	ExportReport(ctx context.Context, input dto.ExportInput) (dto.ExportOutput, error)
}
