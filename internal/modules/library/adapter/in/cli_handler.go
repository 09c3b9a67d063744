package in

import (
	"context"
	"time"

	"lectern/internal/modules/library/dto"
	libraryin "lectern/internal/modules/library/port/in"
)

type CLIHandler struct {
	usecase libraryin.Usecase
}

func NewCLIHandler(usecase libraryin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) ListBooks(ctx context.Context) (dto.ListOutput, error) {
	return h.usecase.ListBooks(ctx)
}

func (h CLIHandler) GetBook(ctx context.Context, id string) (dto.BookOutput, error) {
	return h.usecase.GetBook(ctx, id)
}

func (h CLIHandler) UploadBook(ctx context.Context, path, title string) (dto.UploadOutput, error) {
	return h.usecase.UploadBook(ctx, dto.UploadInput{Path: path, Title: title})
}

func (h CLIHandler) Watch(ctx context.Context, interval time.Duration, onChange func(dto.StatusChangeOutput)) error {
	return h.usecase.WatchProcessing(ctx, dto.WatchInput{Interval: interval}, onChange)
}

func (h CLIHandler) Export(ctx context.Context, path string) (dto.ExportOutput, error) {
	return h.usecase.ExportReport(ctx, dto.ExportInput{Path: path})
}
