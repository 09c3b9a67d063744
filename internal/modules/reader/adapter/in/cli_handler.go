package in

import (
	"context"
	"io"

	"lectern/internal/modules/reader/dto"
	readerin "lectern/internal/modules/reader/port/in"
)

type CLIHandler struct {
	usecase readerin.Usecase
}

func NewCLIHandler(usecase readerin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Open(ctx context.Context, bookID string, section int) (dto.SectionOutput, error) {
	return h.usecase.Open(ctx, dto.OpenInput{BookID: bookID, Section: section})
}

func (h CLIHandler) Navigate(ctx context.Context, bookID string, delta int) (dto.SectionOutput, error) {
	return h.usecase.Navigate(ctx, dto.NavigateInput{BookID: bookID, Delta: delta})
}

func (h CLIHandler) Progress(ctx context.Context, bookID string) (dto.ProgressOutput, error) {
	return h.usecase.Progress(ctx, bookID)
}

func (h CLIHandler) SampleText(ctx context.Context) (dto.SampleOutput, error) {
	return h.usecase.SampleText(ctx)
}

func (h CLIHandler) Play(ctx context.Context, text string, speed int, mode string, w io.Writer) error {
	return h.usecase.Play(ctx, dto.RevealInput{Text: text, Speed: speed, Mode: mode}, w)
}
