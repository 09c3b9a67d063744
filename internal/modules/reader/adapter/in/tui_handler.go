package in

import (
	"context"

	"lectern/internal/modules/reader/dto"
	readerin "lectern/internal/modules/reader/port/in"
)

type TUIHandler struct {
	usecase readerin.Usecase
}

func NewTUIHandler(usecase readerin.Usecase) TUIHandler {
	return TUIHandler{usecase: usecase}
}

func (h TUIHandler) Open(ctx context.Context, bookID string) (dto.SectionOutput, error) {
	return h.usecase.Open(ctx, dto.OpenInput{BookID: bookID, Section: -1})
}

func (h TUIHandler) Navigate(ctx context.Context, bookID string, delta int) (dto.SectionOutput, error) {
	return h.usecase.Navigate(ctx, dto.NavigateInput{BookID: bookID, Delta: delta})
}

func (h TUIHandler) Touch(ctx context.Context, bookID string) (dto.ProgressOutput, error) {
	return h.usecase.Touch(ctx, bookID)
}

func (h TUIHandler) SampleText(ctx context.Context) (dto.SampleOutput, error) {
	return h.usecase.SampleText(ctx)
}

func (h TUIHandler) PlanReveal(text string, speed int, mode string) (dto.RevealPlan, error) {
	return h.usecase.PlanReveal(dto.RevealInput{Text: text, Speed: speed, Mode: mode})
}
