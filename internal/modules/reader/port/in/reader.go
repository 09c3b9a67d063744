package in

import (
	"context"
	"io"

	"lectern/internal/modules/reader/dto"
)

type Usecase interface {
	Open(ctx context.Context, input dto.OpenInput) (dto.SectionOutput, error)
	Navigate(ctx context.Context, input dto.NavigateInput) (dto.SectionOutput, error)
	Goto(ctx context.Context, input dto.GotoInput) (dto.SectionOutput, error)
	Touch(ctx context.Context, bookID string) (dto.ProgressOutput, error)
	Progress(ctx context.Context, bookID string) (dto.ProgressOutput, error)
	SampleText(ctx context.Context) (dto.SampleOutput, error)
	PlanReveal(input dto.RevealInput) (dto.RevealPlan, error)
	Play(ctx context.Context, input dto.RevealInput, w io.Writer) error
}
