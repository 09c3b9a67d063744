package usecase

import (
	"context"
	"fmt"
	"io"

	"lectern/internal/modules/reader/domain"
	"lectern/internal/modules/reader/dto"
	readerin "lectern/internal/modules/reader/port/in"
	"lectern/internal/modules/reader/service"
	apperrors "lectern/internal/platform/errors"
)

type Interactor struct {
	svc *service.ReaderService
}

func NewInteractor(svc *service.ReaderService) readerin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Open(ctx context.Context, input dto.OpenInput) (dto.SectionOutput, error) {
	content, section, progress, err := i.svc.Open(ctx, input.BookID, input.Section)
	if err != nil {
		return dto.SectionOutput{}, err
	}
	return toSectionOutput(content, section, progress), nil
}

func (i *Interactor) Navigate(ctx context.Context, input dto.NavigateInput) (dto.SectionOutput, error) {
	content, section, progress, err := i.svc.Navigate(ctx, input.BookID, input.Delta)
	if err != nil {
		return dto.SectionOutput{}, err
	}
	return toSectionOutput(content, section, progress), nil
}

func (i *Interactor) Goto(ctx context.Context, input dto.GotoInput) (dto.SectionOutput, error) {
	content, section, progress, err := i.svc.Goto(ctx, input.BookID, input.Index)
	if err != nil {
		return dto.SectionOutput{}, err
	}
	return toSectionOutput(content, section, progress), nil
}

func (i *Interactor) Touch(ctx context.Context, bookID string) (dto.ProgressOutput, error) {
	progress, err := i.svc.Touch(ctx, bookID)
	if err != nil {
		return dto.ProgressOutput{}, err
	}
	return toProgressOutput(progress), nil
}

func (i *Interactor) Progress(ctx context.Context, bookID string) (dto.ProgressOutput, error) {
	progress, err := i.svc.Progress(ctx, bookID)
	if err != nil {
		return dto.ProgressOutput{}, err
	}
	return toProgressOutput(progress), nil
}

func (i *Interactor) SampleText(ctx context.Context) (dto.SampleOutput, error) {
	content, err := i.svc.SampleText(ctx)
	if err != nil {
		return dto.SampleOutput{}, err
	}
	out := dto.SampleOutput{Title: content.Title, Sections: make([]string, 0, content.Total())}
	for _, section := range content.Sections {
		out.Sections = append(out.Sections, section.Text)
	}
	return out, nil
}

func (i *Interactor) PlanReveal(input dto.RevealInput) (dto.RevealPlan, error) {
	mode, speed, err := revealSettings(input)
	if err != nil {
		return dto.RevealPlan{}, err
	}
	tokens := domain.Tokenize(input.Text, mode)
	plan := dto.RevealPlan{Mode: string(mode), Speed: speed, Steps: make([]dto.RevealStep, 0, len(tokens))}
	for _, tok := range tokens {
		plan.Steps = append(plan.Steps, dto.RevealStep{Chunk: tok.Lead + tok.Text, Delay: domain.Delay(tok, speed, mode)})
	}
	return plan, nil
}

func (i *Interactor) Play(ctx context.Context, input dto.RevealInput, w io.Writer) error {
	mode, speed, err := revealSettings(input)
	if err != nil {
		return err
	}
	return i.svc.Play(ctx, input.Text, speed, mode, w)
}

func revealSettings(input dto.RevealInput) (domain.Mode, int, error) {
	mode, err := domain.ParseMode(input.Mode)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	return mode, domain.ClampSpeed(input.Speed), nil
}

func toSectionOutput(content domain.Content, section domain.Section, progress domain.Progress) dto.SectionOutput {
	return dto.SectionOutput{
		BookID:       content.BookID,
		Title:        content.Title,
		Index:        progress.SectionIndex,
		Total:        progress.TotalSections,
		SectionTitle: section.Title,
		Text:         section.Text,
		Percent:      progress.Percent,
	}
}

func toProgressOutput(progress domain.Progress) dto.ProgressOutput {
	return dto.ProgressOutput{
		BookID:    progress.BookID,
		Section:   progress.SectionIndex,
		Total:     progress.TotalSections,
		Percent:   progress.Percent,
		UpdatedAt: progress.UpdatedAt,
	}
}
