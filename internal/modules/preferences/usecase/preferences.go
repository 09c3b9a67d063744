package usecase

import (
	"context"
	"io"

	"lectern/internal/modules/preferences/domain"
	"lectern/internal/modules/preferences/dto"
	prefin "lectern/internal/modules/preferences/port/in"
	"lectern/internal/modules/preferences/service"
)

type Interactor struct {
	svc *service.PreferencesService
}

func NewInteractor(svc *service.PreferencesService) prefin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Get(ctx context.Context) (dto.ThemeOutput, error) {
	return toOutput(i.svc.Get(ctx))
}

func (i *Interactor) Update(ctx context.Context, input dto.UpdateInput) (dto.ThemeOutput, error) {
	return toOutput(i.svc.Update(ctx, domain.Patch{
		FontFamily:  input.FontFamily,
		FontSize:    input.FontSize,
		TextColor:   input.TextColor,
		LineHeight:  input.LineHeight,
		RevealSpeed: input.RevealSpeed,
		RevealMode:  input.RevealMode,
	}))
}

func (i *Interactor) Reset(ctx context.Context) (dto.ThemeOutput, error) {
	return toOutput(i.svc.Reset(ctx))
}

func (i *Interactor) Export(ctx context.Context, w io.Writer) error {
	return i.svc.Export(ctx, w)
}

func (i *Interactor) Import(ctx context.Context, r io.Reader) (dto.ThemeOutput, error) {
	return toOutput(i.svc.Import(ctx, r))
}

func toOutput(theme domain.Theme, err error) (dto.ThemeOutput, error) {
	if err != nil {
		return dto.ThemeOutput{}, err
	}
	return dto.ThemeOutput{
		FontFamily:  theme.FontFamily,
		FontSize:    theme.FontSize,
		TextColor:   theme.TextColor,
		LineHeight:  theme.LineHeight,
		RevealSpeed: theme.RevealSpeed,
		RevealMode:  theme.RevealMode,
	}, nil
}
