package in

import (
	"context"

	"lectern/internal/modules/preferences/dto"
	prefin "lectern/internal/modules/preferences/port/in"
)

type TUIHandler struct {
	usecase prefin.Usecase
}

func NewTUIHandler(usecase prefin.Usecase) TUIHandler {
	return TUIHandler{usecase: usecase}
}

func (h TUIHandler) Theme(ctx context.Context) (dto.ThemeOutput, error) {
	return h.usecase.Get(ctx)
}

// Save replaces every field with the edited values.
func (h TUIHandler) Save(ctx context.Context, theme dto.ThemeOutput) (dto.ThemeOutput, error) {
	return h.usecase.Update(ctx, dto.UpdateInput{
		FontFamily:  &theme.FontFamily,
		FontSize:    &theme.FontSize,
		TextColor:   &theme.TextColor,
		LineHeight:  &theme.LineHeight,
		RevealSpeed: &theme.RevealSpeed,
		RevealMode:  &theme.RevealMode,
	})
}

func (h TUIHandler) Reset(ctx context.Context) (dto.ThemeOutput, error) {
	return h.usecase.Reset(ctx)
}
