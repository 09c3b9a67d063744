package in

import (
	"context"
	"io"

	"lectern/internal/modules/preferences/dto"
	prefin "lectern/internal/modules/preferences/port/in"
)

type CLIHandler struct {
	usecase prefin.Usecase
}

func NewCLIHandler(usecase prefin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Show(ctx context.Context) (dto.ThemeOutput, error) {
	return h.usecase.Get(ctx)
}

func (h CLIHandler) Set(ctx context.Context, input dto.UpdateInput) (dto.ThemeOutput, error) {
	return h.usecase.Update(ctx, input)
}

func (h CLIHandler) Reset(ctx context.Context) (dto.ThemeOutput, error) {
	return h.usecase.Reset(ctx)
}

func (h CLIHandler) Export(ctx context.Context, w io.Writer) error {
	return h.usecase.Export(ctx, w)
}

func (h CLIHandler) Import(ctx context.Context, r io.Reader) (dto.ThemeOutput, error) {
	return h.usecase.Import(ctx, r)
}
