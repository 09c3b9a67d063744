package in

import (
	"context"
	"io"

	"lectern/internal/modules/preferences/dto"
)

type Usecase interface {
	Get(ctx context.Context) (dto.ThemeOutput, error)
	Update(ctx context.Context, input dto.UpdateInput) (dto.ThemeOutput, error)
	Reset(ctx context.Context) (dto.ThemeOutput, error)
	Export(ctx context.Context, w io.Writer) error
	Import(ctx context.Context, r io.Reader) (dto.ThemeOutput, error)
}
