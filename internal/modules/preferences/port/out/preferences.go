package out

import (
	"context"
	"io"

	"lectern/internal/modules/preferences/domain"
)

type ThemeStore interface {
	Load(ctx context.Context) (domain.Theme, error)
	Save(ctx context.Context, theme domain.Theme) error
	Clear(ctx context.Context) error
}

type ThemeCodec interface {
	Encode(w io.Writer, theme domain.Theme) error
	Decode(r io.Reader) (domain.Theme, error)
}
