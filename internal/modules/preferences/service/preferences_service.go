package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"lectern/internal/modules/preferences/domain"
	prefout "lectern/internal/modules/preferences/port/out"
	apperrors "lectern/internal/platform/errors"
)

type PreferencesService struct {
	store prefout.ThemeStore
	codec prefout.ThemeCodec
	log   *slog.Logger
}

func NewPreferencesService(store prefout.ThemeStore, codec prefout.ThemeCodec, log *slog.Logger) *PreferencesService {
	return &PreferencesService{store: store, codec: codec, log: log}
}

// Get returns the saved theme, or the defaults when nothing usable is saved.
func (s *PreferencesService) Get(ctx context.Context) (domain.Theme, error) {
	theme, err := s.store.Load(ctx)
	if errors.Is(err, apperrors.ErrNotFound) {
		return domain.DefaultTheme(), nil
	}
	if err != nil {
		if ctx.Err() != nil {
			return domain.Theme{}, err
		}
		s.log.Warn("unreadable theme, using defaults", "error", err)
		return domain.DefaultTheme(), nil
	}
	if verr := theme.Validate(); verr != nil {
		s.log.Warn("invalid saved theme, using defaults", "error", verr)
		return domain.DefaultTheme(), nil
	}
	return theme, nil
}

func (s *PreferencesService) Update(ctx context.Context, patch domain.Patch) (domain.Theme, error) {
	current, err := s.Get(ctx)
	if err != nil {
		return domain.Theme{}, err
	}
	if patch.Empty() {
		return current, nil
	}
	return s.save(ctx, patch.Apply(current))
}

func (s *PreferencesService) Reset(ctx context.Context) (domain.Theme, error) {
	if err := s.store.Clear(ctx); err != nil {
		return domain.Theme{}, err
	}
	return domain.DefaultTheme(), nil
}

func (s *PreferencesService) Export(ctx context.Context, w io.Writer) error {
	theme, err := s.Get(ctx)
	if err != nil {
		return err
	}
	return s.codec.Encode(w, theme)
}

func (s *PreferencesService) Import(ctx context.Context, r io.Reader) (domain.Theme, error) {
	theme, err := s.codec.Decode(r)
	if err != nil {
		return domain.Theme{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	return s.save(ctx, theme.Normalized())
}

func (s *PreferencesService) save(ctx context.Context, theme domain.Theme) (domain.Theme, error) {
	if err := theme.Validate(); err != nil {
		return domain.Theme{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	if err := s.store.Save(ctx, theme); err != nil {
		return domain.Theme{}, err
	}
	return theme, nil
}
