package usecase_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"lectern/internal/modules/preferences/adapter/out"
	"lectern/internal/modules/preferences/domain"
	"lectern/internal/modules/preferences/dto"
	prefin "lectern/internal/modules/preferences/port/in"
	"lectern/internal/modules/preferences/service"
	"lectern/internal/modules/preferences/usecase"
	apperrors "lectern/internal/platform/errors"
	"lectern/internal/platform/logging"
)

type memStore struct {
	theme   *domain.Theme
	loadErr error
	saves   int
}

func (m *memStore) Load(context.Context) (domain.Theme, error) {
	if m.loadErr != nil {
		return domain.Theme{}, m.loadErr
	}
	if m.theme == nil {
		return domain.Theme{}, apperrors.ErrNotFound
	}
	return *m.theme, nil
}

func (m *memStore) Save(_ context.Context, theme domain.Theme) error {
	m.theme = &theme
	m.saves++
	return nil
}

func (m *memStore) Clear(context.Context) error {
	m.theme = nil
	return nil
}

func newUsecase(store *memStore) prefin.Usecase {
	return usecase.NewInteractor(service.NewPreferencesService(store, out.NewYAMLThemeCodec(), logging.Discard()))
}

func TestGetFallsBackToDefaults(t *testing.T) {
	t.Parallel()
	store := &memStore{}
	uc := newUsecase(store)
	got, err := uc.Get(context.Background())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.FontFamily != "serif" || got.FontSize != 16 || got.RevealSpeed != 5 {
		t.Fatalf("expected defaults, got %+v", got)
	}

	broken := domain.DefaultTheme()
	broken.FontSize = 200
	store.theme = &broken
	got, err = uc.Get(context.Background())
	if err != nil || got.FontSize != 16 {
		t.Fatalf("invalid saved theme should fall back to defaults: %+v %v", got, err)
	}

	store.loadErr = errors.New("decode theme: bad json")
	if got, err = uc.Get(context.Background()); err != nil || got.FontSize != 16 {
		t.Fatalf("unreadable theme should fall back to defaults: %+v %v", got, err)
	}
}

func TestUpdateIsPartialAndValidated(t *testing.T) {
	t.Parallel()
	store := &memStore{}
	uc := newUsecase(store)
	ctx := context.Background()

	size := 22
	got, err := uc.Update(ctx, dto.UpdateInput{FontSize: &size})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.FontSize != 22 || got.TextColor != "#cdd6f4" || store.saves != 1 {
		t.Fatalf("unexpected update result: %+v saves=%d", got, store.saves)
	}

	bad := 0.5
	if _, err := uc.Update(ctx, dto.UpdateInput{LineHeight: &bad}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if store.theme.LineHeight != 1.5 || store.saves != 1 {
		t.Fatalf("rejected update must not be stored: %+v", store.theme)
	}

	if _, err := uc.Update(ctx, dto.UpdateInput{}); err != nil || store.saves != 1 {
		t.Fatalf("empty update should not write: %v saves=%d", err, store.saves)
	}

	reset, err := uc.Reset(ctx)
	if err != nil || reset.FontSize != 16 || store.theme != nil {
		t.Fatalf("reset: %+v %v", reset, err)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	t.Parallel()
	store := &memStore{}
	uc := newUsecase(store)
	ctx := context.Background()
	mode := "char"
	if _, err := uc.Update(ctx, dto.UpdateInput{RevealMode: &mode}); err != nil {
		t.Fatalf("update: %v", err)
	}

	var buf bytes.Buffer
	if err := uc.Export(ctx, &buf); err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(buf.String(), "reveal_mode: char") {
		t.Fatalf("unexpected export:\n%s", buf.String())
	}

	other := &memStore{}
	imported, err := newUsecase(other).Import(ctx, &buf)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if imported.RevealMode != "char" || other.theme == nil || other.theme.RevealMode != "char" {
		t.Fatalf("unexpected import: %+v", imported)
	}

	if _, err := uc.Import(ctx, strings.NewReader("font_size: 99\n")); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("out of range import should be invalid, got %v", err)
	}
	if _, err := uc.Import(ctx, strings.NewReader("colour: red\n")); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("unknown field should be invalid, got %v", err)
	}
}

func TestImportNormalizesLikeUpdate(t *testing.T) {
	t.Parallel()
	store := &memStore{}
	uc := newUsecase(store)
	doc := "font_family: \"  Georgia \"\ntext_color: \" #ABCDEF\"\nreveal_mode: Word\n"
	got, err := uc.Import(context.Background(), strings.NewReader(doc))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if got.RevealMode != "word" || got.TextColor != "#abcdef" || got.FontFamily != "Georgia" {
		t.Fatalf("unexpected import: %+v", got)
	}
	if store.theme == nil || store.theme.RevealMode != "word" {
		t.Fatalf("normalized theme not stored: %+v", store.theme)
	}
}
