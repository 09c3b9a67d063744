package out

import (
	"context"
	"encoding/json"
	"fmt"

	"lectern/internal/modules/preferences/domain"
	prefout "lectern/internal/modules/preferences/port/out"
)

const ThemeKey = "reader-theme"

type keyValue interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

type KVThemeStore struct {
	kv keyValue
}

func NewKVThemeStore(kv keyValue) prefout.ThemeStore {
	return &KVThemeStore{kv: kv}
}

type themeRecord struct {
	FontFamily  string  `json:"fontFamily"`
	FontSize    int     `json:"fontSize"`
	TextColor   string  `json:"textColor"`
	LineHeight  float64 `json:"lineHeight"`
	RevealSpeed int     `json:"speed"`
	RevealMode  string  `json:"mode"`
}

// Load fills fields missing from the stored record with defaults.
func (s *KVThemeStore) Load(ctx context.Context) (domain.Theme, error) {
	raw, err := s.kv.Get(ctx, ThemeKey)
	if err != nil {
		return domain.Theme{}, err
	}
	def := domain.DefaultTheme()
	rec := themeRecord{
		FontFamily:  def.FontFamily,
		FontSize:    def.FontSize,
		TextColor:   def.TextColor,
		LineHeight:  def.LineHeight,
		RevealSpeed: def.RevealSpeed,
		RevealMode:  def.RevealMode,
	}
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return domain.Theme{}, fmt.Errorf("decode theme: %w", err)
	}
	return domain.Theme(rec), nil
}

func (s *KVThemeStore) Save(ctx context.Context, theme domain.Theme) error {
	payload, err := json.Marshal(themeRecord(theme))
	if err != nil {
		return fmt.Errorf("encode theme: %w", err)
	}
	return s.kv.Set(ctx, ThemeKey, string(payload))
}

func (s *KVThemeStore) Clear(ctx context.Context) error {
	return s.kv.Delete(ctx, ThemeKey)
}
