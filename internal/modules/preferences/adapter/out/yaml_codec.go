package out

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"lectern/internal/modules/preferences/domain"
	prefout "lectern/internal/modules/preferences/port/out"
)

type YAMLThemeCodec struct{}

func NewYAMLThemeCodec() prefout.ThemeCodec {
	return YAMLThemeCodec{}
}

type themeDocument struct {
	FontFamily  string  `yaml:"font_family"`
	FontSize    int     `yaml:"font_size"`
	TextColor   string  `yaml:"text_color"`
	LineHeight  float64 `yaml:"line_height"`
	RevealSpeed int     `yaml:"reveal_speed"`
	RevealMode  string  `yaml:"reveal_mode"`
}

func (YAMLThemeCodec) Encode(w io.Writer, theme domain.Theme) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(themeDocument(theme)); err != nil {
		return fmt.Errorf("encode theme yaml: %w", err)
	}
	return enc.Close()
}

// Decode starts from the defaults so a document may name only some fields.
func (YAMLThemeCodec) Decode(r io.Reader) (domain.Theme, error) {
	doc := themeDocument(domain.DefaultTheme())
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.Theme{}, fmt.Errorf("theme document is empty")
		}
		return domain.Theme{}, fmt.Errorf("decode theme yaml: %w", err)
	}
	return domain.Theme(doc), nil
}
