package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const (
	MinFontSize   = 8
	MaxFontSize   = 48
	MinLineHeight = 1.0
	MaxLineHeight = 3.0
	MinSpeed      = 1
	MaxSpeed      = 10
)

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Theme is the reader appearance. It is global, not per book.
type Theme struct {
	FontFamily  string
	FontSize    int
	TextColor   string
	LineHeight  float64
	RevealSpeed int
	RevealMode  string
}

func DefaultTheme() Theme {
	return Theme{
		FontFamily:  "serif",
		FontSize:    16,
		TextColor:   "#cdd6f4",
		LineHeight:  1.5,
		RevealSpeed: 5,
		RevealMode:  "word",
	}
}

func (t Theme) Validate() error {
	var errs []error
	if strings.TrimSpace(t.FontFamily) == "" {
		errs = append(errs, fmt.Errorf("font family is required"))
	}
	if t.FontSize < MinFontSize || t.FontSize > MaxFontSize {
		errs = append(errs, fmt.Errorf("font size must be between %d and %d", MinFontSize, MaxFontSize))
	}
	if !hexColor.MatchString(t.TextColor) {
		errs = append(errs, fmt.Errorf("text color %q is not a #rgb or #rrggbb value", t.TextColor))
	}
	if t.LineHeight < MinLineHeight || t.LineHeight > MaxLineHeight {
		errs = append(errs, fmt.Errorf("line height must be between %.1f and %.1f", MinLineHeight, MaxLineHeight))
	}
	if t.RevealSpeed < MinSpeed || t.RevealSpeed > MaxSpeed {
		errs = append(errs, fmt.Errorf("reveal speed must be between %d and %d", MinSpeed, MaxSpeed))
	}
	if t.RevealMode != "word" && t.RevealMode != "char" {
		errs = append(errs, fmt.Errorf("reveal mode must be word or char"))
	}
	return errors.Join(errs...)
}

// Patch carries only the fields being changed.
type Patch struct {
	FontFamily  *string
	FontSize    *int
	TextColor   *string
	LineHeight  *float64
	RevealSpeed *int
	RevealMode  *string
}

func (p Patch) Empty() bool {
	return p.FontFamily == nil && p.FontSize == nil && p.TextColor == nil &&
		p.LineHeight == nil && p.RevealSpeed == nil && p.RevealMode == nil
}

func (p Patch) Apply(t Theme) Theme {
	if p.FontFamily != nil {
		t.FontFamily = *p.FontFamily
	}
	if p.FontSize != nil {
		t.FontSize = *p.FontSize
	}
	if p.TextColor != nil {
		t.TextColor = *p.TextColor
	}
	if p.LineHeight != nil {
		t.LineHeight = *p.LineHeight
	}
	if p.RevealSpeed != nil {
		t.RevealSpeed = *p.RevealSpeed
	}
	if p.RevealMode != nil {
		t.RevealMode = *p.RevealMode
	}
	return t.Normalized()
}

// Normalized trims text fields and lowercases the color and reveal mode.
func (t Theme) Normalized() Theme {
	t.FontFamily = strings.TrimSpace(t.FontFamily)
	t.TextColor = strings.ToLower(strings.TrimSpace(t.TextColor))
	t.RevealMode = strings.ToLower(strings.TrimSpace(t.RevealMode))
	return t
}
