package domain_test

import (
	"strings"
	"testing"

	"lectern/internal/modules/preferences/domain"
)

func TestDefaultThemeIsValid(t *testing.T) {
	t.Parallel()
	if err := domain.DefaultTheme().Validate(); err != nil {
		t.Fatalf("default theme invalid: %v", err)
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	t.Parallel()
	theme := domain.Theme{FontFamily: " ", FontSize: 4, TextColor: "red", LineHeight: 4, RevealSpeed: 11, RevealMode: "line"}
	err := theme.Validate()
	if err == nil {
		t.Fatalf("expected validation error")
	}
	for _, want := range []string{"font family", "font size", "text color", "line height", "reveal speed", "reveal mode"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error %q should mention %s", err, want)
		}
	}
}

func TestPatchApply(t *testing.T) {
	t.Parallel()
	size := 20
	color := " #ABC "
	patch := domain.Patch{FontSize: &size, TextColor: &color}
	if patch.Empty() || !(domain.Patch{}).Empty() {
		t.Fatalf("unexpected Empty result")
	}
	got := patch.Apply(domain.DefaultTheme())
	if got.FontSize != 20 || got.TextColor != "#abc" || got.FontFamily != "serif" {
		t.Fatalf("unexpected patched theme: %+v", got)
	}
	if err := got.Validate(); err != nil {
		t.Fatalf("patched theme invalid: %v", err)
	}
}
