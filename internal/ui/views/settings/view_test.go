package settings

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	prefdto "lectern/internal/modules/preferences/dto"
)

type memPort struct {
	theme prefdto.ThemeOutput
	saved []prefdto.ThemeOutput
}

func (p *memPort) Theme(context.Context) (prefdto.ThemeOutput, error) { return p.theme, nil }

func (p *memPort) Save(_ context.Context, theme prefdto.ThemeOutput) (prefdto.ThemeOutput, error) {
	p.saved = append(p.saved, theme)
	p.theme = theme
	return theme, nil
}

func (p *memPort) Reset(context.Context) (prefdto.ThemeOutput, error) {
	p.theme = defaults()
	return p.theme, nil
}

func defaults() prefdto.ThemeOutput {
	return prefdto.ThemeOutput{FontFamily: "serif", FontSize: 16, TextColor: "#cdd6f4", LineHeight: 1.5, RevealSpeed: 5, RevealMode: "word"}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func loaded(port *memPort) Model {
	m := New(port)
	msg := m.Init()()
	m, _ = m.Update(msg)
	return m
}

func TestEditFieldAndSave(t *testing.T) {
	t.Parallel()
	port := &memPort{theme: defaults()}
	m := loaded(port)

	m, _ = m.Update(key("down"))
	m, _ = m.Update(key("enter"))
	if !m.Editing() {
		t.Fatalf("enter should start editing")
	}
	m, _ = m.Update(key("backspace"))
	m, _ = m.Update(key("backspace"))
	m, _ = m.Update(key("20"))
	m, cmd := m.Update(key("enter"))
	if m.Editing() || cmd == nil {
		t.Fatalf("second enter should save, editing=%v", m.Editing())
	}

	saved, ok := cmd().(ThemeSavedMsg)
	if !ok || !saved.Saved || saved.Err != nil {
		t.Fatalf("unexpected result %#v", saved)
	}
	if len(port.saved) != 1 {
		t.Fatalf("expected one save, got %d", len(port.saved))
	}
	want := defaults()
	want.FontSize = 20
	if port.saved[0] != want {
		t.Fatalf("saved %+v, want %+v", port.saved[0], want)
	}
	m, _ = m.Update(saved)
	if m.Theme().FontSize != 20 {
		t.Fatalf("view did not take the saved theme: %+v", m.Theme())
	}
}

func TestEscCancelsEdit(t *testing.T) {
	t.Parallel()
	port := &memPort{theme: defaults()}
	m := loaded(port)

	m, _ = m.Update(key("enter"))
	m, _ = m.Update(key("x"))
	m, cmd := m.Update(key("esc"))
	if m.Editing() || cmd != nil {
		t.Fatalf("esc should stop editing without saving")
	}
	if got := m.fields[fieldFamily].input.Value(); got != "serif" {
		t.Fatalf("esc should restore the value, got %q", got)
	}
	if len(port.saved) != 0 {
		t.Fatalf("nothing should be saved")
	}
}

func TestNonNumericSizeIsRejectedLocally(t *testing.T) {
	t.Parallel()
	port := &memPort{theme: defaults()}
	m := loaded(port)

	m, _ = m.Update(key("down"))
	m, _ = m.Update(key("enter"))
	m, _ = m.Update(key("x"))
	m, cmd := m.Update(key("enter"))
	if cmd != nil || m.err == nil {
		t.Fatalf("expected a local error and no save, err=%v", m.err)
	}
	if len(port.saved) != 0 {
		t.Fatalf("nothing should be saved")
	}
}

func TestResetKey(t *testing.T) {
	t.Parallel()
	custom := defaults()
	custom.RevealSpeed = 9
	port := &memPort{theme: custom}
	m := loaded(port)

	_, cmd := m.Update(key("r"))
	msg, ok := cmd().(ThemeSavedMsg)
	if !ok || msg.Theme.RevealSpeed != 5 || !msg.Saved {
		t.Fatalf("unexpected reset result %#v", msg)
	}
}
