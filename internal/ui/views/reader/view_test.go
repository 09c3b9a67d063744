package reader

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	readerdto "lectern/internal/modules/reader/dto"
	"lectern/internal/ui/theme"
)

type fakePort struct {
	navigated []int
}

func (f *fakePort) Open(_ context.Context, bookID string) (readerdto.SectionOutput, error) {
	return readerdto.SectionOutput{BookID: bookID, Text: "opened", Total: 1}, nil
}

func (f *fakePort) Navigate(_ context.Context, bookID string, delta int) (readerdto.SectionOutput, error) {
	f.navigated = append(f.navigated, delta)
	return readerdto.SectionOutput{BookID: bookID, Index: 1, Total: 2, Text: "next section"}, nil
}

func (f *fakePort) SampleText(context.Context) (readerdto.SampleOutput, error) {
	return readerdto.SampleOutput{Title: "Sample", Sections: []string{"first page", "second page"}}, nil
}

func (f *fakePort) PlanReveal(text string, speed int, mode string) (readerdto.RevealPlan, error) {
	plan := readerdto.RevealPlan{Mode: mode, Speed: speed}
	for i, word := range strings.Fields(text) {
		chunk := word
		if i > 0 {
			chunk = " " + word
		}
		plan.Steps = append(plan.Steps, readerdto.RevealStep{Chunk: chunk, Delay: time.Duration(11-speed) * time.Millisecond})
	}
	return plan, nil
}

func newTestModel(port Port) Model {
	m := New(port, theme.Page{FontSize: 16, LineHeight: 1.5}, 5, "word")
	m, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return m
}

func TestRevealAdvancesOneStepPerTick(t *testing.T) {
	t.Parallel()
	m := newTestModel(&fakePort{})
	m, _ = m.Update(OpenedMsg{Section: readerdto.SectionOutput{BookID: "b1", Total: 2, Text: "one two three"}})
	if !m.Revealing() {
		t.Fatalf("expected reveal to start")
	}

	m, _ = m.Update(revealTickMsg{gen: m.gen})
	if m.revealed != "one" {
		t.Fatalf("after first tick got %q", m.revealed)
	}
	m, _ = m.Update(revealTickMsg{gen: m.gen - 1})
	if m.revealed != "one" {
		t.Fatalf("stale tick must be ignored, got %q", m.revealed)
	}
	m, _ = m.Update(revealTickMsg{gen: m.gen})
	m, cmd := m.Update(revealTickMsg{gen: m.gen})
	if m.revealed != "one two three" || m.Revealing() {
		t.Fatalf("expected full reveal, got %q revealing=%v", m.revealed, m.Revealing())
	}
	if cmd != nil {
		if _, ok := cmd().(revealTickMsg); ok {
			t.Fatalf("no tick expected after the last step")
		}
	}
}

func TestSpaceCompletesRevealAndDropsPendingTicks(t *testing.T) {
	t.Parallel()
	m := newTestModel(&fakePort{})
	m, _ = m.Update(OpenedMsg{Section: readerdto.SectionOutput{BookID: "b1", Total: 1, Text: "alpha beta gamma"}})
	pending := m.gen

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{' '}})
	if m.Revealing() || m.revealed != "alpha beta gamma" {
		t.Fatalf("space should complete the reveal, got %q", m.revealed)
	}
	m, _ = m.Update(revealTickMsg{gen: pending})
	if m.revealed != "alpha beta gamma" {
		t.Fatalf("pending tick changed text: %q", m.revealed)
	}
}

func TestSetSpeedKeepsPosition(t *testing.T) {
	t.Parallel()
	m := newTestModel(&fakePort{})
	m, _ = m.Update(OpenedMsg{Section: readerdto.SectionOutput{BookID: "b1", Total: 1, Text: "a b c d"}})
	m, _ = m.Update(revealTickMsg{gen: m.gen})
	m, _ = m.Update(revealTickMsg{gen: m.gen})
	before := m.gen

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'+'}})
	if m.Speed() != 6 {
		t.Fatalf("expected speed 6, got %d", m.Speed())
	}
	if cmd == nil || m.gen == before {
		t.Fatalf("speed change should restart ticking under a new generation")
	}
	if m.pos != 2 || m.revealed != "a b" {
		t.Fatalf("position lost: pos=%d revealed=%q", m.pos, m.revealed)
	}
	if m.plan.Steps[2].Delay != 5*time.Millisecond {
		t.Fatalf("expected replanned delay, got %s", m.plan.Steps[2].Delay)
	}
}

func TestSpeedIsClamped(t *testing.T) {
	t.Parallel()
	m := newTestModel(&fakePort{})
	for i := 0; i < 15; i++ {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'+'}})
	}
	if m.Speed() != 10 {
		t.Fatalf("expected speed 10, got %d", m.Speed())
	}
}

func TestNavigateBookCallsPort(t *testing.T) {
	t.Parallel()
	port := &fakePort{}
	m := newTestModel(port)
	m, _ = m.Update(OpenedMsg{Section: readerdto.SectionOutput{BookID: "b1", Total: 2, Text: "x y"}})

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if cmd == nil {
		t.Fatalf("expected navigate command")
	}
	msg, ok := cmd().(OpenedMsg)
	if !ok || msg.Section.Index != 1 {
		t.Fatalf("unexpected message %#v", msg)
	}
	if len(port.navigated) != 1 || port.navigated[0] != 1 {
		t.Fatalf("unexpected navigate calls %v", port.navigated)
	}
	if m.Revealing() {
		t.Fatalf("navigation should cancel the reveal")
	}
}

func TestSampleNavigationStaysLocal(t *testing.T) {
	t.Parallel()
	port := &fakePort{}
	m := newTestModel(port)
	m, _ = m.Update(SampleLoadedMsg{Sample: readerdto.SampleOutput{Title: "Sample", Sections: []string{"first page", "second page"}}})
	if m.BookID() != "" {
		t.Fatalf("sample text has no book id, got %q", m.BookID())
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'l'}})
	msg, ok := cmd().(OpenedMsg)
	if !ok || msg.Section.Text != "second page" || msg.Section.Index != 1 {
		t.Fatalf("unexpected message %#v", msg)
	}
	if len(port.navigated) != 0 {
		t.Fatalf("sample navigation must not call the port")
	}

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'h'}})
	if cmd != nil {
		t.Fatalf("already at the first section")
	}
}
