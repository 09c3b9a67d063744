package domain_test

import (
	"strings"
	"testing"
	"time"

	"lectern/internal/modules/reader/domain"
)

func TestPaginateKeepsParagraphsTogether(t *testing.T) {
	t.Parallel()
	text := "one two three\n\nfour five\r\n\r\nsix seven eight nine\n\n\n"
	sections := domain.Paginate(text, 5)
	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d: %+v", len(sections), sections)
	}
	if sections[0].Text != "one two three\n\nfour five" || sections[0].Index != 0 {
		t.Fatalf("unexpected first section: %q", sections[0].Text)
	}
	if sections[1].Text != "six seven eight nine" || sections[1].Index != 1 {
		t.Fatalf("unexpected second section: %q", sections[1].Text)
	}
}

func TestPaginateSplitsOversizedParagraph(t *testing.T) {
	t.Parallel()
	sections := domain.Paginate("a b\n\nc d e f g h i\n\nj", 3)
	var got []string
	for _, s := range sections {
		got = append(got, s.Text)
	}
	want := []string{"a b", "c d e", "f g h", "i\n\nj"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("unexpected sections: %q", got)
	}
	if len(domain.Paginate("  \n\n ", 10)) != 0 {
		t.Fatalf("blank text should have no sections")
	}
}

func TestNewProgressClampsAndComputesPercent(t *testing.T) {
	t.Parallel()
	at := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		index, total, wantIndex int
		wantPercent             float64
	}{
		{index: 0, total: 4, wantIndex: 0, wantPercent: 25},
		{index: 3, total: 4, wantIndex: 3, wantPercent: 100},
		{index: 9, total: 4, wantIndex: 3, wantPercent: 100},
		{index: -2, total: 4, wantIndex: 0, wantPercent: 25},
		{index: 5, total: 0, wantIndex: 0, wantPercent: 0},
	}
	for _, tc := range cases {
		p := domain.NewProgress("b1", tc.index, tc.total, at)
		if p.SectionIndex != tc.wantIndex || p.Percent != tc.wantPercent {
			t.Fatalf("NewProgress(%d,%d) = %d/%v, want %d/%v", tc.index, tc.total, p.SectionIndex, p.Percent, tc.wantIndex, tc.wantPercent)
		}
	}
}

func TestTokenizeWordsRebuildsText(t *testing.T) {
	t.Parallel()
	tokens := domain.Tokenize("Hello, world.\n\nSecond  para", domain.ModeWord)
	if len(tokens) != 4 {
		t.Fatalf("expected 4 tokens, got %d", len(tokens))
	}
	var b strings.Builder
	for _, tok := range tokens {
		b.WriteString(tok.Lead + tok.Text)
	}
	if b.String() != "Hello, world.\n\nSecond para" {
		t.Fatalf("unexpected rebuild: %q", b.String())
	}
	wantPauses := []domain.Pause{domain.PauseClause, domain.PauseParagraph, domain.PauseNone, domain.PauseParagraph}
	for i, tok := range tokens {
		if tok.Pause != wantPauses[i] {
			t.Fatalf("token %d (%q) pause = %v, want %v", i, tok.Text, tok.Pause, wantPauses[i])
		}
	}
}

func TestTokenizeCharsHandlesRunes(t *testing.T) {
	t.Parallel()
	tokens := domain.Tokenize("né à", domain.ModeChar)
	var texts []string
	for _, tok := range tokens {
		texts = append(texts, tok.Lead+tok.Text)
	}
	if strings.Join(texts, "|") != "n|é| à" {
		t.Fatalf("unexpected char tokens: %q", texts)
	}
	if tokens[len(tokens)-1].Pause != domain.PauseParagraph {
		t.Fatalf("last rune should carry the paragraph pause")
	}
}

func TestDelayScalesWithSpeedAndPunctuation(t *testing.T) {
	t.Parallel()
	plain := domain.Token{Text: "word"}
	if got := domain.Delay(plain, 10, domain.ModeWord); got != 40*time.Millisecond {
		t.Fatalf("fastest word delay = %v", got)
	}
	if got := domain.Delay(plain, 1, domain.ModeWord); got != 400*time.Millisecond {
		t.Fatalf("slowest word delay = %v", got)
	}
	if got := domain.Delay(plain, 99, domain.ModeWord); got != 40*time.Millisecond {
		t.Fatalf("speed should clamp to 10, got %v", got)
	}
	if got := domain.Delay(domain.Token{Text: "end.", Pause: domain.PauseSentence}, 5, domain.ModeWord); got != 720*time.Millisecond {
		t.Fatalf("sentence delay = %v", got)
	}
	if got := domain.Delay(domain.Token{Text: "x", Pause: domain.PauseParagraph}, 5, domain.ModeChar); got != 192*time.Millisecond {
		t.Fatalf("char paragraph delay = %v", got)
	}
	slow := domain.Delay(domain.Token{Text: "a,", Pause: domain.PauseClause}, 3, domain.ModeWord)
	fast := domain.Delay(domain.Token{Text: "a,", Pause: domain.PauseClause}, 8, domain.ModeWord)
	if slow <= fast {
		t.Fatalf("higher speed must shorten delay: %v vs %v", slow, fast)
	}
}

func TestCursorStepsAndCompletes(t *testing.T) {
	t.Parallel()
	c := domain.NewCursor("One two.\n\nThree", domain.ModeWord, 5)
	if c.Visible() != "" || c.Done() {
		t.Fatalf("new cursor should be empty")
	}
	tok, delay, ok := c.Step()
	if !ok || tok.Text != "One" || delay != 240*time.Millisecond || c.Visible() != "One" {
		t.Fatalf("unexpected first step: %+v %v %q", tok, delay, c.Visible())
	}
	c.SetSpeed(0)
	if c.Speed() != 1 {
		t.Fatalf("speed should clamp to 1, got %d", c.Speed())
	}
	c.Complete()
	if !c.Done() || c.Visible() != "One two.\n\nThree" {
		t.Fatalf("complete should reveal everything, got %q", c.Visible())
	}
	if pos, total := c.Position(); pos != 3 || total != 3 {
		t.Fatalf("unexpected position %d/%d", pos, total)
	}
	if _, _, ok := c.Step(); ok {
		t.Fatalf("step after done should report false")
	}
}

func TestParseMode(t *testing.T) {
	t.Parallel()
	if m, err := domain.ParseMode(""); err != nil || m != domain.ModeWord {
		t.Fatalf("empty mode should default to word: %v %v", m, err)
	}
	if m, err := domain.ParseMode(" CHAR "); err != nil || m != domain.ModeChar {
		t.Fatalf("char mode: %v %v", m, err)
	}
	if _, err := domain.ParseMode("line"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}
