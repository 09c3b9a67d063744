package theme

import (
	"strings"
	"testing"
)

func TestPageColumns(t *testing.T) {
	t.Parallel()
	cases := []struct {
		size, avail, want int
	}{
		{size: 16, avail: 200, want: 64},
		{size: 8, avail: 200, want: 32},
		{size: 48, avail: 100, want: 100},
		{size: 16, avail: 0, want: 64},
	}
	for _, tc := range cases {
		if got := (Page{FontSize: tc.size}).Columns(tc.avail); got != tc.want {
			t.Fatalf("Columns(size=%d, avail=%d) = %d, want %d", tc.size, tc.avail, got, tc.want)
		}
	}
}

func TestPageRenderLineHeight(t *testing.T) {
	t.Parallel()
	text := strings.Repeat("word ", 20)
	tight := Page{FontSize: 8, LineHeight: 1.5}.Render(text, 80)
	loose := Page{FontSize: 8, LineHeight: 2}.Render(text, 80)
	if strings.Contains(tight, "\n\n") {
		t.Fatalf("line height 1.5 should not add blank lines")
	}
	if !strings.Contains(loose, "\n\n") {
		t.Fatalf("line height 2 should add blank lines:\n%s", loose)
	}
}
