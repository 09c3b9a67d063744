package library

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	libdto "lectern/internal/modules/library/dto"
)

type countingPort struct {
	mu    sync.Mutex
	calls int
	out   libdto.ListOutput
}

func (p *countingPort) ListBooks(context.Context) (libdto.ListOutput, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	return p.out, nil
}

func (p *countingPort) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func processingList() libdto.ListOutput {
	return libdto.ListOutput{Books: []libdto.BookOutput{
		{ID: "b1", Title: "Dune", Status: "completed"},
		{ID: "b2", Title: "Emma", Status: "processing"},
	}}
}

func newSized(port Port, every time.Duration) Model {
	m := New(port, every)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m
}

func TestPollsWhileBooksAreProcessing(t *testing.T) {
	t.Parallel()
	port := &countingPort{out: processingList()}
	m := newSized(port, time.Hour)

	m, _ = m.Update(BooksLoadedMsg{Output: processingList()})
	if !m.polling {
		t.Fatalf("expected polling while a book is processing")
	}
	m, _ = m.Update(BooksLoadedMsg{Output: processingList()})
	if !m.polling {
		t.Fatalf("a second load must not reset the pending poll")
	}

	m, cmd := m.Update(refreshTickMsg{})
	if m.polling {
		t.Fatalf("the tick should clear the polling flag")
	}
	if cmd == nil {
		t.Fatalf("the tick should reload the library")
	}
	drain(cmd)
	if port.count() != 1 {
		t.Fatalf("expected one reload, got %d", port.count())
	}

	done := libdto.ListOutput{Books: []libdto.BookOutput{{ID: "b2", Title: "Emma", Status: "completed"}}}
	m, _ = m.Update(BooksLoadedMsg{Output: done})
	if m.polling {
		t.Fatalf("no polling once every book is done")
	}
}

func TestNoPollingWhenIntervalIsZero(t *testing.T) {
	t.Parallel()
	m := newSized(&countingPort{}, 0)
	m, _ = m.Update(BooksLoadedMsg{Output: processingList()})
	if m.polling {
		t.Fatalf("a zero interval disables polling")
	}
}

func TestLoadErrorShowsRetryThenRecovers(t *testing.T) {
	t.Parallel()
	m := newSized(&countingPort{}, time.Hour)
	m, _ = m.Update(BooksLoadedMsg{Err: errors.New("boom")})
	if !strings.Contains(m.View(), "Could not load books: boom") {
		t.Fatalf("expected error in view:\n%s", m.View())
	}

	m, _ = m.Update(BooksLoadedMsg{Output: processingList()})
	book, ok := m.Selected()
	if !ok || book.ID != "b1" {
		t.Fatalf("unexpected selection %+v %v", book, ok)
	}
}

func TestDetailMarkdown(t *testing.T) {
	t.Parallel()
	md := DetailMarkdown(libdto.BookOutput{Title: "Dune", Author: "Herbert", Status: "processing", PageCount: 412, HasProgress: true, Percent: 25})
	for _, want := range []string{"# Dune", "*by Herbert*", "| Pages | 412 |", "| Progress | 25% |", "still extracting"} {
		if !strings.Contains(md, want) {
			t.Fatalf("missing %q in:\n%s", want, md)
		}
	}
}

// drain runs cmd and any batched commands, skipping ones that block.
func drain(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	select {
	case msg := <-done:
		if batch, ok := msg.(tea.BatchMsg); ok {
			for _, c := range batch {
				drain(c)
			}
		}
	case <-time.After(200 * time.Millisecond):
	}
}
