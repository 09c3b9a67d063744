package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"lectern/internal/modules/reader/domain"
	readerout "lectern/internal/modules/reader/port/out"
	"lectern/internal/platform/clock"
	apperrors "lectern/internal/platform/errors"
)

const sampleTitle = "Sample text"

type ReaderService struct {
	api          readerout.ContentAPI
	progress     readerout.ProgressStore
	pacer        readerout.Pacer
	clock        clock.Clock
	sectionWords int
	log          *slog.Logger

	mu       sync.Mutex
	contents map[string]domain.Content
}

func NewReaderService(
	api readerout.ContentAPI,
	progress readerout.ProgressStore,
	pacer readerout.Pacer,
	clk clock.Clock,
	sectionWords int,
	log *slog.Logger,
) *ReaderService {
	return &ReaderService{
		api:          api,
		progress:     progress,
		pacer:        pacer,
		clock:        clk,
		sectionWords: sectionWords,
		log:          log,
		contents:     map[string]domain.Content{},
	}
}

// Open loads a book and moves to section, or to the saved section when
// section is negative. The resulting position is persisted.
func (s *ReaderService) Open(ctx context.Context, bookID string, section int) (domain.Content, domain.Section, domain.Progress, error) {
	content, err := s.load(ctx, bookID, true)
	if err != nil {
		return domain.Content{}, domain.Section{}, domain.Progress{}, err
	}
	if section < 0 {
		section = 0
		saved, ok, err := s.saved(ctx, content.BookID)
		if err != nil {
			return domain.Content{}, domain.Section{}, domain.Progress{}, err
		}
		if ok {
			section = saved.SectionIndex
		}
	}
	return s.moveTo(ctx, content, section)
}

func (s *ReaderService) Navigate(ctx context.Context, bookID string, delta int) (domain.Content, domain.Section, domain.Progress, error) {
	content, err := s.load(ctx, bookID, false)
	if err != nil {
		return domain.Content{}, domain.Section{}, domain.Progress{}, err
	}
	current := 0
	saved, ok, err := s.saved(ctx, content.BookID)
	if err != nil {
		return domain.Content{}, domain.Section{}, domain.Progress{}, err
	}
	if ok {
		current = domain.ClampIndex(saved.SectionIndex, content.Total())
	}
	return s.moveTo(ctx, content, current+delta)
}

func (s *ReaderService) Goto(ctx context.Context, bookID string, index int) (domain.Content, domain.Section, domain.Progress, error) {
	content, err := s.load(ctx, bookID, false)
	if err != nil {
		return domain.Content{}, domain.Section{}, domain.Progress{}, err
	}
	return s.moveTo(ctx, content, index)
}

// Touch rewrites the saved position with a fresh timestamp.
func (s *ReaderService) Touch(ctx context.Context, bookID string) (domain.Progress, error) {
	saved, err := s.Progress(ctx, bookID)
	if err != nil {
		return domain.Progress{}, err
	}
	next := domain.NewProgress(saved.BookID, saved.SectionIndex, saved.TotalSections, s.clock.Now())
	if err := s.progress.Save(ctx, next); err != nil {
		return domain.Progress{}, err
	}
	return next, nil
}

func (s *ReaderService) Progress(ctx context.Context, bookID string) (domain.Progress, error) {
	bookID = strings.TrimSpace(bookID)
	if bookID == "" {
		return domain.Progress{}, fmt.Errorf("%w: book id is required", apperrors.ErrInvalidInput)
	}
	saved, ok, err := s.saved(ctx, bookID)
	if err != nil {
		return domain.Progress{}, err
	}
	if !ok {
		return domain.Progress{}, fmt.Errorf("%w: no progress for %s", apperrors.ErrNotFound, bookID)
	}
	// Older entries may hold an index past the end; never hand one out.
	return domain.NewProgress(saved.BookID, saved.SectionIndex, saved.TotalSections, saved.UpdatedAt), nil
}

func (s *ReaderService) SampleText(ctx context.Context) (domain.Content, error) {
	text, err := s.api.SampleText(ctx)
	if err != nil {
		return domain.Content{}, err
	}
	sections := domain.Paginate(text, s.sectionWords)
	if len(sections) == 0 {
		return domain.Content{}, fmt.Errorf("%w: sample text is empty", apperrors.ErrNotFound)
	}
	return domain.Content{Title: sampleTitle, Sections: sections}, nil
}

// Play writes text to w unit by unit, pausing between units. It returns
// ctx.Err() as soon as ctx is done.
func (s *ReaderService) Play(ctx context.Context, text string, speed int, mode domain.Mode, w io.Writer) error {
	cursor := domain.NewCursor(text, mode, speed)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		tok, delay, ok := cursor.Step()
		if !ok {
			return nil
		}
		if _, err := io.WriteString(w, tok.Lead+tok.Text); err != nil {
			return fmt.Errorf("write reveal: %w", err)
		}
		if cursor.Done() {
			return nil
		}
		if err := s.pacer.Wait(ctx, delay); err != nil {
			return err
		}
	}
}

// saved returns the stored position. ok is false when there is none or when
// the record cannot be decoded.
func (s *ReaderService) saved(ctx context.Context, bookID string) (domain.Progress, bool, error) {
	progress, err := s.progress.Load(ctx, bookID)
	switch {
	case err == nil:
		return progress, true, nil
	case errors.Is(err, apperrors.ErrNotFound):
		return domain.Progress{}, false, nil
	case errors.Is(err, readerout.ErrUnreadableProgress):
		s.log.Warn("ignoring unreadable reading progress", "book", bookID, "error", err)
		return domain.Progress{}, false, nil
	default:
		return domain.Progress{}, false, err
	}
}

func (s *ReaderService) moveTo(ctx context.Context, content domain.Content, index int) (domain.Content, domain.Section, domain.Progress, error) {
	progress := domain.NewProgress(content.BookID, index, content.Total(), s.clock.Now())
	section, err := content.Section(progress.SectionIndex)
	if err != nil {
		return domain.Content{}, domain.Section{}, domain.Progress{}, err
	}
	if err := s.progress.Save(ctx, progress); err != nil {
		return domain.Content{}, domain.Section{}, domain.Progress{}, err
	}
	s.log.Debug("reading position saved", "book", content.BookID, "section", progress.SectionIndex, "total", progress.TotalSections)
	return content, section, progress, nil
}

// load returns the book content, paginating raw text. Content is kept for
// the lifetime of the service unless refresh is set.
func (s *ReaderService) load(ctx context.Context, bookID string, refresh bool) (domain.Content, error) {
	bookID = strings.TrimSpace(bookID)
	if bookID == "" {
		return domain.Content{}, fmt.Errorf("%w: book id is required", apperrors.ErrInvalidInput)
	}
	if !refresh {
		s.mu.Lock()
		cached, ok := s.contents[bookID]
		s.mu.Unlock()
		if ok {
			return cached, nil
		}
	}
	content, err := s.api.BookContent(ctx, bookID)
	if err != nil {
		return domain.Content{}, err
	}
	content.BookID = bookID
	if len(content.Sections) == 0 {
		content.Sections = domain.Paginate(content.Text, s.sectionWords)
	}
	for i := range content.Sections {
		content.Sections[i].Index = i
	}
	content.Text = ""
	if content.Total() == 0 {
		return domain.Content{}, fmt.Errorf("%w: book %s has no readable text", apperrors.ErrNotFound, bookID)
	}
	s.mu.Lock()
	s.contents[bookID] = content
	s.mu.Unlock()
	return content, nil
}
