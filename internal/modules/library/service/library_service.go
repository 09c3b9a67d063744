package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"lectern/internal/modules/library/domain"
	libraryout "lectern/internal/modules/library/port/out"
	"lectern/internal/platform/apiclient"
	apperrors "lectern/internal/platform/errors"
)

type LibraryService struct {
	api       libraryout.BookAPI
	projector libraryout.BookIndexProjector
	pdf       libraryout.PDFInspector
	poller    libraryout.Poller
	report    libraryout.ReportWriter
	log       *slog.Logger
}

func NewLibraryService(
	api libraryout.BookAPI,
	projector libraryout.BookIndexProjector,
	pdf libraryout.PDFInspector,
	poller libraryout.Poller,
	report libraryout.ReportWriter,
	log *slog.Logger,
) *LibraryService {
	return &LibraryService{api: api, projector: projector, pdf: pdf, poller: poller, report: report, log: log}
}

// ListBooks returns the remote listing and refreshes the local index. When
// the API is unreachable the last indexed listing is served as stale.
func (s *LibraryService) ListBooks(ctx context.Context) ([]domain.Book, bool, error) {
	books, err := s.api.List(ctx)
	if err != nil {
		if !apiclient.IsTransport(err) {
			return nil, false, err
		}
		cached, cacheErr := s.projector.ListBooks(ctx)
		if cacheErr != nil || len(cached) == 0 {
			return nil, false, err
		}
		s.log.Warn("serving cached library", "error", err, "books", len(cached))
		return cached, true, nil
	}
	valid := make([]domain.Book, 0, len(books))
	for _, book := range books {
		if verr := book.Validate(); verr != nil {
			s.log.Warn("skipping malformed book", "id", book.ID, "error", verr)
			continue
		}
		valid = append(valid, book)
	}
	sortBooks(valid)
	s.reindex(ctx, valid)
	return valid, false, nil
}

func (s *LibraryService) reindex(ctx context.Context, books []domain.Book) {
	if err := s.projector.Reset(ctx); err != nil {
		s.log.Warn("reset library index", "error", err)
		return
	}
	for _, book := range books {
		if err := s.projector.UpsertBook(ctx, book); err != nil {
			s.log.Warn("index book", "id", book.ID, "error", err)
		}
	}
}

func (s *LibraryService) GetBook(ctx context.Context, id string) (domain.Book, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Book{}, fmt.Errorf("%w: book id is required", apperrors.ErrInvalidInput)
	}
	book, err := s.api.Get(ctx, id)
	if err != nil {
		return domain.Book{}, err
	}
	if err := book.Validate(); err != nil {
		return domain.Book{}, fmt.Errorf("book %s: %w", id, err)
	}
	if err := s.projector.UpsertBook(ctx, book); err != nil {
		s.log.Warn("index book", "id", book.ID, "error", err)
	}
	return book, nil
}

// UploadBook checks the file is a readable PDF before sending it. Processing
// happens on the server, so the returned book is usually still processing.
func (s *LibraryService) UploadBook(ctx context.Context, path, title string) (domain.Book, int, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return domain.Book{}, 0, fmt.Errorf("%w: file path is required", apperrors.ErrInvalidInput)
	}
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return domain.Book{}, 0, fmt.Errorf("%w: only pdf files can be uploaded", apperrors.ErrInvalidInput)
	}
	pages, err := s.pdf.PageCount(ctx, path)
	if err != nil {
		return domain.Book{}, 0, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	f, err := os.Open(path)
	if err != nil {
		return domain.Book{}, 0, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	book, err := s.api.Upload(ctx, filepath.Base(path), f, strings.TrimSpace(title))
	if err != nil {
		return domain.Book{}, 0, err
	}
	if book.Status == "" {
		book.Status = domain.StatusProcessing
	}
	if book.PageCount == 0 {
		book.PageCount = pages
	}
	if err := book.Validate(); err != nil {
		return domain.Book{}, 0, fmt.Errorf("upload response: %w", err)
	}
	if err := s.projector.UpsertBook(ctx, book); err != nil {
		s.log.Warn("index uploaded book", "id", book.ID, "error", err)
	}
	return book, pages, nil
}

// WatchProcessing polls every book still processing until all of them reach
// a terminal status, ctx ends, or the session is rejected.
func (s *LibraryService) WatchProcessing(ctx context.Context, interval time.Duration, onChange func(domain.StatusChange)) error {
	if interval <= 0 {
		return fmt.Errorf("%w: poll interval must be positive", apperrors.ErrInvalidInput)
	}
	books, _, err := s.ListBooks(ctx)
	if err != nil {
		return err
	}
	pending := map[string]domain.Status{}
	for _, book := range books {
		if !book.Status.Terminal() {
			pending[book.ID] = book.Status
		}
	}
	if len(pending) == 0 {
		return nil
	}

	var mu sync.Mutex
	done := make(chan struct{})
	var once sync.Once
	fatal := make(chan error, 1)

	stop, err := s.poller.Every(interval, func() {
		mu.Lock()
		defer mu.Unlock()
		for id, before := range pending {
			if ctx.Err() != nil {
				return
			}
			book, getErr := s.api.Get(ctx, id)
			if getErr != nil {
				if errors.Is(getErr, apperrors.ErrUnauthorized) {
					select {
					case fatal <- getErr:
					default:
					}
					return
				}
				s.log.Warn("poll book", "id", id, "error", getErr)
				continue
			}
			if book.Status != before {
				if upErr := s.projector.UpsertBook(ctx, book); upErr != nil {
					s.log.Warn("index polled book", "id", id, "error", upErr)
				}
				if onChange != nil {
					onChange(domain.StatusChange{Book: book, From: before})
				}
				pending[id] = book.Status
			}
			if book.Status.Terminal() {
				delete(pending, id)
			}
		}
		if len(pending) == 0 {
			once.Do(func() { close(done) })
		}
	})
	if err != nil {
		return fmt.Errorf("start poller: %w", err)
	}
	defer stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-fatal:
		return err
	case <-done:
		return nil
	}
}

func (s *LibraryService) ExportReport(ctx context.Context, path string, progress libraryout.ProgressLookup) (int, bool, error) {
	if strings.TrimSpace(path) == "" {
		return 0, false, fmt.Errorf("%w: report path is required", apperrors.ErrInvalidInput)
	}
	books, stale, err := s.ListBooks(ctx)
	if err != nil {
		return 0, false, err
	}
	rows := make([]domain.ReportRow, 0, len(books))
	for _, book := range books {
		row := domain.ReportRow{Book: book}
		if progress != nil {
			pct, ok, perr := progress.Percent(ctx, book.ID)
			if perr != nil {
				return 0, false, perr
			}
			row.Percent, row.HasProgress = pct, ok
		}
		rows = append(rows, row)
	}
	if err := s.report.Write(path, rows); err != nil {
		return 0, false, err
	}
	return len(rows), stale, nil
}

func sortBooks(books []domain.Book) {
	sort.SliceStable(books, func(i, j int) bool {
		if !books[i].UploadedAt.Equal(books[j].UploadedAt) {
			return books[i].UploadedAt.After(books[j].UploadedAt)
		}
		return strings.ToLower(books[i].DisplayTitle()) < strings.ToLower(books[j].DisplayTitle())
	})
}
