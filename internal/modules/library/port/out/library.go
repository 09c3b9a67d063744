package out

import (
	"context"
	"io"
	"time"

	"lectern/internal/modules/library/domain"
)

type BookAPI interface {
	List(ctx context.Context) ([]domain.Book, error)
	Get(ctx context.Context, id string) (domain.Book, error)
	Upload(ctx context.Context, filename string, file io.Reader, title string) (domain.Book, error)
}

// BookIndexProjector mirrors the last good remote listing for offline use.
type BookIndexProjector interface {
	Reset(ctx context.Context) error
	UpsertBook(ctx context.Context, book domain.Book) error
	ListBooks(ctx context.Context) ([]domain.Book, error)
}

type PDFInspector interface {
	PageCount(ctx context.Context, path string) (int, error)
}

// ProgressLookup reads local reading progress kept by the reader module.
type ProgressLookup interface {
	Percent(ctx context.Context, bookID string) (percent float64, ok bool, err error)
}

// Poller runs job every interval until stop is called. Runs never overlap.
type Poller interface {
	Every(interval time.Duration, job func()) (stop func(), err error)
}

type ReportWriter interface {
	Write(path string, rows []domain.ReportRow) error
}
