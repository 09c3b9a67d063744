package out

import (
	"context"
	"errors"
	"time"

	"lectern/internal/modules/reader/domain"
)

type ContentAPI interface {
	BookContent(ctx context.Context, bookID string) (domain.Content, error)
	SampleText(ctx context.Context) (string, error)
}

// ErrUnreadableProgress marks a saved position that exists but cannot be
// decoded. Readers start over and the next save replaces it.
var ErrUnreadableProgress = errors.New("unreadable reading progress")

type ProgressStore interface {
	Load(ctx context.Context, bookID string) (domain.Progress, error)
	Save(ctx context.Context, progress domain.Progress) error
}

type Pacer interface {
	Wait(ctx context.Context, d time.Duration) error
}
