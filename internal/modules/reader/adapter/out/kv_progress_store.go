package out

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"lectern/internal/modules/reader/domain"
	readerout "lectern/internal/modules/reader/port/out"
)

const progressKeyPrefix = "reading-progress-"

type keyValue interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

type KVProgressStore struct {
	kv keyValue
}

func NewKVProgressStore(kv keyValue) readerout.ProgressStore {
	return &KVProgressStore{kv: kv}
}

func ProgressKey(bookID string) string {
	return progressKeyPrefix + bookID
}

type progressRecord struct {
	CurrentSection int       `json:"currentSection"`
	TotalSections  int       `json:"totalSections"`
	Percentage     float64   `json:"percentage"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (s *KVProgressStore) Load(ctx context.Context, bookID string) (domain.Progress, error) {
	raw, err := s.kv.Get(ctx, ProgressKey(bookID))
	if err != nil {
		return domain.Progress{}, err
	}
	var rec progressRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return domain.Progress{}, fmt.Errorf("%w for %s: %v", readerout.ErrUnreadableProgress, bookID, err)
	}
	return domain.NewProgress(bookID, rec.CurrentSection, rec.TotalSections, rec.UpdatedAt), nil
}

func (s *KVProgressStore) Save(ctx context.Context, progress domain.Progress) error {
	payload, err := json.Marshal(progressRecord{
		CurrentSection: progress.SectionIndex,
		TotalSections:  progress.TotalSections,
		Percentage:     progress.Percent,
		UpdatedAt:      progress.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("encode progress: %w", err)
	}
	return s.kv.Set(ctx, ProgressKey(progress.BookID), string(payload))
}
