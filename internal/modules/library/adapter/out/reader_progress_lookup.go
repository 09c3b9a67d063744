package out

import (
	"context"
	"errors"

	libraryout "lectern/internal/modules/library/port/out"
	readerin "lectern/internal/modules/reader/port/in"
	apperrors "lectern/internal/platform/errors"
)

type ReaderProgressLookup struct {
	reader readerin.Usecase
}

func NewReaderProgressLookup(reader readerin.Usecase) libraryout.ProgressLookup {
	return &ReaderProgressLookup{reader: reader}
}

func (l *ReaderProgressLookup) Percent(ctx context.Context, bookID string) (float64, bool, error) {
	progress, err := l.reader.Progress(ctx, bookID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return progress.Percent, true, nil
}
