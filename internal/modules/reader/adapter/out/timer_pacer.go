package out

import (
	"context"
	"time"

	readerout "lectern/internal/modules/reader/port/out"
)

type TimerPacer struct{}

func NewTimerPacer() readerout.Pacer {
	return TimerPacer{}
}

func (TimerPacer) Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
