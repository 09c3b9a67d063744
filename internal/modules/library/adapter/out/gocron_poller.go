package out

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron"

	libraryout "lectern/internal/modules/library/port/out"
)

type GocronPoller struct{}

func NewGocronPoller() libraryout.Poller {
	return &GocronPoller{}
}

func (p *GocronPoller) Every(interval time.Duration, job func()) (func(), error) {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	if _, err := s.Every(interval).Do(job); err != nil {
		return nil, fmt.Errorf("schedule poll: %w", err)
	}
	s.StartAsync()
	return s.Stop, nil
}
