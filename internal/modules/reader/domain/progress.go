package domain

import "time"

type Progress struct {
	BookID        string
	SectionIndex  int
	TotalSections int
	Percent       float64
	UpdatedAt     time.Time
}

// ClampIndex keeps index inside [0,total). An empty book clamps to 0.
func ClampIndex(index, total int) int {
	if total <= 0 || index < 0 {
		return 0
	}
	if index >= total {
		return total - 1
	}
	return index
}

func NewProgress(bookID string, index, total int, at time.Time) Progress {
	index = ClampIndex(index, total)
	var pct float64
	if total > 0 {
		pct = float64(index+1) / float64(total) * 100
	}
	return Progress{
		BookID:        bookID,
		SectionIndex:  index,
		TotalSections: max(total, 0),
		Percent:       pct,
		UpdatedAt:     at.UTC(),
	}
}
