package dto

import (
	"time"
)

type BookOutput struct {
	ID          string
	Filename    string
	Title       string
	Author      string
	PageCount   int
	Status      string
	UploadedAt  time.Time
	Percent     float64
	HasProgress bool
}

type ListOutput struct {
	Books []BookOutput
	Stale bool
}

type UploadInput struct {
	Path  string
	Title string
}

type UploadOutput struct {
	Book       BookOutput
	LocalPages int
}

type WatchInput struct {
	Interval time.Duration
}

type StatusChangeOutput struct {
	BookID string
	Title  string
	From   string
	To     string
}

type ExportInput struct {
	Path string
}

type ExportOutput struct {
	Path  string
	Rows  int
	Stale bool
}
