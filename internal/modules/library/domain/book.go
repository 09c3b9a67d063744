package domain

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

type Status string

const (
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

func (s Status) Validate() error {
	switch s {
	case StatusProcessing, StatusCompleted, StatusFailed:
		return nil
	default:
		return fmt.Errorf("unsupported book status %q", string(s))
	}
}

// Terminal reports whether the server is done with the book.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Book is server-owned metadata. The client never edits it.
type Book struct {
	ID         string
	Filename   string
	Title      string
	Author     string
	PageCount  int
	Status     Status
	UploadedAt time.Time
}

func (b Book) Validate() error {
	if strings.TrimSpace(b.ID) == "" {
		return fmt.Errorf("book id is required")
	}
	if err := b.Status.Validate(); err != nil {
		return err
	}
	if b.PageCount < 0 {
		return fmt.Errorf("page count cannot be negative")
	}
	return nil
}

func (b Book) DisplayTitle() string {
	if t := strings.TrimSpace(b.Title); t != "" {
		return t
	}
	if b.Filename != "" {
		return strings.TrimSuffix(filepath.Base(b.Filename), filepath.Ext(b.Filename))
	}
	return b.ID
}

func (b Book) Readable() bool {
	return b.Status == StatusCompleted
}

type StatusChange struct {
	Book Book
	From Status
}

type ReportRow struct {
	Book        Book
	Percent     float64
	HasProgress bool
}
