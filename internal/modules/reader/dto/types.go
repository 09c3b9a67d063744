package dto

import "time"

type OpenInput struct {
	BookID string
	// Section < 0 resumes from saved progress.
	Section int
}

type NavigateInput struct {
	BookID string
	Delta  int
}

type GotoInput struct {
	BookID string
	Index  int
}

type SectionOutput struct {
	BookID       string
	Title        string
	Index        int
	Total        int
	SectionTitle string
	Text         string
	Percent      float64
}

type ProgressOutput struct {
	BookID    string
	Section   int
	Total     int
	Percent   float64
	UpdatedAt time.Time
}

type SampleOutput struct {
	Title    string
	Sections []string
}

type RevealInput struct {
	Text  string
	Speed int
	Mode  string
}

type RevealStep struct {
	Chunk string
	Delay time.Duration
}

type RevealPlan struct {
	Mode  string
	Speed int
	Steps []RevealStep
}
