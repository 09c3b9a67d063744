package domain

import (
	"fmt"
	"strings"
)

// Section is one screenful of book text, addressed by a zero-based index.
type Section struct {
	Index int
	Title string
	Text  string
}

// Content is a book as the reader sees it. Text holds an unpaginated body
// when the server did not split it into sections itself.
type Content struct {
	BookID   string
	Title    string
	Sections []Section
	Text     string
}

func (c Content) Total() int {
	return len(c.Sections)
}

func (c Content) Section(index int) (Section, error) {
	if index < 0 || index >= len(c.Sections) {
		return Section{}, fmt.Errorf("section %d out of range [0,%d)", index, len(c.Sections))
	}
	return c.Sections[index], nil
}

// Paragraphs splits text on blank lines. Lines inside a paragraph are joined
// with single spaces.
func Paragraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var (
		out     []string
		current []string
	)
	flush := func() {
		if len(current) > 0 {
			out = append(out, strings.Join(current, " "))
			current = nil
		}
	}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()
	return out
}

// Paginate groups paragraphs into sections of at most wordsPerSection words.
// A paragraph is only broken up when it alone is longer than the limit.
func Paginate(text string, wordsPerSection int) []Section {
	if wordsPerSection <= 0 {
		wordsPerSection = 300
	}
	var (
		sections []Section
		current  []string
		count    int
	)
	emit := func() {
		if len(current) == 0 {
			return
		}
		sections = append(sections, Section{Index: len(sections), Text: strings.Join(current, "\n\n")})
		current, count = nil, 0
	}
	for _, para := range Paragraphs(text) {
		words := strings.Fields(para)
		if count > 0 && count+len(words) > wordsPerSection {
			emit()
		}
		if len(words) <= wordsPerSection {
			current = append(current, para)
			count += len(words)
			continue
		}
		for start := 0; start < len(words); start += wordsPerSection {
			end := min(start+wordsPerSection, len(words))
			current = append(current, strings.Join(words[start:end], " "))
			count = end - start
			if end < len(words) {
				emit()
			}
		}
	}
	emit()
	return sections
}
