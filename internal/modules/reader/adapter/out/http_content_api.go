package out

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"lectern/internal/modules/reader/domain"
	readerout "lectern/internal/modules/reader/port/out"
	"lectern/internal/platform/apiclient"
)

const (
	contentPathFormat = "/api/books/%s/content"
	samplePath        = "/api/text"
)

type HTTPContentAPI struct {
	client *apiclient.Client
}

func NewHTTPContentAPI(client *apiclient.Client) readerout.ContentAPI {
	return &HTTPContentAPI{client: client}
}

// sectionPayload is either a bare string or an object with a title.
type sectionPayload struct {
	Title string
	Text  string
}

func (p *sectionPayload) UnmarshalJSON(raw []byte) error {
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		p.Text = text
		return nil
	}
	var obj struct {
		Title   string `json:"title"`
		Text    string `json:"text"`
		Content string `json:"content"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return err
	}
	p.Title = obj.Title
	p.Text = obj.Text
	if p.Text == "" {
		p.Text = obj.Content
	}
	return nil
}

type contentPayload struct {
	Title    string           `json:"title"`
	Sections []sectionPayload `json:"sections"`
	Chapters []sectionPayload `json:"chapters"`
	Pages    []sectionPayload `json:"pages"`
	Text     string           `json:"text"`
	Content  string           `json:"content"`
}

func (a *HTTPContentAPI) BookContent(ctx context.Context, bookID string) (domain.Content, error) {
	var raw []byte
	if err := a.client.Do(ctx, http.MethodGet, fmt.Sprintf(contentPathFormat, url.PathEscape(bookID)), nil, &raw); err != nil {
		return domain.Content{}, err
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || (trimmed[0] != '{' && trimmed[0] != '[' && trimmed[0] != '"') {
		return domain.Content{BookID: bookID, Text: string(raw)}, nil
	}

	var payload contentPayload
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &payload.Sections); err != nil {
			return domain.Content{}, fmt.Errorf("decode content: %w", err)
		}
	case '"':
		if err := json.Unmarshal(trimmed, &payload.Text); err != nil {
			return domain.Content{}, fmt.Errorf("decode content: %w", err)
		}
	default:
		if err := json.Unmarshal(trimmed, &payload); err != nil {
			return domain.Content{}, fmt.Errorf("decode content: %w", err)
		}
	}

	content := domain.Content{BookID: bookID, Title: payload.Title}
	for _, group := range [][]sectionPayload{payload.Sections, payload.Chapters, payload.Pages} {
		if len(group) == 0 {
			continue
		}
		for _, s := range group {
			if strings.TrimSpace(s.Text) == "" {
				continue
			}
			content.Sections = append(content.Sections, domain.Section{Index: len(content.Sections), Title: s.Title, Text: strings.TrimSpace(s.Text)})
		}
		break
	}
	if len(content.Sections) == 0 {
		content.Text = payload.Text
		if content.Text == "" {
			content.Text = payload.Content
		}
	}
	return content, nil
}

func (a *HTTPContentAPI) SampleText(ctx context.Context) (string, error) {
	var raw []byte
	if err := a.client.Do(ctx, http.MethodGet, samplePath, nil, &raw); err != nil {
		return "", err
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var payload struct {
			Text    string `json:"text"`
			Content string `json:"content"`
		}
		if err := json.Unmarshal(trimmed, &payload); err != nil {
			return "", fmt.Errorf("decode sample text: %w", err)
		}
		if payload.Text != "" {
			return payload.Text, nil
		}
		return payload.Content, nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return "", fmt.Errorf("decode sample text: %w", err)
		}
		return text, nil
	}
	return string(raw), nil
}
