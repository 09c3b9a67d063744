package out

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"lectern/internal/modules/library/domain"
	libraryout "lectern/internal/modules/library/port/out"
	"lectern/internal/platform/apiclient"
)

const (
	booksPath  = "/api/books"
	uploadPath = "/api/books/upload"
	uploadFile = "pdf"
)

type HTTPBookAPI struct {
	client *apiclient.Client
}

func NewHTTPBookAPI(client *apiclient.Client) libraryout.BookAPI {
	return &HTTPBookAPI{client: client}
}

// bookPayload accepts the field spellings the different server builds use.
type bookPayload struct {
	ID           string `json:"id"`
	MongoID      string `json:"_id"`
	Filename     string `json:"filename"`
	OriginalName string `json:"originalName"`
	Title        string `json:"title"`
	Author       string `json:"author"`
	PageCount    int    `json:"pageCount"`
	TotalPages   int    `json:"totalPages"`
	Status       string `json:"status"`
	CreatedAt    string `json:"createdAt"`
	UploadedAt   string `json:"uploadedAt"`
}

func (p bookPayload) toDomain() domain.Book {
	book := domain.Book{
		ID:        firstNonEmpty(p.ID, p.MongoID, p.Filename),
		Filename:  firstNonEmpty(p.Filename, p.OriginalName),
		Title:     p.Title,
		Author:    p.Author,
		PageCount: p.PageCount,
		Status:    domain.Status(strings.ToLower(strings.TrimSpace(p.Status))),
	}
	if book.PageCount == 0 {
		book.PageCount = p.TotalPages
	}
	if book.Status == "" {
		book.Status = domain.StatusCompleted
	}
	if ts := firstNonEmpty(p.UploadedAt, p.CreatedAt); ts != "" {
		if parsed, err := time.Parse(time.RFC3339, ts); err == nil {
			book.UploadedAt = parsed.UTC()
		}
	}
	return book
}

func (a *HTTPBookAPI) List(ctx context.Context) ([]domain.Book, error) {
	var raw json.RawMessage
	if err := a.client.Do(ctx, http.MethodGet, booksPath, nil, &raw); err != nil {
		return nil, err
	}
	payloads, err := decodeBookList(raw)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Book, 0, len(payloads))
	for _, p := range payloads {
		out = append(out, p.toDomain())
	}
	return out, nil
}

func (a *HTTPBookAPI) Get(ctx context.Context, id string) (domain.Book, error) {
	var raw json.RawMessage
	if err := a.client.Do(ctx, http.MethodGet, booksPath+"/"+url.PathEscape(id), nil, &raw); err != nil {
		return domain.Book{}, err
	}
	payload, err := decodeBook(raw)
	if err != nil {
		return domain.Book{}, err
	}
	book := payload.toDomain()
	if book.ID == "" {
		book.ID = id
	}
	return book, nil
}

func (a *HTTPBookAPI) Upload(ctx context.Context, filename string, file io.Reader, title string) (domain.Book, error) {
	values := map[string]string{}
	if title != "" {
		values["title"] = title
	}
	var raw json.RawMessage
	if err := a.client.Upload(ctx, uploadPath, uploadFile, filename, file, values, &raw); err != nil {
		return domain.Book{}, err
	}
	payload, err := decodeBook(raw)
	if err != nil {
		return domain.Book{}, err
	}
	if payload.Status == "" {
		payload.Status = string(domain.StatusProcessing)
	}
	if payload.Filename == "" {
		payload.Filename = filename
	}
	return payload.toDomain(), nil
}

func decodeBookList(raw json.RawMessage) ([]bookPayload, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, nil
	}
	if trimmed[0] == '[' {
		var list []bookPayload
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("decode books: %w", err)
		}
		return list, nil
	}
	var wrapped struct {
		Books []bookPayload `json:"books"`
	}
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return nil, fmt.Errorf("decode books: %w", err)
	}
	return wrapped.Books, nil
}

func decodeBook(raw json.RawMessage) (bookPayload, error) {
	var wrapped struct {
		Book *bookPayload `json:"book"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Book != nil {
		return *wrapped.Book, nil
	}
	var payload bookPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return bookPayload{}, fmt.Errorf("decode book: %w", err)
	}
	return payload, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
