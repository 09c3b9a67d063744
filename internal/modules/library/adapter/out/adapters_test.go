package out_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/xuri/excelize/v2"

	"lectern/internal/modules/library/adapter/out"
	"lectern/internal/modules/library/domain"
	"lectern/internal/platform/apiclient"
	apperrors "lectern/internal/platform/errors"
	"lectern/internal/platform/kvstore"
)

func newBookServer(t *testing.T) *httptest.Server {
	t.Helper()
	r := mux.NewRouter()
	r.HandleFunc("/api/books", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"books":[
			{"_id":"m1","originalName":"dune.pdf","title":"Dune","totalPages":412,"status":"Completed","createdAt":"2026-03-01T10:00:00Z"},
			{"id":"m2","filename":"notes.pdf","status":""}
		]}`)
	}).Methods(http.MethodGet)
	r.HandleFunc("/api/books/upload", func(w http.ResponseWriter, req *http.Request) {
		file, _, err := req.FormFile("pdf")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()
		_ = json.NewEncoder(w).Encode(map[string]any{
			"book": map[string]any{"id": "up1", "title": req.FormValue("title"), "pageCount": 0},
		})
	}).Methods(http.MethodPost)
	r.HandleFunc("/api/books/{id}", func(w http.ResponseWriter, req *http.Request) {
		if mux.Vars(req)["id"] == "missing" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"error":"book not found"}`)
			return
		}
		_, _ = io.WriteString(w, `{"title":"Bare","status":"processing"}`)
	}).Methods(http.MethodGet)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func newClient(t *testing.T, base string) *apiclient.Client {
	t.Helper()
	client, err := apiclient.New(apiclient.Options{BaseURL: base, Timeout: time.Second})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestHTTPBookAPIDecodesServerShapes(t *testing.T) {
	t.Parallel()
	srv := newBookServer(t)
	api := out.NewHTTPBookAPI(newClient(t, srv.URL))
	ctx := context.Background()

	books, err := api.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(books) != 2 {
		t.Fatalf("expected 2 books, got %d", len(books))
	}
	dune := books[0]
	if dune.ID != "m1" || dune.Filename != "dune.pdf" || dune.PageCount != 412 || dune.Status != domain.StatusCompleted {
		t.Fatalf("unexpected first book: %+v", dune)
	}
	if !dune.UploadedAt.Equal(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected upload time: %v", dune.UploadedAt)
	}
	if books[1].Status != domain.StatusCompleted || books[1].DisplayTitle() != "notes" {
		t.Fatalf("unexpected second book: %+v", books[1])
	}

	bare, err := api.Get(ctx, "b9")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if bare.ID != "b9" || bare.Status != domain.StatusProcessing {
		t.Fatalf("unexpected bare book: %+v", bare)
	}
	if _, err := api.Get(ctx, "missing"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	uploaded, err := api.Upload(ctx, "dune.pdf", strings.NewReader("%PDF-1.4"), "Dune")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if uploaded.ID != "up1" || uploaded.Title != "Dune" || uploaded.Filename != "dune.pdf" || uploaded.Status != domain.StatusProcessing {
		t.Fatalf("unexpected uploaded book: %+v", uploaded)
	}
}

func TestHTTPBookAPIReportsUnreachableServerAsTransport(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	_, err := out.NewHTTPBookAPI(newClient(t, base)).List(context.Background())
	if !apiclient.IsTransport(err) {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestSQLiteBookIndexRoundTrip(t *testing.T) {
	t.Parallel()
	store, err := kvstore.Open(filepath.Join(t.TempDir(), "lectern.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	index, err := out.NewSQLiteBookIndex(store.DB())
	if err != nil {
		t.Fatalf("new index: %v", err)
	}
	ctx := context.Background()
	first := domain.Book{ID: "a", Title: "Alpha", Status: domain.StatusProcessing, UploadedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	second := domain.Book{ID: "b", Title: "Beta", PageCount: 9, Status: domain.StatusCompleted, UploadedAt: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)}
	for _, b := range []domain.Book{first, second} {
		if err := index.UpsertBook(ctx, b); err != nil {
			t.Fatalf("upsert %s: %v", b.ID, err)
		}
	}
	first.Status = domain.StatusCompleted
	if err := index.UpsertBook(ctx, first); err != nil {
		t.Fatalf("update: %v", err)
	}

	books, err := index.ListBooks(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(books) != 2 || books[0].ID != "b" || books[1].Status != domain.StatusCompleted {
		t.Fatalf("unexpected index contents: %+v", books)
	}
	if !books[0].UploadedAt.Equal(second.UploadedAt) || books[0].PageCount != 9 {
		t.Fatalf("fields not preserved: %+v", books[0])
	}

	if err := index.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	books, err = index.ListBooks(ctx)
	if err != nil || len(books) != 0 {
		t.Fatalf("expected empty index, got %v %v", books, err)
	}
}

func TestXLSXReportWriter(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "reports", "library.xlsx")
	rows := []domain.ReportRow{
		{Book: domain.Book{ID: "a", Title: "Alpha", PageCount: 120, Status: domain.StatusCompleted}, Percent: 75, HasProgress: true},
		{Book: domain.Book{ID: "b", Filename: "beta.pdf", Status: domain.StatusProcessing}},
	}
	if err := out.NewXLSXReportWriter().Write(path, rows); err != nil {
		t.Fatalf("write: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open report: %v", err)
	}
	defer f.Close()
	got, err := f.GetRows("Library")
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(got))
	}
	if got[0][0] != "ID" || got[1][1] != "Alpha" || got[1][4] != "120" || got[1][7] != "75" {
		t.Fatalf("unexpected first row: %v", got[1])
	}
	if got[2][1] != "beta" || got[2][5] != "processing" {
		t.Fatalf("unexpected second row: %v", got[2])
	}
}

// writePDF builds a minimal document with the given number of empty pages.
func writePDF(t *testing.T, path string, pages int) {
	t.Helper()
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	var offsets []int
	object := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}
	kids := make([]string, 0, pages)
	for i := 0; i < pages; i++ {
		kids = append(kids, fmt.Sprintf("%d 0 R", i+3))
	}
	object("<< /Type /Catalog /Pages 2 0 R >>")
	object(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), pages))
	for i := 0; i < pages; i++ {
		object("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>")
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(offsets)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write pdf: %v", err)
	}
}

func TestLocalPDFInspector(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	inspector := out.NewLocalPDFInspector()

	good := filepath.Join(dir, "three.pdf")
	writePDF(t, good, 3)
	pages, err := inspector.PageCount(context.Background(), good)
	if err != nil {
		t.Fatalf("page count: %v", err)
	}
	if pages != 3 {
		t.Fatalf("expected 3 pages, got %d", pages)
	}

	bad := filepath.Join(dir, "fake.pdf")
	if err := os.WriteFile(bad, []byte(strings.Repeat("not a pdf at all\n", 10)), 0o644); err != nil {
		t.Fatalf("write fake: %v", err)
	}
	if _, err := inspector.PageCount(context.Background(), bad); err == nil {
		t.Fatalf("expected error for non-pdf content")
	}
	if _, err := inspector.PageCount(context.Background(), filepath.Join(dir, "absent.pdf")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestGocronPollerRunsUntilStopped(t *testing.T) {
	t.Parallel()
	var runs atomic.Int32
	stop, err := out.NewGocronPoller().Every(10*time.Millisecond, func() { runs.Add(1) })
	if err != nil {
		t.Fatalf("every: %v", err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for runs.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	stop()
	if runs.Load() < 2 {
		t.Fatalf("expected repeated runs, got %d", runs.Load())
	}
}
