package out

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"lectern/internal/modules/library/domain"
	libraryout "lectern/internal/modules/library/port/out"
)

type SQLiteBookIndex struct {
	db *sqlx.DB
}

// NewSQLiteBookIndex shares the local store's connection; the driver name
// must match the one the pool was opened with.
func NewSQLiteBookIndex(db *sql.DB) (libraryout.BookIndexProjector, error) {
	index := &SQLiteBookIndex{db: sqlx.NewDb(db, "sqlite")}
	if err := index.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return index, nil
}

func (s *SQLiteBookIndex) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS books (
  id TEXT PRIMARY KEY,
  filename TEXT NOT NULL,
  title TEXT NOT NULL,
  author TEXT NOT NULL,
  page_count INTEGER NOT NULL,
  status TEXT NOT NULL,
  uploaded_at TEXT NOT NULL
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create books table: %w", err)
	}
	return nil
}

type bookRow struct {
	ID         string `db:"id"`
	Filename   string `db:"filename"`
	Title      string `db:"title"`
	Author     string `db:"author"`
	PageCount  int    `db:"page_count"`
	Status     string `db:"status"`
	UploadedAt string `db:"uploaded_at"`
}

func (s *SQLiteBookIndex) Reset(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM books`); err != nil {
		return fmt.Errorf("reset books: %w", err)
	}
	return nil
}

func (s *SQLiteBookIndex) UpsertBook(ctx context.Context, book domain.Book) error {
	const stmt = `
INSERT INTO books (id, filename, title, author, page_count, status, uploaded_at)
VALUES (:id, :filename, :title, :author, :page_count, :status, :uploaded_at)
ON CONFLICT(id) DO UPDATE SET
  filename=excluded.filename,
  title=excluded.title,
  author=excluded.author,
  page_count=excluded.page_count,
  status=excluded.status,
  uploaded_at=excluded.uploaded_at;
`
	row := bookRow{
		ID:        book.ID,
		Filename:  book.Filename,
		Title:     book.Title,
		Author:    book.Author,
		PageCount: book.PageCount,
		Status:    string(book.Status),
	}
	if !book.UploadedAt.IsZero() {
		row.UploadedAt = book.UploadedAt.Format(time.RFC3339)
	}
	if _, err := s.db.NamedExecContext(ctx, stmt, row); err != nil {
		return fmt.Errorf("upsert book: %w", err)
	}
	return nil
}

func (s *SQLiteBookIndex) ListBooks(ctx context.Context) ([]domain.Book, error) {
	var rows []bookRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT id, filename, title, author, page_count, status, uploaded_at FROM books ORDER BY uploaded_at DESC, title`); err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	out := make([]domain.Book, 0, len(rows))
	for _, row := range rows {
		book := domain.Book{
			ID:        row.ID,
			Filename:  row.Filename,
			Title:     row.Title,
			Author:    row.Author,
			PageCount: row.PageCount,
			Status:    domain.Status(row.Status),
		}
		if row.UploadedAt != "" {
			if ts, err := time.Parse(time.RFC3339, row.UploadedAt); err == nil {
				book.UploadedAt = ts
			}
		}
		out = append(out, book)
	}
	return out, nil
}
