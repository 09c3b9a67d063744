package usecase

import (
	"context"

	"lectern/internal/modules/library/domain"
	"lectern/internal/modules/library/dto"
	libraryin "lectern/internal/modules/library/port/in"
	libraryout "lectern/internal/modules/library/port/out"
	"lectern/internal/modules/library/service"
)

type Interactor struct {
	svc      *service.LibraryService
	progress libraryout.ProgressLookup
}

func NewInteractor(svc *service.LibraryService, progress libraryout.ProgressLookup) libraryin.Usecase {
	return &Interactor{svc: svc, progress: progress}
}

func (i *Interactor) ListBooks(ctx context.Context) (dto.ListOutput, error) {
	books, stale, err := i.svc.ListBooks(ctx)
	if err != nil {
		return dto.ListOutput{}, err
	}
	out := dto.ListOutput{Books: make([]dto.BookOutput, 0, len(books)), Stale: stale}
	for _, book := range books {
		item, err := i.withProgress(ctx, book)
		if err != nil {
			return dto.ListOutput{}, err
		}
		out.Books = append(out.Books, item)
	}
	return out, nil
}

func (i *Interactor) GetBook(ctx context.Context, id string) (dto.BookOutput, error) {
	book, err := i.svc.GetBook(ctx, id)
	if err != nil {
		return dto.BookOutput{}, err
	}
	return i.withProgress(ctx, book)
}

func (i *Interactor) UploadBook(ctx context.Context, input dto.UploadInput) (dto.UploadOutput, error) {
	book, pages, err := i.svc.UploadBook(ctx, input.Path, input.Title)
	if err != nil {
		return dto.UploadOutput{}, err
	}
	return dto.UploadOutput{Book: toBookOutput(book), LocalPages: pages}, nil
}

func (i *Interactor) WatchProcessing(ctx context.Context, input dto.WatchInput, onChange func(dto.StatusChangeOutput)) error {
	return i.svc.WatchProcessing(ctx, input.Interval, func(change domain.StatusChange) {
		if onChange == nil {
			return
		}
		onChange(dto.StatusChangeOutput{
			BookID: change.Book.ID,
			Title:  change.Book.DisplayTitle(),
			From:   string(change.From),
			To:     string(change.Book.Status),
		})
	})
}

func (i *Interactor) ExportReport(ctx context.Context, input dto.ExportInput) (dto.ExportOutput, error) {
	rows, stale, err := i.svc.ExportReport(ctx, input.Path, i.progress)
	if err != nil {
		return dto.ExportOutput{}, err
	}
	return dto.ExportOutput{Path: input.Path, Rows: rows, Stale: stale}, nil
}

func (i *Interactor) withProgress(ctx context.Context, book domain.Book) (dto.BookOutput, error) {
	out := toBookOutput(book)
	if i.progress == nil {
		return out, nil
	}
	pct, ok, err := i.progress.Percent(ctx, book.ID)
	if err != nil {
		return dto.BookOutput{}, err
	}
	out.Percent, out.HasProgress = pct, ok
	return out, nil
}

func toBookOutput(book domain.Book) dto.BookOutput {
	return dto.BookOutput{
		ID:         book.ID,
		Filename:   book.Filename,
		Title:      book.DisplayTitle(),
		Author:     book.Author,
		PageCount:  book.PageCount,
		Status:     string(book.Status),
		UploadedAt: book.UploadedAt,
	}
}
