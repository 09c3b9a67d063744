package out

import (
	"context"
	"fmt"
	"os"

	"rsc.io/pdf"

	libraryout "lectern/internal/modules/library/port/out"
)

// LocalPDFInspector only opens the document trailer and page tree; text
// extraction is the server's job.
type LocalPDFInspector struct{}

func NewLocalPDFInspector() libraryout.PDFInspector {
	return &LocalPDFInspector{}
}

func (i *LocalPDFInspector) PageCount(_ context.Context, path string) (pages int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return 0, fmt.Errorf("stat pdf: %w", err)
	}
	// rsc.io/pdf panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			pages, err = 0, fmt.Errorf("malformed pdf: %v", r)
		}
	}()
	doc, err := pdf.NewReader(f, info.Size())
	if err != nil {
		return 0, fmt.Errorf("read pdf: %w", err)
	}
	total := doc.NumPage()
	if total == 0 {
		return 0, fmt.Errorf("pdf has no pages")
	}
	return total, nil
}
