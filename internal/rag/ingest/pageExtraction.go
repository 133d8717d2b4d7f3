package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/akolanti/FAQBot/internal/config"
	"github.com/dslipak/pdf"
	"github.com/lu4p/cat"
)

var errPageTimeout = errors.New("page extraction timeout")

func (l *loader) extractPDF(ctx context.Context, path string) ([]rawPage, error) {
	l.logger.Debug("extractPDF", "attempting extraction", path)
	f, err := pdf.Open(path)
	if err != nil {
		l.logger.Error("failed opening of pdf file", "path", path)
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}

	var pages []rawPage
	numPages := f.NumPage()
	l.logger.Debug("extractPDF", "number of pages", numPages)
	for i := 1; i <= numPages; i++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		page := f.Page(i)
		if page.V.IsNull() {
			continue
		}

		content, err := l.protectExtract(ctx, page)
		if err != nil {
			// a broken page does not fail the document
			l.logger.Warn("Error parsing page content", "path", path, "page", i, "error", err)
			continue
		}

		pages = append(pages, rawPage{
			Number:  i,
			Content: content,
		})
	}
	return pages, nil
}

// extractdocxTxtRtf reads .docx, .odt, .rtf or plain text. These formats carry
// no page information so paragraphs are kept together as page 1.
func (l *loader) extractdocxTxtRtf(path string) ([]rawPage, error) {
	text, err := cat.File(path)
	if err != nil {
		l.logger.Error("Error extracting content from doc", "path", path)
		return nil, fmt.Errorf("failed to extract document: %w", err)
	}

	paragraphs := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	kept := paragraphs[:0]
	for _, p := range paragraphs {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return []rawPage{
		{
			Number:  1,
			Content: strings.Join(kept, "\n"),
		},
	}, nil
}

func (l *loader) protectExtract(ctx context.Context, page pdf.Page) (string, error) {
	type result struct {
		content string
		err     error
	}
	resChan := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				resChan <- result{"", fmt.Errorf("page extraction panic: %v", r)}
			}
		}()
		content, err := page.GetPlainText(nil)
		resChan <- result{content, err}
	}()

	select {
	case r := <-resChan:
		return r.content, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(config.PageExtractTimeout):
		l.logger.Error("pageExtract", "timeout", config.PageExtractTimeout)
		return "", errPageTimeout
	}
}
