// Package pdf extracts page-aware plain text from PDF documents. Page
// numbers are preserved so chunks can cite the page they came from.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/leelesemann/medreg-intelligence/internal/core/domain"
	"github.com/leelesemann/medreg-intelligence/internal/core/ports"
)

type Extractor struct {
	storage ports.ObjectStorage
}

func NewExtractor(storage ports.ObjectStorage) *Extractor {
	return &Extractor{storage: storage}
}

func (e *Extractor) Extract(ctx context.Context, doc *domain.Document) ([]domain.Page, error) {
	reader, err := e.storage.Open(ctx, doc.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("open source document: %w", err)
	}
	defer reader.Close()

	raw, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read source document: %w", err)
	}

	pdfReader, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, fmt.Errorf("parse pdf %s: %w", doc.Filename, err)
	}

	pages := make([]domain.Page, 0, pdfReader.NumPage())
	for num := 1; num <= pdfReader.NumPage(); num++ {
		page := pdfReader.Page(num)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Scanned regulatory PDFs routinely contain a few damaged
			// pages; skip them instead of failing the whole document.
			continue
		}

		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		pages = append(pages, domain.Page{Number: num, Text: text})
	}

	if len(pages) == 0 {
		return nil, fmt.Errorf("no extractable text in pdf %s", doc.Filename)
	}
	return pages, nil
}
