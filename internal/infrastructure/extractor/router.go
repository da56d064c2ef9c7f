// Package extractor routes documents to the format-specific extractor.
package extractor

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/leelesemann/medreg-intelligence/internal/core/domain"
	"github.com/leelesemann/medreg-intelligence/internal/core/ports"
)

// Router dispatches on mime type first, file extension second. Everything
// that is not a PDF is treated as plain text.
type Router struct {
	pdf  ports.TextExtractor
	text ports.TextExtractor
}

func NewRouter(pdf, text ports.TextExtractor) *Router {
	return &Router{pdf: pdf, text: text}
}

func (r *Router) Extract(ctx context.Context, doc *domain.Document) ([]domain.Page, error) {
	if isPDF(doc) {
		return r.pdf.Extract(ctx, doc)
	}
	return r.text.Extract(ctx, doc)
}

func isPDF(doc *domain.Document) bool {
	if strings.Contains(strings.ToLower(doc.MimeType), "pdf") {
		return true
	}
	return strings.EqualFold(filepath.Ext(doc.Filename), ".pdf")
}
