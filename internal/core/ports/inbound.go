package ports

import (
	"context"
	"io"

	"github.com/leelesemann/medreg-intelligence/internal/core/domain"
)

// DocumentIngestor is the inbound contract for document upload orchestration.
type DocumentIngestor interface {
	Upload(ctx context.Context, filename, mimeType string, body io.Reader) (*domain.Document, error)
}

// RegulatoryQueryService is the inbound contract for the RAG pipeline.
type RegulatoryQueryService interface {
	Answer(ctx context.Context, question string, limit int, filter domain.SearchFilter) (*domain.Answer, error)
}

// DocumentReader is the inbound read model for document metadata/state.
type DocumentReader interface {
	GetByID(ctx context.Context, id string) (*domain.Document, error)
}

// DocumentProcessor is the inbound contract for asynchronous document processing.
type DocumentProcessor interface {
	ProcessByID(ctx context.Context, documentID string) error
}

// AuditReader exposes the recorded audit trail for export.
type AuditReader interface {
	ListEntries(ctx context.Context, limit int) ([]domain.AuditEntry, error)
}
