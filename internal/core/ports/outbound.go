package ports

import (
	"context"
	"io"

	"github.com/leelesemann/medreg-intelligence/internal/core/domain"
)

// DocumentRepository persists and reads document state.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error
	SaveProfile(ctx context.Context, id string, profile domain.DocumentProfile, pageCount, chunkCount int) error
	ListFilenames(ctx context.Context) ([]string, error)
}

// AuditRepository persists the question/answer audit trail.
type AuditRepository interface {
	CreateEntry(ctx context.Context, entry *domain.AuditEntry) error
	ListEntries(ctx context.Context, limit int) ([]domain.AuditEntry, error)
}

// ObjectStorage stores source documents.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// MessageQueue publishes/consumes ingestion events.
type MessageQueue interface {
	PublishDocumentIngested(ctx context.Context, documentID string) error
	SubscribeDocumentIngested(ctx context.Context, handler func(context.Context, string) error) error
}

// TextExtractor extracts page-aware plain text from a stored document.
type TextExtractor interface {
	Extract(ctx context.Context, doc *domain.Document) ([]domain.Page, error)
}

// Chunker detects the regulatory profile of a document and splits its text
// into retrieval units aligned to legal structure boundaries.
type Chunker interface {
	Detect(text, filename string) domain.DocumentProfile
	Chunk(profile domain.DocumentProfile, pages []domain.Page) ([]domain.Chunk, error)
}

// Embedder builds vectors for chunks and query text.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// VectorStore indexes chunks and performs semantic search.
type VectorStore interface {
	IndexChunks(ctx context.Context, doc *domain.Document, chunks []domain.Chunk, vectors [][]float32) error
	Search(ctx context.Context, queryVector []float32, limit int, filter domain.SearchFilter) ([]domain.RetrievedChunk, error)
}

// RerankResult is one candidate position after reranking.
type RerankResult struct {
	Index int
	Score float64
}

// Reranker reorders retrieval candidates by relevance to the query.
type Reranker interface {
	Rerank(ctx context.Context, query string, documents []string, topN int) ([]RerankResult, error)
}

// AnswerGenerator creates the final user-facing answer.
type AnswerGenerator interface {
	GenerateAnswer(ctx context.Context, question string, chunks []domain.RetrievedChunk) (string, error)
}
