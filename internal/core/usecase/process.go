package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/leelesemann/medreg-intelligence/internal/core/domain"
	"github.com/leelesemann/medreg-intelligence/internal/core/ports"
)

const defaultEmbedBatchSize = 50

type ProcessDocumentUseCase struct {
	repo       ports.DocumentRepository
	extractor  ports.TextExtractor
	chunker    ports.Chunker
	embedder   ports.Embedder
	vectorDB   ports.VectorStore
	embedBatch int
}

func NewProcessDocumentUseCase(
	repo ports.DocumentRepository,
	extractor ports.TextExtractor,
	chunker ports.Chunker,
	embedder ports.Embedder,
	vectorDB ports.VectorStore,
	embedBatchSize int,
) *ProcessDocumentUseCase {
	if embedBatchSize <= 0 {
		embedBatchSize = defaultEmbedBatchSize
	}
	return &ProcessDocumentUseCase{
		repo:       repo,
		extractor:  extractor,
		chunker:    chunker,
		embedder:   embedder,
		vectorDB:   vectorDB,
		embedBatch: embedBatchSize,
	}
}

func (uc *ProcessDocumentUseCase) ProcessByID(ctx context.Context, documentID string) error {
	if err := uc.markStatus(ctx, documentID, domain.StatusProcessing, ""); err != nil {
		return fmt.Errorf("set status=processing: %w", err)
	}

	result, err := uc.processPipeline(ctx, documentID)
	if err != nil {
		if failErr := uc.markFailed(ctx, documentID, err); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	if err := uc.repo.SaveProfile(ctx, documentID, result.profile, result.pageCount, result.chunkCount); err != nil {
		err = fmt.Errorf("save document profile: %w", err)
		if failErr := uc.markFailed(ctx, documentID, err); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	if err := uc.markStatus(ctx, documentID, domain.StatusReady, ""); err != nil {
		return fmt.Errorf("set status=ready: %w", err)
	}

	return nil
}

type processResult struct {
	profile    domain.DocumentProfile
	pageCount  int
	chunkCount int
}

func (uc *ProcessDocumentUseCase) processPipeline(ctx context.Context, documentID string) (processResult, error) {
	doc, err := uc.loadDocument(ctx, documentID)
	if err != nil {
		return processResult{}, err
	}

	pages, err := uc.extractPages(ctx, doc)
	if err != nil {
		return processResult{}, err
	}

	profile := uc.chunker.Detect(joinPageText(pages), doc.Filename)

	chunks, err := uc.chunk(profile, pages)
	if err != nil {
		return processResult{}, err
	}

	vectors, err := uc.embed(ctx, chunks)
	if err != nil {
		return processResult{}, err
	}

	uc.applyProfile(doc, profile)

	if err := uc.index(ctx, doc, chunks, vectors); err != nil {
		return processResult{}, err
	}

	return processResult{
		profile:    profile,
		pageCount:  len(pages),
		chunkCount: len(chunks),
	}, nil
}

func (uc *ProcessDocumentUseCase) loadDocument(ctx context.Context, documentID string) (*domain.Document, error) {
	doc, err := uc.repo.GetByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("fetch document by id: %w", err)
	}
	return doc, nil
}

func (uc *ProcessDocumentUseCase) extractPages(ctx context.Context, doc *domain.Document) ([]domain.Page, error) {
	pages, err := uc.extractor.Extract(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("extract text: %w", err)
	}
	if len(pages) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "extract text", errors.New("no pages extracted"))
	}
	return pages, nil
}

func (uc *ProcessDocumentUseCase) chunk(profile domain.DocumentProfile, pages []domain.Page) ([]domain.Chunk, error) {
	chunks, err := uc.chunker.Chunk(profile, pages)
	if err != nil {
		return nil, fmt.Errorf("chunk document: %w", err)
	}
	if len(chunks) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "chunk document", errors.New("chunking produced zero chunks"))
	}
	return chunks, nil
}

// embed runs in batches to stay under the embedding API's input limits.
func (uc *ProcessDocumentUseCase) embed(ctx context.Context, chunks []domain.Chunk) ([][]float32, error) {
	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += uc.embedBatch {
		end := start + uc.embedBatch
		if end > len(texts) {
			end = len(texts)
		}
		batch, err := uc.embedder.Embed(ctx, texts[start:end])
		if err != nil {
			return nil, fmt.Errorf("embed chunks [%d:%d]: %w", start, end, err)
		}
		if len(batch) != end-start {
			return nil, domain.WrapError(
				domain.ErrInvalidInput,
				"embed chunks",
				fmt.Errorf("vectors/chunks mismatch: %d/%d", len(batch), end-start),
			)
		}
		vectors = append(vectors, batch...)
	}
	return vectors, nil
}

func (uc *ProcessDocumentUseCase) index(ctx context.Context, doc *domain.Document, chunks []domain.Chunk, vectors [][]float32) error {
	if err := uc.vectorDB.IndexChunks(ctx, doc, chunks, vectors); err != nil {
		return fmt.Errorf("index chunks in vector db: %w", err)
	}
	return nil
}

func (uc *ProcessDocumentUseCase) markStatus(ctx context.Context, documentID string, status domain.DocumentStatus, errMessage string) error {
	return uc.repo.UpdateStatus(ctx, documentID, status, errMessage)
}

func (uc *ProcessDocumentUseCase) markFailed(ctx context.Context, documentID string, processErr error) error {
	if processErr == nil {
		return nil
	}
	return uc.markStatus(ctx, documentID, domain.StatusFailed, processErr.Error())
}

func (uc *ProcessDocumentUseCase) applyProfile(doc *domain.Document, profile domain.DocumentProfile) {
	doc.Title = profile.Title
	doc.DocumentType = profile.DocumentType
	doc.Jurisdiction = profile.Jurisdiction
	doc.Language = profile.Language
	doc.Parser = profile.Parser
}

func joinPageText(pages []domain.Page) string {
	total := 0
	for _, p := range pages {
		total += len(p.Text) + 2
	}
	b := make([]byte, 0, total)
	for i, p := range pages {
		if i > 0 {
			b = append(b, '\n', '\n')
		}
		b = append(b, p.Text...)
	}
	return string(b)
}
