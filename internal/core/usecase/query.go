package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/leelesemann/medreg-intelligence/internal/core/domain"
	"github.com/leelesemann/medreg-intelligence/internal/core/ports"
)

const (
	defaultAnswerLimit   = 10
	minRerankCandidates  = 20
	candidateLimitFactor = 4
)

// RegulatoryQueryUseCase runs the retrieve-rerank-generate pipeline. The
// reranker and audit repository are optional: a nil reranker means plain
// vector-order retrieval, and audit failures never fail the answer.
type RegulatoryQueryUseCase struct {
	embedder  ports.Embedder
	vectorDB  ports.VectorStore
	reranker  ports.Reranker
	generator ports.AnswerGenerator
	audit     ports.AuditRepository
	log       *slog.Logger
}

func NewRegulatoryQueryUseCase(
	embedder ports.Embedder,
	vectorDB ports.VectorStore,
	reranker ports.Reranker,
	generator ports.AnswerGenerator,
	audit ports.AuditRepository,
	log *slog.Logger,
) *RegulatoryQueryUseCase {
	if log == nil {
		log = slog.Default()
	}
	return &RegulatoryQueryUseCase{
		embedder:  embedder,
		vectorDB:  vectorDB,
		reranker:  reranker,
		generator: generator,
		audit:     audit,
		log:       log,
	}
}

func (uc *RegulatoryQueryUseCase) Answer(
	ctx context.Context,
	question string,
	limit int,
	filter domain.SearchFilter,
) (*domain.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "answer question", fmt.Errorf("empty question"))
	}
	if limit <= 0 {
		limit = defaultAnswerLimit
	}

	queryVector, err := uc.embedder.EmbedQuery(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	candidates, err := uc.vectorDB.Search(ctx, queryVector, uc.candidateLimit(limit), filter)
	if err != nil {
		return nil, fmt.Errorf("search vector db: %w", err)
	}

	chunks, mode := uc.rank(ctx, question, candidates, limit)

	answerText, err := uc.generator.GenerateAnswer(ctx, question, chunks)
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	uc.recordAudit(ctx, question, answerText, chunks)

	return &domain.Answer{
		Text:          answerText,
		Sources:       chunks,
		RetrievalMode: mode,
	}, nil
}

// candidateLimit widens the search when a reranker will narrow it back down.
func (uc *RegulatoryQueryUseCase) candidateLimit(limit int) int {
	if uc.reranker == nil {
		return limit
	}
	candidates := limit * candidateLimitFactor
	if candidates < minRerankCandidates {
		candidates = minRerankCandidates
	}
	return candidates
}

// rank orders candidates by relevance and truncates to limit. A reranker
// error degrades to the local heuristic so retrieval keeps working when the
// rerank API is down.
func (uc *RegulatoryQueryUseCase) rank(
	ctx context.Context,
	question string,
	candidates []domain.RetrievedChunk,
	limit int,
) ([]domain.RetrievedChunk, string) {
	if len(candidates) == 0 {
		return candidates, domain.RetrievalVector
	}

	ranked := candidates
	mode := domain.RetrievalVector
	if uc.reranker != nil {
		reranked, err := uc.rerank(ctx, question, candidates)
		if err != nil {
			uc.log.Warn("reranker unavailable, falling back to local ranking", "error", err)
			reranked = rankCandidatesLocally(question, candidates, limit)
			mode = domain.RetrievalLocalFallback
		} else {
			mode = domain.RetrievalRerank
		}
		ranked = reranked
	}

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, mode
}

func (uc *RegulatoryQueryUseCase) rerank(
	ctx context.Context,
	question string,
	candidates []domain.RetrievedChunk,
) ([]domain.RetrievedChunk, error) {
	documents := make([]string, len(candidates))
	for i, chunk := range candidates {
		documents[i] = chunk.Text
	}

	results, err := uc.reranker.Rerank(ctx, question, documents, len(candidates))
	if err != nil {
		return nil, err
	}

	out := make([]domain.RetrievedChunk, 0, len(results))
	for _, res := range results {
		if res.Index < 0 || res.Index >= len(candidates) {
			continue
		}
		chunk := candidates[res.Index]
		chunk.Score = res.Score
		out = append(out, chunk)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("rerank returned no usable indices")
	}
	return out, nil
}

func (uc *RegulatoryQueryUseCase) recordAudit(ctx context.Context, question, answer string, sources []domain.RetrievedChunk) {
	if uc.audit == nil {
		return
	}
	entry := &domain.AuditEntry{
		ID:        uuid.NewString(),
		Question:  question,
		Answer:    answer,
		Sources:   sources,
		CreatedAt: time.Now().UTC(),
	}
	if err := uc.audit.CreateEntry(ctx, entry); err != nil {
		uc.log.Error("failed to record audit entry", "error", err)
	}
}
