package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/leelesemann/medreg-intelligence/internal/core/domain"
)

type statusCall struct {
	status domain.DocumentStatus
	errMsg string
}

type processRepoFake struct {
	doc           *domain.Document
	getErr        error
	saveErr       error
	statusErr     error
	failStatusErr error
	statusCalls   []statusCall
	savedProfile  domain.DocumentProfile
	savedID       string
	savedPages    int
	savedChunks   int
}

func (f *processRepoFake) Create(context.Context, *domain.Document) error { return nil }

func (f *processRepoFake) GetByID(context.Context, string) (*domain.Document, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	copyDoc := *f.doc
	return &copyDoc, nil
}

func (f *processRepoFake) UpdateStatus(_ context.Context, _ string, status domain.DocumentStatus, errMessage string) error {
	f.statusCalls = append(f.statusCalls, statusCall{status: status, errMsg: errMessage})
	if status == domain.StatusFailed && f.failStatusErr != nil {
		return f.failStatusErr
	}
	if f.statusErr != nil {
		return f.statusErr
	}
	return nil
}

func (f *processRepoFake) SaveProfile(_ context.Context, id string, profile domain.DocumentProfile, pageCount, chunkCount int) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.savedID = id
	f.savedProfile = profile
	f.savedPages = pageCount
	f.savedChunks = chunkCount
	return nil
}

func (f *processRepoFake) ListFilenames(context.Context) ([]string, error) { return nil, nil }

type extractorFake struct {
	pages []domain.Page
	err   error
}

func (f *extractorFake) Extract(context.Context, *domain.Document) ([]domain.Page, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.pages, nil
}

type chunkerFake struct {
	profile domain.DocumentProfile
	chunks  []domain.Chunk
	err     error
}

func (f *chunkerFake) Detect(string, string) domain.DocumentProfile { return f.profile }

func (f *chunkerFake) Chunk(domain.DocumentProfile, []domain.Page) ([]domain.Chunk, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.chunks, nil
}

type embedderFake struct {
	batches [][]string
	dim     int
	err     error
}

func (f *embedderFake) Embed(_ context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	batch := make([]string, len(texts))
	copy(batch, texts)
	f.batches = append(f.batches, batch)

	vectors := make([][]float32, len(texts))
	for i := range vectors {
		vectors[i] = make([]float32, f.dim)
	}
	return vectors, nil
}

func (f *embedderFake) EmbedQuery(context.Context, string) ([]float32, error) { return nil, nil }

type vectorFake struct {
	indexedDoc    *domain.Document
	indexedChunks []domain.Chunk
	err           error
}

func (f *vectorFake) IndexChunks(_ context.Context, doc *domain.Document, chunks []domain.Chunk, _ [][]float32) error {
	if f.err != nil {
		return f.err
	}
	f.indexedDoc = doc
	f.indexedChunks = chunks
	return nil
}

func (f *vectorFake) Search(context.Context, []float32, int, domain.SearchFilter) ([]domain.RetrievedChunk, error) {
	return nil, nil
}

func euProfile() domain.DocumentProfile {
	return domain.DocumentProfile{
		DocumentType: "eu_mdr",
		Jurisdiction: "EU",
		Language:     "de",
		Title:        "EU MDR 2017/745",
		Parser:       "eu_mdr",
	}
}

func someChunks(n int) []domain.Chunk {
	out := make([]domain.Chunk, n)
	for i := range out {
		out[i] = domain.Chunk{Text: "chunk", Ref: domain.StructuralRef{ArticleID: "Artikel 1"}}
	}
	return out
}

func TestProcessByIDSuccess(t *testing.T) {
	repo := &processRepoFake{doc: &domain.Document{ID: "doc-1", Filename: "mdr.pdf"}}
	vectors := &vectorFake{}
	uc := NewProcessDocumentUseCase(
		repo,
		&extractorFake{pages: []domain.Page{{Number: 1, Text: "Artikel 1"}, {Number: 2, Text: "Artikel 2"}}},
		&chunkerFake{profile: euProfile(), chunks: someChunks(3)},
		&embedderFake{dim: 4},
		vectors,
		50,
	)

	if err := uc.ProcessByID(context.Background(), "doc-1"); err != nil {
		t.Fatalf("ProcessByID() error = %v", err)
	}
	if len(repo.statusCalls) != 2 {
		t.Fatalf("expected 2 status calls, got %d", len(repo.statusCalls))
	}
	if repo.statusCalls[0].status != domain.StatusProcessing || repo.statusCalls[1].status != domain.StatusReady {
		t.Fatalf("unexpected status sequence: %+v", repo.statusCalls)
	}
	if repo.savedID != "doc-1" {
		t.Fatalf("expected profile save for doc-1, got %q", repo.savedID)
	}
	if repo.savedProfile.Jurisdiction != "EU" {
		t.Fatalf("unexpected profile saved: %+v", repo.savedProfile)
	}
	if repo.savedPages != 2 || repo.savedChunks != 3 {
		t.Fatalf("expected 2 pages / 3 chunks, got %d / %d", repo.savedPages, repo.savedChunks)
	}
	if vectors.indexedDoc == nil || vectors.indexedDoc.Parser != "eu_mdr" {
		t.Fatalf("expected indexed doc to carry the detected profile, got %+v", vectors.indexedDoc)
	}
}

func TestProcessByIDEmbedsInBatches(t *testing.T) {
	repo := &processRepoFake{doc: &domain.Document{ID: "doc-1"}}
	embedder := &embedderFake{dim: 4}
	uc := NewProcessDocumentUseCase(
		repo,
		&extractorFake{pages: []domain.Page{{Number: 1, Text: "text"}}},
		&chunkerFake{profile: euProfile(), chunks: someChunks(5)},
		embedder,
		&vectorFake{},
		2,
	)

	if err := uc.ProcessByID(context.Background(), "doc-1"); err != nil {
		t.Fatalf("ProcessByID() error = %v", err)
	}
	if len(embedder.batches) != 3 {
		t.Fatalf("expected 3 embed batches for 5 chunks at size 2, got %d", len(embedder.batches))
	}
	if len(embedder.batches[2]) != 1 {
		t.Fatalf("expected final batch of 1, got %d", len(embedder.batches[2]))
	}
}

func TestProcessByIDMarksFailedOnExtractError(t *testing.T) {
	repo := &processRepoFake{doc: &domain.Document{ID: "doc-1"}}
	uc := NewProcessDocumentUseCase(
		repo,
		&extractorFake{err: errors.New("extract fail")},
		&chunkerFake{profile: euProfile(), chunks: someChunks(1)},
		&embedderFake{dim: 4},
		&vectorFake{},
		50,
	)

	err := uc.ProcessByID(context.Background(), "doc-1")
	if err == nil {
		t.Fatalf("expected error")
	}
	if len(repo.statusCalls) != 2 {
		t.Fatalf("expected processing + failed status updates, got %d", len(repo.statusCalls))
	}
	if repo.statusCalls[1].status != domain.StatusFailed {
		t.Fatalf("expected failed status, got %+v", repo.statusCalls[1])
	}
	if repo.statusCalls[1].errMsg == "" {
		t.Fatalf("expected failure reason recorded")
	}
}

func TestProcessByIDMarksFailedOnChunkError(t *testing.T) {
	repo := &processRepoFake{doc: &domain.Document{ID: "doc-1"}}
	uc := NewProcessDocumentUseCase(
		repo,
		&extractorFake{pages: []domain.Page{{Number: 1, Text: "text"}}},
		&chunkerFake{profile: euProfile(), err: errors.New("no text to chunk")},
		&embedderFake{dim: 4},
		&vectorFake{},
		50,
	)

	err := uc.ProcessByID(context.Background(), "doc-1")
	if err == nil {
		t.Fatalf("expected error")
	}
	if len(repo.statusCalls) != 2 || repo.statusCalls[1].status != domain.StatusFailed {
		t.Fatalf("expected final failed status, got %+v", repo.statusCalls)
	}
}

func TestProcessByIDMarksFailedOnProfileSaveError(t *testing.T) {
	repo := &processRepoFake{
		doc:     &domain.Document{ID: "doc-1"},
		saveErr: errors.New("db down"),
	}
	uc := NewProcessDocumentUseCase(
		repo,
		&extractorFake{pages: []domain.Page{{Number: 1, Text: "text"}}},
		&chunkerFake{profile: euProfile(), chunks: someChunks(1)},
		&embedderFake{dim: 4},
		&vectorFake{},
		50,
	)

	err := uc.ProcessByID(context.Background(), "doc-1")
	if err == nil {
		t.Fatalf("expected error")
	}
	if repo.statusCalls[len(repo.statusCalls)-1].status != domain.StatusFailed {
		t.Fatalf("expected final failed status, got %+v", repo.statusCalls)
	}
}
