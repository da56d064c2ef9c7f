package usecase

import (
	"testing"

	"github.com/leelesemann/medreg-intelligence/internal/core/domain"
)

func TestRankCandidatesLocallyLexicalOverlapWins(t *testing.T) {
	candidates := []domain.RetrievedChunk{
		{DocumentID: "a", ChunkIndex: 0, Text: "Unrelated content about packaging.", Score: 0.90},
		{DocumentID: "b", ChunkIndex: 1, Text: "Klinische Bewertung von Medizinprodukten nach Artikel 61.", Score: 0.89},
		{DocumentID: "c", ChunkIndex: 2, Text: "Labelling requirements overview.", Score: 0.10},
	}

	ranked := rankCandidatesLocally("klinische Bewertung Artikel 61", candidates, 3)
	if ranked[0].DocumentID != "b" {
		t.Fatalf("expected lexical match first, got %+v", ranked[0])
	}
}

func TestRankCandidatesLocallySourceBoost(t *testing.T) {
	candidates := []domain.RetrievedChunk{
		{DocumentID: "a", SourceDocument: "guidance.pdf", Text: "same text", Score: 0.5},
		{DocumentID: "b", SourceDocument: "mpdg.pdf", Text: "same text", Score: 0.5},
	}

	ranked := rankCandidatesLocally("was regelt das mpdg", candidates, 2)
	if ranked[0].SourceDocument != "mpdg.pdf" {
		t.Fatalf("expected source-name boost to win, got %+v", ranked[0])
	}
}

func TestRankCandidatesLocallyTruncates(t *testing.T) {
	candidates := retrievedChunks(10)
	ranked := rankCandidatesLocally("Anforderungen", candidates, 4)
	if len(ranked) != 4 {
		t.Fatalf("expected 4 results, got %d", len(ranked))
	}
}

func TestRankCandidatesLocallyStableTiebreak(t *testing.T) {
	candidates := []domain.RetrievedChunk{
		{DocumentID: "doc-2", ChunkIndex: 5, Text: "x", Score: 0.5},
		{DocumentID: "doc-1", ChunkIndex: 9, Text: "x", Score: 0.5},
		{DocumentID: "doc-1", ChunkIndex: 2, Text: "x", Score: 0.5},
	}

	ranked := rankCandidatesLocally("query with no overlap tokens", candidates, 3)
	if ranked[0].DocumentID != "doc-1" || ranked[0].ChunkIndex != 2 {
		t.Fatalf("unexpected tiebreak order: %+v", ranked)
	}
	if ranked[2].DocumentID != "doc-2" {
		t.Fatalf("unexpected tiebreak order: %+v", ranked)
	}
}

func TestRankCandidatesLocallyEmpty(t *testing.T) {
	if got := rankCandidatesLocally("q", nil, 5); len(got) != 0 {
		t.Fatalf("expected empty result, got %v", got)
	}
}

func TestSplitAlphaNumLowerKeepsUmlauts(t *testing.T) {
	tokens := splitAlphaNumLower("Erwägungsgründe, § 3 MPDG!")
	want := []string{"erwägungsgründe", "3", "mpdg"}
	if len(tokens) != len(want) {
		t.Fatalf("tokens = %v", tokens)
	}
	for i := range want {
		if tokens[i] != want[i] {
			t.Fatalf("token %d = %q, want %q", i, tokens[i], want[i])
		}
	}
}
