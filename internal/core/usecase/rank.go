package usecase

import (
	"sort"
	"strings"
	"unicode"

	"github.com/leelesemann/medreg-intelligence/internal/core/domain"
)

// rankCandidatesLocally is the degraded-mode ranking used when the hosted
// reranker fails. It blends the normalized vector score with lexical overlap
// between the question and the chunk, plus a small boost when the question
// names the source document.
func rankCandidatesLocally(question string, candidates []domain.RetrievedChunk, topN int) []domain.RetrievedChunk {
	if len(candidates) == 0 {
		return candidates
	}
	if topN <= 0 || topN > len(candidates) {
		topN = len(candidates)
	}

	out := make([]domain.RetrievedChunk, len(candidates))
	copy(out, candidates)
	queryTokens := toTokenSet(question)

	minScore := out[0].Score
	maxScore := out[0].Score
	for _, chunk := range out[1:] {
		if chunk.Score < minScore {
			minScore = chunk.Score
		}
		if chunk.Score > maxScore {
			maxScore = chunk.Score
		}
	}

	rangeScore := maxScore - minScore
	normalize := func(v float64) float64 {
		if rangeScore <= 0 {
			if v > 0 {
				return 1
			}
			return 0
		}
		return (v - minScore) / rangeScore
	}

	for i := range out {
		normalized := normalize(out[i].Score)
		overlap := tokenOverlap(queryTokens, toTokenSet(out[i].Text))
		sourceBoost := sourceTokenHit(queryTokens, out[i].SourceDocument)
		out[i].Score = 0.60*normalized + 0.30*overlap + 0.10*sourceBoost
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		if out[i].DocumentID != out[j].DocumentID {
			return out[i].DocumentID < out[j].DocumentID
		}
		if out[i].ChunkIndex != out[j].ChunkIndex {
			return out[i].ChunkIndex < out[j].ChunkIndex
		}
		return out[i].SourceDocument < out[j].SourceDocument
	})

	return out[:topN]
}

func tokenOverlap(query, chunk map[string]struct{}) float64 {
	if len(query) == 0 || len(chunk) == 0 {
		return 0
	}
	matches := 0
	for token := range query {
		if _, ok := chunk[token]; ok {
			matches++
		}
	}
	return float64(matches) / float64(len(query))
}

func sourceTokenHit(query map[string]struct{}, source string) float64 {
	if len(query) == 0 || source == "" {
		return 0
	}
	source = strings.ToLower(source)
	for token := range query {
		if token == "" {
			continue
		}
		if strings.Contains(source, token) {
			return 1
		}
	}
	return 0
}

func toTokenSet(s string) map[string]struct{} {
	tokens := splitAlphaNumLower(s)
	out := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		out[token] = struct{}{}
	}
	return out
}

// splitAlphaNumLower keeps umlauts and ß so German questions tokenize the
// same way German regulation text does.
func splitAlphaNumLower(s string) []string {
	if s == "" {
		return nil
	}

	tokens := make([]string, 0, 16)
	var b strings.Builder
	for _, r := range s {
		r = unicode.ToLower(r)
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') ||
			r == 'ä' || r == 'ö' || r == 'ü' || r == 'ß' {
			b.WriteRune(r)
			continue
		}
		if b.Len() > 0 {
			tokens = append(tokens, b.String())
			b.Reset()
		}
	}
	if b.Len() > 0 {
		tokens = append(tokens, b.String())
	}
	return tokens
}
