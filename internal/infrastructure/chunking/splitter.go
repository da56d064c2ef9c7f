package chunking

import (
	"regexp"
	"strings"

	"github.com/leelesemann/medreg-intelligence/internal/core/domain"
)

var (
	// Paragraph boundary strategies in descending priority.
	numberedParens = regexp.MustCompile(`(?m)^\(\d+\)\s`) // (1), (2) at line start
	swissNumbered  = regexp.MustCompile(`\n\d+\s+[A-ZÄÖÜ]`)
	letterItems    = regexp.MustCompile(`\n[a-z][.)]\s`)
)

// splitOversize splits an article that exceeds MaxChunkSize at paragraph
// boundaries. Strategies in order: numbered paragraphs "(1)", Swiss-style
// "1 Text", letter items "a)", blank lines, then the windowed splitter.
// Every part after the first gets the article header prepended so it stays
// citable on its own.
func (c *Chunker) splitOversize(text, header string, ref domain.StructuralRef) []domain.Chunk {
	paragraphs := paragraphsOf(text)

	if len(paragraphs) <= 1 {
		windows := c.window(text, c.limits.MaxChunkSize, c.limits.FallbackOverlap)
		return c.partsToChunks(windows, header, ref, true)
	}

	// Accumulate paragraphs into parts up to MaxChunkSize.
	parts := make([]string, 0, len(paragraphs))
	current := ""
	for _, para := range paragraphs {
		if len(current)+len(para) > c.limits.MaxChunkSize && current != "" {
			parts = append(parts, strings.TrimSpace(current))
			current = para
			continue
		}
		current += para
	}
	if strings.TrimSpace(current) != "" {
		parts = append(parts, strings.TrimSpace(current))
	}

	// A trailing fragment below MinChunkSize carries too little context to
	// retrieve on its own; merge it back.
	if n := len(parts); n > 1 && len(parts[n-1]) < c.limits.MinChunkSize {
		parts[n-2] = parts[n-2] + "\n" + parts[n-1]
		parts = parts[:n-1]
	}

	return c.partsToChunks(parts, header, ref, false)
}

func paragraphsOf(text string) []string {
	for _, re := range []*regexp.Regexp{numberedParens, swissNumbered, letterItems} {
		if parts := splitBefore(text, re); len(parts) > 1 {
			return parts
		}
	}
	if parts := strings.Split(text, "\n\n"); len(parts) > 1 {
		return parts
	}
	return []string{text}
}

func (c *Chunker) partsToChunks(parts []string, header string, ref domain.StructuralRef, windowed bool) []domain.Chunk {
	out := make([]domain.Chunk, 0, len(parts))
	total := len(parts)

	for i, part := range parts {
		content := part
		if i > 0 || windowed {
			content = header + "\n" + part
		}

		partRef := ref
		partRef.Part = i + 1
		partRef.PartTotal = total

		// A single paragraph run can still exceed the cap (long unbroken
		// enumerations); re-window it rather than emit an oversized chunk.
		if !windowed && len(content) > c.limits.MaxChunkSize*3/2 {
			for _, w := range c.window(content, c.limits.MaxChunkSize, c.limits.FallbackOverlap) {
				out = append(out, domain.Chunk{Text: w, Ref: partRef})
			}
			continue
		}

		out = append(out, domain.Chunk{Text: content, Ref: partRef})
	}

	// Renumber in case re-windowing changed the count.
	if len(out) != total {
		for i := range out {
			out[i].Ref.Part = i + 1
			out[i].Ref.PartTotal = len(out)
		}
	}
	return out
}

// window splits text into overlapping fixed-size rune windows. Used when no
// structural boundary applies.
func (c *Chunker) window(text string, size, overlap int) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}
	step := size - overlap
	if step <= 0 {
		step = size
	}

	out := make([]string, 0, len(runes)/step+1)
	for start := 0; start < len(runes); start += step {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		w := strings.TrimSpace(string(runes[start:end]))
		if w != "" {
			out = append(out, w)
		}
		if end == len(runes) {
			break
		}
	}
	return out
}
