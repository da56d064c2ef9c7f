package chunking

import (
	"regexp"
	"strings"

	"github.com/leelesemann/medreg-intelligence/internal/core/domain"
)

var guidanceHeading = regexp.MustCompile(`(?m)^(\d+\.?\d*\.?\s+[A-Z].{5,80})$`)

// parseGuidance is the fallback profile for guidance documents and unknown
// formats: numbered headings become section boundaries, anything else gets
// the windowed splitter.
func (c *Chunker) parseGuidance(text string, pages pageLocator) []domain.Chunk {
	headings := guidanceHeading.FindAllStringSubmatchIndex(text, -1)

	if len(headings) == 0 {
		var out []domain.Chunk
		windows := c.window(text, c.limits.FallbackSize, c.limits.FallbackOverlap)
		for i, w := range windows {
			out = append(out, domain.Chunk{
				Text: w,
				Ref: domain.StructuralRef{
					Kind:      domain.ChunkWindow,
					Page:      1,
					Part:      i + 1,
					PartTotal: len(windows),
				},
			})
		}
		return out
	}

	var out []domain.Chunk
	for i, m := range headings {
		start := m[0]
		end := len(text)
		if i+1 < len(headings) {
			end = headings[i+1][0]
		}

		sectionText := strings.TrimSpace(text[start:end])
		title := strings.TrimSpace(text[m[2]:m[3]])
		articleID := ""
		if fields := strings.Fields(title); len(fields) > 0 {
			articleID = fields[0]
		}

		ref := domain.StructuralRef{
			ArticleID:    articleID,
			ArticleTitle: title,
			Page:         pages.pageAt(start),
			Kind:         domain.ChunkSection,
		}

		if len(sectionText) > c.limits.MaxChunkSize {
			windows := c.window(sectionText, c.limits.FallbackSize, c.limits.FallbackOverlap)
			for j, w := range windows {
				partRef := ref
				partRef.Part = j + 1
				partRef.PartTotal = len(windows)
				out = append(out, domain.Chunk{Text: w, Ref: partRef})
			}
			continue
		}
		out = append(out, domain.Chunk{Text: sectionText, Ref: ref})
	}
	return out
}
