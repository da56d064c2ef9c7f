package chunking

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/leelesemann/medreg-intelligence/internal/core/domain"
)

var (
	// The capital letter is part of the match so numbered cross-references
	// inside running text ("regulation 19(2).") never open a new section.
	ukRegulationHeader = regexp.MustCompile(`(?m)^(\d+)\.\s+([A-Z])`)
	ukScheduleStop     = regexp.MustCompile(`SCHEDULE`)
	ukPartLine         = regexp.MustCompile(`PART\s+([IVXLC]+)\s*\n(.+)`)
)

// parseUKMDR handles the UK Medical Devices Regulations 2002: numbered
// regulations grouped under roman-numeral PARTs, schedules excluded.
func (c *Chunker) parseUKMDR(text string, pages pageLocator) []domain.Chunk {
	text = stripUKHeaders(text)

	parts := findHeadings(text, ukPartLine, func(num string) string {
		return "Part " + num
	})

	matches := ukRegulationHeader.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}

	var out []domain.Chunk
	for i, m := range matches {
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		// A SCHEDULE mention truncates only the regulation it sits in;
		// numbered regulations after it still parse.
		if loc := ukScheduleStop.FindStringIndex(text[m[1]:end]); loc != nil {
			end = m[1] + loc[0]
		}

		regNum := text[m[2]:m[3]]
		// Body starts at the captured capital letter.
		body := strings.TrimSpace(text[m[4]:end])
		title, bodyText := splitLeadingTitle(body, func(first string) bool {
			return !strings.HasPrefix(first, "(")
		})

		articleID := "Regulation " + regNum
		header := articleID
		full := articleID + "\n" + bodyText
		if title != "" {
			header = fmt.Sprintf("%s. %s", articleID, title)
			full = header + "\n" + bodyText
		}

		part, partTitle := headingBefore(parts, m[0])
		ref := domain.StructuralRef{
			ArticleID:    articleID,
			ArticleTitle: title,
			Chapter:      part,
			ChapterTitle: partTitle,
			Page:         pages.pageAt(m[0]),
			Kind:         domain.ChunkArticle,
		}
		out = append(out, c.emit(full, header, ref)...)
	}
	return out
}
