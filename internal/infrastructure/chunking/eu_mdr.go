package chunking

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/leelesemann/medreg-intelligence/internal/core/domain"
)

var (
	euArticleHeader = regexp.MustCompile(`(?m)^Artikel\s+(\d+)\s*\n`)
	euAnnexStop     = regexp.MustCompile(`ANHANG`)
	euChapterLine   = regexp.MustCompile(`KAPITEL\s+([IVXLC]+)\s*\n(.+)`)
	euRecitalsIntro = regexp.MustCompile(`(?i)in\s+Erwägung\s+nachstehender\s+Gründe:`)
	euRecitalsEnd   = regexp.MustCompile(`(?m)(^Artikel\s+1\s*$|KAPITEL\s+I\b)`)
	recitalMarker   = regexp.MustCompile(`\(\d+\)\s`)
	recitalNumber   = regexp.MustCompile(`^\((\d+)\)`)
)

// parseEUMDR handles EU MDR 2017/745 (German text with OCR damage).
// Recitals come first, then articles with chapter context; the annex block
// ends article parsing.
func (c *Chunker) parseEUMDR(text string, pages pageLocator) []domain.Chunk {
	// Cleanup shifts offsets against the page locator by a few characters;
	// page numbers remain estimates either way.
	text = CleanOCRArtifacts(text)

	var out []domain.Chunk
	out = append(out, c.euRecitals(text, pages)...)

	chapters := findHeadings(text, euChapterLine, func(num string) string {
		return "KAPITEL " + num
	})

	for _, sec := range findSections(text, euArticleHeader, euAnnexStop) {
		body := strings.TrimSpace(text[sec.bodyStart:sec.end])
		title, bodyText := splitLeadingTitle(body, func(first string) bool {
			return !strings.HasPrefix(first, "(")
		})

		articleID := "Artikel " + sec.id
		header := articleID
		full := articleID + "\n" + bodyText
		if title != "" {
			header = fmt.Sprintf("%s – %s", articleID, title)
			full = header + "\n" + bodyText
		}

		chapter, chapterTitle := headingBefore(chapters, sec.start)
		ref := domain.StructuralRef{
			ArticleID:    articleID,
			ArticleTitle: title,
			Chapter:      chapter,
			ChapterTitle: chapterTitle,
			Page:         pages.pageAt(sec.start),
			Kind:         domain.ChunkArticle,
		}

		out = append(out, c.emit(full, header, ref)...)
	}

	return out
}

func (c *Chunker) euRecitals(text string, pages pageLocator) []domain.Chunk {
	intro := euRecitalsIntro.FindStringIndex(text)
	if intro == nil {
		return nil
	}
	end := len(text)
	if loc := euRecitalsEnd.FindStringIndex(text[intro[1]:]); loc != nil {
		end = intro[1] + loc[0]
	}

	var out []domain.Chunk
	for _, part := range splitBefore(text[intro[1]:end], recitalMarker) {
		part = strings.TrimSpace(part)
		if len(part) < 50 {
			continue
		}
		num := "?"
		if m := recitalNumber.FindStringSubmatch(part); m != nil {
			num = m[1]
		}

		articleID := fmt.Sprintf("Erwägungsgrund (%s)", num)
		ref := domain.StructuralRef{
			ArticleID: articleID,
			Chapter:   "Erwägungsgründe",
			Page:      pages.pageAt(intro[0]),
			Kind:      domain.ChunkRecital,
		}
		out = append(out, c.emit(part, articleID, ref)...)
	}
	return out
}

// emit turns an assembled structural unit into one chunk, or several when it
// exceeds the size cap.
func (c *Chunker) emit(full, header string, ref domain.StructuralRef) []domain.Chunk {
	if len(full) > c.limits.MaxChunkSize {
		return c.splitOversize(full, header, ref)
	}
	return []domain.Chunk{{Text: full, Ref: ref}}
}

// splitLeadingTitle treats the first line of a section body as its title
// when titleOK accepts it; legal texts put the heading on its own line
// before the numbered paragraphs start.
func splitLeadingTitle(body string, titleOK func(string) bool) (title, rest string) {
	lines := strings.SplitN(body, "\n", 2)
	first := strings.TrimSpace(lines[0])
	if first != "" && titleOK(first) {
		if len(lines) == 2 {
			return first, strings.TrimSpace(lines[1])
		}
		return first, ""
	}
	return "", body
}
