// Package chunking splits regulatory documents into retrieval units aligned
// to their legal structure (articles, paragraphs, recitals, annex sections)
// instead of fixed-size windows. Each chunk carries the structural reference
// used later for citations.
package chunking

import (
	"errors"
	"strings"

	"github.com/leelesemann/medreg-intelligence/internal/core/domain"
)

type Limits struct {
	// MaxChunkSize is the article size above which we split at paragraph
	// boundaries. MinChunkSize merges trailing fragments back into the
	// previous part. Fallback values drive the windowed splitter used for
	// unstructured text.
	MaxChunkSize    int
	MinChunkSize    int
	FallbackSize    int
	FallbackOverlap int
}

func DefaultLimits() Limits {
	return Limits{
		MaxChunkSize:    2000,
		MinChunkSize:    200,
		FallbackSize:    800,
		FallbackOverlap: 200,
	}
}

func (l Limits) normalize() Limits {
	def := DefaultLimits()
	if l.MaxChunkSize <= 0 {
		l.MaxChunkSize = def.MaxChunkSize
	}
	if l.MinChunkSize <= 0 || l.MinChunkSize >= l.MaxChunkSize {
		l.MinChunkSize = def.MinChunkSize
	}
	if l.FallbackSize <= 0 {
		l.FallbackSize = def.FallbackSize
	}
	if l.FallbackOverlap < 0 || l.FallbackOverlap >= l.FallbackSize {
		l.FallbackOverlap = l.FallbackSize / 4
	}
	return l
}

type Chunker struct {
	limits Limits
}

func New(limits Limits) *Chunker {
	return &Chunker{limits: limits.normalize()}
}

type parserFunc func(c *Chunker, text string, pages pageLocator) []domain.Chunk

var parsers = map[string]parserFunc{
	ParserEUMDR:    (*Chunker).parseEUMDR,
	ParserDEMPDG:   (*Chunker).parseDEMPDG,
	ParserCHMepV:   (*Chunker).parseCHMepV,
	ParserUKMDR:    (*Chunker).parseUKMDR,
	ParserGuidance: (*Chunker).parseGuidance,
}

// Chunk parses page-extracted text with the profile's structural markers.
// A profile whose parser finds no structures falls back to the guidance
// parser so no document ever produces zero chunks from non-empty text.
func (c *Chunker) Chunk(profile domain.DocumentProfile, pages []domain.Page) ([]domain.Chunk, error) {
	text := JoinPages(pages)
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("no text to chunk")
	}

	locator := newPageLocator(pages)

	parse, ok := parsers[profile.Parser]
	if !ok {
		parse = (*Chunker).parseGuidance
	}

	chunks := parse(c, text, locator)
	if len(chunks) == 0 && profile.Parser != ParserGuidance {
		chunks = c.parseGuidance(text, locator)
	}
	if len(chunks) == 0 {
		return nil, errors.New("chunking produced zero chunks")
	}
	return chunks, nil
}

// JoinPages concatenates page texts with the separator assumed by the
// page-offset estimation in pageLocator.
func JoinPages(pages []domain.Page) string {
	parts := make([]string, 0, len(pages))
	for _, p := range pages {
		parts = append(parts, p.Text)
	}
	return strings.Join(parts, "\n\n")
}

// pageLocator estimates the page number of a character offset in the joined
// full text. Cleanup passes shift offsets slightly; citations tolerate that.
type pageLocator struct {
	bounds []int
	pages  []int
}

func newPageLocator(pages []domain.Page) pageLocator {
	loc := pageLocator{
		bounds: make([]int, 0, len(pages)),
		pages:  make([]int, 0, len(pages)),
	}
	offset := 0
	for _, p := range pages {
		offset += len(p.Text) + 2 // +2 for the \n\n separator
		loc.bounds = append(loc.bounds, offset)
		loc.pages = append(loc.pages, p.Number)
	}
	return loc
}

func (l pageLocator) pageAt(offset int) int {
	for i, bound := range l.bounds {
		if offset < bound {
			return l.pages[i]
		}
	}
	if len(l.pages) > 0 {
		return l.pages[len(l.pages)-1]
	}
	return 1
}
