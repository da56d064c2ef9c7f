package domain

import "fmt"

type ChunkKind string

const (
	ChunkArticle ChunkKind = "article"
	ChunkRecital ChunkKind = "recital"
	ChunkSection ChunkKind = "section"
	ChunkWindow  ChunkKind = "window"
)

// StructuralRef locates a chunk inside the legal structure of its source
// document so answers can cite the exact article, paragraph or annex.
type StructuralRef struct {
	ArticleID    string    `json:"article_id"`
	ArticleTitle string    `json:"article_title,omitempty"`
	Chapter      string    `json:"chapter,omitempty"`
	ChapterTitle string    `json:"chapter_title,omitempty"`
	Page         int       `json:"page,omitempty"`
	Kind         ChunkKind `json:"kind"`
	Part         int       `json:"part,omitempty"`
	PartTotal    int       `json:"part_total,omitempty"`
}

// Chunk is one retrieval unit produced by the structure-aware chunker.
type Chunk struct {
	Text string        `json:"text"`
	Ref  StructuralRef `json:"ref"`
}

type SearchFilter struct {
	Jurisdiction   string
	DocumentType   string
	SourceDocument string
}

type RetrievedChunk struct {
	DocumentID     string  `json:"document_id"`
	SourceDocument string  `json:"source_document"`
	DocumentTitle  string  `json:"document_title"`
	Jurisdiction   string  `json:"jurisdiction"`
	Language       string  `json:"language,omitempty"`
	ArticleID      string  `json:"article_id"`
	Chapter        string  `json:"chapter,omitempty"`
	Page           int     `json:"page,omitempty"`
	ChunkIndex     int     `json:"chunk_index"`
	Text           string  `json:"text"`
	Score          float64 `json:"score"`
}

// Citation renders the source label used in prompts and reports,
// e.g. "EU MDR 2017/745 – Artikel 12 (EU, S.34)".
func (c RetrievedChunk) Citation() string {
	title := c.DocumentTitle
	if title == "" {
		title = c.SourceDocument
	}
	label := title
	if c.ArticleID != "" {
		label += " – " + c.ArticleID
	}
	jurisdiction := c.Jurisdiction
	if jurisdiction == "" {
		jurisdiction = "?"
	}
	if c.Page > 0 {
		return fmt.Sprintf("%s (%s, S.%d)", label, jurisdiction, c.Page)
	}
	return fmt.Sprintf("%s (%s)", label, jurisdiction)
}

// Retrieval modes reported on an Answer. Local fallback means the rerank
// API was unavailable and a lexical heuristic ordered the sources instead.
const (
	RetrievalVector        = "vector"
	RetrievalRerank        = "rerank"
	RetrievalLocalFallback = "local_fallback"
)

type Answer struct {
	Text          string           `json:"text"`
	Sources       []RetrievedChunk `json:"sources"`
	RetrievalMode string           `json:"retrieval_mode"`
}
