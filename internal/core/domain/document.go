package domain

import "time"

type DocumentStatus string

const (
	StatusUploaded   DocumentStatus = "uploaded"
	StatusProcessing DocumentStatus = "processing"
	StatusReady      DocumentStatus = "ready"
	StatusFailed     DocumentStatus = "failed"
)

type Document struct {
	ID           string         `json:"id"`
	Filename     string         `json:"filename"`
	MimeType     string         `json:"mime_type"`
	StoragePath  string         `json:"storage_path"`
	Title        string         `json:"title,omitempty"`
	DocumentType string         `json:"document_type,omitempty"`
	Jurisdiction string         `json:"jurisdiction,omitempty"`
	Language     string         `json:"language,omitempty"`
	Parser       string         `json:"parser,omitempty"`
	PageCount    int            `json:"page_count,omitempty"`
	ChunkCount   int            `json:"chunk_count,omitempty"`
	Status       DocumentStatus `json:"status"`
	Error        string         `json:"error,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// DocumentProfile is the detected regulatory identity of a source document.
// Parser names the structural profile used to chunk it.
type DocumentProfile struct {
	DocumentType string `json:"document_type"`
	Jurisdiction string `json:"jurisdiction"`
	Language     string `json:"language"`
	Title        string `json:"title"`
	Parser       string `json:"parser"`
}

// Page is one page of extracted source text, 1-indexed.
type Page struct {
	Number int
	Text   string
}
