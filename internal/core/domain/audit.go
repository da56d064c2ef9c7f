package domain

import "time"

// AuditEntry is one answered question with the sources it was grounded on.
// The audit trail exists so regulatory answers stay traceable after the fact.
type AuditEntry struct {
	ID        string           `json:"id"`
	Question  string           `json:"question"`
	Answer    string           `json:"answer"`
	Sources   []RetrievedChunk `json:"sources"`
	CreatedAt time.Time        `json:"created_at"`
}
