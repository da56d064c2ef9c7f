package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/leelesemann/medreg-intelligence/internal/core/domain"
)

type AuditRepository struct {
	db *sql.DB
}

func NewAuditRepository(db *sql.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) CreateEntry(ctx context.Context, entry *domain.AuditEntry) error {
	sources, err := json.Marshal(entry.Sources)
	if err != nil {
		return fmt.Errorf("marshal audit sources: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO audit_entries (id, question, answer, sources, created_at)
VALUES ($1, $2, $3, $4, $5)
`, entry.ID, entry.Question, entry.Answer, sources, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

func (r *AuditRepository) ListEntries(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT id, question, answer, sources, created_at
FROM audit_entries
ORDER BY created_at DESC
LIMIT $1
`, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()

	var out []domain.AuditEntry
	for rows.Next() {
		var entry domain.AuditEntry
		var sources []byte
		if err := rows.Scan(&entry.ID, &entry.Question, &entry.Answer, &sources, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		if len(sources) > 0 {
			if err := json.Unmarshal(sources, &entry.Sources); err != nil {
				return nil, fmt.Errorf("unmarshal audit sources: %w", err)
			}
		}
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit entries: %w", err)
	}
	return out, nil
}
