package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/leelesemann/medreg-intelligence/internal/core/domain"
)

const (
	auditSheet     = "Audit Trail"
	documentsSheet = "Datenbasis"
)

// XLSXReport writes the audit trail as a two-sheet workbook: one row per
// answered question and one sheet listing the analyzed documents.
func XLSXReport(w io.Writer, entries []domain.AuditEntry, documents []string) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", auditSheet)
	if _, err := f.NewSheet(documentsSheet); err != nil {
		return fmt.Errorf("create documents sheet: %w", err)
	}

	header := []string{"Zeitpunkt", "Frage", "Antwort", "Quellen"}
	for col, title := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("audit header cell: %w", err)
		}
		if err := f.SetCellValue(auditSheet, cell, title); err != nil {
			return fmt.Errorf("write audit header: %w", err)
		}
	}

	for i, entry := range entries {
		row := i + 2
		values := []any{
			entry.CreatedAt.Format(time.RFC3339),
			entry.Question,
			entry.Answer,
			joinCitations(entry.Sources),
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return fmt.Errorf("audit cell: %w", err)
			}
			if err := f.SetCellValue(auditSheet, cell, value); err != nil {
				return fmt.Errorf("write audit row %d: %w", row, err)
			}
		}
	}

	if err := f.SetColWidth(auditSheet, "A", "A", 22); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}
	if err := f.SetColWidth(auditSheet, "B", "D", 60); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	if err := f.SetCellValue(documentsSheet, "A1", "Analysierte Gesetze"); err != nil {
		return fmt.Errorf("write documents header: %w", err)
	}
	for i, name := range documents {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("documents cell: %w", err)
		}
		if err := f.SetCellValue(documentsSheet, cell, name); err != nil {
			return fmt.Errorf("write document name: %w", err)
		}
	}
	if err := f.SetColWidth(documentsSheet, "A", "A", 60); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
