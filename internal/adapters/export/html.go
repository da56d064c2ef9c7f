// Package export renders the recorded audit trail as a standalone HTML
// report and as an XLSX workbook for compliance reviews.
package export

import (
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/leelesemann/medreg-intelligence/internal/core/domain"
)

const reportTemplate = `<!DOCTYPE html>
<html lang="de">
<head>
<meta charset="UTF-8">
<title>MedReg Intelligence – Regulatory Audit Trail</title>
<style>
	body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; margin: 40px; color: #333; }
	.header { background: linear-gradient(135deg, #1a3a5c 0%, #2980b9 100%); color: white; padding: 30px; border-radius: 5px; margin-bottom: 30px; }
	.header h1 { margin: 0; font-size: 24px; }
	.header .brand { font-size: 0.7em; font-weight: 300; opacity: 0.85; margin-top: 4px; }
	.meta { color: #eee; font-size: 0.9em; margin-top: 10px; }
	.section-title { border-bottom: 2px solid #2980b9; color: #2980b9; padding-bottom: 5px; margin-top: 30px; }
	.chat-entry { margin-bottom: 25px; padding: 15px; border-radius: 5px; }
	.user { background-color: #f8f9fa; border-left: 5px solid #bdc3c7; }
	.ai { background-color: #e3f2fd; border-left: 5px solid #2980b9; }
	.role { font-weight: bold; margin-bottom: 10px; font-size: 0.8em; text-transform: uppercase; color: #7f8c8d; }
	.sources { font-size: 0.85em; color: #555; margin-top: 10px; }
</style>
</head>
<body>
<div class="header">
	<h1>⚖️ MedReg Intelligence</h1>
	<div class="brand">Lesemann AI Solutions &amp; Consulting</div>
	<div class="meta">Regulatory Audit Trail | Erstellt: {{.GeneratedAt}}</div>
</div>

<h3 class="section-title">Datenbasis (Analysierte Gesetze)</h3>
<ul>
{{- range .Documents}}
	<li>{{.}}</li>
{{- end}}
</ul>

<h3 class="section-title">Protokollierter Beratungsverlauf</h3>
{{- range .Entries}}
<div class="chat-entry user">
	<div class="role">Nutzerfrage</div>
	<div class="text">{{.Question}}</div>
</div>
<div class="chat-entry ai">
	<div class="role">KI-Analyse (MedReg Intelligence)</div>
	<div class="text">{{.AnswerHTML}}</div>
	{{- if .Citations}}
	<div class="sources">Quellen: {{.Citations}}</div>
	{{- end}}
</div>
{{- end}}
</body>
</html>
`

var reportTmpl = template.Must(template.New("audit").Parse(reportTemplate))

type reportEntry struct {
	Question   string
	AnswerHTML template.HTML
	Citations  string
}

type reportData struct {
	GeneratedAt string
	Documents   []string
	Entries     []reportEntry
}

// HTMLReport writes the full audit trail as a self-contained HTML document.
// Documents is the list of display names shown as the knowledge base.
func HTMLReport(w io.Writer, entries []domain.AuditEntry, documents []string, now time.Time) error {
	data := reportData{
		GeneratedAt: now.Format("02.01.2006 15:04:05"),
		Documents:   documents,
		Entries:     make([]reportEntry, 0, len(entries)),
	}
	for _, entry := range entries {
		data.Entries = append(data.Entries, reportEntry{
			Question:   entry.Question,
			AnswerHTML: answerAsHTML(entry.Answer),
			Citations:  joinCitations(entry.Sources),
		})
	}

	if err := reportTmpl.Execute(w, data); err != nil {
		return fmt.Errorf("render audit report: %w", err)
	}
	return nil
}

// answerAsHTML escapes the answer text first, then restores line breaks.
func answerAsHTML(text string) template.HTML {
	escaped := template.HTMLEscapeString(text)
	return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>"))
}

func joinCitations(sources []domain.RetrievedChunk) string {
	if len(sources) == 0 {
		return ""
	}
	labels := make([]string, 0, len(sources))
	seen := make(map[string]struct{}, len(sources))
	for _, src := range sources {
		label := src.Citation()
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		labels = append(labels, label)
	}
	return strings.Join(labels, "; ")
}
