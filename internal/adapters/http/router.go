package httpadapter

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/leelesemann/medreg-intelligence/internal/adapters/export"
	"github.com/leelesemann/medreg-intelligence/internal/catalog"
	"github.com/leelesemann/medreg-intelligence/internal/config"
	"github.com/leelesemann/medreg-intelligence/internal/core/domain"
	"github.com/leelesemann/medreg-intelligence/internal/core/ports"
	"github.com/leelesemann/medreg-intelligence/internal/observability/metrics"
)

const serviceName = "api"

// defaultAuditExportLimit caps how many answered questions land in one report.
const defaultAuditExportLimit = 500

type Router struct {
	cfg     config.Config
	ingest  ports.DocumentIngestor
	query   ports.RegulatoryQueryService
	repo    ports.DocumentRepository
	audit   ports.AuditReader
	catalog *catalog.Catalog
	metrics *metrics.HTTPServerMetrics
	log     *slog.Logger
}

func NewRouter(
	cfg config.Config,
	ingest ports.DocumentIngestor,
	query ports.RegulatoryQueryService,
	repo ports.DocumentRepository,
	audit ports.AuditReader,
	cat *catalog.Catalog,
	m *metrics.HTTPServerMetrics,
	log *slog.Logger,
) *Router {
	if cat == nil {
		cat = &catalog.Catalog{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Router{
		cfg:     cfg,
		ingest:  ingest,
		query:   query,
		repo:    repo,
		audit:   audit,
		catalog: cat,
		metrics: m,
		log:     log,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/documents", rt.uploadDocument)
	mux.HandleFunc("/v1/documents/", rt.getDocumentByID)
	mux.HandleFunc("/v1/rag/query", rt.queryRegulations)
	mux.HandleFunc("/v1/rag/examples", rt.exampleQuestions)
	mux.HandleFunc("/v1/audit/report", rt.auditReportHTML)
	mux.HandleFunc("/v1/audit/report.xlsx", rt.auditReportXLSX)

	var handler http.Handler = mux
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(serviceName, handler)
	}
	handler = backpressureMiddleware(handler, rt.cfg.APIMaxConcurrent, time.Second)
	handler = rateLimitMiddleware(handler, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst)
	handler = accessLogMiddleware(rt.log, handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) uploadDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	doc, err := rt.ingest.Upload(
		r.Context(),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		file,
	)
	if rt.metrics != nil {
		rt.metrics.RecordUpload(serviceName, err)
	}
	if err != nil {
		rt.writeError(w, r, "upload document", err)
		return
	}

	writeJSON(w, http.StatusAccepted, doc)
}

func (rt *Router) getDocumentByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/v1/documents/")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "document id is required"})
		return
	}

	doc, err := rt.repo.GetByID(r.Context(), id)
	if err != nil {
		rt.writeError(w, r, "get document", err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (rt *Router) queryRegulations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req struct {
		Question       string `json:"question"`
		Limit          int    `json:"limit"`
		Jurisdiction   string `json:"jurisdiction"`
		DocumentType   string `json:"document_type"`
		SourceDocument string `json:"source_document"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "question is required"})
		return
	}
	if req.Limit <= 0 {
		req.Limit = rt.cfg.RAGTopK
	}

	start := time.Now()
	answer, err := rt.query.Answer(r.Context(), req.Question, req.Limit, domain.SearchFilter{
		Jurisdiction:   req.Jurisdiction,
		DocumentType:   req.DocumentType,
		SourceDocument: req.SourceDocument,
	})
	if err != nil {
		rt.writeError(w, r, "answer query", err)
		return
	}
	if rt.metrics != nil {
		rt.metrics.RecordQuery(serviceName, answer.RetrievalMode, len(answer.Sources), time.Since(start))
	}

	writeJSON(w, http.StatusOK, answer)
}

func (rt *Router) exampleQuestions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"questions": rt.catalog.ExampleQuestions,
	})
}

func (rt *Router) auditReportHTML(w http.ResponseWriter, r *http.Request) {
	entries, documents, ok := rt.loadAuditTrail(w, r)
	if !ok {
		return
	}

	now := time.Now()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="Audit_Report_%s.html"`, now.Format("20060102_1504")))

	if err := export.HTMLReport(w, entries, documents, now); err != nil {
		rt.log.Error("render audit report", "error", err)
		return
	}
	if rt.metrics != nil {
		rt.metrics.RecordAuditExport(serviceName, "html")
	}
}

func (rt *Router) auditReportXLSX(w http.ResponseWriter, r *http.Request) {
	entries, documents, ok := rt.loadAuditTrail(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="Audit_Report_%s.xlsx"`, time.Now().Format("20060102_1504")))

	if err := export.XLSXReport(w, entries, documents); err != nil {
		rt.log.Error("render audit workbook", "error", err)
		return
	}
	if rt.metrics != nil {
		rt.metrics.RecordAuditExport(serviceName, "xlsx")
	}
}

func (rt *Router) loadAuditTrail(w http.ResponseWriter, r *http.Request) ([]domain.AuditEntry, []string, bool) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return nil, nil, false
	}

	limit := defaultAuditExportLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be a positive integer"})
			return nil, nil, false
		}
		limit = parsed
	}

	entries, err := rt.audit.ListEntries(r.Context(), limit)
	if err != nil {
		rt.writeError(w, r, "list audit entries", err)
		return nil, nil, false
	}

	filenames, err := rt.repo.ListFilenames(r.Context())
	if err != nil {
		rt.writeError(w, r, "list documents", err)
		return nil, nil, false
	}
	documents := make([]string, 0, len(filenames))
	for _, name := range filenames {
		documents = append(documents, rt.catalog.FriendlyName(name))
	}

	return entries, documents, true
}

func (rt *Router) writeError(w http.ResponseWriter, r *http.Request, operation string, err error) {
	status := mapErrorToHTTPStatus(err)
	if status >= http.StatusInternalServerError {
		rt.log.Error(operation, "error", err, "request_id", requestIDFromContext(r.Context()))
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
