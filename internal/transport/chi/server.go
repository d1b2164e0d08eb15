// Package chi exposes the HTTP API: document ingestion, retrieval-backed
// question answering, finance quoting and application validation.
package chi

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/lendkit-cloud/creditdesk/internal/domain"
	"github.com/lendkit-cloud/creditdesk/internal/domain/chat"
	"github.com/lendkit-cloud/creditdesk/internal/domain/document"
	"github.com/lendkit-cloud/creditdesk/internal/domain/finance"
	healthuc "github.com/lendkit-cloud/creditdesk/internal/usecase/health"
	ingestuc "github.com/lendkit-cloud/creditdesk/internal/usecase/ingest"
	queryuc "github.com/lendkit-cloud/creditdesk/internal/usecase/query"
	"github.com/lendkit-cloud/creditdesk/internal/version"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server hosts the HTTP handlers over the use case services.
type Server struct {
	ingest         *ingestuc.Service
	query          *queryuc.Service
	health         *healthuc.Service
	env            string
	maxUploadBytes int64
	logger         *zap.Logger
	errorHandlers  []errorHandler
}

// NewServer creates the HTTP API server.
func NewServer(
	ingest *ingestuc.Service,
	query *queryuc.Service,
	health *healthuc.Service,
	env string,
	maxUploadBytes int64,
	logger *zap.Logger,
) *Server {
	s := &Server{
		ingest:         ingest,
		query:          query,
		health:         health,
		env:            env,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest),
		sentinelHandler(domain.ErrDocumentNotFound, http.StatusNotFound),
		sentinelHandler(domain.ErrVectorDimMismatch, http.StatusBadRequest),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway),
		sentinelHandler(domain.ErrChatProviderError, http.StatusBadGateway),
	}
	return s
}

// Register mounts all routes on the router.
func (s *Server) Register(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Route("/api", func(r chi.Router) {
		r.Post("/upload", s.Upload)
		r.Post("/query", s.Query)
		r.Post("/finance/quote", s.FinanceQuote)
		r.Post("/applications/validate", s.ValidateApplication)
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status != healthuc.StatusOK {
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, map[string]any{
		"status":      report.Status,
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"environment": s.env,
		"version":     version.Version,
		"services":    report.Checks,
	})
}

type uploadItem struct {
	ID     string `json:"id,omitempty"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Size   int    `json:"size"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Upload handles POST /api/upload. Accepts multipart form data with one or
// more files plus the tenant scope fields.
func (s *Server) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	scope, err := document.NewScope(
		r.FormValue("orgId"),
		r.FormValue("pipeline"),
		r.FormValue("sessionId"),
	)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		writeError(w, http.StatusBadRequest, "At least one file is required")
		return
	}

	files := make([]ingestuc.File, 0, len(headers))
	for _, h := range headers {
		data, err := readUpload(h)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Failed to read file "+h.Filename+": "+err.Error())
			return
		}
		files = append(files, ingestuc.File{Name: h.Filename, Data: data})
	}

	results := s.ingest.Process(r.Context(), scope, files)

	items := make([]uploadItem, 0, len(results))
	for i := range results {
		res := &results[i]
		item := uploadItem{
			ID:     res.ID(),
			Name:   res.Name(),
			Type:   res.FileType(),
			Size:   res.Size(),
			Status: res.Status(),
		}
		if res.Err() != nil {
			item.Error = safeDomainMessage(res.Err())
		}
		items = append(items, item)
	}

	writeJSON(w, http.StatusOK, items)
}

type queryRequest struct {
	Query       string `json:"query"`
	OrgID       string `json:"orgId"`
	Pipeline    string `json:"pipeline"`
	SessionID   string `json:"sessionId"`
	ChatHistory []struct {
		Text      string `json:"text"`
		Sender    string `json:"sender"`
		Timestamp int64  `json:"timestamp"`
	} `json:"chatHistory"`
}

type sourceItem struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Type       string  `json:"type"`
	Confidence float64 `json:"confidence"`
	Snippet    string  `json:"snippet"`
}

type queryResponse struct {
	Answer     string       `json:"answer"`
	Sources    []sourceItem `json:"sources"`
	Confidence float64      `json:"confidence"`
}

// Query handles POST /api/query.
func (s *Server) Query(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}
	scope, err := document.NewScope(req.OrgID, req.Pipeline, req.SessionID)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	history := make([]chat.Message, 0, len(req.ChatHistory))
	for _, m := range req.ChatHistory {
		history = append(history, chat.Message{
			Text:      m.Text,
			Sender:    chat.Sender(m.Sender),
			Timestamp: m.Timestamp,
		})
	}

	answer, err := s.query.Ask(r.Context(), queryuc.Request{
		Query:   req.Query,
		Scope:   scope,
		History: history,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	resp := queryResponse{
		Answer:     answer.Text,
		Sources:    make([]sourceItem, 0, len(answer.Sources)),
		Confidence: answer.Confidence,
	}
	for _, src := range answer.Sources {
		resp.Sources = append(resp.Sources, sourceItem{
			ID:         src.ID,
			Name:       src.Name,
			Type:       src.Type,
			Confidence: src.Confidence,
			Snippet:    src.Snippet,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

type quoteRequest struct {
	AssetPrice        float64 `json:"assetPrice"`
	DownPayment       float64 `json:"downPayment"`
	AnnualRatePercent float64 `json:"annualRatePercent"`
	TermMonths        int     `json:"termMonths"`
}

type quoteResponse struct {
	LoanAmount     float64 `json:"loanAmount"`
	MonthlyPayment float64 `json:"monthlyPayment"`
}

// FinanceQuote handles POST /api/finance/quote.
func (s *Server) FinanceQuote(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.TermMonths <= 0 {
		writeError(w, http.StatusBadRequest, "termMonths must be greater than zero")
		return
	}

	loan := finance.LoanAmount(req.AssetPrice, req.DownPayment)
	writeJSON(w, http.StatusOK, quoteResponse{
		LoanAmount:     loan,
		MonthlyPayment: finance.MonthlyPayment(loan, req.AnnualRatePercent, req.TermMonths),
	})
}

type applicationRequest struct {
	BusinessName string  `json:"businessName"`
	TaxID        string  `json:"taxId"`
	LoanAmount   float64 `json:"loanAmount"`
}

type validationResponse struct {
	IsValid bool              `json:"isValid"`
	Errors  map[string]string `json:"errors"`
}

// ValidateApplication handles POST /api/applications/validate.
func (s *Server) ValidateApplication(w http.ResponseWriter, r *http.Request) {
	var req applicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	result := finance.ValidateApplication(finance.Application{
		BusinessName: req.BusinessName,
		TaxID:        req.TaxID,
		LoanAmount:   req.LoanAmount,
	})

	writeJSON(w, http.StatusOK, validationResponse{
		IsValid: result.Valid,
		Errors:  result.Errors,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func readUpload(h *multipart.FileHeader) ([]byte, error) {
	f, err := h.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return io.ReadAll(f)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// safeDomainMessage returns a sentinel error message for the client without
// exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidRequest,
		domain.ErrDocumentNotFound,
		domain.ErrVectorDimMismatch,
		domain.ErrEmbeddingProviderError,
		domain.ErrChatProviderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "Internal server error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, safeDomainMessage(err))
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	for _, h := range s.errorHandlers {
		if h(w, err) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "Internal server error")
}
