package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/suggestd/internal/domain"
	domdoc "github.com/kailas-cloud/suggestd/internal/domain/document"
	domidx "github.com/kailas-cloud/suggestd/internal/domain/index"
	"github.com/kailas-cloud/suggestd/internal/domain/index/field"
	"github.com/kailas-cloud/suggestd/internal/domain/suggest/hit"
	"github.com/kailas-cloud/suggestd/internal/domain/suggest/options"
	healthuc "github.com/kailas-cloud/suggestd/internal/usecase/health"
	indexuc "github.com/kailas-cloud/suggestd/internal/usecase/index"
	suggestuc "github.com/kailas-cloud/suggestd/internal/usecase/suggest"
)

// maxBodyBytes caps request bodies of write endpoints.
const maxBodyBytes = 8 << 20

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Config holds the request-level limits of the HTTP API.
type Config struct {
	// Defaults are applied to suggestion requests that do not override them.
	Defaults options.Options
	// MaxResultLimit caps the limit query parameter.
	MaxResultLimit int
}

// Server serves the suggestd HTTP API.
type Server struct {
	suggest       suggestuc.Suggester
	indexes       *indexuc.Service
	health        *healthuc.Service
	cfg           Config
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	suggest suggestuc.Suggester,
	indexes *indexuc.Service,
	health *healthuc.Service,
	cfg Config,
	logger *zap.Logger,
) *Server {
	s := &Server{
		suggest: suggest,
		indexes: indexes,
		health:  health,
		cfg:     cfg,
		logger:  logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrIndexNotFound, http.StatusNotFound, ErrorCodeIndexNotFound, false),
		sentinelHandler(domain.ErrDocumentNotFound, http.StatusNotFound, ErrorCodeDocumentNotFound, false),
		sentinelHandler(domain.ErrIndexExists, http.StatusConflict, ErrorCodeIndexAlreadyExists, false),
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, ErrorCodeInvalidQuery, true),
		sentinelHandler(domain.ErrInvalidConfiguration, http.StatusBadRequest, ErrorCodeValidationFailed, true),
		sentinelHandler(domain.ErrInvalidDocument, http.StatusBadRequest, ErrorCodeValidationFailed, true),
		sentinelHandler(domain.ErrBackend, http.StatusBadGateway, ErrorCodeBackendError, false),
	}
	return s
}

// Routes registers the API on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Get("/suggestions/{index}", s.Suggest)

	r.Route("/indexes/{index}", func(r chi.Router) {
		r.Put("/", s.CreateIndex)
		r.Get("/", s.GetIndex)
		r.Delete("/", s.DropIndex)
		r.Post("/documents", s.UpsertDocuments)
		r.Delete("/documents/{id}", s.DeleteDocument)
	})
}

// Suggest handles GET /suggestions/{index}.
func (s *Server) Suggest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	base, err := baseParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
		return
	}

	opts, err := s.optionsFromQuery(q)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
		return
	}

	res, err := s.suggest.Suggest(r.Context(), suggestuc.Request{
		Index:   chi.URLParam(r, "index"),
		Base:    base,
		Query:   q.Get("q"),
		Options: &opts,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, SuggestionResponse{
		Query: res.Query,
		Items: hitsToItems(res.Hits),
		Total: res.Total,
	})
}

// optionsFromQuery overlays the min_prefix_length, limit, fields and operator
// parameters on the configured defaults.
func (s *Server) optionsFromQuery(q map[string][]string) (options.Options, error) {
	get := func(k string) string {
		if v := q[k]; len(v) > 0 {
			return v[0]
		}
		return ""
	}

	minPrefix, err := intParam(get("min_prefix_length"), "min_prefix_length")
	if err != nil {
		return options.Options{}, err
	}
	limit, err := intParam(get("limit"), "limit")
	if err != nil {
		return options.Options{}, err
	}
	if s.cfg.MaxResultLimit > 0 && limit > s.cfg.MaxResultLimit {
		return options.Options{}, fmt.Errorf("limit must be <= %d, got %d", s.cfg.MaxResultLimit, limit)
	}

	var fields []string
	if _, ok := q["fields"]; ok {
		fields = []string{}
		for _, f := range strings.Split(get("fields"), ",") {
			if f = strings.TrimSpace(f); f != "" {
				fields = append(fields, f)
			}
		}
	}

	var op options.Operator
	if raw := get("operator"); raw != "" {
		if op, err = options.ParseOperator(raw); err != nil {
			return options.Options{}, err
		}
	}

	opts, err := s.cfg.Defaults.With(minPrefix, limit, fields, op)
	if err != nil {
		return options.Options{}, fmt.Errorf("query options: %w", err)
	}
	return opts, nil
}

// CreateIndex handles PUT /indexes/{index}.
func (s *Server) CreateIndex(w http.ResponseWriter, r *http.Request) {
	base, err := baseParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
		return
	}

	var req CreateIndexRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	fields, err := fieldsFromRequest(req.Fields)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
		return
	}

	idx, err := s.indexes.Create(r.Context(), chi.URLParam(r, "index"), base, fields)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, indexToResponse(idx))
}

// GetIndex handles GET /indexes/{index}.
func (s *Server) GetIndex(w http.ResponseWriter, r *http.Request) {
	base, err := baseParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
		return
	}

	stats, err := s.indexes.Stats(r.Context(), chi.URLParam(r, "index"), base)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, IndexResponse{
		Name:      stats.Ref.Database(),
		Base:      string(stats.Ref.Base()),
		Exists:    &stats.Exists,
		Documents: &stats.Documents,
	})
}

// DropIndex handles DELETE /indexes/{index}.
func (s *Server) DropIndex(w http.ResponseWriter, r *http.Request) {
	base, err := baseParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
		return
	}

	deleteDocs := false
	if raw := r.URL.Query().Get("delete_documents"); raw != "" {
		if deleteDocs, err = strconv.ParseBool(raw); err != nil {
			writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "delete_documents must be a boolean")
			return
		}
	}

	if err := s.indexes.Drop(r.Context(), chi.URLParam(r, "index"), base, deleteDocs); err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UpsertDocuments handles POST /indexes/{index}/documents.
func (s *Server) UpsertDocuments(w http.ResponseWriter, r *http.Request) {
	base, err := baseParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
		return
	}

	var req UpsertDocumentsRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if len(req.Documents) == 0 {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "documents must not be empty")
		return
	}

	docs := make([]domdoc.Document, len(req.Documents))
	for i, item := range req.Documents {
		doc, err := domdoc.New(item.ID, item.Fields)
		if err != nil {
			writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed,
				fmt.Sprintf("documents[%d]: %v", i, err))
			return
		}
		docs[i] = doc
	}

	stored, err := s.indexes.Upsert(r.Context(), chi.URLParam(r, "index"), base, docs)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, UpsertDocumentsResponse{Stored: stored})
}

// DeleteDocument handles DELETE /indexes/{index}/documents/{id}.
func (s *Server) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	base, err := baseParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
		return
	}

	err = s.indexes.DeleteDocument(r.Context(), chi.URLParam(r, "index"), base, chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
// Client errors (detailed) carry the full error text; the rest only the sentinel text.
func sentinelHandler(sentinel error, status int, code ErrorCode, detailed bool) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		msg := sentinel.Error()
		if detailed {
			msg = err.Error()
		}
		writeError(w, status, code, msg)
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
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}

func baseParam(r *http.Request) (domidx.Base, error) {
	raw := r.URL.Query().Get("base")
	if raw == "" {
		return "", nil
	}
	b, err := domidx.ParseBase(raw)
	if err != nil {
		return "", fmt.Errorf("base: %w", err)
	}
	return b, nil
}

func intParam(raw, name string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", name, raw)
	}
	return v, nil
}

func fieldsFromRequest(ff []FieldDefinition) ([]field.Field, error) {
	fields := make([]field.Field, len(ff))
	for i, f := range ff {
		fld, err := field.New(f.Name, field.Type(strings.ToLower(f.Type)))
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
		fields[i] = fld
	}
	return fields, nil
}

func indexToResponse(idx domidx.Index) IndexResponse {
	fields := make([]FieldDefinition, len(idx.Fields()))
	for i, f := range idx.Fields() {
		fields[i] = FieldDefinition{Name: f.Name(), Type: string(f.FieldType())}
	}
	return IndexResponse{
		Name:   idx.Ref().Database(),
		Base:   string(idx.Ref().Base()),
		Fields: fields,
	}
}

func hitsToItems(hits []hit.Hit) []SuggestionItem {
	items := make([]SuggestionItem, len(hits))
	for i, h := range hits {
		items[i] = SuggestionItem{ID: h.ID(), Score: h.Score(), Fields: h.Fields()}
	}
	return items
}
