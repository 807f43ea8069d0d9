// Package httpapi exposes the news search pipeline over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/samachar-ai/newsbot/internal/domain"
	"github.com/samachar-ai/newsbot/internal/repository/session"
	healthuc "github.com/samachar-ai/newsbot/internal/usecase/health"
	"github.com/samachar-ai/newsbot/internal/usecase/query"
	searchuc "github.com/samachar-ai/newsbot/internal/usecase/search"
)

// sessionHeader carries the client-generated opaque session ID.
const sessionHeader = "X-Session-ID"

const displayDateLayout = "02 Jan 2006"

// searchRunner runs the full query pipeline.
type searchRunner interface {
	Search(ctx context.Context, rawQuery string) (searchuc.Response, error)
}

// contentTranslator translates article content for display.
type contentTranslator interface {
	TranslateContent(ctx context.Context, text string) (string, error)
}

// toggleStore tracks per-session translation toggle state.
type toggleStore interface {
	Toggle(sessionID, key string) bool
	Shown(sessionID, key string) bool
	Reset(sessionID string)
}

// healthChecker aggregates component health.
type healthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server implements the HTTP API handlers.
type Server struct {
	search        searchRunner
	translate     contentTranslator
	sessions      toggleStore
	health        healthChecker
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search searchRunner,
	translate contentTranslator,
	sessions toggleStore,
	health healthChecker,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search:    search,
		translate: translate,
		sessions:  sessions,
		health:    health,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrSessionRequired, http.StatusBadRequest, codeSessionRequired),
		sentinelHandler(domain.ErrUnknownToggleKey, http.StatusBadRequest, codeUnknownToggleKey),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, codeEmbeddingProviderError),
	}
	return s
}

// Register mounts all routes on the router.
func (s *Server) Register(r chi.Router) {
	r.Post("/v1/search", s.Search)
	r.Post("/v1/results/translate", s.ToggleTranslation)
	r.Delete("/v1/session", s.ResetSession)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// SearchRequest is the body of POST /v1/search.
type SearchRequest struct {
	Query string `json:"query"`
}

// SearchResponse is the body of a successful POST /v1/search.
type SearchResponse struct {
	TookMs          int64        `json:"took_ms"`
	Keywords        string       `json:"keywords"`
	TranslatedQuery string       `json:"translated_query,omitempty"`
	Warning         string       `json:"warning,omitempty"`
	Results         []ResultItem `json:"results"`
}

// ResultItem is one ranked article in a search response.
type ResultItem struct {
	Title             string `json:"title"`
	Text              string `json:"text"`
	Date              string `json:"date"`
	DisplayDate       string `json:"display_date"`
	Link              string `json:"link"`
	Source            string `json:"source"`
	ToggleKey         string `json:"toggle_key"`
	Translated        bool   `json:"translated"`
	TranslatedContent string `json:"translated_content,omitempty"`
}

// Search handles POST /v1/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "query is required")
		return
	}

	start := time.Now()
	resp, err := s.search.Search(r.Context(), req.Query)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	sessionID := r.Header.Get(sessionHeader)

	// Highlight with the translated query when it differs, matching what the
	// reader actually sees in the results.
	hl := resp.Cleaned
	if resp.Translated != "" {
		hl = resp.Translated
	}

	items := make([]ResultItem, len(resp.Results))
	for i, res := range resp.Results {
		key := session.ToggleKey(resp.Cleaned, i)
		item := ResultItem{
			Title:       query.Highlight(res.Article.Title, hl),
			Text:        query.Highlight(res.Article.Text, hl),
			Date:        res.Article.Date,
			DisplayDate: formatDisplayDate(res.Article.Date),
			Link:        res.Article.Link,
			Source:      res.Source,
			ToggleKey:   key,
		}
		if sessionID != "" && s.sessions.Shown(sessionID, key) {
			item.Translated = true
			translated, terr := s.translate.TranslateContent(r.Context(), res.Article.Content)
			if terr != nil {
				s.logger.Warn("content translation failed", zap.Error(terr))
			}
			item.TranslatedContent = translated
		}
		items[i] = item
	}

	out := SearchResponse{
		TookMs:   time.Since(start).Milliseconds(),
		Keywords: resp.Cleaned,
		Warning:  resp.Warning,
		Results:  items,
	}
	if resp.Translated != "" && resp.Translated != resp.Cleaned {
		out.TranslatedQuery = resp.Translated
	}

	writeJSON(w, http.StatusOK, out)
}

// ToggleRequest is the body of POST /v1/results/translate.
type ToggleRequest struct {
	Key     string `json:"key"`
	Content string `json:"content"`
}

// ToggleResponse is the body of a successful POST /v1/results/translate.
type ToggleResponse struct {
	Key               string `json:"key"`
	Translated        bool   `json:"translated"`
	TranslatedContent string `json:"translated_content,omitempty"`
}

// ToggleTranslation handles POST /v1/results/translate.
func (s *Server) ToggleTranslation(w http.ResponseWriter, r *http.Request) {
	var req ToggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	sessionID := r.Header.Get(sessionHeader)
	if sessionID == "" {
		s.handleDomainError(w, domain.ErrSessionRequired)
		return
	}
	if !session.ValidToggleKey(req.Key) {
		s.handleDomainError(w, domain.ErrUnknownToggleKey)
		return
	}

	shown := s.sessions.Toggle(sessionID, req.Key)
	out := ToggleResponse{Key: req.Key, Translated: shown}
	if shown {
		translated, err := s.translate.TranslateContent(r.Context(), req.Content)
		if err != nil {
			s.logger.Warn("content translation failed", zap.Error(err))
		}
		out.TranslatedContent = translated
	}

	writeJSON(w, http.StatusOK, out)
}

// ResetSession handles DELETE /v1/session.
func (s *Server) ResetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.Header.Get(sessionHeader)
	if sessionID == "" {
		s.handleDomainError(w, domain.ErrSessionRequired)
		return
	}

	s.sessions.Reset(sessionID)
	w.WriteHeader(http.StatusNoContent)
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
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

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}

// formatDisplayDate renders an ISO date for display, falling back to the
// raw value when it does not parse.
func formatDisplayDate(date string) string {
	t, err := time.Parse(domain.DateLayout, date)
	if err != nil {
		return date
	}
	return t.Format(displayDateLayout)
}

// safeDomainMessage returns a sentinel error message for the client without
// exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrSessionRequired,
		domain.ErrUnknownToggleKey,
		domain.ErrEmbeddingProviderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}
