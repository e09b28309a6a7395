// Package server exposes the analyze operation over HTTP. The handlers are
// thin request/response marshaling around the analyst facade.
package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"stock-analyst/internal/analyst"
	"stock-analyst/internal/interfaces"
	"stock-analyst/internal/logger"
	"stock-analyst/internal/types"
)

type Server struct {
	analyzer interfaces.Analyzer
}

func New(analyzer interfaces.Analyzer) *Server {
	return &Server{analyzer: analyzer}
}

// Routes builds the HTTP router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)
	r.Post("/analyze", s.handleAnalyze)

	return r
}

type analyzeRequest struct {
	Symbol string `json:"symbol"`
}

type analyzeResponse struct {
	Symbol     string `json:"symbol"`
	Action     string `json:"action"`
	Confidence string `json:"confidence"`
	Rationale  string `json:"rationale"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	rec, err := s.analyzer.Analyze(r.Context(), req.Symbol)
	if err != nil {
		s.writeAnalyzeError(w, r, req.Symbol, err)
		return
	}

	writeJSON(w, http.StatusOK, analyzeResponse{
		Symbol:     rec.Symbol,
		Action:     string(rec.Action),
		Confidence: string(rec.Confidence),
		Rationale:  rec.Rationale,
	})
}

// writeAnalyzeError maps the error taxonomy to HTTP statuses: insufficient
// upstream data is 503, a reasoning service outage is 504, a blank symbol is
// the caller's fault.
func (s *Server) writeAnalyzeError(w http.ResponseWriter, r *http.Request, symbol string, err error) {
	var insufficient *types.InsufficientDataError
	var reasoning *types.ReasoningUnavailableError

	switch {
	case errors.Is(err, analyst.ErrEmptySymbol):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.As(err, &insufficient):
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
	case errors.As(err, &reasoning):
		writeJSON(w, http.StatusGatewayTimeout, errorResponse{Error: err.Error()})
	default:
		logger.ErrorWithErr(r.Context(), "Unexpected analyze failure", err, "symbol", symbol)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"service":      "stock-analyst",
		"usage":        `POST /analyze with JSON: {"symbol": "AAPL"}`,
		"data_sources": []string{"Alpha Vantage", "Finnhub", "NewsAPI"},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
