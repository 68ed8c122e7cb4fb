// Package server exposes the analysis and reporting pipeline over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/gabrxgomes/ShadowStats/internal/auth"
	"github.com/gabrxgomes/ShadowStats/internal/domain"
	"github.com/gabrxgomes/ShadowStats/internal/observability"
	"github.com/gabrxgomes/ShadowStats/internal/service"
	"github.com/gabrxgomes/ShadowStats/internal/storage"
)

// Request validation bounds.
const (
	minWalletLen  = 32
	maxWalletLen  = 44
	maxTitleLen   = 200
	maxLimit      = 1000
	maxVariation  = 50
	maxExpiryDays = 365
)

// Server is the HTTP front end.
type Server struct {
	svc    *service.Service
	log    *logrus.Logger
	mux    *http.ServeMux
	server *http.Server
}

// New creates an HTTP server with configured routes.
func New(addr string, svc *service.Service, log *logrus.Logger) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}

	mux := http.NewServeMux()

	s := &Server{
		svc: svc,
		log: log,
		mux: mux,
		server: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}

	s.registerRoutes()

	return s
}

// Handler exposes the route mux, for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("POST /api/auth", instrument("auth", s.handleAuth))
	s.mux.HandleFunc("POST /api/analyze", instrument("analyze", s.handleAnalyze))
	s.mux.HandleFunc("POST /api/report/generate", instrument("report_generate", s.handleGenerateReport))
	s.mux.HandleFunc("POST /api/report/verify", instrument("report_verify", s.handleVerifyReport))
	s.mux.HandleFunc("GET /api/report/{id}", instrument("report_get", s.handleGetReport))
	s.mux.Handle("GET /metrics", observability.Handler())
	s.mux.HandleFunc("GET /health", s.handleHealth)
}

// statusRecorder captures the response status for metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func instrument(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next(rec, r)
		observability.RecordHTTPRequest(route, strconv.Itoa(rec.status), time.Since(start).Seconds())
	}
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

type authRequest struct {
	Wallet    string `json:"wallet"`
	Message   string `json:"message"`
	Signature string `json:"signature"`
}

func (s *Server) handleAuth(w http.ResponseWriter, r *http.Request) {
	var req authRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if !walletLengthOK(req.Wallet) || req.Message == "" || req.Signature == "" {
		writeError(w, http.StatusBadRequest, "wallet, message and signature are required")
		return
	}

	err := s.svc.Authenticate(r.Context(), req.Wallet, []byte(req.Message), req.Signature)
	switch {
	case errors.Is(err, auth.ErrInvalidAddress):
		writeError(w, http.StatusBadRequest, "invalid wallet address")
	case errors.Is(err, auth.ErrBadSignature):
		writeError(w, http.StatusUnauthorized, "signature verification failed")
	case err != nil:
		s.log.WithError(err).Error("authenticate")
		writeError(w, http.StatusInternalServerError, "internal error")
	default:
		writeJSON(w, http.StatusOK, map[string]any{"authenticated": true, "wallet": req.Wallet})
	}
}

type analyzeRequest struct {
	Wallet  string `json:"wallet"`
	Limit   int    `json:"limit"`
	Refresh bool   `json:"refresh"`
}

type analyzeResponse struct {
	Wallet    string                   `json:"wallet"`
	Analytics domain.AnalyticsSnapshot `json:"analytics"`
	TxCount   int                      `json:"txCount"`
	CachedAt  time.Time                `json:"cachedAt"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if !walletLengthOK(req.Wallet) {
		writeError(w, http.StatusBadRequest, "invalid wallet address")
		return
	}
	if req.Limit < 0 || req.Limit > maxLimit {
		writeError(w, http.StatusBadRequest, "limit must be between 1 and 1000")
		return
	}

	entry, err := s.svc.Analyze(r.Context(), req.Wallet, req.Limit, req.Refresh)
	switch {
	case errors.Is(err, auth.ErrInvalidAddress):
		writeError(w, http.StatusBadRequest, "invalid wallet address")
	case err != nil:
		s.log.WithError(err).WithField("wallet", req.Wallet).Error("analyze")
		writeError(w, http.StatusBadGateway, "analysis failed")
	default:
		writeJSON(w, http.StatusOK, analyzeResponse{
			Wallet:    entry.Wallet,
			Analytics: entry.Snapshot,
			TxCount:   entry.TxCount,
			CachedAt:  entry.CachedAt,
		})
	}
}

type generateReportRequest struct {
	Wallet string                  `json:"wallet"`
	Policy domain.DisclosurePolicy `json:"policy"`
}

type generateReportResponse struct {
	Report   *domain.Report `json:"report"`
	ShareURL string         `json:"shareUrl"`
}

func (s *Server) handleGenerateReport(w http.ResponseWriter, r *http.Request) {
	var req generateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if !walletLengthOK(req.Wallet) {
		writeError(w, http.StatusBadRequest, "invalid wallet address")
		return
	}
	if msg, ok := validatePolicy(req.Policy); !ok {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	rep, shareURL, err := s.svc.GenerateReport(r.Context(), req.Wallet, req.Policy)
	switch {
	case errors.Is(err, auth.ErrInvalidAddress):
		writeError(w, http.StatusBadRequest, "invalid wallet address")
	case err != nil:
		s.log.WithError(err).WithField("wallet", req.Wallet).Error("generate report")
		writeError(w, http.StatusBadGateway, "report generation failed")
	default:
		writeJSON(w, http.StatusOK, generateReportResponse{Report: rep, ShareURL: shareURL})
	}
}

type verifyReportRequest struct {
	ReportID string         `json:"reportId"`
	Report   *domain.Report `json:"report"`
}

func (s *Server) handleVerifyReport(w http.ResponseWriter, r *http.Request) {
	var req verifyReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	// Either a stored report id or a full report document.
	switch {
	case req.ReportID != "":
		result, err := s.svc.VerifyReport(r.Context(), req.ReportID)
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "report not found")
			return
		}
		if err != nil {
			s.log.WithError(err).WithField("report", req.ReportID).Error("verify report")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, result)
	case req.Report != nil:
		writeJSON(w, http.StatusOK, s.svc.VerifyReportBody(req.Report))
	default:
		writeError(w, http.StatusBadRequest, "reportId or report is required")
	}
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "report id is required")
		return
	}

	rec, err := s.svc.GetReport(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "report not found")
		return
	}
	if err != nil {
		s.log.WithError(err).WithField("report", id).Error("get report")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if rec.ExpiresAt != nil && rec.ExpiresAt.Before(time.Now().UTC()) {
		writeError(w, http.StatusGone, "report expired")
		return
	}

	writeJSON(w, http.StatusOK, rec.Report)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func walletLengthOK(wallet string) bool {
	return len(wallet) >= minWalletLen && len(wallet) <= maxWalletLen
}

// validatePolicy bounds the user-controlled report knobs.
func validatePolicy(p domain.DisclosurePolicy) (string, bool) {
	if p.Title == "" || len(p.Title) > maxTitleLen {
		return "title must be 1-200 characters", false
	}
	if p.RangeVariation < 0 || p.RangeVariation > maxVariation {
		return "rangeVariation must be between 0 and 50", false
	}
	if p.ExpiresInDays < 0 || p.ExpiresInDays > maxExpiryDays {
		return "expiresInDays must be between 1 and 365", false
	}
	return "", true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
