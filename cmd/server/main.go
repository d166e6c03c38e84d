package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Simplici0/expensegen/internal/config"
	"github.com/Simplici0/expensegen/internal/inventory"
	"github.com/Simplici0/expensegen/internal/logging"
	"github.com/Simplici0/expensegen/internal/report"
)

// maxEntries bounds the entry count a single request may ask for.
const maxEntries = 10000

type server struct {
	auth      *authService
	cfg       config.Config
	inventory inventory.Inventory
	logger    *log.Logger
}

type createReportRequest struct {
	Entries   *int                `json:"entries"`
	ItemFmt   string              `json:"item_fmt"`
	AutoAlign *bool               `json:"auto_align"`
	Template  []string            `json:"template"`
	Fields    map[string]string   `json:"fields"`
	Inventory inventory.Inventory `json:"inventory"`
}

type reportResponse struct {
	ID    string `json:"id"`
	Total string `json:"total"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func main() {
	cfg := config.Load()
	logger := logging.New(os.Stderr, "expense-server", cfg.LogLevel)
	cfg.Warn(logger)

	if err := os.MkdirAll(cfg.ReportDir, 0o755); err != nil {
		logger.Fatal("failed to create report directory", "dir", cfg.ReportDir, "err", err)
	}

	var inv inventory.Inventory
	if cfg.InventoryPath != "" {
		loaded, err := inventory.Load(cfg.InventoryPath)
		if err != nil {
			logger.Fatal("failed to load inventory", "err", err)
		}
		inv = loaded
	}

	srv := newServer(cfg, inv, logger)

	addr := ":" + cfg.Port
	logger.Info("listening", "addr", addr, "reports", cfg.ReportDir)
	if err := http.ListenAndServe(addr, srv.routes()); err != nil {
		logger.Fatal("server stopped", "err", err)
	}
}

func newServer(cfg config.Config, inv inventory.Inventory, logger *log.Logger) *server {
	return &server{
		auth:      newAuthService(cfg.AdminEmail, cfg.AdminPassword, cfg.SessionSecret),
		cfg:       cfg,
		inventory: inv,
		logger:    logger,
	}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.authMiddleware)
	r.Get("/healthz", s.handleHealth)
	r.Post("/login", s.handleLoginSubmit)
	r.Post("/logout", s.handleLogout)
	r.Post("/reports", s.handleCreateReport)
	r.Get("/reports/{id}", s.handleGetReport)
	r.Get("/reports/{id}/total", s.handleReportTotal)
	return r
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleLoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid form"})
		return
	}

	email := r.FormValue("email")
	if !s.auth.validateCredentials(email, r.FormValue("password")) {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid credentials"})
		return
	}

	s.auth.setSessionCookie(w, email)
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.auth.clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleCreateReport(w http.ResponseWriter, r *http.Request) {
	var req createReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	engine, err := s.engineFor(req)
	if err != nil {
		s.writeError(w, err)
		return
	}

	id := uuid.NewString()
	path := s.reportPath(id)
	if err := engine.GenerateReport(path, req.Fields); err != nil {
		s.writeError(w, err)
		return
	}

	total, err := engine.CalculateTotal(path)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.logger.Info("report generated", "id", id, "entries", engine.Entries, "total", total)
	writeJSON(w, http.StatusCreated, reportResponse{ID: id, Total: total})
}

func (s *server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	id, ok := s.reportID(w, r)
	if !ok {
		return
	}

	data, err := os.ReadFile(s.reportPath(id))
	if errors.Is(err, os.ErrNotExist) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "report not found"})
		return
	}
	if err != nil {
		s.writeError(w, &report.FileAccessError{Op: "read report", Path: id, Err: err})
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write(data)
}

func (s *server) handleReportTotal(w http.ResponseWriter, r *http.Request) {
	id, ok := s.reportID(w, r)
	if !ok {
		return
	}

	engine, err := report.New(s.inventory, 0, report.WithLogger(s.logger))
	if err != nil {
		s.writeError(w, err)
		return
	}
	engine.ItemFmt = s.cfg.ItemFmt
	if itemFmt := r.URL.Query().Get("item_fmt"); itemFmt != "" {
		engine.ItemFmt = itemFmt
	}

	total, err := engine.CalculateTotal(s.reportPath(id))
	if errors.Is(err, os.ErrNotExist) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "report not found"})
		return
	}
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, reportResponse{ID: id, Total: total})
}

// engineFor builds a fresh engine per request so no engine is shared
// between goroutines.
func (s *server) engineFor(req createReportRequest) (*report.Engine, error) {
	entries := s.cfg.Entries
	if req.Entries != nil {
		entries = *req.Entries
	}
	if entries < 0 || entries > maxEntries {
		return nil, badRequest(fmt.Sprintf("entries must be between 0 and %d", maxEntries))
	}

	inv := s.inventory
	if len(req.Inventory) > 0 {
		inv = req.Inventory
	}

	engine, err := report.New(inv, entries, report.WithLogger(s.logger))
	if err != nil {
		return nil, err
	}
	engine.ItemFmt = s.cfg.ItemFmt
	if req.ItemFmt != "" {
		engine.ItemFmt = req.ItemFmt
	}
	engine.AutoAlign = s.cfg.AutoAlign
	if req.AutoAlign != nil {
		engine.AutoAlign = *req.AutoAlign
	}
	if len(req.Template) > 0 {
		engine.Template = req.Template
	}
	return engine, nil
}

func (s *server) reportID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "report not found"})
		return "", false
	}
	return id.String(), true
}

func (s *server) reportPath(id string) string {
	return filepath.Join(s.cfg.ReportDir, id+".txt")
}

type badRequest string

func (e badRequest) Error() string { return string(e) }

func (s *server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var br badRequest
	switch {
	case errors.As(err, &br),
		errors.Is(err, report.ErrMissingPlaceholder),
		errors.Is(err, report.ErrMissingField),
		errors.Is(err, report.ErrMalformedTemplate):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.auth.enabled() || r.URL.Path == "/login" || r.URL.Path == "/healthz" {
			next.ServeHTTP(w, r)
			return
		}

		if !s.auth.isAuthenticated(r) {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "login required"})
			return
		}

		next.ServeHTTP(w, r)
	})
}
