package web

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"codewatch/internal/database"
	"codewatch/internal/monitor"
)

type Handler struct {
	service *monitor.Service
	repo    *database.Repository
}

func NewHandler(svc *monitor.Service, repo *database.Repository) *Handler {
	return &Handler{
		service: svc,
		repo:    repo,
	}
}

func (h *Handler) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/status", h.handleStatus)
	mux.HandleFunc("/api/engagements", h.handleEngagements)
	mux.HandleFunc("/api/errors", h.handleErrors)

	mux.HandleFunc("/health", h.handleHealth)

	mux.HandleFunc("/", h.handleIndex)
}

// handleStatus returns the live tracker snapshot
func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	respondJSON(w, h.service.Snapshot())
}

// handleEngagements returns recent deep-mode engagement attempts.
// Accepts ?limit=N or ?since=RFC3339 to scope the query.
func (h *Handler) handleEngagements(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if h.repo == nil {
		http.Error(w, "Journal not available", http.StatusServiceUnavailable)
		return
	}

	if sinceStr := r.URL.Query().Get("since"); sinceStr != "" {
		since, err := time.Parse(time.RFC3339, sinceStr)
		if err != nil {
			http.Error(w, fmt.Sprintf("Invalid since parameter: %v", err), http.StatusBadRequest)
			return
		}
		attempts, err := h.repo.EngageAttemptsSince(since)
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to fetch engagements: %v", err), http.StatusInternalServerError)
			return
		}
		respondJSON(w, attempts)
		return
	}

	limit := 20
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}

	attempts, err := h.repo.RecentEngageAttempts(limit)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to fetch engagements: %v", err), http.StatusInternalServerError)
		return
	}

	respondJSON(w, attempts)
}

// handleErrors returns recent journaled errors
func (h *Handler) handleErrors(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if h.repo == nil {
		http.Error(w, "Journal not available", http.StatusServiceUnavailable)
		return
	}

	limit := 20
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}

	logs, err := h.repo.RecentErrors(limit)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to fetch errors: %v", err), http.StatusInternalServerError)
		return
	}

	respondJSON(w, logs)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]any{
		"status": "ok",
		"time":   time.Now(),
	})
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	respondJSON(w, map[string]any{
		"name": "codewatch",
		"endpoints": []string{
			"/api/status",
			"/api/engagements",
			"/api/errors",
			"/health",
		},
	})
}

func respondJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Failed to encode JSON response: %v", err)
	}
}
