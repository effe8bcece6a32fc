// Package api serves the HTTP front end: a single POST /meta endpoint
// that runs the full caption-to-metadata pipeline, plus health and info.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/anatolykoptev/go_ytmeta/internal/engine"
)

type metaRequest struct {
	URL string `json:"url"`
}

type metaResponse struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	FilePath    string `json:"file_path"`
}

// NewHandler builds the HTTP mux for the REST API.
func NewHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /meta", handleMeta)
	mux.HandleFunc("GET /health", handleHealth)
	mux.HandleFunc("GET /{$}", handleRoot)
	return withCORS(mux)
}

// Serve runs the REST API on addr until the listener fails.
// The write timeout is generous: a cold request covers caption
// download plus LLM generation with retries.
func Serve(addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      NewHandler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 600 * time.Second,
	}
	slog.Info("rest api listening", "addr", addr)
	return srv.ListenAndServe()
}

func handleMeta(w http.ResponseWriter, r *http.Request) {
	var req metaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.URL == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}

	res, err := engine.ProcessVideo(r.Context(), req.URL)
	if err != nil {
		kind := engine.KindOf(err)
		slog.Error("pipeline failed", "url", req.URL, "kind", kind, "error", err)
		writeError(w, kind.HTTPStatus(), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, metaResponse{
		Title:       res.Title,
		Description: res.Description,
		FilePath:    res.FilePath,
	})
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "go_ytmeta",
	})
}

func handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"service":   "go_ytmeta",
		"endpoints": []string{"POST /meta", "GET /health"},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
