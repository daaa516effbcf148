package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

type askRequest struct {
	Query string `json:"query"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleAsk answers POST /api/ask. Malformed input is a request-validation
// error at this boundary; everything past it always produces a well-formed
// {answer, sources} body.
func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}

	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "request body must be JSON with a query field"})
		return
	}
	query := strings.TrimSpace(req.Query)
	if query == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "query must be a non-empty string"})
		return
	}

	start := time.Now()
	answer := s.answer.Answer(r.Context(), query)

	s.logger.Info().
		Int("sources", len(answer.Sources)).
		Dur("elapsed", time.Since(start)).
		Msg("question answered")

	writeJSON(w, http.StatusOK, answer)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
