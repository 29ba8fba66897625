package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/papapumpkin/triage/internal/intake"
	"github.com/papapumpkin/triage/internal/ranking"
	"github.com/papapumpkin/triage/internal/scoring"
)

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Error   string             `json:"error"`
	Details []intake.TaskError `json:"details,omitempty"`
	Cycle   []string           `json:"cycle,omitempty"`
}

type analyzeResponse struct {
	Tasks    []ranking.ScoredTask `json:"tasks"`
	Strategy scoring.Strategy     `json:"strategy"`
}

type strategyInfo struct {
	Name        string          `json:"name"`
	DisplayName string          `json:"display_name"`
	Default     bool            `json:"default"`
	Weights     scoring.Weights `json:"weights"`
}

// writeJSON writes v with the given status. Encoding failures can only be
// logged since the header is already sent.
func writeJSON(w http.ResponseWriter, r *http.Request, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.ErrorContext(r.Context(), "writing response", "error", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, status int, body errorResponse) {
	writeJSON(w, r, logger, status, body)
}
