package api

import (
	"errors"
	"net/http"

	"github.com/papapumpkin/triage/internal/intake"
	"github.com/papapumpkin/triage/internal/ranking"
	"github.com/papapumpkin/triage/internal/scoring"
	"github.com/papapumpkin/triage/internal/telemetry"
)

// strategy resolves the ?strategy= query parameter. An absent parameter
// selects the configured default; an unknown name selects SmartBalance.
func (s *Server) strategy(r *http.Request) scoring.Strategy {
	name := r.URL.Query().Get("strategy")
	if name == "" {
		return s.opts.DefaultStrategy
	}
	return scoring.ParseStrategy(name)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	strategy := s.strategy(r)
	body := http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes)

	tasks, err := intake.Parse(body, s.opts.Intake)
	if err != nil {
		s.rejectIntake(w, r, err)
		return
	}

	ranked, err := s.ranker.Analyze(tasks, strategy)
	var cycleErr *ranking.CycleError
	switch {
	case errors.As(err, &cycleErr):
		analyzeRejections.WithLabelValues(telemetry.ReasonCycle).Inc()
		s.emit(r, telemetry.Event{
			Kind: telemetry.KindRejected,
			Data: telemetry.Rejection{Reason: telemetry.ReasonCycle, Count: len(cycleErr.Cycle)},
		})
		s.logger.InfoContext(ctx, "analyze rejected", "request_id", RequestID(ctx), "cycle", cycleErr.Cycle)
		writeError(w, r, s.logger, http.StatusBadRequest, errorResponse{
			Error: cycleErr.Error(),
			Cycle: cycleErr.Cycle,
		})
		return
	case err != nil:
		s.logger.ErrorContext(ctx, "analyze failed", "request_id", RequestID(ctx), "error", err)
		writeError(w, r, s.logger, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
		return
	}

	s.observeScores(strategy, ranked)
	s.emit(r, telemetry.Event{
		Kind:     telemetry.KindAnalyzed,
		Strategy: strategy.String(),
		Data:     telemetry.Analysis{Tasks: len(ranked), TopScore: topScore(ranked)},
	})

	writeJSON(w, r, s.logger, http.StatusOK, analyzeResponse{Tasks: ranked, Strategy: strategy})
}

// rejectIntake answers a request whose body failed to parse or validate.
func (s *Server) rejectIntake(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()

	var (
		malformed *intake.MalformedError
		batch     *intake.BatchError
		tooLarge  *http.MaxBytesError
	)
	switch {
	case errors.As(err, &tooLarge):
		s.reject(r, telemetry.Rejection{Reason: telemetry.ReasonMalformed})
		writeError(w, r, s.logger, http.StatusBadRequest, errorResponse{Error: "Request body too large"})
	case errors.As(err, &malformed):
		s.reject(r, telemetry.Rejection{Reason: telemetry.ReasonMalformed})
		writeError(w, r, s.logger, http.StatusBadRequest, errorResponse{Error: malformed.Reason})
	case errors.As(err, &batch):
		s.reject(r, telemetry.Rejection{Reason: telemetry.ReasonValidation, Count: len(batch.Tasks)})
		writeError(w, r, s.logger, http.StatusBadRequest, errorResponse{
			Error:   "Invalid task data",
			Details: batch.Tasks,
		})
	default:
		s.logger.ErrorContext(ctx, "reading tasks", "request_id", RequestID(ctx), "error", err)
		writeError(w, r, s.logger, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
		return
	}
	s.logger.InfoContext(ctx, "analyze rejected", "request_id", RequestID(ctx), "error", err)
}

func (s *Server) reject(r *http.Request, rej telemetry.Rejection) {
	analyzeRejections.WithLabelValues(rej.Reason).Inc()
	s.emit(r, telemetry.Event{Kind: telemetry.KindRejected, Data: rej})
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	strategy := s.strategy(r)

	sug, err := s.ranker.Suggest(strategy, s.opts.SuggestLimit)
	if err != nil {
		s.logger.ErrorContext(ctx, "suggest failed", "request_id", RequestID(ctx), "error", err)
		writeError(w, r, s.logger, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
		return
	}

	s.observeScores(strategy, sug.Tasks)
	s.emit(r, telemetry.Event{
		Kind:     telemetry.KindSuggested,
		Strategy: strategy.String(),
		Data:     telemetry.Analysis{Tasks: len(sug.Tasks), TopScore: topScore(sug.Tasks)},
	})
	writeJSON(w, r, s.logger, http.StatusOK, sug)
}

func (s *Server) handleStrategies(w http.ResponseWriter, r *http.Request) {
	all := scoring.Strategies()
	out := make([]strategyInfo, len(all))
	for i, st := range all {
		out[i] = strategyInfo{
			Name:        st.String(),
			DisplayName: st.DisplayName(),
			Default:     st == s.opts.DefaultStrategy,
			Weights:     st.Weights(),
		}
	}
	writeJSON(w, r, s.logger, http.StatusOK, out)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) observeScores(strategy scoring.Strategy, tasks []ranking.ScoredTask) {
	name := strategy.String()
	tasksScored.WithLabelValues(name).Add(float64(len(tasks)))
	hist := priorityScores.WithLabelValues(name)
	for _, t := range tasks {
		hist.Observe(t.PriorityScore)
	}
}

func (s *Server) emit(r *http.Request, evt telemetry.Event) {
	evt.RequestID = RequestID(r.Context())
	if err := s.events.Emit(evt); err != nil {
		s.logger.WarnContext(r.Context(), "recording event", "error", err)
	}
}

func topScore(tasks []ranking.ScoredTask) float64 {
	if len(tasks) == 0 {
		return 0
	}
	return tasks[0].PriorityScore
}
