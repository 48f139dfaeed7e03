package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"quote-quiz-service/internal/app"
	"quote-quiz-service/internal/domain"
)

type ResultsHandler struct {
	service *app.QuizService
	logger  *zap.SugaredLogger
}

func NewResultsHandler(service *app.QuizService, logger *zap.SugaredLogger) *ResultsHandler {
	return &ResultsHandler{service: service, logger: logger}
}

type resultsResponse struct {
	Results []domain.GameResult `json:"results"`
}

// ServeHTTP lists the results board. GET /results?limit=N
func (h *ResultsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "limit must be an integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	results, err := h.service.TopResults(r.Context(), limit)
	if err != nil {
		h.logger.Errorw("list results failed", "error", err)
		http.Error(w, "results unavailable", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resultsResponse{Results: results}); err != nil {
		h.logger.Warnw("write results failed", "error", err)
	}
}

// Healthz reports liveness.
func Healthz(w http.ResponseWriter, _ *http.Request) {
	_, _ = w.Write([]byte("ok"))
}
