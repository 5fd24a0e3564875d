package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/niveshquant/quantfolio/internal/contracts"
	"github.com/niveshquant/quantfolio/internal/recommend"
	"github.com/niveshquant/quantfolio/pkg/logger"
)

// RecommendationHandler serves stored weekly recommendations.
type RecommendationHandler struct {
	store  contracts.RecommendationStore
	logger *logger.Logger
}

// NewRecommendationHandler creates a recommendation handler.
func NewRecommendationHandler(store contracts.RecommendationStore, log *logger.Logger) *RecommendationHandler {
	return &RecommendationHandler{
		store:  store,
		logger: log,
	}
}

// List returns the stored week IDs, newest first.
func (h *RecommendationHandler) List(w http.ResponseWriter, r *http.Request) {
	weeks, err := h.store.ListWeeks(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to list recommendation weeks")
		respondError(w, http.StatusInternalServerError, "failed to list weeks")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"weeks": weeks,
		"count": len(weeks),
	})
}

// Latest returns the most recent recommendation.
func (h *RecommendationHandler) Latest(w http.ResponseWriter, r *http.Request) {
	rec, err := h.store.GetLatest(r.Context())
	if err != nil {
		if errors.Is(err, contracts.ErrNotFound) {
			respondError(w, http.StatusNotFound, "no recommendation generated yet")
			return
		}
		h.logger.WithError(err).Error("Failed to load latest recommendation")
		respondError(w, http.StatusInternalServerError, "failed to load recommendation")
		return
	}

	respondJSON(w, http.StatusOK, compact(rec, r))
}

// GetByWeek returns the recommendation for one ISO week, e.g. 2026-W34.
func (h *RecommendationHandler) GetByWeek(w http.ResponseWriter, r *http.Request) {
	weekID := mux.Vars(r)["weekId"]

	rec, err := h.store.GetByWeek(r.Context(), weekID)
	if err != nil {
		if errors.Is(err, contracts.ErrNotFound) {
			respondError(w, http.StatusNotFound, fmt.Sprintf("no recommendation for week %s", weekID))
			return
		}
		h.logger.WithError(err).WithField("week_id", weekID).Error("Failed to load recommendation")
		respondError(w, http.StatusInternalServerError, "failed to load recommendation")
		return
	}

	respondJSON(w, http.StatusOK, compact(rec, r))
}

// Diff compares one week's recommendation against the most recent stored
// week before it.
func (h *RecommendationHandler) Diff(w http.ResponseWriter, r *http.Request) {
	weekID := mux.Vars(r)["weekId"]

	current, err := h.store.GetByWeek(r.Context(), weekID)
	if err != nil {
		if errors.Is(err, contracts.ErrNotFound) {
			respondError(w, http.StatusNotFound, fmt.Sprintf("no recommendation for week %s", weekID))
			return
		}
		h.logger.WithError(err).WithField("week_id", weekID).Error("Failed to load recommendation for diff")
		respondError(w, http.StatusInternalServerError, "failed to load recommendation")
		return
	}

	previous, err := h.previousWeek(r.Context(), weekID)
	if err != nil {
		h.logger.WithError(err).WithField("week_id", weekID).Error("Failed to resolve previous week")
		respondError(w, http.StatusInternalServerError, "failed to resolve previous week")
		return
	}

	respondJSON(w, http.StatusOK, recommend.Compare(current, previous))
}

// previousWeek loads the newest stored recommendation older than weekID.
// Returns nil when weekID is the oldest week on record. Week IDs zero
// pad the week number, so string comparison is calendar comparison.
func (h *RecommendationHandler) previousWeek(ctx context.Context, weekID string) (*contracts.Recommendation, error) {
	weeks, err := h.store.ListWeeks(ctx)
	if err != nil {
		return nil, err
	}

	for _, week := range weeks {
		if week < weekID {
			return h.store.GetByWeek(ctx, week)
		}
	}
	return nil, nil
}

// compact strips the per-stock result rows unless the caller asked for
// them with ?full=true. The ranked rows dwarf the rest of the payload.
func compact(rec *contracts.Recommendation, r *http.Request) *contracts.Recommendation {
	if r.URL.Query().Get("full") == "true" {
		return rec
	}
	trimmed := *rec
	trimmed.Results = nil
	return &trimmed
}

// respondJSON writes data as a JSON response with the given status.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			http.Error(w, "failed to encode response", http.StatusInternalServerError)
		}
	}
}

// respondError writes a JSON error envelope.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
