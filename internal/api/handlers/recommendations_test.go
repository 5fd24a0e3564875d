package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niveshquant/quantfolio/internal/contracts"
	"github.com/niveshquant/quantfolio/pkg/config"
	"github.com/niveshquant/quantfolio/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(&config.Config{LogLevel: "error", Env: "test"})
}

// memStore is an in-memory RecommendationStore for handler tests.
type memStore struct {
	recs map[string]*contracts.Recommendation
}

func newMemStore(recs ...*contracts.Recommendation) *memStore {
	s := &memStore{recs: make(map[string]*contracts.Recommendation)}
	for _, rec := range recs {
		s.recs[rec.WeekID] = rec
	}
	return s
}

func (s *memStore) Save(ctx context.Context, rec *contracts.Recommendation) error {
	s.recs[rec.WeekID] = rec
	return nil
}

func (s *memStore) GetLatest(ctx context.Context) (*contracts.Recommendation, error) {
	weeks, err := s.ListWeeks(ctx)
	if err != nil || len(weeks) == 0 {
		return nil, contracts.ErrNotFound
	}
	return s.recs[weeks[0]], nil
}

func (s *memStore) GetByWeek(ctx context.Context, weekID string) (*contracts.Recommendation, error) {
	rec, ok := s.recs[weekID]
	if !ok {
		return nil, contracts.ErrNotFound
	}
	return rec, nil
}

func (s *memStore) ListWeeks(ctx context.Context) ([]string, error) {
	weeks := make([]string, 0, len(s.recs))
	for week := range s.recs {
		weeks = append(weeks, week)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(weeks)))
	return weeks, nil
}

func weeklyRec(weekID string, condition contracts.MarketCondition, positions ...contracts.Position) *contracts.Recommendation {
	cash := 100.0
	for _, p := range positions {
		cash -= p.Weight
	}
	return &contracts.Recommendation{
		ID:              "run-" + weekID,
		WeekID:          weekID,
		GeneratedAt:     time.Date(2026, 8, 21, 18, 0, 0, 0, time.UTC),
		MarketCondition: condition,
		Allocation: contracts.PortfolioAllocation{
			Positions:   positions,
			CashPercent: cash,
		},
		Results: []contracts.CompositeResult{
			{Name: "Astral Polytechnik", NSECode: "ASTRAL", Composite: 74.2},
		},
	}
}

func position(name, code string, weight float64) contracts.Position {
	return contracts.Position{
		Name:    name,
		NSECode: code,
		Weight:  weight,
		Label:   "BUY",
	}
}

// get routes the request through a mux router so mux.Vars are populated
// the same way they are in production.
func get(t *testing.T, h *RecommendationHandler, path string) *httptest.ResponseRecorder {
	t.Helper()

	r := mux.NewRouter()
	r.HandleFunc("/recommendations", h.List).Methods(http.MethodGet)
	r.HandleFunc("/recommendations/latest", h.Latest).Methods(http.MethodGet)
	r.HandleFunc("/recommendations/{weekId}", h.GetByWeek).Methods(http.MethodGet)
	r.HandleFunc("/recommendations/{weekId}/diff", h.Diff).Methods(http.MethodGet)

	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestListWeeks(t *testing.T) {
	store := newMemStore(
		weeklyRec("2026-W33", contracts.Neutral),
		weeklyRec("2026-W34", contracts.Bullish),
	)
	h := NewRecommendationHandler(store, testLogger())

	w := get(t, h, "/recommendations")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Weeks []string `json:"weeks"`
		Count int      `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []string{"2026-W34", "2026-W33"}, body.Weeks)
	assert.Equal(t, 2, body.Count)
}

func TestLatestReturnsNewestWeek(t *testing.T) {
	store := newMemStore(
		weeklyRec("2026-W33", contracts.Neutral),
		weeklyRec("2026-W34", contracts.Bullish, position("Astral Polytechnik", "ASTRAL", 9.5)),
	)
	h := NewRecommendationHandler(store, testLogger())

	w := get(t, h, "/recommendations/latest")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var rec contracts.Recommendation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))
	assert.Equal(t, "2026-W34", rec.WeekID)
	assert.Equal(t, contracts.Bullish, rec.MarketCondition)
}

func TestLatestEmptyStoreReturns404(t *testing.T) {
	h := NewRecommendationHandler(newMemStore(), testLogger())

	w := get(t, h, "/recommendations/latest")
	require.Equal(t, http.StatusNotFound, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "no recommendation")
}

func TestGetByWeek(t *testing.T) {
	store := newMemStore(weeklyRec("2026-W34", contracts.Neutral))
	h := NewRecommendationHandler(store, testLogger())

	w := get(t, h, "/recommendations/2026-W34")
	require.Equal(t, http.StatusOK, w.Code)

	var rec contracts.Recommendation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))
	assert.Equal(t, "2026-W34", rec.WeekID)
}

func TestGetByWeekUnknownWeekReturns404(t *testing.T) {
	store := newMemStore(weeklyRec("2026-W34", contracts.Neutral))
	h := NewRecommendationHandler(store, testLogger())

	w := get(t, h, "/recommendations/2025-W01")
	require.Equal(t, http.StatusNotFound, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "2025-W01")
}

func TestCompactResponseOmitsResults(t *testing.T) {
	store := newMemStore(weeklyRec("2026-W34", contracts.Neutral))
	h := NewRecommendationHandler(store, testLogger())

	w := get(t, h, "/recommendations/2026-W34")
	require.Equal(t, http.StatusOK, w.Code)

	var rec contracts.Recommendation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))
	assert.Empty(t, rec.Results)

	// The stored copy keeps its rows, only the response is trimmed.
	stored, err := store.GetByWeek(context.Background(), "2026-W34")
	require.NoError(t, err)
	assert.Len(t, stored.Results, 1)
}

func TestFullQueryKeepsResults(t *testing.T) {
	store := newMemStore(weeklyRec("2026-W34", contracts.Neutral))
	h := NewRecommendationHandler(store, testLogger())

	w := get(t, h, "/recommendations/2026-W34?full=true")
	require.Equal(t, http.StatusOK, w.Code)

	var rec contracts.Recommendation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))
	require.Len(t, rec.Results, 1)
	assert.Equal(t, "ASTRAL", rec.Results[0].NSECode)
}

func TestDiffAgainstPreviousWeek(t *testing.T) {
	store := newMemStore(
		weeklyRec("2026-W33", contracts.Neutral,
			position("Astral Polytechnik", "ASTRAL", 8.0),
			position("Fine Organic", "FINEORG", 7.0),
		),
		weeklyRec("2026-W34", contracts.Bullish,
			position("Astral Polytechnik", "ASTRAL", 10.5),
			position("Pidilite Industries", "PIDILITIND", 6.0),
		),
	)
	h := NewRecommendationHandler(store, testLogger())

	w := get(t, h, "/recommendations/2026-W34/diff")
	require.Equal(t, http.StatusOK, w.Code)

	var diff contracts.RecommendationDiff
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &diff))
	assert.Equal(t, "2026-W34", diff.CurrentWeek)
	assert.Equal(t, "2026-W33", diff.PreviousWeek)
	assert.Equal(t, []string{"Pidilite Industries"}, diff.Added)
	assert.Equal(t, []string{"Fine Organic"}, diff.Removed)
	require.Len(t, diff.Changes, 1)
	assert.Equal(t, "Astral Polytechnik", diff.Changes[0].Name)
	assert.InDelta(t, 2.5, diff.Changes[0].Delta, 1e-9)
	assert.True(t, diff.RegimeChanged)
}

func TestDiffOldestWeekHasNoPrevious(t *testing.T) {
	store := newMemStore(
		weeklyRec("2026-W34", contracts.Neutral,
			position("Astral Polytechnik", "ASTRAL", 10.5),
		),
	)
	h := NewRecommendationHandler(store, testLogger())

	w := get(t, h, "/recommendations/2026-W34/diff")
	require.Equal(t, http.StatusOK, w.Code)

	var diff contracts.RecommendationDiff
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &diff))
	assert.Empty(t, diff.PreviousWeek)
	assert.Equal(t, []string{"Astral Polytechnik"}, diff.Added)
	assert.Empty(t, diff.Removed)
}

func TestDiffUnknownWeekReturns404(t *testing.T) {
	h := NewRecommendationHandler(newMemStore(), testLogger())

	w := get(t, h, "/recommendations/2026-W34/diff")
	require.Equal(t, http.StatusNotFound, w.Code)
}
