package api

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/niveshquant/quantfolio/internal/api/handlers"
	"github.com/niveshquant/quantfolio/pkg/logger"
	"github.com/niveshquant/quantfolio/pkg/metrics"
)

// NewRouter wires every HTTP route to its handler and attaches the
// observation middleware.
func NewRouter(
	recHandler *handlers.RecommendationHandler,
	analyzeHandler *handlers.AnalyzeHandler,
	hub *handlers.Hub,
	m *metrics.Metrics,
	log *logger.Logger,
) http.Handler {
	r := mux.NewRouter()
	r.Use(observeRequests(log, m))
	r.Use(recoverPanics(log))

	r.HandleFunc("/health", handleHealth).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()

	// Run trigger
	api.HandleFunc("/analyze", analyzeHandler.Run).Methods("POST")

	// Recommendation reads. The literal routes register before the
	// weekId wildcard so "latest" never parses as a week.
	api.HandleFunc("/recommendations", recHandler.List).Methods("GET")
	api.HandleFunc("/recommendations/latest", recHandler.Latest).Methods("GET")
	api.HandleFunc("/recommendations/{weekId}", recHandler.GetByWeek).Methods("GET")
	api.HandleFunc("/recommendations/{weekId}/diff", recHandler.Diff).Methods("GET")

	// Run event stream
	r.HandleFunc("/ws", hub.Serve)

	return allowCORS(r)
}

// allowCORS answers preflight requests and tags responses so a browser
// dashboard served from another origin can read the API. It wraps the
// router from outside because mux method matching would reject OPTIONS
// before any route middleware ran.
func allowCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "quantfolio-api",
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// statusRecorder captures the response status for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

// Hijack forwards to the underlying writer. The websocket upgrade on
// /ws needs to take over the raw connection.
func (rec *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := rec.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	return hijacker.Hijack()
}

// routeTemplate resolves the mux route pattern for a request, falling
// back to the raw path for unmatched requests.
func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if template, err := route.GetPathTemplate(); err == nil {
			return template
		}
	}
	return r.URL.Path
}

// observeRequests logs each request and feeds the request metrics.
// Metric labels use the route template, not the raw path, so weekly
// report reads do not fan out into one series per week.
func observeRequests(log *logger.Logger, m *metrics.Metrics) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			elapsed := time.Since(start)
			m.RecordHTTPRequest(r.Method, routeTemplate(r), strconv.Itoa(rec.status), elapsed)
			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"status":   rec.status,
				"duration": elapsed,
			}).Debug("Request completed")
		})
	}
}

// recoverPanics converts a handler panic into a 500 response so one bad
// request cannot take the server down.
func recoverPanics(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if v := recover(); v != nil {
					log.WithFields(map[string]interface{}{
						"panic":  v,
						"method": r.Method,
						"path":   r.URL.Path,
					}).Error("Handler panicked")
					writeJSON(w, http.StatusInternalServerError, map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
