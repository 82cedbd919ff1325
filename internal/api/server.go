// Package api serves processed clip results over HTTP and accepts new
// detection logs for processing.
package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/roadmetrics/traffic.report/internal/clipdb"
	"github.com/roadmetrics/traffic.report/internal/monitoring"
	"github.com/roadmetrics/traffic.report/internal/pipeline"
)

// ANSI escape codes for request logging
const colorCyan = "\033[36m"
const colorReset = "\033[0m"
const colorYellow = "\033[33m"
const colorBoldGreen = "\033[1;32m"
const colorBoldRed = "\033[1;31m"

// Server exposes the clip database and the processing pipeline.
// LogDir bounds the paths a process request may name.
type Server struct {
	db     *clipdb.DB
	runner *pipeline.Runner
	logDir string
	units  string
}

// NewServer builds a Server. units is the default display unit for
// speed values (kmph, mph or mps); requests can override it per call.
func NewServer(db *clipdb.DB, runner *pipeline.Runner, logDir, units string) *Server {
	return &Server{
		db:     db,
		runner: runner,
		logDir: logDir,
		units:  units,
	}
}

// ServeMux returns the route table.
func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/clips/process", s.processClip)
	mux.HandleFunc("/api/clips", s.listClips)
	mux.HandleFunc("/api/clips/", s.clipRoutes)
	mux.HandleFunc("/api/alerts", s.listAlerts)
	mux.HandleFunc("/api/healthz", s.healthz)
	return mux
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func statusCodeColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return colorBoldGreen + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 300 && statusCode < 400:
		return colorYellow + strconv.Itoa(statusCode) + colorReset
	default:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	}
}

// LoggingMiddleware logs method, path, status, and duration.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		monitoring.Logf(
			"[%s] %s %s%s%s %vms",
			statusCodeColor(lrw.statusCode), r.Method,
			colorCyan, r.RequestURI, colorReset,
			float64(time.Since(start).Nanoseconds())/1e6,
		)
	})
}
