// Package server exposes the scoring engine over a local HTTP surface:
// upload the OCC/LOAD files, set thresholds, trigger a run, fetch the
// results as JSON or download the CSV tables.
package server

import (
	"net/http"
	"sync"

	"mvcalc/internal/scoring"

	"github.com/gorilla/mux"
)

// Server holds the defaults for new runs and the report of the last
// completed run. Runs themselves are synchronous; the mutex only guards
// the stored report against a download racing an upload.
type Server struct {
	defaults scoring.Engine

	mu   sync.RWMutex
	last *scoring.RunReport
}

// New creates a Server whose form fields default to the given engine
// configuration.
func New(defaults scoring.Engine) *Server {
	return &Server{defaults: defaults}
}

func (s *Server) setReport(rep *scoring.RunReport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = rep
}

func (s *Server) report() *scoring.RunReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

// Router builds the HTTP routing table.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()

	r.Handle("/api/analyze", s.analyzeHandler()).Methods("POST")
	r.Handle("/api/report", s.reportHandler()).Methods("GET")
	r.Handle("/download/windows", s.downloadHandler(downloadWindows)).Methods("GET")
	r.Handle("/download/daily", s.downloadHandler(downloadDaily)).Methods("GET")
	r.Handle("/", s.indexHandler()).Methods("GET")

	return r
}
