package server

import (
	"net/http"
	"strings"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)

	// Research
	mux.HandleFunc("/api/reports", s.handleReportList)
	mux.HandleFunc("/api/research/", s.routeResearch)
}

// routeResearch dispatches /api/research/{ticker},
// /api/research/{ticker}/chart, and /api/research/{ticker}/{section}.
func (s *Server) routeResearch(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/research/")
	if rest == "" {
		WriteError(w, http.StatusBadRequest, "Ticker is required")
		return
	}

	ticker, section, hasSection := strings.Cut(rest, "/")

	if !hasSection {
		s.handleResearch(w, r, ticker)
		return
	}

	switch section {
	case "chart":
		s.handleResearchChart(w, r, ticker)
	case "technical", "fundamental", "risk", "sentiment", "summary":
		s.handleResearchSection(w, r, ticker, section)
	default:
		WriteError(w, http.StatusNotFound, "Not found")
	}
}
