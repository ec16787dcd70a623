package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bobmcallan/prism/internal/common"
	"github.com/bobmcallan/prism/internal/interfaces"
	"github.com/bobmcallan/prism/internal/models"
)

// --- Research handlers ---

func (s *Server) handleResearch(w http.ResponseWriter, r *http.Request, ticker string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		WriteError(w, http.StatusBadRequest, "Ticker is required")
		return
	}

	report, err := s.fetchReport(r, ticker)
	if err != nil {
		WriteError(w, http.StatusBadGateway, fmt.Sprintf("Research failed: %v", err))
		return
	}

	WriteJSON(w, http.StatusOK, report)
}

func (s *Server) handleResearchSection(w http.ResponseWriter, r *http.Request, ticker, section string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		WriteError(w, http.StatusBadRequest, "Ticker is required")
		return
	}

	report, err := s.fetchReport(r, ticker)
	if err != nil {
		WriteError(w, http.StatusBadGateway, fmt.Sprintf("Research failed: %v", err))
		return
	}

	var result interface{}
	switch section {
	case "technical":
		result = report.Technical
	case "fundamental":
		result = report.Fundamental
	case "risk":
		result = report.Risk
	case "sentiment":
		result = report.Sentiment
	case "summary":
		result = report.Summary
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"ticker":       report.Ticker,
		"generated_at": report.GeneratedAt,
		section:        result,
	})
}

// fetchReport serves the persisted report unless ?refresh=true, in which
// case the full pipeline runs again.
func (s *Server) fetchReport(r *http.Request, ticker string) (*models.ResearchReport, error) {
	refresh := r.URL.Query().Get("refresh") == "true"

	if !refresh {
		if report, err := s.app.ResearchService.GetReport(r.Context(), ticker); err == nil {
			return report, nil
		}
	}

	return s.app.ResearchService.Research(r.Context(), ticker, interfaces.ResearchOptions{
		ForceRefresh: refresh,
		IncludeNews:  true,
	})
}

func (s *Server) handleResearchChart(w http.ResponseWriter, r *http.Request, ticker string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		WriteError(w, http.StatusBadRequest, "Ticker is required")
		return
	}

	png, err := s.app.ResearchService.RenderPriceChart(r.Context(), ticker)
	if err != nil {
		WriteError(w, http.StatusBadGateway, fmt.Sprintf("Chart render failed: %v", err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

func (s *Server) handleReportList(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	reports, err := s.app.Storage.ReportStorage().ListReports(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error listing reports: %v", err))
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"reports": reports,
	})
}

// --- System handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(s.app.StartupTime).Round(time.Second).String(),
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}
