package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/prism/internal/app"
	"github.com/bobmcallan/prism/internal/common"
	"github.com/bobmcallan/prism/internal/interfaces"
	"github.com/bobmcallan/prism/internal/models"
	"github.com/bobmcallan/prism/internal/storage"
)

// stubResearch implements interfaces.ResearchService with canned results.
type stubResearch struct {
	report      *models.ResearchReport
	stored      *models.ResearchReport
	chart       []byte
	researchErr error

	researchCalls int
	lastOptions   interfaces.ResearchOptions
}

func (s *stubResearch) Research(ctx context.Context, ticker string, options interfaces.ResearchOptions) (*models.ResearchReport, error) {
	s.researchCalls++
	s.lastOptions = options
	if s.researchErr != nil {
		return nil, s.researchErr
	}
	return s.report, nil
}

func (s *stubResearch) GetReport(ctx context.Context, ticker string) (*models.ResearchReport, error) {
	if s.stored == nil {
		return nil, errors.New("report not found")
	}
	return s.stored, nil
}

func (s *stubResearch) RenderPriceChart(ctx context.Context, ticker string) ([]byte, error) {
	if s.chart == nil {
		return nil, errors.New("no chart")
	}
	return s.chart, nil
}

func sampleReport(ticker string) *models.ResearchReport {
	return &models.ResearchReport{
		Ticker:      ticker,
		GeneratedAt: time.Now(),
		Summary: &models.Summary{
			Rating: "Buy",
			Scores: models.DomainScores{Technical: 7, Fundamental: 6, Risk: 5, Sentiment: 6},
		},
	}
}

func newTestServer(t *testing.T, research *stubResearch) *Server {
	t.Helper()

	config := common.NewDefaultConfig()
	config.Storage.Path = t.TempDir()

	manager, err := storage.NewManager(common.NewSilentLogger(), config)
	require.NoError(t, err)
	t.Cleanup(func() { manager.Close() })

	a := &app.App{
		Config:          config,
		Logger:          common.NewSilentLogger(),
		Storage:         manager,
		ResearchService: research,
		StartupTime:     time.Now(),
	}
	return NewServer(a)
}

func doRequest(s *Server, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHandleResearch(t *testing.T) {
	research := &stubResearch{report: sampleReport("AAPL.US")}
	s := newTestServer(t, research)

	rec := doRequest(s, http.MethodGet, "/api/research/aapl.us")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var report models.ResearchReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, "AAPL.US", report.Ticker)
	assert.Equal(t, "Buy", report.Summary.Rating)
	assert.Equal(t, 1, research.researchCalls)
	assert.True(t, research.lastOptions.IncludeNews)
	assert.False(t, research.lastOptions.ForceRefresh)
}

func TestHandleResearchServesPersistedReport(t *testing.T) {
	research := &stubResearch{stored: sampleReport("AAPL.US")}
	s := newTestServer(t, research)

	rec := doRequest(s, http.MethodGet, "/api/research/AAPL.US")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, research.researchCalls, "persisted report served without re-running research")
}

func TestHandleResearchRefreshBypassesStored(t *testing.T) {
	research := &stubResearch{
		stored: sampleReport("AAPL.US"),
		report: sampleReport("AAPL.US"),
	}
	s := newTestServer(t, research)

	rec := doRequest(s, http.MethodGet, "/api/research/AAPL.US?refresh=true")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, research.researchCalls)
	assert.True(t, research.lastOptions.ForceRefresh)
}

func TestHandleResearchFailure(t *testing.T) {
	research := &stubResearch{researchErr: errors.New("upstream down")}
	s := newTestServer(t, research)

	rec := doRequest(s, http.MethodGet, "/api/research/AAPL.US")
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "upstream down")
}

func TestHandleResearchMethodNotAllowed(t *testing.T) {
	s := newTestServer(t, &stubResearch{report: sampleReport("AAPL.US")})

	rec := doRequest(s, http.MethodPost, "/api/research/AAPL.US")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodGet, rec.Header().Get("Allow"))
}

func TestHandleResearchMissingTicker(t *testing.T) {
	s := newTestServer(t, &stubResearch{})

	rec := doRequest(s, http.MethodGet, "/api/research/")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleResearchUnknownPath(t *testing.T) {
	s := newTestServer(t, &stubResearch{})

	rec := doRequest(s, http.MethodGet, "/api/research/AAPL.US/extra/bits")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleResearchSection(t *testing.T) {
	research := &stubResearch{stored: sampleReport("AAPL.US")}
	s := newTestServer(t, research)

	rec := doRequest(s, http.MethodGet, "/api/research/AAPL.US/summary")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Ticker  string          `json:"ticker"`
		Summary *models.Summary `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "AAPL.US", resp.Ticker)
	require.NotNil(t, resp.Summary)
	assert.Equal(t, "Buy", resp.Summary.Rating)
	assert.Zero(t, research.researchCalls)
}

func TestHandleResearchSectionAbsentDomain(t *testing.T) {
	research := &stubResearch{stored: sampleReport("AAPL.US")}
	s := newTestServer(t, research)

	rec := doRequest(s, http.MethodGet, "/api/research/AAPL.US/risk")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Nil(t, resp["risk"], "domain that did not run serializes as null")
}

func TestHandleResearchSectionUnknown(t *testing.T) {
	s := newTestServer(t, &stubResearch{stored: sampleReport("AAPL.US")})

	rec := doRequest(s, http.MethodGet, "/api/research/AAPL.US/astrology")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleResearchChart(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G'}
	s := newTestServer(t, &stubResearch{chart: png})

	rec := doRequest(s, http.MethodGet, "/api/research/AAPL.US/chart")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, png, rec.Body.Bytes())
}

func TestHandleResearchChartFailure(t *testing.T) {
	s := newTestServer(t, &stubResearch{})

	rec := doRequest(s, http.MethodGet, "/api/research/AAPL.US/chart")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestHandleReportList(t *testing.T) {
	s := newTestServer(t, &stubResearch{})
	ctx := context.Background()

	require.NoError(t, s.app.Storage.ReportStorage().SaveReport(ctx, sampleReport("MSFT.US")))
	require.NoError(t, s.app.Storage.ReportStorage().SaveReport(ctx, sampleReport("AAPL.US")))

	rec := doRequest(s, http.MethodGet, "/api/reports")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Reports []*models.ResearchReport `json:"reports"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Reports, 2)
	assert.Equal(t, "AAPL.US", resp.Reports[0].Ticker)
	assert.Equal(t, "MSFT.US", resp.Reports[1].Ticker)
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t, &stubResearch{})

	rec := doRequest(s, http.MethodGet, "/api/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.NotEmpty(t, resp["uptime"])
}

func TestHandleVersion(t *testing.T) {
	s := newTestServer(t, &stubResearch{})

	rec := doRequest(s, http.MethodGet, "/api/version")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["version"])
}

func TestCorrelationIDHeader(t *testing.T) {
	s := newTestServer(t, &stubResearch{})

	rec := doRequest(s, http.MethodGet, "/api/health")
	assert.NotEmpty(t, rec.Header().Get("X-Correlation-ID"))

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Correlation-ID", "test-id-1")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "test-id-1", rec.Header().Get("X-Correlation-ID"))
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, &stubResearch{})

	rec := doRequest(s, http.MethodOptions, "/api/health")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
