package interfaces

import (
	"context"

	"github.com/bobmcallan/prism/internal/models"
)

// ResearchOptions controls a research run.
type ResearchOptions struct {
	ForceRefresh bool // bypass cache freshness and re-collect everything
	IncludeNews  bool
}

// ResearchService produces research reports for tickers.
type ResearchService interface {
	// Research runs the full pipeline for one ticker: collect, analyze,
	// aggregate, persist.
	Research(ctx context.Context, ticker string, options ResearchOptions) (*models.ResearchReport, error)

	// GetReport returns the last persisted report, if any.
	GetReport(ctx context.Context, ticker string) (*models.ResearchReport, error)

	// RenderPriceChart renders a price + moving averages PNG for a ticker.
	RenderPriceChart(ctx context.Context, ticker string) ([]byte, error)
}
