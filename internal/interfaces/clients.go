// Package interfaces defines the contracts between Prism components.
package interfaces

import (
	"context"

	"github.com/bobmcallan/prism/internal/models"
)

// MarketDataClient retrieves prices, fundamentals, and news for a ticker.
type MarketDataClient interface {
	// GetEOD returns daily bars, most recent first.
	GetEOD(ctx context.Context, ticker string, opts ...EODOption) ([]models.EODBar, error)

	// GetStatements returns financial statements and company info.
	GetStatements(ctx context.Context, ticker string) (*models.Statements, error)

	// GetNews returns recent news articles for a ticker.
	GetNews(ctx context.Context, ticker string, limit int) ([]*models.NewsItem, error)
}

// EODParams holds optional parameters for EOD requests.
type EODParams struct {
	From string
	To   string
}

// EODOption configures an EOD request.
type EODOption func(*EODParams)

// WithDateRange limits EOD bars to the given range (YYYY-MM-DD).
func WithDateRange(from, to string) EODOption {
	return func(p *EODParams) {
		p.From = from
		p.To = to
	}
}

// LLMClient generates content from a prompt.
type LLMClient interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	Close() error
}
