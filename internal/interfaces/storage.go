package interfaces

import (
	"context"

	"github.com/bobmcallan/prism/internal/models"
)

// MarketDataStorage caches collected market data per ticker.
type MarketDataStorage interface {
	GetMarketData(ctx context.Context, ticker string) (*models.MarketData, error)
	SaveMarketData(ctx context.Context, data *models.MarketData) error
	DeleteMarketData(ctx context.Context, ticker string) error
}

// ReportStorage persists research reports.
type ReportStorage interface {
	GetReport(ctx context.Context, ticker string) (*models.ResearchReport, error)
	SaveReport(ctx context.Context, report *models.ResearchReport) error
	ListReports(ctx context.Context) ([]*models.ResearchReport, error)
}

// KeyValueStorage stores small system settings such as API keys.
type KeyValueStorage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// StorageManager provides access to the storage areas.
type StorageManager interface {
	MarketDataStorage() MarketDataStorage
	ReportStorage() ReportStorage
	KeyValueStorage() KeyValueStorage
	Close() error
}
