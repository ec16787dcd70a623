package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/prism/internal/common"
	"github.com/bobmcallan/prism/internal/models"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()

	config := common.NewDefaultConfig()
	config.Storage.Path = t.TempDir()

	manager, err := NewManager(common.NewSilentLogger(), config)
	require.NoError(t, err)
	t.Cleanup(func() { manager.Close() })

	return manager
}

func TestMarketDataRoundTrip(t *testing.T) {
	manager := newTestManager(t)
	ctx := context.Background()
	store := manager.MarketDataStorage()

	data := &models.MarketData{
		Ticker: "AAPL.US",
		Name:   "Apple Inc",
		EOD: []models.EODBar{
			{Date: time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC), Close: 210.5, AdjClose: 210.5, Volume: 1000},
		},
		EODUpdatedAt: time.Now(),
	}

	require.NoError(t, store.SaveMarketData(ctx, data))

	got, err := store.GetMarketData(ctx, "AAPL.US")
	require.NoError(t, err)
	assert.Equal(t, "Apple Inc", got.Name)
	require.Len(t, got.EOD, 1)
	assert.Equal(t, 210.5, got.EOD[0].Close)
	assert.False(t, got.EODUpdatedAt.IsZero())
}

func TestMarketDataNotFound(t *testing.T) {
	manager := newTestManager(t)

	_, err := manager.MarketDataStorage().GetMarketData(context.Background(), "NOPE.US")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestMarketDataDelete(t *testing.T) {
	manager := newTestManager(t)
	ctx := context.Background()
	store := manager.MarketDataStorage()

	require.NoError(t, store.SaveMarketData(ctx, &models.MarketData{Ticker: "AAPL.US"}))
	require.NoError(t, store.DeleteMarketData(ctx, "AAPL.US"))

	_, err := store.GetMarketData(ctx, "AAPL.US")
	assert.Error(t, err)

	// Deleting a missing ticker is not an error
	assert.NoError(t, store.DeleteMarketData(ctx, "AAPL.US"))
}

func TestReportRoundTrip(t *testing.T) {
	manager := newTestManager(t)
	ctx := context.Background()
	store := manager.ReportStorage()

	report := &models.ResearchReport{
		Ticker: "MSFT.US",
		Summary: &models.Summary{
			Rating: models.RatingBuy,
			Scores: models.DomainScores{Technical: 7, Fundamental: 8, Risk: 6, Sentiment: 7},
		},
	}

	require.NoError(t, store.SaveReport(ctx, report))

	got, err := store.GetReport(ctx, "MSFT.US")
	require.NoError(t, err)
	assert.Equal(t, models.RatingBuy, got.Summary.Rating)
	assert.False(t, got.GeneratedAt.IsZero(), "SaveReport stamps GeneratedAt")
}

func TestListReports(t *testing.T) {
	manager := newTestManager(t)
	ctx := context.Background()
	store := manager.ReportStorage()

	for _, ticker := range []string{"MSFT.US", "AAPL.US", "GOOG.US"} {
		require.NoError(t, store.SaveReport(ctx, &models.ResearchReport{
			Ticker:  ticker,
			Summary: &models.Summary{Rating: models.RatingHold},
		}))
	}

	reports, err := store.ListReports(ctx)
	require.NoError(t, err)
	require.Len(t, reports, 3)
	assert.Equal(t, "AAPL.US", reports[0].Ticker)
	assert.Equal(t, "GOOG.US", reports[1].Ticker)
	assert.Equal(t, "MSFT.US", reports[2].Ticker)
}

func TestKeyValueStorage(t *testing.T) {
	manager := newTestManager(t)
	ctx := context.Background()
	kv := manager.KeyValueStorage()

	require.NoError(t, kv.Set(ctx, "eodhd_api_key", "secret"))

	value, err := kv.Get(ctx, "eodhd_api_key")
	require.NoError(t, err)
	assert.Equal(t, "secret", value)

	require.NoError(t, kv.Delete(ctx, "eodhd_api_key"))
	_, err = kv.Get(ctx, "eodhd_api_key")
	assert.Error(t, err)

	assert.NoError(t, kv.Delete(ctx, "never_existed"))
}
