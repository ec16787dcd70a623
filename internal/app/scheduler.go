package app

import (
	"context"
	"time"

	"github.com/bobmcallan/prism/internal/common"
	"github.com/bobmcallan/prism/internal/interfaces"
)

// StartScheduler refreshes research for the configured watchlist on a
// fixed interval. No-op when the watchlist is empty.
func (a *App) StartScheduler() {
	if len(a.Config.Watchlist) == 0 {
		a.Logger.Debug().Msg("Scheduler: no watchlist configured, not starting")
		return
	}
	if a.MarketClient == nil {
		a.Logger.Warn().Msg("Scheduler: no market data client, not starting")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	a.schedulerCancel = cancel

	interval := a.Config.Cache.RefreshInterval()
	a.Logger.Info().
		Dur("interval", interval).
		Int("tickers", len(a.Config.Watchlist)).
		Msg("Scheduler: started")

	go runScheduler(ctx, a.ResearchService, a.Config.Watchlist, a.Logger, interval)
}

// StopScheduler stops the background refresh loop.
func (a *App) StopScheduler() {
	if a.schedulerCancel != nil {
		a.schedulerCancel()
		a.schedulerCancel = nil
	}
}

func runScheduler(ctx context.Context, service interfaces.ResearchService, watchlist []string, logger *common.Logger, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("Scheduler: stopped")
			return
		case <-ticker.C:
			refreshWatchlist(ctx, service, watchlist, logger)
		}
	}
}

func refreshWatchlist(ctx context.Context, service interfaces.ResearchService, watchlist []string, logger *common.Logger) {
	start := time.Now()

	var failed int
	for _, ticker := range watchlist {
		if ctx.Err() != nil {
			return
		}
		if _, err := service.Research(ctx, ticker, interfaces.ResearchOptions{IncludeNews: true}); err != nil {
			logger.Warn().Str("ticker", ticker).Err(err).Msg("Watchlist refresh: research failed")
			failed++
		}
	}

	logger.Info().
		Int("tickers", len(watchlist)).
		Int("failed", failed).
		Dur("elapsed", time.Since(start)).
		Msg("Watchlist refresh: complete")
}
