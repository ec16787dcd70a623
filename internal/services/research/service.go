// Package research orchestrates the full research pipeline: collect
// market data, run the domain analyzers, aggregate, persist.
package research

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bobmcallan/prism/internal/analysis/fundamental"
	"github.com/bobmcallan/prism/internal/analysis/risk"
	"github.com/bobmcallan/prism/internal/analysis/sentiment"
	"github.com/bobmcallan/prism/internal/analysis/summary"
	"github.com/bobmcallan/prism/internal/analysis/technical"
	"github.com/bobmcallan/prism/internal/common"
	"github.com/bobmcallan/prism/internal/interfaces"
	"github.com/bobmcallan/prism/internal/models"
)

const (
	eodLookbackYears = 3
	newsLimit        = 50
)

// Service implements interfaces.ResearchService.
type Service struct {
	storage     interfaces.StorageManager
	market      interfaces.MarketDataClient
	technical   *technical.Analyzer
	fundamental *fundamental.Analyzer
	risk        *risk.Analyzer
	sentiment   *sentiment.Analyzer
	engine      *summary.Engine
	benchmark   string
	cache       common.CacheConfig
	logger      *common.Logger
}

// NewService creates a research service.
func NewService(
	storage interfaces.StorageManager,
	market interfaces.MarketDataClient,
	llm interfaces.LLMClient,
	config *common.Config,
	logger *common.Logger,
) *Service {
	var generator sentiment.ContentGenerator
	if llm != nil {
		generator = llm
	}
	return &Service{
		storage:     storage,
		market:      market,
		technical:   technical.NewAnalyzer(),
		fundamental: fundamental.NewAnalyzer(),
		risk:        risk.NewAnalyzer(),
		sentiment:   sentiment.NewAnalyzer(generator, logger),
		engine:      summary.NewEngine(config.Scoring),
		benchmark:   config.Benchmark,
		cache:       config.Cache,
		logger:      logger,
	}
}

// Research runs the full pipeline for a ticker.
func (s *Service) Research(ctx context.Context, ticker string, options interfaces.ResearchOptions) (*models.ResearchReport, error) {
	if s.market == nil {
		return nil, fmt.Errorf("market data client not configured")
	}

	started := time.Now()
	s.logger.Info().Str("ticker", ticker).Bool("force", options.ForceRefresh).Msg("Research started")

	data, err := s.collect(ctx, ticker, options)
	if err != nil {
		return nil, fmt.Errorf("failed to collect data for %s: %w", ticker, err)
	}

	var benchmarkBars []models.EODBar
	if s.benchmark != "" && s.benchmark != ticker {
		benchmark, err := s.collect(ctx, s.benchmark, interfaces.ResearchOptions{ForceRefresh: options.ForceRefresh})
		if err != nil {
			s.logger.Warn().Str("benchmark", s.benchmark).Err(err).Msg("Benchmark data unavailable, beta will be omitted")
		} else {
			benchmarkBars = benchmark.EOD
		}
	}

	report := s.analyze(ctx, data, benchmarkBars)

	if err := s.storage.ReportStorage().SaveReport(ctx, report); err != nil {
		s.logger.Warn().Str("ticker", ticker).Err(err).Msg("Failed to persist report")
	}

	s.logger.Info().
		Str("ticker", ticker).
		Str("rating", report.Summary.Rating).
		Dur("elapsed", time.Since(started)).
		Msg("Research complete")

	return report, nil
}

// GetReport returns the last persisted report for a ticker.
func (s *Service) GetReport(ctx context.Context, ticker string) (*models.ResearchReport, error) {
	return s.storage.ReportStorage().GetReport(ctx, ticker)
}

// analyze runs the four domain analyzers and the aggregation engine.
// Each analyzer failure is isolated: the other domains still score.
func (s *Service) analyze(ctx context.Context, data *models.MarketData, benchmarkBars []models.EODBar) *models.ResearchReport {
	report := &models.ResearchReport{
		Ticker:      data.Ticker,
		Name:        data.Name,
		GeneratedAt: time.Now(),
	}

	report.Technical = s.technical.AnalyzePriceAction(data.EOD)
	if report.Technical.Trends == nil || report.Technical.Trends.Overall == nil {
		s.logger.Warn().Str("ticker", data.Ticker).Int("bars", len(data.EOD)).Msg("Price history too short for full technical analysis")
	}

	if data.Statements != nil {
		report.Fundamental = s.fundamental.AnalyzeStatements(data.Statements)
	} else {
		s.logger.Warn().Str("ticker", data.Ticker).Msg("No financial statements, skipping fundamental analysis")
	}

	report.Risk = s.risk.AnalyzeReturns(data.EOD, benchmarkBars)
	if report.Risk.Volatility == nil {
		s.logger.Warn().Str("ticker", data.Ticker).Msg("Return history too short for risk analysis")
	}

	if len(data.News) > 0 || data.FilingText != "" {
		report.Sentiment = s.sentiment.AnalyzeNews(ctx, data.Ticker, data.News, data.FilingText)
	}

	report.Summary = s.engine.Aggregate(report.Technical, report.Fundamental, report.Risk, report.Sentiment)
	return report
}

// collect returns market data for a ticker, refreshing each component
// from the upstream API when its cached copy is older than its TTL.
func (s *Service) collect(ctx context.Context, ticker string, options interfaces.ResearchOptions) (*models.MarketData, error) {
	now := time.Now()

	existing, _ := s.storage.MarketDataStorage().GetMarketData(ctx, ticker)

	data := &models.MarketData{Ticker: ticker}
	if existing != nil {
		data = existing
	}

	force := options.ForceRefresh

	if force || !isFresh(data.EODUpdatedAt, s.cache.PricesTTL(), now) {
		bars, err := s.market.GetEOD(ctx, ticker, interfaces.WithDateRange(
			now.AddDate(-eodLookbackYears, 0, 0).Format("2006-01-02"),
			now.Format("2006-01-02"),
		))
		if err != nil {
			if len(data.EOD) == 0 {
				return nil, fmt.Errorf("failed to fetch prices: %w", err)
			}
			s.logger.Warn().Str("ticker", ticker).Err(err).Msg("Price refresh failed, using cached bars")
		} else {
			data.EOD = bars
			data.EODUpdatedAt = now
		}
	}

	if force || !isFresh(data.StatementsUpdatedAt, s.cache.FundamentalsTTL(), now) {
		st, err := s.market.GetStatements(ctx, ticker)
		if err != nil {
			s.logger.Warn().Str("ticker", ticker).Err(err).Msg("Fundamentals fetch failed")
		} else {
			data.Statements = st
			data.Name = st.Info.Name
			data.StatementsUpdatedAt = now
		}
	}

	if options.IncludeNews && (force || !isFresh(data.NewsUpdatedAt, s.cache.NewsTTL(), now)) {
		news, err := s.market.GetNews(ctx, ticker, newsLimit)
		if err != nil {
			s.logger.Warn().Str("ticker", ticker).Err(err).Msg("News fetch failed")
		} else {
			data.News = news
			data.FilingText = filingDigest(news)
			data.NewsUpdatedAt = now
		}
	}

	if err := s.storage.MarketDataStorage().SaveMarketData(ctx, data); err != nil {
		s.logger.Warn().Str("ticker", ticker).Err(err).Msg("Failed to cache market data")
	}

	return data, nil
}

const (
	digestArticles = 10
	digestMaxLen   = 4000
)

// filingDigest builds the report-commentary excerpt the LLM scores for tone
// from the most recent articles that carry body text.
func filingDigest(news []*models.NewsItem) string {
	var b strings.Builder
	count := 0
	for _, item := range news {
		if item.Description == "" {
			continue
		}
		line := item.Title + ". " + item.Description
		if b.Len()+len(line) > digestMaxLen {
			break
		}
		b.WriteString(line)
		b.WriteByte('\n')

		count++
		if count >= digestArticles {
			break
		}
	}
	return strings.TrimSpace(b.String())
}

func isFresh(updatedAt time.Time, ttl time.Duration, now time.Time) bool {
	if updatedAt.IsZero() {
		return false
	}
	return now.Sub(updatedAt) < ttl
}

// Ensure Service implements ResearchService
var _ interfaces.ResearchService = (*Service)(nil)
