// Package storage provides BadgerDB-based persistence
package storage

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/timshannon/badgerhold/v4"

	"github.com/bobmcallan/prism/internal/common"
	"github.com/bobmcallan/prism/internal/models"
)

// BadgerDB wraps badgerhold for typed storage
type BadgerDB struct {
	store  *badgerhold.Store
	logger *common.Logger
}

// NewBadgerDB creates a new BadgerDB instance
func NewBadgerDB(logger *common.Logger, path string) (*BadgerDB, error) {
	opts := badgerhold.DefaultOptions
	opts.Dir = path
	opts.ValueDir = path
	opts.Logger = nil // Disable badger's internal logging

	store, err := badgerhold.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger store: %w", err)
	}

	logger.Debug().Str("path", path).Msg("BadgerDB opened")

	return &BadgerDB{
		store:  store,
		logger: logger,
	}, nil
}

// Close closes the database
func (db *BadgerDB) Close() error {
	if db.store != nil {
		return db.store.Close()
	}
	return nil
}

// Store returns the underlying badgerhold store
func (db *BadgerDB) Store() *badgerhold.Store {
	return db.store
}

// marketDataStorage implements MarketDataStorage using BadgerDB
type marketDataStorage struct {
	db     *BadgerDB
	logger *common.Logger
}

func newMarketDataStorage(db *BadgerDB, logger *common.Logger) *marketDataStorage {
	return &marketDataStorage{db: db, logger: logger}
}

func (s *marketDataStorage) GetMarketData(ctx context.Context, ticker string) (*models.MarketData, error) {
	var data models.MarketData
	err := s.db.store.Get(ticker, &data)
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("market data for '%s' not found", ticker)
		}
		return nil, fmt.Errorf("failed to get market data: %w", err)
	}
	return &data, nil
}

func (s *marketDataStorage) SaveMarketData(ctx context.Context, data *models.MarketData) error {
	err := s.db.store.Upsert(data.Ticker, data)
	if err != nil {
		return fmt.Errorf("failed to save market data: %w", err)
	}
	s.logger.Debug().Str("ticker", data.Ticker).Msg("Market data saved")
	return nil
}

func (s *marketDataStorage) DeleteMarketData(ctx context.Context, ticker string) error {
	err := s.db.store.Delete(ticker, models.MarketData{})
	if err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete market data: %w", err)
	}
	s.logger.Debug().Str("ticker", ticker).Msg("Market data deleted")
	return nil
}

// reportStorage implements ReportStorage using BadgerDB
type reportStorage struct {
	db     *BadgerDB
	logger *common.Logger
}

func newReportStorage(db *BadgerDB, logger *common.Logger) *reportStorage {
	return &reportStorage{db: db, logger: logger}
}

func (s *reportStorage) GetReport(ctx context.Context, ticker string) (*models.ResearchReport, error) {
	var report models.ResearchReport
	err := s.db.store.Get(ticker, &report)
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("report for '%s' not found", ticker)
		}
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	return &report, nil
}

func (s *reportStorage) SaveReport(ctx context.Context, report *models.ResearchReport) error {
	if report.GeneratedAt.IsZero() {
		report.GeneratedAt = time.Now()
	}
	err := s.db.store.Upsert(report.Ticker, report)
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	s.logger.Debug().Str("ticker", report.Ticker).Msg("Report saved")
	return nil
}

func (s *reportStorage) ListReports(ctx context.Context) ([]*models.ResearchReport, error) {
	var reports []models.ResearchReport
	err := s.db.store.Find(&reports, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	result := make([]*models.ResearchReport, len(reports))
	for i := range reports {
		result[i] = &reports[i]
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Ticker < result[j].Ticker
	})
	return result, nil
}

// kvStorage implements KeyValueStorage using BadgerDB
type kvStorage struct {
	db     *BadgerDB
	logger *common.Logger
}

// kvEntry represents a key-value entry in the store
type kvEntry struct {
	Key   string `badgerhold:"key"`
	Value string
}

func newKVStorage(db *BadgerDB, logger *common.Logger) *kvStorage {
	return &kvStorage{db: db, logger: logger}
}

func (s *kvStorage) Get(ctx context.Context, key string) (string, error) {
	var entry kvEntry
	err := s.db.store.Get(key, &entry)
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return "", fmt.Errorf("key '%s' not found", key)
		}
		return "", fmt.Errorf("failed to get key: %w", err)
	}
	return entry.Value, nil
}

func (s *kvStorage) Set(ctx context.Context, key, value string) error {
	entry := kvEntry{Key: key, Value: value}
	err := s.db.store.Upsert(key, &entry)
	if err != nil {
		return fmt.Errorf("failed to set key: %w", err)
	}
	return nil
}

func (s *kvStorage) Delete(ctx context.Context, key string) error {
	err := s.db.store.Delete(key, kvEntry{})
	if err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete key: %w", err)
	}
	return nil
}
