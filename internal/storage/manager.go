package storage

import (
	"fmt"

	"github.com/bobmcallan/prism/internal/common"
	"github.com/bobmcallan/prism/internal/interfaces"
)

// Manager implements interfaces.StorageManager on a single BadgerDB.
type Manager struct {
	db      *BadgerDB
	market  *marketDataStorage
	reports *reportStorage
	kv      *kvStorage
	logger  *common.Logger
}

// NewManager opens the database and wires up the storage areas.
func NewManager(logger *common.Logger, config *common.Config) (*Manager, error) {
	db, err := NewBadgerDB(logger, config.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	logger.Info().Str("path", config.Storage.Path).Msg("Storage manager initialized")

	return &Manager{
		db:      db,
		market:  newMarketDataStorage(db, logger),
		reports: newReportStorage(db, logger),
		kv:      newKVStorage(db, logger),
		logger:  logger,
	}, nil
}

func (m *Manager) MarketDataStorage() interfaces.MarketDataStorage {
	return m.market
}

func (m *Manager) ReportStorage() interfaces.ReportStorage {
	return m.reports
}

func (m *Manager) KeyValueStorage() interfaces.KeyValueStorage {
	return m.kv
}

func (m *Manager) Close() error {
	return m.db.Close()
}

// Compile-time check
var _ interfaces.StorageManager = (*Manager)(nil)
