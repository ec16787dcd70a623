// Package app wires configuration, storage, clients, and services into a
// running application. It is the shared core used by cmd/prism-server.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bobmcallan/prism/internal/clients/eodhd"
	"github.com/bobmcallan/prism/internal/clients/gemini"
	"github.com/bobmcallan/prism/internal/common"
	"github.com/bobmcallan/prism/internal/interfaces"
	"github.com/bobmcallan/prism/internal/services/research"
	"github.com/bobmcallan/prism/internal/storage"
)

// App holds all initialized services and clients.
type App struct {
	Config          *common.Config
	Logger          *common.Logger
	Storage         interfaces.StorageManager
	MarketClient    interfaces.MarketDataClient
	LLMClient       interfaces.LLMClient
	ResearchService interfaces.ResearchService
	StartupTime     time.Time

	schedulerCancel context.CancelFunc
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes configuration, storage, clients, and services.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	binDir := getBinaryDir()

	// Check provided path, PRISM_CONFIG, then binary dir, then fallback
	if configPath == "" {
		configPath = os.Getenv("PRISM_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "prism.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/prism.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative storage path to binary directory
	if config.Storage.Path != "" && !filepath.IsAbs(config.Storage.Path) {
		config.Storage.Path = filepath.Join(binDir, config.Storage.Path)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	storageManager, err := storage.NewManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	ctx := context.Background()

	eodhdKey := resolveKey(ctx, storageManager, "eodhd_api_key", config.Clients.EODHD.APIKey)
	if eodhdKey == "" {
		logger.Warn().Msg("EODHD API key not configured - market data collection will be unavailable")
	}

	geminiKey := resolveKey(ctx, storageManager, "gemini_api_key", config.Clients.Gemini.APIKey)
	if geminiKey == "" {
		logger.Warn().Msg("Gemini API key not configured - filing tone analysis will be unavailable")
	}

	var marketClient interfaces.MarketDataClient
	if eodhdKey != "" {
		marketClient = eodhd.NewClient(eodhdKey,
			eodhd.WithLogger(logger),
			eodhd.WithRateLimit(config.Clients.EODHD.RateLimit),
			eodhd.WithTimeout(config.Clients.EODHD.GetTimeout()),
		)
	}

	var llmClient interfaces.LLMClient
	if geminiKey != "" {
		client, err := gemini.NewClient(ctx, geminiKey,
			gemini.WithLogger(logger),
			gemini.WithModel(config.Clients.Gemini.Model),
		)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to initialize Gemini client")
		} else {
			llmClient = client
		}
	}

	researchService := research.NewService(storageManager, marketClient, llmClient, config, logger)

	common.PrintBanner(config, logger)

	return &App{
		Config:          config,
		Logger:          logger,
		Storage:         storageManager,
		MarketClient:    marketClient,
		LLMClient:       llmClient,
		ResearchService: researchService,
		StartupTime:     time.Now(),
	}, nil
}

// resolveKey resolves an API key from environment, config, then the system
// KV store. A key found in environment or config is written back to the KV
// store so it survives a restart without the variable set.
func resolveKey(ctx context.Context, storage interfaces.StorageManager, name, configValue string) string {
	if key, err := common.ResolveAPIKey(name, configValue); err == nil && key != "" {
		_ = storage.KeyValueStorage().Set(ctx, name, key)
		return key
	}

	if stored, err := storage.KeyValueStorage().Get(ctx, name); err == nil && stored != "" {
		return stored
	}
	return ""
}

// Close shuts down background work, clients, and storage.
func (a *App) Close() {
	a.StopScheduler()

	if a.LLMClient != nil {
		if err := a.LLMClient.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close LLM client")
		}
	}

	if err := a.Storage.Close(); err != nil {
		a.Logger.Warn().Err(err).Msg("Failed to close storage")
	}
}
