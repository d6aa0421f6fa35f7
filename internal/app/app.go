// Package app wires configuration, cache, clients, and services together.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ticker-kit/risk-api/internal/cache"
	"github.com/ticker-kit/risk-api/internal/clients/worker"
	"github.com/ticker-kit/risk-api/internal/clients/yahoo"
	"github.com/ticker-kit/risk-api/internal/common"
	"github.com/ticker-kit/risk-api/internal/interfaces"
	"github.com/ticker-kit/risk-api/internal/services/analysis"
	"github.com/ticker-kit/risk-api/internal/services/ticker"
)

// App holds all initialized services and clients. It is the shared core
// behind cmd/risk-server.
type App struct {
	Config          *common.Config
	Logger          *common.Logger
	Store           interfaces.CacheStore
	Source          interfaces.MarketDataSource
	Worker          interfaces.PriceWorkerClient
	TickerService   interfaces.TickerService
	AnalysisService interfaces.AnalysisService
	StartupTime     time.Time

	scheduler *Scheduler
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes configuration, the cache backend, clients, and
// services. configPath may be empty, in which case the default resolution
// logic is used.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	binDir := getBinaryDir()

	// Check provided path, RISKAPI_CONFIG, then binary dir, then fallback
	if configPath == "" {
		configPath = os.Getenv("RISKAPI_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "risk-api.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/risk-api.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLogger(config.Logging.Level)

	store, err := cache.NewCacheStore(config, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cache: %w", err)
	}

	source := yahoo.NewClient(
		yahoo.WithBaseURL(config.Clients.Yahoo.BaseURL),
		yahoo.WithRateLimit(config.Clients.Yahoo.RateLimit),
		yahoo.WithTimeout(config.Clients.Yahoo.GetTimeout()),
		yahoo.WithLogger(logger),
	)

	var workerClient interfaces.PriceWorkerClient
	if config.Clients.Worker.BaseURL != "" {
		workerClient = worker.NewClient(config.Clients.Worker.BaseURL,
			worker.WithTimeout(config.Clients.Worker.GetTimeout()),
			worker.WithLogger(logger),
		)
	} else {
		logger.Info().Msg("No worker URL configured, price fallback chain skips the worker stage")
	}

	tickerService := ticker.NewService(store, source, workerClient, logger)
	analysisService := analysis.NewService(tickerService, store, logger)

	a := &App{
		Config:          config,
		Logger:          logger,
		Store:           store,
		Source:          source,
		Worker:          workerClient,
		TickerService:   tickerService,
		AnalysisService: analysisService,
		StartupTime:     startupStart,
	}

	logger.Info().
		Dur("elapsed", time.Since(startupStart)).
		Msg("Application initialized")

	return a, nil
}

// StartScheduler starts the background cache-warm scheduler if configured.
func (a *App) StartScheduler() {
	if a.Config.Scheduler.Spec == "" || len(a.Config.Scheduler.Tickers) == 0 {
		a.Logger.Info().Msg("Scheduler not configured, skipping")
		return
	}

	s := NewScheduler(a.AnalysisService, a.Logger, a.Config.Scheduler)
	if err := s.Register(); err != nil {
		a.Logger.Warn().Err(err).Msg("Failed to register scheduler, continuing without it")
		return
	}
	s.Start()
	a.scheduler = s
}

// Close releases all resources.
func (a *App) Close() {
	if a.scheduler != nil {
		a.scheduler.Stop()
	}
	if err := a.Store.Close(); err != nil {
		a.Logger.Warn().Err(err).Msg("Failed to close cache store")
	}
}
