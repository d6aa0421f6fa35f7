package app

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/ticker-kit/risk-api/internal/common"
	"github.com/ticker-kit/risk-api/internal/interfaces"
)

// warmTimeout bounds one full warm pass.
const warmTimeout = 5 * time.Minute

// Scheduler keeps analyses for a configured ticker set warm by recomputing
// them on a cron schedule, so interactive requests hit the cache.
type Scheduler struct {
	cron     *cron.Cron
	analyses interfaces.AnalysisService
	logger   *common.Logger
	config   common.SchedulerConfig
}

// NewScheduler creates a cache-warm scheduler.
func NewScheduler(analyses interfaces.AnalysisService, logger *common.Logger, config common.SchedulerConfig) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		analyses: analyses,
		logger:   logger,
		config:   config,
	}
}

// Register adds the warm task under the configured cron spec.
func (s *Scheduler) Register() error {
	if _, err := s.cron.AddFunc(s.config.Spec, s.warm); err != nil {
		return fmt.Errorf("register warm task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info().
		Str("spec", s.config.Spec).
		Int("tickers", len(s.config.Tickers)).
		Msg("Scheduler started")
}

// Stop stops the scheduler and waits for a running task to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info().Msg("Scheduler stopped")
}

func (s *Scheduler) warm() {
	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), warmTimeout)
	defer cancel()

	warmed := 0
	for _, t := range s.config.Tickers {
		result, err := s.analyses.AnalyzeTicker(ctx, t, s.config.Period)
		if err != nil {
			s.logger.Warn().Err(err).Str("ticker", t).Msg("Cache warm: analysis failed")
			continue
		}
		if result.IsError() {
			s.logger.Warn().Str("ticker", t).Str("error", result.ErrorMsg).Msg("Cache warm: analysis returned error")
			continue
		}
		warmed++
	}

	s.logger.Info().
		Int("warmed", warmed).
		Int("total", len(s.config.Tickers)).
		Dur("elapsed", time.Since(start)).
		Msg("Cache warm: complete")
}
