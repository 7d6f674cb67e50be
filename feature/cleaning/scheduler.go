package cleaning

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler drives the periodic due-configuration pass. It decides only
// WHEN to run; which configurations are due is the gateway's query.
type Scheduler struct {
	cron    *cron.Cron
	service *Service
	logger  *zap.Logger
	every   int
}

// NewScheduler creates a scheduler running the due pass every
// intervalMinutes minutes.
func NewScheduler(service *Service, logger *zap.Logger, intervalMinutes int) *Scheduler {
	if intervalMinutes <= 0 {
		intervalMinutes = 15
	}
	return &Scheduler{
		cron:    cron.New(),
		service: service,
		logger:  logger,
		every:   intervalMinutes,
	}
}

// Start registers the periodic job and starts the cron loop.
func (s *Scheduler) Start() error {
	spec := fmt.Sprintf("@every %dm", s.every)
	_, err := s.cron.AddFunc(spec, func() {
		results, err := s.service.SyncDue(context.Background())
		if err != nil {
			s.logger.Error("Scheduled sync pass failed", zap.Error(err))
			return
		}
		failed := 0
		for _, r := range results {
			if !r.Success {
				failed++
			}
		}
		s.logger.Info("Scheduled sync pass finished",
			zap.Int("configurations", len(results)),
			zap.Int("failed", failed))
	})
	if err != nil {
		return fmt.Errorf("registering sync schedule %q: %w", spec, err)
	}

	s.cron.Start()
	s.logger.Info("Sync scheduler started", zap.String("schedule", spec))
	return nil
}

// Stop stops the cron loop and waits for a running pass to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Sync scheduler stopped")
}
