package cleaning

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cleansync/feature/calendar"
	"cleansync/feature/cleaning/models"
	"cleansync/feature/reservation"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ErrSyncInProgress is reported when a sync is requested for a configuration
// that is already being synced. The configuration's status is left alone.
var ErrSyncInProgress = errors.New("sync already in progress for this configuration")

// Service orchestrates calendar synchronization: per configuration it runs
// fetch, parse, merge and reconcile as one sequential unit, records the
// outcome on the configuration and appends a sync log row. Batch entry
// points never let one configuration's failure abort the rest.
type Service struct {
	gateway    Gateway
	fetcher    *calendar.Fetcher
	archiver   *calendar.Archiver
	reconciler *Reconciler
	logger     *zap.Logger
	locks      *configLocks
	pace       *rate.Limiter
}

// NewService creates the sync orchestrator. archiver may be nil, in which
// case raw feed bodies are not archived.
func NewService(gateway Gateway, archiver *calendar.Archiver, logger *zap.Logger, cfg Config) *Service {
	pps := cfg.PacePerSecond
	if pps <= 0 {
		pps = 2
	}
	return &Service{
		gateway:    gateway,
		fetcher:    calendar.NewFetcher(time.Duration(cfg.FetchTimeoutSeconds)*time.Second, cfg.UserAgent),
		archiver:   archiver,
		reconciler: NewReconciler(gateway, logger),
		logger:     logger,
		locks:      newConfigLocks(),
		pace:       rate.NewLimiter(rate.Limit(pps), 1),
	}
}

// SyncConfiguration runs one full sync for a single configuration. Every
// outcome is returned inside the result; nothing is thrown past this
// boundary.
func (s *Service) SyncConfiguration(ctx context.Context, config models.SyncConfiguration) models.SyncResult {
	result := models.SyncResult{
		SyncConfigurationID: config.ID,
		PropertyID:          config.PropertyID,
		Platform:            config.Platform,
	}

	if !s.locks.TryLock(config.ID) {
		result.Error = ErrSyncInProgress.Error()
		return result
	}
	defer s.locks.Unlock(config.ID)

	start := time.Now()
	l := s.logger.With(
		zap.String("sync_configuration_id", config.ID),
		zap.String("property_id", config.PropertyID),
		zap.String("feed", calendar.RedactURL(config.FeedURL)),
	)
	l.Info("Calendar sync started")

	var counts models.SyncCounts
	runErr := s.gateway.UpdateConfigurationStatus(ctx, config.ID, models.SyncSyncing, nil, models.SyncCounts{})
	if runErr != nil {
		runErr = fmt.Errorf("marking configuration syncing: %w", runErr)
	} else {
		counts, runErr = s.run(ctx, l, config)
	}

	return s.finish(ctx, l, config, result, start, counts, runErr)
}

// run executes fetch, parse, merge and reconcile for one configuration.
func (s *Service) run(ctx context.Context, l *zap.Logger, config models.SyncConfiguration) (models.SyncCounts, error) {
	var counts models.SyncCounts

	body, err := s.fetcher.Fetch(ctx, config.FeedURL)
	if err != nil {
		return counts, err
	}

	if s.archiver != nil {
		if err := s.archiver.Archive(ctx, config.ID, body); err != nil {
			l.Warn("Feed archiving failed", zap.Error(err))
		}
	}

	events := calendar.Parse(body)
	reservations := reservation.Merge(events, reservation.ParsePlatform(config.Platform))

	counts, err = s.reconciler.Reconcile(ctx, config, reservations)
	counts.EventsFound = len(events)
	return counts, err
}

// finish records the outcome on the configuration, appends the log row and
// builds the result. Bookkeeping failures are logged, not propagated: the
// sync outcome itself is already decided.
func (s *Service) finish(ctx context.Context, l *zap.Logger, config models.SyncConfiguration, result models.SyncResult, start time.Time, counts models.SyncCounts, runErr error) models.SyncResult {
	result.DurationMS = time.Since(start).Milliseconds()
	result.EventsFound = counts.EventsFound
	result.Created = counts.Created
	result.Updated = counts.Updated
	result.Cancelled = counts.Cancelled

	status := models.SyncSuccess
	var errMsg *string
	if runErr != nil {
		status = models.SyncError
		msg := runErr.Error()
		errMsg = &msg
		result.Error = msg
		l.Error("Calendar sync failed", zap.Error(runErr))
	} else {
		result.Success = true
		l.Info("Calendar sync finished",
			zap.Int("events_found", counts.EventsFound),
			zap.Int("created", counts.Created),
			zap.Int("updated", counts.Updated),
			zap.Int("cancelled", counts.Cancelled),
			zap.Int64("duration_ms", result.DurationMS))
	}

	if err := s.gateway.UpdateConfigurationStatus(ctx, config.ID, status, errMsg, counts); err != nil {
		l.Error("Recording sync status failed", zap.Error(err))
	}

	entry := &models.SyncLog{
		ID:                  uuid.NewString(),
		SyncConfigurationID: config.ID,
		PropertyID:          config.PropertyID,
		Platform:            config.Platform,
		Success:             runErr == nil,
		EventsFound:         counts.EventsFound,
		Created:             counts.Created,
		Updated:             counts.Updated,
		Cancelled:           counts.Cancelled,
		Error:               errMsg,
		DurationMS:          result.DurationMS,
		RanAt:               time.Now().UTC(),
	}
	if err := s.gateway.AppendSyncLog(ctx, entry); err != nil {
		l.Error("Appending sync log failed", zap.Error(err))
	}

	return result
}

// SyncProperty syncs every active configuration of one property, the manual
// "sync now" path.
func (s *Service) SyncProperty(ctx context.Context, propertyID string) ([]models.SyncResult, error) {
	configs, err := s.gateway.ActiveConfigurationsForProperty(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("loading configurations for property %s: %w", propertyID, err)
	}
	return s.syncBatch(ctx, configs), nil
}

// SyncDue syncs every configuration whose interval has elapsed, the
// scheduled path.
func (s *Service) SyncDue(ctx context.Context) ([]models.SyncResult, error) {
	configs, err := s.gateway.ConfigurationsDueForSync(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading due configurations: %w", err)
	}
	return s.syncBatch(ctx, configs), nil
}

// syncBatch runs configurations sequentially, paced to stay under upstream
// rate limits. A cancelled context stops the batch; partial results are
// still returned.
func (s *Service) syncBatch(ctx context.Context, configs []models.SyncConfiguration) []models.SyncResult {
	results := make([]models.SyncResult, 0, len(configs))
	for _, config := range configs {
		if err := s.pace.Wait(ctx); err != nil {
			s.logger.Warn("Sync batch interrupted", zap.Error(err))
			break
		}
		results = append(results, s.SyncConfiguration(ctx, config))
	}
	return results
}
