package cleaning

import (
	"cleansync/feature/calendar"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service   *Service
	scheduler *Scheduler
	handler   *Handler
}

// NewFeature creates the cleaning sync feature. archiver may be nil to
// disable feed archiving.
func NewFeature(db *gorm.DB, archiver *calendar.Archiver, logger *zap.Logger, cfg Config) *Feature {
	repo := NewRepository(db)
	svc := NewService(repo, archiver, logger, cfg)
	return &Feature{
		service:   svc,
		scheduler: NewScheduler(svc, logger, cfg.IntervalMinutes),
		handler:   NewHandler(svc, repo),
	}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "cleaning"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}

// Service exposes the orchestrator for CLI invocation.
func (f *Feature) Service() *Service {
	return f.service
}

// Scheduler exposes the cron scheduler so the server can start and stop it.
func (f *Feature) Scheduler() *Scheduler {
	return f.scheduler
}
