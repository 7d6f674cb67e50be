package cleaning

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cleansync/feature/cleaning/models"

	"gorm.io/gorm"
)

// Repository is the MySQL-backed Gateway implementation.
type Repository struct {
	db *gorm.DB
}

var _ Gateway = (*Repository)(nil)

// NewRepository creates a repository on top of an open gorm connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates or updates the sync tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.SyncConfiguration{},
		&models.WorkOrder{},
		&models.SyncLog{},
	)
}

// ActiveWorkOrders returns every non-cancelled work order of a
// configuration, oldest first so the first row of a duplicate group is the
// primary.
func (r *Repository) ActiveWorkOrders(ctx context.Context, configID string) ([]models.WorkOrder, error) {
	var orders []models.WorkOrder
	err := r.db.WithContext(ctx).
		Where("sync_configuration_id = ? AND status <> ?", configID, models.WorkOrderCancelled).
		Order("created_at ASC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("querying work orders: %w", err)
	}
	return orders, nil
}

// CreateWorkOrder persists a new work order.
func (r *Repository) CreateWorkOrder(ctx context.Context, wo *models.WorkOrder) error {
	return r.db.WithContext(ctx).Create(wo).Error
}

// UpdateWorkOrder applies a partial column update to one work order.
func (r *Repository) UpdateWorkOrder(ctx context.Context, id string, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.WorkOrder{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// DeleteWorkOrders removes work orders by id.
func (r *Repository) DeleteWorkOrders(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&models.WorkOrder{}).Error
}

// UpdateConfigurationStatus records the sync status on a configuration.
// Terminal statuses also stamp the sync time and the run counts.
func (r *Repository) UpdateConfigurationStatus(ctx context.Context, configID, status string, errMsg *string, counts models.SyncCounts) error {
	updates := map[string]any{
		"last_sync_status": status,
		"last_sync_error":  errMsg,
	}
	if status == models.SyncSuccess || status == models.SyncError {
		updates["last_sync_at"] = time.Now().UTC()
		updates["last_events_found"] = counts.EventsFound
		updates["last_created"] = counts.Created
		updates["last_updated"] = counts.Updated
		updates["last_cancelled"] = counts.Cancelled
	}
	return r.db.WithContext(ctx).
		Model(&models.SyncConfiguration{}).
		Where("id = ?", configID).
		Updates(updates).Error
}

// AppendSyncLog writes one immutable log row.
func (r *Repository) AppendSyncLog(ctx context.Context, entry *models.SyncLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// ConfigurationsDueForSync returns the active configurations that were never
// synced or whose interval has elapsed.
func (r *Repository) ConfigurationsDueForSync(ctx context.Context) ([]models.SyncConfiguration, error) {
	var configs []models.SyncConfiguration
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND (last_sync_at IS NULL OR last_sync_at <= DATE_SUB(NOW(), INTERVAL sync_interval_min MINUTE))", true).
		Order("last_sync_at ASC").
		Find(&configs).Error
	if err != nil {
		return nil, fmt.Errorf("querying due configurations: %w", err)
	}
	return configs, nil
}

// ActiveConfigurationsForProperty returns the active configurations of one
// property.
func (r *Repository) ActiveConfigurationsForProperty(ctx context.Context, propertyID string) ([]models.SyncConfiguration, error) {
	var configs []models.SyncConfiguration
	err := r.db.WithContext(ctx).
		Where("property_id = ? AND is_active = ?", propertyID, true).
		Find(&configs).Error
	if err != nil {
		return nil, fmt.Errorf("querying property configurations: %w", err)
	}
	return configs, nil
}

// ConfigurationByID loads a single configuration, active or not. Returns
// gorm.ErrRecordNotFound untouched so callers can map it to 404.
func (r *Repository) ConfigurationByID(ctx context.Context, id string) (*models.SyncConfiguration, error) {
	var config models.SyncConfiguration
	err := r.db.WithContext(ctx).First(&config, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("querying configuration %s: %w", id, err)
	}
	return &config, nil
}

// RecentSyncLogs returns the latest log rows of one configuration.
func (r *Repository) RecentSyncLogs(ctx context.Context, configID string, limit int) ([]models.SyncLog, error) {
	if limit <= 0 {
		limit = 50
	}
	var logs []models.SyncLog
	err := r.db.WithContext(ctx).
		Where("sync_configuration_id = ?", configID).
		Order("ran_at DESC").
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("querying sync logs: %w", err)
	}
	return logs, nil
}
