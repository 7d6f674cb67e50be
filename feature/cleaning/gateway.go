package cleaning

import (
	"context"

	"cleansync/feature/cleaning/models"
)

// Gateway is the persistence contract the engine consumes. It is implemented
// by Repository for MySQL and by in-memory fakes in tests, which keeps the
// reconciler and orchestrator independent of the storage technology.
type Gateway interface {
	// ActiveWorkOrders returns every non-cancelled work order belonging to
	// the given sync configuration.
	ActiveWorkOrders(ctx context.Context, configID string) ([]models.WorkOrder, error)

	// CreateWorkOrder persists a new work order.
	CreateWorkOrder(ctx context.Context, wo *models.WorkOrder) error

	// UpdateWorkOrder applies a partial column update to one work order.
	UpdateWorkOrder(ctx context.Context, id string, updates map[string]any) error

	// DeleteWorkOrders removes work orders by id. Used only for duplicate
	// cleanup of rows sharing an identity key.
	DeleteWorkOrders(ctx context.Context, ids []string) error

	// UpdateConfigurationStatus records the sync status and, for terminal
	// statuses, the run telemetry on a configuration.
	UpdateConfigurationStatus(ctx context.Context, configID, status string, errMsg *string, counts models.SyncCounts) error

	// AppendSyncLog writes one immutable log row for a finished run.
	AppendSyncLog(ctx context.Context, entry *models.SyncLog) error

	// ConfigurationsDueForSync returns the active configurations whose sync
	// interval has elapsed.
	ConfigurationsDueForSync(ctx context.Context) ([]models.SyncConfiguration, error)

	// ActiveConfigurationsForProperty returns the active configurations
	// registered for one property.
	ActiveConfigurationsForProperty(ctx context.Context, propertyID string) ([]models.SyncConfiguration, error)
}
