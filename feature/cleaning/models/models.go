package models

import (
	"time"
)

// Work order statuses. Only pending and assigned rows may still be rewritten
// by a sync run; later statuses belong to the operational side.
const (
	WorkOrderPending    = "pending"
	WorkOrderAssigned   = "assigned"
	WorkOrderInProgress = "in_progress"
	WorkOrderCompleted  = "completed"
	WorkOrderCancelled  = "cancelled"
)

// Sync statuses recorded on a configuration. Transitions are made by the
// orchestrator only.
const (
	SyncPending = "pending"
	SyncSyncing = "syncing"
	SyncSuccess = "success"
	SyncError   = "error"
)

// WorkOrder represents the 'cleaning_work_orders' table: one cleaning task
// per reservation, scheduled on the checkout date.
type WorkOrder struct {
	ID                  string    `gorm:"column:id;primaryKey"`
	SyncConfigurationID string    `gorm:"column:sync_configuration_id;index"`
	PropertyID          string    `gorm:"column:property_id;index"`
	ScheduledDate       time.Time `gorm:"column:scheduled_date"`
	Status              string    `gorm:"column:status;index"`
	IdentityKey         string    `gorm:"column:identity_key;index"`
	CheckInDate         time.Time `gorm:"column:check_in_date"`
	CheckOutDate        time.Time `gorm:"column:check_out_date"`
	GuestName           string    `gorm:"column:guest_name"`
	Platform            string    `gorm:"column:platform"`
	UrgentTurnover      bool      `gorm:"column:is_urgent_turnover"`
	Manual              bool      `gorm:"column:is_manual"`
	Notes               string    `gorm:"column:notes"`
	SourceSnapshot      string    `gorm:"column:source_snapshot;type:text"`
	CreatedAt           time.Time `gorm:"column:created_at"`
	UpdatedAt           time.Time `gorm:"column:updated_at"`
}

// TableName overrides the table name for work orders.
func (WorkOrder) TableName() string {
	return "cleaning_work_orders"
}

// SyncConfiguration represents the 'sync_configurations' table: one external
// feed registration (one platform, one property) plus its sync telemetry.
// Telemetry columns are mutated by the orchestrator only.
type SyncConfiguration struct {
	ID              string     `gorm:"column:id;primaryKey"`
	PropertyID      string     `gorm:"column:property_id;index"`
	Platform        string     `gorm:"column:platform"`
	FeedURL         string     `gorm:"column:feed_url"`
	Name            string     `gorm:"column:name"`
	Active          bool       `gorm:"column:is_active;index"`
	SyncIntervalMin int        `gorm:"column:sync_interval_min"`
	LastSyncAt      *time.Time `gorm:"column:last_sync_at"`
	LastSyncStatus  string     `gorm:"column:last_sync_status"`
	LastSyncError   *string    `gorm:"column:last_sync_error"`
	LastEventsFound int        `gorm:"column:last_events_found"`
	LastCreated     int        `gorm:"column:last_created"`
	LastUpdated     int        `gorm:"column:last_updated"`
	LastCancelled   int        `gorm:"column:last_cancelled"`
	CreatedAt       time.Time  `gorm:"column:created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at"`
}

// TableName overrides the table name for sync configurations.
func (SyncConfiguration) TableName() string {
	return "sync_configurations"
}

// SyncLog represents the 'sync_logs' table: one append-only row per sync
// run, written regardless of outcome.
type SyncLog struct {
	ID                  string    `gorm:"column:id;primaryKey"`
	SyncConfigurationID string    `gorm:"column:sync_configuration_id;index"`
	PropertyID          string    `gorm:"column:property_id"`
	Platform            string    `gorm:"column:platform"`
	Success             bool      `gorm:"column:success"`
	EventsFound         int       `gorm:"column:events_found"`
	Created             int       `gorm:"column:created"`
	Updated             int       `gorm:"column:updated"`
	Cancelled           int       `gorm:"column:cancelled"`
	Error               *string   `gorm:"column:error"`
	DurationMS          int64     `gorm:"column:duration_ms"`
	RanAt               time.Time `gorm:"column:ran_at;index"`
}

// TableName overrides the table name for sync logs.
func (SyncLog) TableName() string {
	return "sync_logs"
}

// SyncCounts aggregates the write statistics of one reconciliation pass.
type SyncCounts struct {
	EventsFound int
	Created     int
	Updated     int
	Cancelled   int
}

// SyncResult is returned to whoever invoked a sync: the scheduler, the HTTP
// surface, or the CLI.
type SyncResult struct {
	Success             bool   `json:"success"`
	SyncConfigurationID string `json:"sync_configuration_id"`
	PropertyID          string `json:"property_id"`
	Platform            string `json:"platform"`
	EventsFound         int    `json:"events_found"`
	Created             int    `json:"created"`
	Updated             int    `json:"updated"`
	Cancelled           int    `json:"cancelled"`
	DurationMS          int64  `json:"duration_ms"`
	Error               string `json:"error,omitempty"`
}
