package cleaning

import (
	"context"
	"regexp"
	"testing"
	"time"

	"cleansync/feature/cleaning/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func newMockRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gdb, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	return NewRepository(gdb), mock
}

// TestActiveWorkOrders_ExcludesCancelled verifies the query filters out
// cancelled rows and orders by creation time.
func TestActiveWorkOrders_ExcludesCancelled(t *testing.T) {
	repo, mock := newMockRepository(t)

	rows := sqlmock.NewRows([]string{"id", "sync_configuration_id", "status", "identity_key"}).
		AddRow("wo-1", "cfg-1", models.WorkOrderPending, "key-a")

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT * FROM `cleaning_work_orders` WHERE sync_configuration_id = ? AND status <> ? ORDER BY created_at ASC")).
		WithArgs("cfg-1", models.WorkOrderCancelled).
		WillReturnRows(rows)

	orders, err := repo.ActiveWorkOrders(context.Background(), "cfg-1")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "wo-1", orders[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestDeleteWorkOrders_EmptyIsNoop verifies no SQL is issued for an empty
// id list.
func TestDeleteWorkOrders_EmptyIsNoop(t *testing.T) {
	repo, mock := newMockRepository(t)

	require.NoError(t, repo.DeleteWorkOrders(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestDeleteWorkOrders_DeletesByID verifies the delete targets the given ids.
func TestDeleteWorkOrders_DeletesByID(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(
		"DELETE FROM `cleaning_work_orders` WHERE id IN (?,?)")).
		WithArgs("wo-1", "wo-2").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	err := repo.DeleteWorkOrders(context.Background(), []string{"wo-1", "wo-2"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestUpdateConfigurationStatus_TerminalStampsCounts verifies terminal
// statuses also write the sync time and the run counts.
func TestUpdateConfigurationStatus_TerminalStampsCounts(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `sync_configurations` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.UpdateConfigurationStatus(context.Background(), "cfg-1", models.SyncSuccess, nil, models.SyncCounts{
		EventsFound: 3, Created: 1, Updated: 1, Cancelled: 1,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestConfigurationsDueForSync_Query verifies the due query shape.
func TestConfigurationsDueForSync_Query(t *testing.T) {
	repo, mock := newMockRepository(t)

	now := time.Now().Add(-time.Hour)
	rows := sqlmock.NewRows([]string{"id", "property_id", "is_active", "last_sync_at"}).
		AddRow("cfg-1", "prop-1", true, now)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT * FROM `sync_configurations` WHERE is_active = ? AND (last_sync_at IS NULL OR last_sync_at <= DATE_SUB(NOW(), INTERVAL sync_interval_min MINUTE)) ORDER BY last_sync_at ASC")).
		WithArgs(true).
		WillReturnRows(rows)

	configs, err := repo.ConfigurationsDueForSync(context.Background())
	require.NoError(t, err)
	require.Len(t, configs, 1)
	assert.Equal(t, "cfg-1", configs[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestAppendSyncLog_Inserts verifies log rows are inserted as-is.
func TestAppendSyncLog_Inserts(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `sync_logs`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.AppendSyncLog(context.Background(), &models.SyncLog{
		ID:                  "log-1",
		SyncConfigurationID: "cfg-1",
		Success:             true,
		RanAt:               time.Now().UTC(),
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
