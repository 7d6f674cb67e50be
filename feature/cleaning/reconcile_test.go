package cleaning

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"cleansync/feature/cleaning/models"
	"cleansync/feature/reservation"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeGateway is an in-memory Gateway for engine tests. It counts writes so
// idempotence can be asserted directly.
type fakeGateway struct {
	mu         sync.Mutex
	workOrders []models.WorkOrder
	logs       []models.SyncLog
	statuses   []string
	configs    []models.SyncConfiguration

	creates int
	updates int
	deletes int
}

func (g *fakeGateway) ActiveWorkOrders(_ context.Context, configID string) ([]models.WorkOrder, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []models.WorkOrder
	for _, wo := range g.workOrders {
		if wo.SyncConfigurationID == configID && wo.Status != models.WorkOrderCancelled {
			out = append(out, wo)
		}
	}
	return out, nil
}

func (g *fakeGateway) CreateWorkOrder(_ context.Context, wo *models.WorkOrder) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.creates++
	g.workOrders = append(g.workOrders, *wo)
	return nil
}

func (g *fakeGateway) UpdateWorkOrder(_ context.Context, id string, updates map[string]any) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.updates++
	for i := range g.workOrders {
		if g.workOrders[i].ID != id {
			continue
		}
		wo := &g.workOrders[i]
		if v, ok := updates["status"].(string); ok {
			wo.Status = v
		}
		if v, ok := updates["notes"].(string); ok {
			wo.Notes = v
		}
		if v, ok := updates["scheduled_date"].(time.Time); ok {
			wo.ScheduledDate = v
		}
		if v, ok := updates["check_in_date"].(time.Time); ok {
			wo.CheckInDate = v
		}
		if v, ok := updates["check_out_date"].(time.Time); ok {
			wo.CheckOutDate = v
		}
		if v, ok := updates["guest_name"].(string); ok {
			wo.GuestName = v
		}
		if v, ok := updates["platform"].(string); ok {
			wo.Platform = v
		}
		if v, ok := updates["is_urgent_turnover"].(bool); ok {
			wo.UrgentTurnover = v
		}
		if v, ok := updates["source_snapshot"].(string); ok {
			wo.SourceSnapshot = v
		}
		return nil
	}
	return fmt.Errorf("work order %s not found", id)
}

func (g *fakeGateway) DeleteWorkOrders(_ context.Context, ids []string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.deletes += len(ids)
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	kept := g.workOrders[:0]
	for _, wo := range g.workOrders {
		if _, ok := drop[wo.ID]; !ok {
			kept = append(kept, wo)
		}
	}
	g.workOrders = kept
	return nil
}

func (g *fakeGateway) UpdateConfigurationStatus(_ context.Context, _ string, status string, _ *string, _ models.SyncCounts) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.statuses = append(g.statuses, status)
	return nil
}

func (g *fakeGateway) AppendSyncLog(_ context.Context, entry *models.SyncLog) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.logs = append(g.logs, *entry)
	return nil
}

func (g *fakeGateway) ConfigurationsDueForSync(context.Context) ([]models.SyncConfiguration, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]models.SyncConfiguration(nil), g.configs...), nil
}

func (g *fakeGateway) ActiveConfigurationsForProperty(_ context.Context, propertyID string) ([]models.SyncConfiguration, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []models.SyncConfiguration
	for _, c := range g.configs {
		if c.PropertyID == propertyID && c.Active {
			out = append(out, c)
		}
	}
	return out, nil
}

func (g *fakeGateway) writeCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.creates + g.updates + g.deletes
}

func day(d int) time.Time {
	return time.Date(2026, 4, d, 0, 0, 0, 0, time.UTC)
}

func canonical(key string, in, out int) reservation.CanonicalReservation {
	return reservation.CanonicalReservation{
		CheckIn:     day(in),
		CheckOut:    day(out),
		Platform:    reservation.PlatformAirbnb,
		IdentityKey: key,
	}
}

func stored(configID, key, status string, in, out int) models.WorkOrder {
	return models.WorkOrder{
		ID:                  uuid.NewString(),
		SyncConfigurationID: configID,
		PropertyID:          "prop-1",
		ScheduledDate:       day(out),
		Status:              status,
		IdentityKey:         key,
		CheckInDate:         day(in),
		CheckOutDate:        day(out),
		Platform:            "airbnb",
	}
}

func testConfig() models.SyncConfiguration {
	return models.SyncConfiguration{
		ID:         "cfg-1",
		PropertyID: "prop-1",
		Platform:   "airbnb",
		Active:     true,
	}
}

// TestReconcile_CreatesPendingWorkOrders verifies that unseen identity keys
// produce pending, non-manual work orders scheduled on the checkout date.
func TestReconcile_CreatesPendingWorkOrders(t *testing.T) {
	gw := &fakeGateway{}
	rec := NewReconciler(gw, zap.NewNop())

	counts, err := rec.Reconcile(context.Background(), testConfig(), []reservation.CanonicalReservation{
		canonical("key-a", 4, 6),
		canonical("key-b", 8, 10),
	})
	require.NoError(t, err)

	assert.Equal(t, 2, counts.Created)
	assert.Zero(t, counts.Updated)
	assert.Zero(t, counts.Cancelled)
	require.Len(t, gw.workOrders, 2)
	for _, wo := range gw.workOrders {
		assert.Equal(t, models.WorkOrderPending, wo.Status)
		assert.False(t, wo.Manual)
		assert.Equal(t, wo.CheckOutDate, wo.ScheduledDate)
		assert.NotEmpty(t, wo.ID)
	}
}

// TestReconcile_Idempotent verifies that a second pass with unchanged input
// performs zero writes.
func TestReconcile_Idempotent(t *testing.T) {
	gw := &fakeGateway{}
	rec := NewReconciler(gw, zap.NewNop())
	input := []reservation.CanonicalReservation{canonical("key-a", 4, 6)}

	_, err := rec.Reconcile(context.Background(), testConfig(), input)
	require.NoError(t, err)
	writesAfterFirst := gw.writeCount()

	counts, err := rec.Reconcile(context.Background(), testConfig(), input)
	require.NoError(t, err)

	assert.Zero(t, counts.Created)
	assert.Zero(t, counts.Updated)
	assert.Zero(t, counts.Cancelled)
	assert.Equal(t, writesAfterFirst, gw.writeCount(), "second pass must not write")
}

// TestReconcile_UpdatesOnCheckoutChange verifies a pending work order is
// rewritten when the feed moved the checkout date.
func TestReconcile_UpdatesOnCheckoutChange(t *testing.T) {
	gw := &fakeGateway{workOrders: []models.WorkOrder{
		stored("cfg-1", "key-a", models.WorkOrderPending, 4, 6),
	}}
	rec := NewReconciler(gw, zap.NewNop())

	counts, err := rec.Reconcile(context.Background(), testConfig(), []reservation.CanonicalReservation{
		canonical("key-a", 4, 8),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, counts.Updated)
	require.Len(t, gw.workOrders, 1)
	assert.Equal(t, day(8), gw.workOrders[0].CheckOutDate)
	assert.Equal(t, day(8), gw.workOrders[0].ScheduledDate)
}

// TestReconcile_InProgressNotRewritten verifies that a checkout change does
// not touch a work order someone is already working on.
func TestReconcile_InProgressNotRewritten(t *testing.T) {
	gw := &fakeGateway{workOrders: []models.WorkOrder{
		stored("cfg-1", "key-a", models.WorkOrderInProgress, 4, 6),
	}}
	rec := NewReconciler(gw, zap.NewNop())

	counts, err := rec.Reconcile(context.Background(), testConfig(), []reservation.CanonicalReservation{
		canonical("key-a", 4, 8),
	})
	require.NoError(t, err)

	assert.Zero(t, counts.Updated)
	assert.Equal(t, day(6), gw.workOrders[0].CheckOutDate)
}

// TestReconcile_DuplicateCleanup verifies that two stored rows sharing an
// identity key are collapsed to exactly one in a single pass.
func TestReconcile_DuplicateCleanup(t *testing.T) {
	gw := &fakeGateway{workOrders: []models.WorkOrder{
		stored("cfg-1", "key-a", models.WorkOrderPending, 4, 6),
		stored("cfg-1", "key-a", models.WorkOrderPending, 4, 6),
	}}
	rec := NewReconciler(gw, zap.NewNop())

	counts, err := rec.Reconcile(context.Background(), testConfig(), []reservation.CanonicalReservation{
		canonical("key-a", 4, 6),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, counts.Updated)
	require.Len(t, gw.workOrders, 1)
	assert.Equal(t, "key-a", gw.workOrders[0].IdentityKey)
}

// TestReconcile_SameKeySeparateStays verifies a weak identity key covering
// two gap-separated stays keeps one work order per stay: the first pass
// creates both, a repeat pass writes nothing, and neither row is deleted as
// a duplicate of the other.
func TestReconcile_SameKeySeparateStays(t *testing.T) {
	gw := &fakeGateway{}
	rec := NewReconciler(gw, zap.NewNop())
	input := []reservation.CanonicalReservation{
		canonical("key-a", 1, 5),
		canonical("key-a", 8, 10),
	}

	counts, err := rec.Reconcile(context.Background(), testConfig(), input)
	require.NoError(t, err)
	assert.Equal(t, 2, counts.Created)
	require.Len(t, gw.workOrders, 2, "both stays must keep a work order")
	writesAfterFirst := gw.writeCount()

	counts, err = rec.Reconcile(context.Background(), testConfig(), input)
	require.NoError(t, err)

	assert.Zero(t, counts.Created)
	assert.Zero(t, counts.Updated)
	assert.Zero(t, counts.Cancelled)
	assert.Equal(t, writesAfterFirst, gw.writeCount(), "repeat pass must not write")
	require.Len(t, gw.workOrders, 2)

	checkouts := map[time.Time]bool{}
	for _, wo := range gw.workOrders {
		assert.Equal(t, "key-a", wo.IdentityKey)
		checkouts[wo.CheckOutDate] = true
	}
	assert.True(t, checkouts[day(5)])
	assert.True(t, checkouts[day(10)])
}

// TestReconcile_SameKeyStayMoves verifies that when one of two same-key
// stays moves its checkout, only that stay's row is rewritten.
func TestReconcile_SameKeyStayMoves(t *testing.T) {
	gw := &fakeGateway{workOrders: []models.WorkOrder{
		stored("cfg-1", "key-a", models.WorkOrderPending, 1, 5),
		stored("cfg-1", "key-a", models.WorkOrderPending, 8, 10),
	}}
	rec := NewReconciler(gw, zap.NewNop())

	counts, err := rec.Reconcile(context.Background(), testConfig(), []reservation.CanonicalReservation{
		canonical("key-a", 1, 5),
		canonical("key-a", 8, 11),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, counts.Updated)
	require.Len(t, gw.workOrders, 2)
	checkouts := map[time.Time]bool{}
	for _, wo := range gw.workOrders {
		checkouts[wo.CheckOutDate] = true
	}
	assert.True(t, checkouts[day(5)], "unchanged stay must keep its dates")
	assert.True(t, checkouts[day(11)], "moved stay must be rewritten")
}

// TestReconcile_CancellationGuard verifies a vanished reservation cancels a
// pending row but leaves an in_progress row untouched.
func TestReconcile_CancellationGuard(t *testing.T) {
	pending := stored("cfg-1", "key-gone-pending", models.WorkOrderPending, 4, 6)
	inProgress := stored("cfg-1", "key-gone-busy", models.WorkOrderInProgress, 4, 6)
	gw := &fakeGateway{workOrders: []models.WorkOrder{pending, inProgress}}
	rec := NewReconciler(gw, zap.NewNop())

	counts, err := rec.Reconcile(context.Background(), testConfig(), nil)
	require.NoError(t, err)

	assert.Equal(t, 1, counts.Cancelled)
	byKey := make(map[string]models.WorkOrder)
	for _, wo := range gw.workOrders {
		byKey[wo.IdentityKey] = wo
	}
	assert.Equal(t, models.WorkOrderCancelled, byKey["key-gone-pending"].Status)
	assert.NotEmpty(t, byKey["key-gone-pending"].Notes)
	assert.Equal(t, models.WorkOrderInProgress, byKey["key-gone-busy"].Status)
}

// TestReconcile_ManualWorkOrdersUntouched verifies operator-created rows are
// invisible to the sync: never matched, never cancelled.
func TestReconcile_ManualWorkOrdersUntouched(t *testing.T) {
	manual := stored("cfg-1", "", models.WorkOrderPending, 4, 6)
	manual.Manual = true
	gw := &fakeGateway{workOrders: []models.WorkOrder{manual}}
	rec := NewReconciler(gw, zap.NewNop())

	counts, err := rec.Reconcile(context.Background(), testConfig(), nil)
	require.NoError(t, err)

	assert.Zero(t, counts.Cancelled)
	assert.Equal(t, models.WorkOrderPending, gw.workOrders[0].Status)
}
