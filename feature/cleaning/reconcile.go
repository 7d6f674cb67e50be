package cleaning

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"cleansync/feature/cleaning/models"
	"cleansync/feature/reservation"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// cancelledNote is written on work orders whose reservation disappeared
// from the feed.
const cancelledNote = "Reservation no longer present in calendar feed"

// Reconciler diffs the canonical reservations of one sync run against the
// stored work orders of the same configuration and applies the difference
// through the gateway. It performs no locking and never touches the
// configuration's sync status; both are the orchestrator's job.
type Reconciler struct {
	gateway Gateway
	logger  *zap.Logger
}

// NewReconciler creates a reconciler writing through the given gateway.
func NewReconciler(gateway Gateway, logger *zap.Logger) *Reconciler {
	return &Reconciler{gateway: gateway, logger: logger}
}

// Reconcile applies one configuration's canonical reservations to its stored
// work orders: update and de-duplicate rows whose identity key is seen,
// create rows for new keys, cancel pending/assigned rows for keys that
// disappeared. Running it twice with the same input produces no writes on
// the second pass.
//
// A weak identity key can legitimately cover several stays in one feed (two
// bookings split by a gap under one UID prefix), so reconciliation works on
// whole key groups: the key's reservations and stored rows are paired by
// check-in date, surplus rows beyond the reservation count are duplicates.
func (r *Reconciler) Reconcile(ctx context.Context, config models.SyncConfiguration, reservations []reservation.CanonicalReservation) (models.SyncCounts, error) {
	var counts models.SyncCounts

	existing, err := r.gateway.ActiveWorkOrders(ctx, config.ID)
	if err != nil {
		return counts, fmt.Errorf("loading active work orders: %w", err)
	}

	// Group feed-generated rows by identity key, first sighting first.
	// Manual rows are operator-created and never touched by a sync run.
	groups := make(map[string][]models.WorkOrder)
	for _, wo := range existing {
		if wo.Manual || wo.IdentityKey == "" {
			continue
		}
		groups[wo.IdentityKey] = append(groups[wo.IdentityKey], wo)
	}

	byKey, keyOrder := groupReservations(reservations)
	for _, key := range keyOrder {
		if err := r.reconcileKey(ctx, config, key, byKey[key], groups[key], &counts); err != nil {
			return counts, err
		}
	}

	// Keys that vanished from the feed mean the reservation was cancelled.
	// Only rows nobody has started working on are cancelled; in_progress
	// and completed rows are never invalidated by a feed change.
	for _, wo := range existing {
		if wo.Manual || wo.IdentityKey == "" {
			continue
		}
		if _, ok := byKey[wo.IdentityKey]; ok {
			continue
		}
		if wo.Status != models.WorkOrderPending && wo.Status != models.WorkOrderAssigned {
			continue
		}
		updates := map[string]any{
			"status": models.WorkOrderCancelled,
			"notes":  cancelledNote,
		}
		if err := r.gateway.UpdateWorkOrder(ctx, wo.ID, updates); err != nil {
			return counts, fmt.Errorf("cancelling work order %s: %w", wo.ID, err)
		}
		counts.Cancelled++
	}

	return counts, nil
}

// groupReservations buckets reservations by identity key, keys in
// first-seen order, each bucket sorted by check-in date.
func groupReservations(reservations []reservation.CanonicalReservation) (map[string][]reservation.CanonicalReservation, []string) {
	byKey := make(map[string][]reservation.CanonicalReservation)
	var keyOrder []string
	for _, res := range reservations {
		if _, ok := byKey[res.IdentityKey]; !ok {
			keyOrder = append(keyOrder, res.IdentityKey)
		}
		byKey[res.IdentityKey] = append(byKey[res.IdentityKey], res)
	}
	for _, key := range keyOrder {
		stays := byKey[key]
		sort.SliceStable(stays, func(i, j int) bool {
			return stays[i].CheckIn.Before(stays[j].CheckIn)
		})
	}
	return byKey, keyOrder
}

// reconcileKey applies one identity key's reservations to its stored rows.
// Reservations and rows are paired by check-in order; a paired row is
// rewritten only when its checkout drifted or the group carries surplus
// rows, unpaired reservations get new rows, and surplus rows beyond the
// reservation count are deleted as duplicates.
func (r *Reconciler) reconcileKey(ctx context.Context, config models.SyncConfiguration, key string, stays []reservation.CanonicalReservation, group []models.WorkOrder, counts *models.SyncCounts) error {
	if len(group) > 1 {
		group = append([]models.WorkOrder(nil), group...)
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].CheckInDate.Before(group[j].CheckInDate)
		})
	}

	for i, res := range stays {
		if i >= len(group) {
			if err := r.create(ctx, config, res); err != nil {
				return err
			}
			counts.Created++
			continue
		}

		wo := group[i]
		updatable := wo.Status == models.WorkOrderPending || wo.Status == models.WorkOrderAssigned
		changed := !wo.CheckOutDate.Equal(res.CheckOut) || len(group) > len(stays)

		if changed && updatable {
			if err := r.gateway.UpdateWorkOrder(ctx, wo.ID, updatesFor(res)); err != nil {
				return fmt.Errorf("updating work order %s: %w", wo.ID, err)
			}
			counts.Updated++
		}
	}

	// Duplicate cleanup: one non-cancelled row per stay, so surplus rows
	// go even when their paired siblings are frozen.
	if len(group) > len(stays) {
		ids := make([]string, 0, len(group)-len(stays))
		for _, dup := range group[len(stays):] {
			ids = append(ids, dup.ID)
		}
		if err := r.gateway.DeleteWorkOrders(ctx, ids); err != nil {
			return fmt.Errorf("deleting duplicate work orders: %w", err)
		}
		r.logger.Warn("Removed duplicate work orders",
			zap.String("sync_configuration_id", config.ID),
			zap.String("identity_key", key),
			zap.Int("removed", len(ids)))
	}

	return nil
}

func (r *Reconciler) create(ctx context.Context, config models.SyncConfiguration, res reservation.CanonicalReservation) error {
	wo := &models.WorkOrder{
		ID:                  uuid.NewString(),
		SyncConfigurationID: config.ID,
		PropertyID:          config.PropertyID,
		ScheduledDate:       res.CheckOut,
		Status:              models.WorkOrderPending,
		IdentityKey:         res.IdentityKey,
		CheckInDate:         res.CheckIn,
		CheckOutDate:        res.CheckOut,
		GuestName:           res.GuestName,
		Platform:            string(res.Platform),
		UrgentTurnover:      res.UrgentTurnover,
		Manual:              false,
		SourceSnapshot:      snapshot(res),
	}
	if err := r.gateway.CreateWorkOrder(ctx, wo); err != nil {
		return fmt.Errorf("creating work order for %s: %w", res.IdentityKey, err)
	}
	r.logger.Info("Created work order",
		zap.String("sync_configuration_id", config.ID),
		zap.String("identity_key", res.IdentityKey),
		zap.Time("scheduled_date", res.CheckOut),
		zap.Int("nights", res.Nights()),
		zap.Bool("urgent_turnover", res.UrgentTurnover))
	return nil
}

// updatesFor builds the partial update applied when a reservation's stored
// row drifted from the feed.
func updatesFor(res reservation.CanonicalReservation) map[string]any {
	return map[string]any{
		"scheduled_date":     res.CheckOut,
		"check_in_date":      res.CheckIn,
		"check_out_date":     res.CheckOut,
		"guest_name":         res.GuestName,
		"platform":           string(res.Platform),
		"is_urgent_turnover": res.UrgentTurnover,
		"source_snapshot":    snapshot(res),
	}
}

func snapshot(res reservation.CanonicalReservation) string {
	b, err := json.Marshal(res.Source)
	if err != nil {
		return ""
	}
	return string(b)
}
