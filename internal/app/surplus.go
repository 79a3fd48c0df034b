package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"foodiq-go/internal/db"
)

type BroadcastInput struct {
	ItemName     string     `json:"item_name" validate:"required"`
	Category     string     `json:"category" validate:"required"`
	Quantity     FlexString `json:"quantity" validate:"required"`
	PickupWindow string     `json:"pickup_window"`
}

func (a *App) BroadcastSurplus(ctx context.Context, in BroadcastInput) (int64, error) {
	in.ItemName = strings.TrimSpace(in.ItemName)
	in.Category = strings.TrimSpace(in.Category)
	in.Quantity = FlexString(strings.TrimSpace(string(in.Quantity)))
	if err := a.validateStruct(in); err != nil {
		return 0, err
	}

	id, err := a.store.Q.CreateBroadcast(ctx, db.CreateBroadcastParams{
		CanteenID:    a.cfg.CanteenID,
		ItemName:     in.ItemName,
		Category:     in.Category,
		Quantity:     string(in.Quantity),
		PickupWindow: strings.TrimSpace(in.PickupWindow),
	})
	if err != nil {
		return 0, fmt.Errorf("create broadcast: %w", err)
	}

	b, err := a.store.Q.GetBroadcast(ctx, id)
	if err != nil || b == nil {
		a.log.Warn("broadcast created but reload failed", "id", id, "err", err)
		return id, nil
	}
	a.sseHub.BroadcastSurplus(SSEEvent{Type: EventSurplusCreated, Data: b})

	a.notifySurplusAsync(*b)
	return id, nil
}

func (a *App) ListActiveSurplus(ctx context.Context) ([]db.SurplusBroadcast, error) {
	return a.store.Q.ListActiveBroadcasts(ctx)
}

// ClaimSurplus reserves an active broadcast for the claimant. Losing a race,
// claiming twice, or naming an unknown id all yield ErrNotAvailable.
func (a *App) ClaimSurplus(ctx context.Context, id, claimantID int64) error {
	err := a.store.Q.ClaimBroadcast(ctx, id, claimantID)
	if errors.Is(err, db.ErrNotAvailable) {
		return newError(ErrNotAvailable, "Broadcast not available")
	}
	if err != nil {
		return fmt.Errorf("claim broadcast: %w", err)
	}

	a.log.Info("surplus claimed", "id", id, "claimed_by", claimantID)
	a.sseHub.BroadcastSurplus(SSEEvent{Type: EventSurplusClaimed, Data: map[string]any{"id": id, "claimed_by": claimantID}})

	// The claimant's other sessions get the full record with pickup details.
	b, err := a.store.Q.GetBroadcast(ctx, id)
	if err != nil || b == nil {
		a.log.Warn("claimed broadcast reload failed", "id", id, "err", err)
		return nil
	}
	a.sseHub.BroadcastUser(claimantID, SSEEvent{Type: EventClaimConfirmed, Data: b})
	return nil
}
