package app

import (
	"context"
	"fmt"
	"strings"

	"foodiq-go/internal/db"
)

type LogProductionInput struct {
	Date             string `json:"date" validate:"required,datetime=2006-01-02"`
	ItemName         string `json:"item_name" validate:"required"`
	QuantityPrepared *int64 `json:"quantity_prepared" validate:"required,gte=0"`
	QuantityConsumed *int64 `json:"quantity_consumed" validate:"required,gte=0"`
	Shift            string `json:"shift"`
}

// LogProduction appends one production record. Consumed may exceed prepared;
// the negative surplus is stored as is.
func (a *App) LogProduction(ctx context.Context, in LogProductionInput) (int64, error) {
	in.Date = strings.TrimSpace(in.Date)
	in.ItemName = strings.TrimSpace(in.ItemName)
	if err := a.validateStruct(in); err != nil {
		return 0, err
	}

	p := db.CreateProductionParams{
		Date:             in.Date,
		ItemName:         in.ItemName,
		QuantityPrepared: *in.QuantityPrepared,
		QuantityConsumed: *in.QuantityConsumed,
		CanteenID:        a.cfg.CanteenID,
		Shift:            strings.TrimSpace(in.Shift),
	}
	id, err := a.store.Q.CreateProduction(ctx, p)
	if err != nil {
		return 0, fmt.Errorf("create production: %w", err)
	}

	a.sseHub.BroadcastRole(RoleCanteen, SSEEvent{Type: EventProductionLogged, Data: map[string]any{
		"id":               id,
		"date":             p.Date,
		"item_name":        p.ItemName,
		"quantity_surplus": p.QuantityPrepared - p.QuantityConsumed,
	}})
	return id, nil
}
