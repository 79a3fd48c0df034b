package app

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"

	"foodiq-go/internal/db"
)

const (
	defaultStatsDays   = 30
	revenueWindowDays  = 30
	wastageReportLimit = 10
)

// ParseDays reads the ?days= window. Empty means the default; values too
// large for an int widen the window without bound.
func ParseDays(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return defaultStatsDays, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(raw, "-") {
			return math.MaxInt, nil
		}
		return 0, newError(ErrValidation, "days must be an integer")
	}
	if n < 0 {
		return 0, newError(ErrValidation, "days must not be negative")
	}
	return n, nil
}

func (a *App) OverallStats(ctx context.Context) (db.OverallStats, error) {
	return a.store.Q.OverallStats(ctx)
}

func (a *App) ProductionStats(ctx context.Context, days int) ([]db.DailyProductionStat, error) {
	if days < 0 {
		return nil, newError(ErrValidation, "days must not be negative")
	}
	return a.store.Q.ProductionStats(ctx, days)
}

func (a *App) WastageByItem(ctx context.Context) ([]db.ItemWastage, error) {
	return a.store.Q.WastageByItem(ctx, wastageReportLimit)
}

func (a *App) RevenueStats(ctx context.Context) (db.RevenueStats, error) {
	return a.store.Q.RevenueStats(ctx, revenueWindowDays)
}
