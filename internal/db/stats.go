package db

import (
	"context"
	"time"
)

// unboundedDays is the window size past which ProductionStats stops applying
// a lower date bound at all.
const unboundedDays = 1_000_000

// OverallStats sums every production row ever recorded. Empty history yields
// zeros, never NULLs.
func (q *Queries) OverallStats(ctx context.Context) (OverallStats, error) {
	var s OverallStats
	err := q.db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(quantity_prepared), 0),
			COALESCE(SUM(quantity_consumed), 0),
			COALESCE(SUM(quantity_surplus), 0),
			COALESCE(AVG(quantity_surplus), 0.0),
			COALESCE(SUM(quantity_consumed) * 100.0 / NULLIF(SUM(quantity_prepared), 0), 0.0)
		FROM daily_production`).
		Scan(&s.TotalPrepared, &s.TotalConsumed, &s.TotalSurplus, &s.AvgSurplusPerDay, &s.AvgConsumptionRatePercent)
	return s, err
}

// ProductionStats groups production by calendar date over the trailing days
// (today included), newest date first.
func (q *Queries) ProductionStats(ctx context.Context, days int) ([]DailyProductionStat, error) {
	cutoff := ""
	if days < unboundedDays {
		cutoff = q.now().UTC().AddDate(0, 0, -days).Format(time.DateOnly)
	}

	rows, err := q.db.QueryContext(ctx, `
		SELECT
			date,
			SUM(quantity_prepared),
			SUM(quantity_consumed),
			SUM(quantity_surplus)
		FROM daily_production
		WHERE date >= ?
		GROUP BY date
		ORDER BY date DESC`, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []DailyProductionStat{}
	for rows.Next() {
		var d DailyProductionStat
		if err := rows.Scan(&d.Date, &d.TotalPrepared, &d.TotalConsumed, &d.TotalSurplus); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// WastageByItem ranks dishes by accumulated surplus. Items with nothing
// prepared report a waste rate of 0.
func (q *Queries) WastageByItem(ctx context.Context, limit int) ([]ItemWastage, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT
			item_name AS dish_name,
			SUM(quantity_prepared) AS total_prepared,
			SUM(quantity_consumed) AS total_consumed,
			SUM(quantity_surplus) AS total_surplus,
			COALESCE(ROUND(SUM(quantity_surplus) * 100.0 / NULLIF(SUM(quantity_prepared), 0), 2), 0.0)
		FROM daily_production
		GROUP BY item_name
		ORDER BY total_surplus DESC, dish_name ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []ItemWastage{}
	for rows.Next() {
		var w ItemWastage
		if err := rows.Scan(&w.DishName, &w.TotalPrepared, &w.TotalConsumed, &w.TotalSurplus, &w.WasteRatePercent); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// RevenueStats covers orders placed on or after the UTC calendar day that was
// `days` days ago.
func (q *Queries) RevenueStats(ctx context.Context, days int) (RevenueStats, error) {
	now := q.now().UTC()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -days)

	var s RevenueStats
	err := q.db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(total_amount), 0.0),
			COUNT(*),
			COALESCE(AVG(total_amount), 0.0)
		FROM orders
		WHERE order_date >= ?`, start.Unix()).
		Scan(&s.TotalRevenue, &s.TotalOrders, &s.AvgOrderValue)
	return s, err
}
