package db

import (
	"context"
	"database/sql"
)

func Migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`PRAGMA foreign_keys = ON;`,

		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL CHECK(role IN ('canteen','ngo')),
			name TEXT NOT NULL,
			location TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			token TEXT NULL,
			created_at INTEGER NOT NULL DEFAULT (strftime('%s','now'))
		);`,

		`CREATE TABLE IF NOT EXISTS menu_items (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			price REAL NOT NULL CHECK(price > 0),
			category TEXT NOT NULL CHECK(category IN ('breakfast','lunch','dinner')),
			canteen_id INTEGER NOT NULL DEFAULT 1,
			is_active INTEGER NOT NULL DEFAULT 1
		);`,

		`CREATE TABLE IF NOT EXISTS daily_production (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			date TEXT NOT NULL,
			item_name TEXT NOT NULL,
			quantity_prepared INTEGER NOT NULL,
			quantity_consumed INTEGER NOT NULL,
			quantity_surplus INTEGER NOT NULL,
			canteen_id INTEGER NOT NULL DEFAULT 1,
			shift TEXT NOT NULL DEFAULT '',
			created_at INTEGER NOT NULL DEFAULT (strftime('%s','now'))
		);`,

		`CREATE TABLE IF NOT EXISTS orders (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			order_number TEXT NOT NULL UNIQUE,
			canteen_id INTEGER NOT NULL DEFAULT 1,
			total_amount REAL NOT NULL CHECK(total_amount >= 0),
			payment_mode TEXT NOT NULL DEFAULT 'cash',
			is_complimentary INTEGER NOT NULL DEFAULT 0,
			order_date INTEGER NOT NULL DEFAULT (strftime('%s','now'))
		);`,

		`CREATE TABLE IF NOT EXISTS surplus_broadcasts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			canteen_id INTEGER NOT NULL DEFAULT 1,
			item_name TEXT NOT NULL,
			category TEXT NOT NULL,
			quantity TEXT NOT NULL,
			pickup_window TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'active' CHECK(status IN ('active','claimed')),
			claimed_by INTEGER NULL,
			claimed_at INTEGER NULL,
			broadcast_date INTEGER NOT NULL DEFAULT (strftime('%s','now')),
			FOREIGN KEY(claimed_by) REFERENCES users(id) ON DELETE SET NULL
		);`,

		`CREATE TABLE IF NOT EXISTS push_subscriptions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			endpoint TEXT NOT NULL UNIQUE,
			p256dh TEXT NOT NULL,
			auth TEXT NOT NULL,
			created_at INTEGER NOT NULL DEFAULT (strftime('%s','now')),
			FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE
		);`,

		`CREATE INDEX IF NOT EXISTS idx_users_token ON users(token);`,
		`CREATE INDEX IF NOT EXISTS idx_production_date ON daily_production(date);`,
		`CREATE INDEX IF NOT EXISTS idx_production_item ON daily_production(item_name);`,
		`CREATE INDEX IF NOT EXISTS idx_orders_date ON orders(order_date);`,
		`CREATE INDEX IF NOT EXISTS idx_broadcasts_status_date ON surplus_broadcasts(status, broadcast_date);`,
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for _, s := range stmts {
		if _, err := tx.ExecContext(ctx, s); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}
