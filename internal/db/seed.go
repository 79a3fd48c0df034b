package db

import (
	"context"
	"database/sql"
	"fmt"
)

type seedMenuItem struct {
	Name     string
	Price    float64
	Category string
}

var defaultMenu = []seedMenuItem{
	{"Vada Pav", 20, "breakfast"},
	{"Samosa Pav", 22, "breakfast"},
	{"Idli Sambar", 40, "breakfast"},
	{"Masala Dosa", 70, "breakfast"},
	{"Upma", 25, "breakfast"},
	{"Veg Thali", 100, "lunch"},
	{"Chicken Thali", 150, "lunch"},
	{"Chicken Biryani", 160, "lunch"},
	{"Veg Biryani", 120, "lunch"},
	{"Dal Khichdi", 90, "lunch"},
	{"Pav Bhaji", 100, "dinner"},
	{"Veg Frankie", 60, "dinner"},
	{"Chicken Frankie", 90, "dinner"},
	{"Veg Pizza", 120, "dinner"},
	{"Cold Coffee", 60, "dinner"},
}

// SeedMenu inserts the default canteen menu. Callers check emptiness first;
// running it twice duplicates items.
func SeedMenu(ctx context.Context, db *sql.DB, canteenID int64) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO menu_items(name,price,category,canteen_id,is_active) VALUES(?,?,?,?,1)`)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, it := range defaultMenu {
		if _, err := stmt.ExecContext(ctx, it.Name, it.Price, it.Category, canteenID); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("seed %q: %w", it.Name, err)
		}
	}
	return tx.Commit()
}
