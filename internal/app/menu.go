package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"foodiq-go/internal/db"
)

type AddMenuItemInput struct {
	Name     string   `json:"name" validate:"required"`
	Price    *float64 `json:"price" validate:"required,gt=0"`
	Category string   `json:"category" validate:"required,oneof=breakfast lunch dinner"`
}

type SetMenuItemActiveInput struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

func (a *App) ListMenu(ctx context.Context, category string) ([]db.MenuItem, error) {
	return a.store.Q.ListActiveMenuItems(ctx, strings.TrimSpace(strings.ToLower(category)))
}

func (a *App) AddMenuItem(ctx context.Context, in AddMenuItemInput) (int64, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(strings.ToLower(in.Category))
	if err := a.validateStruct(in); err != nil {
		return 0, err
	}
	id, err := a.store.Q.CreateMenuItem(ctx, db.CreateMenuItemParams{
		Name:      in.Name,
		Price:     *in.Price,
		Category:  in.Category,
		CanteenID: a.cfg.CanteenID,
	})
	if err != nil {
		return 0, fmt.Errorf("create menu item: %w", err)
	}
	return id, nil
}

// SetMenuItemActive soft-(de)activates an item; inactive items leave the menu.
func (a *App) SetMenuItemActive(ctx context.Context, id int64, in SetMenuItemActiveInput) error {
	if err := a.validateStruct(in); err != nil {
		return err
	}
	err := a.store.Q.SetMenuItemActive(ctx, id, *in.IsActive)
	if errors.Is(err, db.ErrNotFound) {
		return newError(ErrNotFound, "menu item %d not found", id)
	}
	return err
}
