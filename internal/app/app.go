package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"foodiq-go/internal/db"
)

type App struct {
	cfg      Config
	store    *db.Store
	log      *slog.Logger
	sseHub   *SSEHub
	push     *PushNotifier
	validate *validator.Validate
	now      func() time.Time

	// bg tracks background push deliveries.
	bg          sync.WaitGroup
	pushTimeout time.Duration
}

func New(cfg Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	cfg.withDefaults()

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir data dir: %w", err)
	}

	store, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	ctx := context.Background()
	if err := db.Migrate(ctx, store.DB); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	a := &App{
		cfg:         cfg,
		store:       store,
		log:         logger,
		sseHub:      NewSSEHub(logger),
		validate:    newValidator(),
		now:         time.Now,
		pushTimeout: pushDeliveryTimeout,
	}
	a.push = NewPushNotifier(cfg, store.Q, logger)
	if !a.push.Enabled() {
		logger.Warn("VAPID keys not set; web push notifications disabled")
	}

	// Seed menu ONLY if empty.
	if !cfg.SkipSeed {
		n, err := store.Q.CountMenuItems(ctx)
		if err != nil {
			a.log.Warn("menu count failed", "err", err)
		} else if n == 0 {
			if err := db.SeedMenu(ctx, store.DB, cfg.CanteenID); err != nil {
				a.log.Warn("menu seed failed", "err", err)
			} else {
				a.log.Info("menu seeded")
			}
		}
	}

	return a, nil
}

// newValidator reports field names by their JSON tag so error messages match
// the request body.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

func (a *App) Close() error {
	if a == nil {
		return nil
	}
	a.bg.Wait()
	if a.store != nil {
		return a.store.Close()
	}
	return nil
}

// SetClock replaces the time source for the app and its store.
func (a *App) SetClock(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	a.now = now
	a.store.SetClock(now)
}

func (a *App) Store() *db.Store     { return a.store }
func (a *App) SSE() *SSEHub         { return a.sseHub }
func (a *App) Push() *PushNotifier  { return a.push }
func (a *App) Config() Config       { return a.cfg }
func (a *App) Logger() *slog.Logger { return a.log }
