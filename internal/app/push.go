package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	webpush "github.com/SherClockHolmes/webpush-go"

	"foodiq-go/internal/db"
)

// pushTTL keeps a notification queued at the push service for about as long
// as a typical pickup window.
const pushTTL = 4 * 60 * 60

// pushDeliveryTimeout bounds one background fan-out to all subscribers.
const pushDeliveryTimeout = 30 * time.Second

type pushStore interface {
	ListPushSubscriptions(ctx context.Context) ([]db.PushSubscription, error)
	DeletePushSubscription(ctx context.Context, endpoint string) error
}

// PushNotifier delivers Web Push messages to every stored subscription.
type PushNotifier struct {
	store   pushStore
	log     *slog.Logger
	opts    webpush.Options
	enabled bool
}

type PushKeys struct {
	P256dh string `json:"p256dh" validate:"required"`
	Auth   string `json:"auth" validate:"required"`
}

type PushSubscribeInput struct {
	Endpoint string   `json:"endpoint" validate:"required,url"`
	Keys     PushKeys `json:"keys"`
}

type surplusPush struct {
	Type         string `json:"type"`
	ID           int64  `json:"id"`
	ItemName     string `json:"item_name"`
	Category     string `json:"category"`
	Quantity     string `json:"quantity"`
	PickupWindow string `json:"pickup_window,omitempty"`
}

func NewPushNotifier(cfg Config, store pushStore, logger *slog.Logger) *PushNotifier {
	return &PushNotifier{
		store: store,
		log:   logger,
		opts: webpush.Options{
			HTTPClient:      &http.Client{Timeout: 10 * time.Second},
			Subscriber:      cfg.VAPIDSubscriber,
			VAPIDPublicKey:  cfg.VAPIDPublicKey,
			VAPIDPrivateKey: cfg.VAPIDPrivateKey,
			TTL:             pushTTL,
			Urgency:         webpush.UrgencyHigh,
		},
		enabled: cfg.PushEnabled(),
	}
}

func (n *PushNotifier) Enabled() bool     { return n != nil && n.enabled }
func (n *PushNotifier) PublicKey() string { return n.opts.VAPIDPublicKey }

// NotifySurplus pushes a new broadcast to all subscribers and returns how many
// deliveries the push services accepted. Subscriptions the push service
// reports as gone are removed. It stops early with ctx.Err() once ctx ends.
func (n *PushNotifier) NotifySurplus(ctx context.Context, b db.SurplusBroadcast) (int, error) {
	if !n.Enabled() {
		return 0, nil
	}
	payload, err := json.Marshal(surplusPush{
		Type:         EventSurplusCreated,
		ID:           b.ID,
		ItemName:     b.ItemName,
		Category:     b.Category,
		Quantity:     b.Quantity,
		PickupWindow: b.PickupWindow,
	})
	if err != nil {
		return 0, err
	}

	subs, err := n.store.ListPushSubscriptions(ctx)
	if err != nil {
		return 0, fmt.Errorf("list subscriptions: %w", err)
	}

	sent := 0
	for _, s := range subs {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		resp, err := webpush.SendNotificationWithContext(ctx, payload, &webpush.Subscription{
			Endpoint: s.Endpoint,
			Keys:     webpush.Keys{P256dh: s.P256dh, Auth: s.Auth},
		}, &n.opts)
		if err != nil {
			n.log.Warn("push send failed", "endpoint", s.Endpoint, "err", err)
			continue
		}
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
			if err := n.store.DeletePushSubscription(ctx, s.Endpoint); err != nil {
				n.log.Warn("push subscription cleanup failed", "endpoint", s.Endpoint, "err", err)
			} else {
				n.log.Info("push subscription expired", "endpoint", s.Endpoint, "user_id", s.UserID)
			}
		case resp.StatusCode >= 400:
			n.log.Warn("push rejected", "endpoint", s.Endpoint, "status", resp.StatusCode)
		default:
			sent++
		}
	}
	return sent, nil
}

// notifySurplusAsync fans a broadcast out to push subscribers in the
// background with its own deadline. Close waits for pending deliveries.
func (a *App) notifySurplusAsync(b db.SurplusBroadcast) {
	if !a.push.Enabled() {
		return
	}
	a.bg.Add(1)
	go func() {
		defer a.bg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), a.pushTimeout)
		defer cancel()

		sent, err := a.push.NotifySurplus(ctx, b)
		if err != nil {
			a.log.Warn("surplus push failed", "id", b.ID, "deliveries", sent, "err", err)
			return
		}
		if sent > 0 {
			a.log.Info("surplus push sent", "id", b.ID, "deliveries", sent)
		}
	}()
}

// SubscribePush stores the caller's browser push subscription.
func (a *App) SubscribePush(ctx context.Context, userID int64, in PushSubscribeInput) error {
	if err := a.validateStruct(in); err != nil {
		return err
	}
	return a.store.Q.UpsertPushSubscription(ctx, db.PushSubscription{
		UserID:   userID,
		Endpoint: in.Endpoint,
		P256dh:   in.Keys.P256dh,
		Auth:     in.Keys.Auth,
	})
}
