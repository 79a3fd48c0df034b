package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"foodiq-go/internal/db"
)

const (
	recentOrdersLimit  = 50
	defaultPaymentMode = "cash"
)

type CreateOrderInput struct {
	TotalAmount     *float64 `json:"total_amount" validate:"required,gte=0"`
	PaymentMode     string   `json:"payment_mode"`
	IsComplimentary FlexBool `json:"is_complimentary"`
}

type CreateOrderResult struct {
	OrderID     int64  `json:"orderId"`
	OrderNumber string `json:"order_number"`
	Message     string `json:"message"`
}

// newOrderNumber is the creation second plus a random suffix, so two orders
// in the same second still get distinct numbers.
func (a *App) newOrderNumber() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return "ORD-" + a.now().Format("20060102150405") + "-" + suffix
}

func (a *App) CreateOrder(ctx context.Context, in CreateOrderInput) (*CreateOrderResult, error) {
	if err := a.validateStruct(in); err != nil {
		return nil, err
	}
	mode := strings.TrimSpace(in.PaymentMode)
	if mode == "" {
		mode = defaultPaymentMode
	}

	number := a.newOrderNumber()
	id, err := a.store.Q.CreateOrder(ctx, db.CreateOrderParams{
		OrderNumber:     number,
		CanteenID:       a.cfg.CanteenID,
		TotalAmount:     *in.TotalAmount,
		PaymentMode:     mode,
		IsComplimentary: bool(in.IsComplimentary),
	})
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	return &CreateOrderResult{OrderID: id, OrderNumber: number, Message: "Order created"}, nil
}

func (a *App) ListOrders(ctx context.Context) ([]db.Order, error) {
	return a.store.Q.ListRecentOrders(ctx, recentOrdersLimit)
}
