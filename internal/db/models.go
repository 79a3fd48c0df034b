package db

import "time"

const (
	StatusActive  = "active"
	StatusClaimed = "claimed"
)

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Name         string    `json:"name"`
	Location     string    `json:"location,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	Token        string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

type MenuItem struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Category  string  `json:"category"`
	CanteenID int64   `json:"canteen_id"`
	IsActive  bool    `json:"is_active"`
}

type Production struct {
	ID               int64     `json:"id"`
	Date             string    `json:"date"`
	ItemName         string    `json:"item_name"`
	QuantityPrepared int64     `json:"quantity_prepared"`
	QuantityConsumed int64     `json:"quantity_consumed"`
	QuantitySurplus  int64     `json:"quantity_surplus"`
	CanteenID        int64     `json:"canteen_id"`
	Shift            string    `json:"shift,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

type Order struct {
	ID              int64     `json:"id"`
	OrderNumber     string    `json:"order_number"`
	CanteenID       int64     `json:"canteen_id"`
	TotalAmount     float64   `json:"total_amount"`
	PaymentMode     string    `json:"payment_mode"`
	IsComplimentary bool      `json:"is_complimentary"`
	OrderDate       time.Time `json:"order_date"`
}

type SurplusBroadcast struct {
	ID            int64      `json:"id"`
	CanteenID     int64      `json:"canteen_id"`
	ItemName      string     `json:"item_name"`
	Category      string     `json:"category"`
	Quantity      string     `json:"quantity"`
	PickupWindow  string     `json:"pickup_window,omitempty"`
	Status        string     `json:"status"`
	ClaimedBy     *int64     `json:"claimed_by"`
	ClaimedAt     *time.Time `json:"claimed_at,omitempty"`
	BroadcastDate time.Time  `json:"broadcast_date"`
}

type PushSubscription struct {
	ID       int64
	UserID   int64
	Endpoint string
	P256dh   string
	Auth     string
}

/* ---------- report rows ---------- */

type OverallStats struct {
	TotalPrepared             int64   `json:"total_prepared"`
	TotalConsumed             int64   `json:"total_consumed"`
	TotalSurplus              int64   `json:"total_surplus"`
	AvgSurplusPerDay          float64 `json:"avg_surplus_per_day"`
	AvgConsumptionRatePercent float64 `json:"avg_consumption_rate_percent"`
}

type DailyProductionStat struct {
	Date          string `json:"date"`
	TotalPrepared int64  `json:"total_prepared"`
	TotalConsumed int64  `json:"total_consumed"`
	TotalSurplus  int64  `json:"total_surplus"`
}

type ItemWastage struct {
	DishName         string  `json:"dish_name"`
	TotalPrepared    int64   `json:"total_prepared"`
	TotalConsumed    int64   `json:"total_consumed"`
	TotalSurplus     int64   `json:"total_surplus"`
	WasteRatePercent float64 `json:"waste_rate_percent"`
}

type RevenueStats struct {
	TotalRevenue  float64 `json:"total_revenue"`
	TotalOrders   int64   `json:"total_orders"`
	AvgOrderValue float64 `json:"avg_order_value"`
}

/* ---------- parameter structs ---------- */

type CreateUserParams struct {
	Email        string
	PasswordHash string
	Role         string
	Name         string
	Location     string
	Phone        string
	Token        string
}

type CreateMenuItemParams struct {
	Name      string
	Price     float64
	Category  string
	CanteenID int64
}

type CreateProductionParams struct {
	Date             string
	ItemName         string
	QuantityPrepared int64
	QuantityConsumed int64
	CanteenID        int64
	Shift            string
}

type CreateOrderParams struct {
	OrderNumber     string
	CanteenID       int64
	TotalAmount     float64
	PaymentMode     string
	IsComplimentary bool
}

type CreateBroadcastParams struct {
	CanteenID    int64
	ItemName     string
	Category     string
	Quantity     string
	PickupWindow string
}
