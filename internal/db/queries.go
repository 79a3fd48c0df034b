package db

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

type Queries struct {
	db  *sql.DB
	now func() time.Time
}

func (q *Queries) unixNow() int64 { return q.now().Unix() }

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

func i2b(i int) bool { return i != 0 }

func tFromUnix(u int64) time.Time {
	if u <= 0 {
		return time.Time{}
	}
	return time.Unix(u, 0).UTC()
}

/* ---------------- Users ---------------- */

const userColumns = `id,email,password_hash,role,name,location,phone,COALESCE(token,''),created_at`

func scanUser(row interface{ Scan(...any) error }) (*User, error) {
	var u User
	var ca int64
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.Name, &u.Location, &u.Phone, &u.Token, &ca); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	u.CreatedAt = tFromUnix(ca)
	return &u, nil
}

func (q *Queries) CreateUser(ctx context.Context, p CreateUserParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO users(email,password_hash,role,name,location,phone,token,created_at)
		VALUES(?,?,?,?,?,?,?,?)`,
		p.Email, p.PasswordHash, p.Role, p.Name, p.Location, p.Phone, p.Token, q.unixNow())
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicate
		}
		return 0, err
	}
	return res.LastInsertId()
}

// GetUserByID returns nil, nil when no user matches.
func (q *Queries) GetUserByID(ctx context.Context, id int64) (*User, error) {
	return scanUser(q.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id=?`, id))
}

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return scanUser(q.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email=?`, email))
}

func (q *Queries) GetUserByToken(ctx context.Context, token string) (*User, error) {
	if token == "" {
		return nil, nil
	}
	return scanUser(q.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE token=?`, token))
}

// SetUserToken overwrites the user's token; the previous one stops resolving.
func (q *Queries) SetUserToken(ctx context.Context, id int64, token string) error {
	res, err := q.db.ExecContext(ctx, `UPDATE users SET token=? WHERE id=?`, token, id)
	if err != nil {
		return err
	}
	return expectOne(res)
}

/* ---------------- Menu ---------------- */

func (q *Queries) ListActiveMenuItems(ctx context.Context, category string) ([]MenuItem, error) {
	var rows *sql.Rows
	var err error
	if category == "" {
		rows, err = q.db.QueryContext(ctx, `
			SELECT id,name,price,category,canteen_id,is_active
			FROM menu_items WHERE is_active=1 ORDER BY id`)
	} else {
		rows, err = q.db.QueryContext(ctx, `
			SELECT id,name,price,category,canteen_id,is_active
			FROM menu_items WHERE category=? AND is_active=1 ORDER BY id`, category)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []MenuItem{}
	for rows.Next() {
		var m MenuItem
		var active int
		if err := rows.Scan(&m.ID, &m.Name, &m.Price, &m.Category, &m.CanteenID, &active); err != nil {
			return nil, err
		}
		m.IsActive = i2b(active)
		out = append(out, m)
	}
	return out, rows.Err()
}

func (q *Queries) CreateMenuItem(ctx context.Context, p CreateMenuItemParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO menu_items(name,price,category,canteen_id,is_active)
		VALUES(?,?,?,?,1)`,
		p.Name, p.Price, p.Category, p.CanteenID)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (q *Queries) SetMenuItemActive(ctx context.Context, id int64, active bool) error {
	res, err := q.db.ExecContext(ctx, `UPDATE menu_items SET is_active=? WHERE id=?`, b2i(active), id)
	if err != nil {
		return err
	}
	return expectOne(res)
}

func (q *Queries) CountMenuItems(ctx context.Context) (int, error) {
	var n int
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM menu_items`).Scan(&n)
	return n, err
}

/* ---------------- Orders ---------------- */

func (q *Queries) CreateOrder(ctx context.Context, p CreateOrderParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO orders(order_number,canteen_id,total_amount,payment_mode,is_complimentary,order_date)
		VALUES(?,?,?,?,?,?)`,
		p.OrderNumber, p.CanteenID, p.TotalAmount, p.PaymentMode, b2i(p.IsComplimentary), q.unixNow())
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicate
		}
		return 0, err
	}
	return res.LastInsertId()
}

// ListRecentOrders returns at most limit orders, newest first.
func (q *Queries) ListRecentOrders(ctx context.Context, limit int) ([]Order, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id,order_number,canteen_id,total_amount,payment_mode,is_complimentary,order_date
		FROM orders
		ORDER BY order_date DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Order{}
	for rows.Next() {
		var o Order
		var comp int
		var od int64
		if err := rows.Scan(&o.ID, &o.OrderNumber, &o.CanteenID, &o.TotalAmount, &o.PaymentMode, &comp, &od); err != nil {
			return nil, err
		}
		o.IsComplimentary = i2b(comp)
		o.OrderDate = tFromUnix(od)
		out = append(out, o)
	}
	return out, rows.Err()
}

/* ---------------- Production ---------------- */

// CreateProduction stores prepared - consumed as the surplus; callers never supply it.
func (q *Queries) CreateProduction(ctx context.Context, p CreateProductionParams) (int64, error) {
	surplus := p.QuantityPrepared - p.QuantityConsumed
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO daily_production(date,item_name,quantity_prepared,quantity_consumed,quantity_surplus,canteen_id,shift,created_at)
		VALUES(?,?,?,?,?,?,?,?)`,
		p.Date, p.ItemName, p.QuantityPrepared, p.QuantityConsumed, surplus, p.CanteenID, p.Shift, q.unixNow())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (q *Queries) GetProduction(ctx context.Context, id int64) (*Production, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT id,date,item_name,quantity_prepared,quantity_consumed,quantity_surplus,canteen_id,shift,created_at
		FROM daily_production WHERE id=?`, id)
	var p Production
	var ca int64
	if err := row.Scan(&p.ID, &p.Date, &p.ItemName, &p.QuantityPrepared, &p.QuantityConsumed, &p.QuantitySurplus, &p.CanteenID, &p.Shift, &ca); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	p.CreatedAt = tFromUnix(ca)
	return &p, nil
}

/* ---------------- Surplus broadcasts ---------------- */

const broadcastColumns = `id,canteen_id,item_name,category,quantity,pickup_window,status,claimed_by,claimed_at,broadcast_date`

func scanBroadcast(row interface{ Scan(...any) error }) (*SurplusBroadcast, error) {
	var b SurplusBroadcast
	var claimedBy, claimedAt sql.NullInt64
	var bd int64
	if err := row.Scan(&b.ID, &b.CanteenID, &b.ItemName, &b.Category, &b.Quantity, &b.PickupWindow, &b.Status, &claimedBy, &claimedAt, &bd); err != nil {
		return nil, err
	}
	if claimedBy.Valid {
		v := claimedBy.Int64
		b.ClaimedBy = &v
	}
	if claimedAt.Valid {
		t := tFromUnix(claimedAt.Int64)
		b.ClaimedAt = &t
	}
	b.BroadcastDate = tFromUnix(bd)
	return &b, nil
}

func (q *Queries) CreateBroadcast(ctx context.Context, p CreateBroadcastParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO surplus_broadcasts(canteen_id,item_name,category,quantity,pickup_window,status,broadcast_date)
		VALUES(?,?,?,?,?,'active',?)`,
		p.CanteenID, p.ItemName, p.Category, p.Quantity, p.PickupWindow, q.unixNow())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (q *Queries) GetBroadcast(ctx context.Context, id int64) (*SurplusBroadcast, error) {
	b, err := scanBroadcast(q.db.QueryRowContext(ctx, `SELECT `+broadcastColumns+` FROM surplus_broadcasts WHERE id=?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return b, err
}

func (q *Queries) ListActiveBroadcasts(ctx context.Context) ([]SurplusBroadcast, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+broadcastColumns+`
		FROM surplus_broadcasts
		WHERE status='active'
		ORDER BY broadcast_date DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []SurplusBroadcast{}
	for rows.Next() {
		b, err := scanBroadcast(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

// ClaimBroadcast flips an active broadcast to claimed in one conditional
// statement. Concurrent callers race on the WHERE clause; exactly one sees a
// row affected, the rest get ErrNotAvailable.
func (q *Queries) ClaimBroadcast(ctx context.Context, id, claimantID int64) error {
	res, err := q.db.ExecContext(ctx, `
		UPDATE surplus_broadcasts
		SET status='claimed', claimed_by=?, claimed_at=?
		WHERE id=? AND status='active'`,
		claimantID, q.unixNow(), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotAvailable
	}
	return nil
}

/* ---------------- Push subscriptions ---------------- */

func (q *Queries) UpsertPushSubscription(ctx context.Context, p PushSubscription) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO push_subscriptions(user_id,endpoint,p256dh,auth,created_at)
		VALUES(?,?,?,?,?)
		ON CONFLICT(endpoint) DO UPDATE SET
			user_id=excluded.user_id, p256dh=excluded.p256dh, auth=excluded.auth`,
		p.UserID, p.Endpoint, p.P256dh, p.Auth, q.unixNow())
	return err
}

func (q *Queries) ListPushSubscriptions(ctx context.Context) ([]PushSubscription, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id,user_id,endpoint,p256dh,auth FROM push_subscriptions ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PushSubscription
	for rows.Next() {
		var s PushSubscription
		if err := rows.Scan(&s.ID, &s.UserID, &s.Endpoint, &s.P256dh, &s.Auth); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (q *Queries) DeletePushSubscription(ctx context.Context, endpoint string) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM push_subscriptions WHERE endpoint=?`, endpoint)
	return err
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
