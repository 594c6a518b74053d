package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Order statuses. Only "pending" is ever written by this service; the
// transition to "paid" belongs to an external payment watcher consuming
// the order_created events.
const (
	OrderStatusPending = "pending"
	OrderStatusPaid    = "paid"
)

// Order links an account to a product through a unique payment reference.
type Order struct {
	bun.BaseModel `bun:"table:orders"`

	ID         int64      `bun:"id,pk,autoincrement" json:"id"`
	UserID     int64      `bun:"user_id,notnull" json:"user_id"`
	ProductID  int64      `bun:"product_id,notnull" json:"product_id"`
	PaymentID  string     `bun:"payment_id,unique" json:"payment_id"`
	LTCAddress string     `bun:"ltc_address" json:"ltc_address"`
	AmountLTC  float64    `bun:"amount_ltc" json:"amount_ltc"`
	Status     string     `bun:"status,notnull,default:'pending'" json:"status"`
	CreatedAt  time.Time  `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	PaidAt     *time.Time `bun:"paid_at,nullzero" json:"paid_at,omitempty"`
}
