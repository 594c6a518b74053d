package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Account is a storefront visitor, keyed by their Telegram user ID.
type Account struct {
	bun.BaseModel `bun:"table:users"`

	UserID    int64     `bun:"user_id,pk" json:"user_id"`
	Username  string    `bun:"username" json:"username"`
	FullName  string    `bun:"full_name" json:"full_name"`
	Balance   float64   `bun:"balance,notnull,default:0" json:"balance"`
	PromoUsed bool      `bun:"promo_used,notnull,default:false" json:"promo_used"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}
