package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Product is a purchasable catalog entry priced in LTC.
type Product struct {
	bun.BaseModel `bun:"table:products"`

	ID          int64     `bun:"id,pk,autoincrement" json:"id"`
	Title       string    `bun:"title,notnull" json:"title"`
	Description string    `bun:"description" json:"description"`
	PriceLTC    float64   `bun:"price_ltc,notnull" json:"price_ltc"`
	ImagePath   string    `bun:"image_path,notnull" json:"image_path"`
	IsAvailable bool      `bun:"is_available,notnull,default:true" json:"is_available"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}
