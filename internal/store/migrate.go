package store

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/mironalisherovich1-cpu/ESCOBAR1/internal/models"
)

// Migrate creates the three storefront tables. Creation is idempotent, so
// it runs on every startup.
func Migrate(db *bun.DB) error {
	ctx := context.Background()

	tables := []interface{}{
		(*models.Account)(nil),
		(*models.Product)(nil),
		(*models.Order)(nil),
	}

	for _, table := range tables {
		_, err := db.NewCreateTable().
			Model(table).
			IfNotExists().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("create table for %T: %w", table, err)
		}
	}

	return nil
}
