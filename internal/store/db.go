package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"github.com/mironalisherovich1-cpu/ESCOBAR1/internal/models"
)

var (
	// ErrNotFound is returned by point lookups that miss.
	ErrNotFound = errors.New("store: not found")
	// ErrDuplicatePaymentID is returned when an order insert violates the
	// payment_id uniqueness constraint. Callers never pre-check the
	// reference, so they must handle this by regenerating it.
	ErrDuplicatePaymentID = errors.New("store: duplicate payment id")
)

type DB struct {
	Bun *bun.DB
}

// ---------------- ACCOUNTS ----------------

// EnsureAccount inserts an account row if the user ID is unseen.
// Repeat calls are no-ops and never overwrite the stored handle or name.
func (d *DB) EnsureAccount(userID int64, username, fullName string) error {
	account := models.Account{
		UserID:    userID,
		Username:  username,
		FullName:  fullName,
		CreatedAt: time.Now(),
	}
	_, err := d.Bun.NewInsert().
		Model(&account).
		On("CONFLICT DO NOTHING").
		Exec(context.Background())
	if err != nil {
		return fmt.Errorf("ensure account %d: %w", userID, err)
	}
	return nil
}

// GetAccount fetches one account by user ID.
func (d *DB) GetAccount(userID int64) (*models.Account, error) {
	var account models.Account
	err := d.Bun.NewSelect().
		Model(&account).
		Where("user_id = ?", userID).
		Limit(1).
		Scan(context.Background())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// CountAccounts returns the total number of registered accounts.
func (d *DB) CountAccounts() (int, error) {
	return d.Bun.NewSelect().
		Model((*models.Account)(nil)).
		Count(context.Background())
}

// ---------------- PRODUCTS ----------------

// AddProduct appends a new catalog row with an auto-assigned ID.
func (d *DB) AddProduct(title, description string, priceLTC float64, imagePath string) error {
	product := models.Product{
		Title:       title,
		Description: description,
		PriceLTC:    priceLTC,
		ImagePath:   imagePath,
		IsAvailable: true,
		CreatedAt:   time.Now(),
	}
	_, err := d.Bun.NewInsert().Model(&product).Exec(context.Background())
	return err
}

// ListAvailableProducts returns the in-stock catalog in insertion order.
func (d *DB) ListAvailableProducts() ([]models.Product, error) {
	var products []models.Product
	err := d.Bun.NewSelect().
		Model(&products).
		Where("is_available = ?", true).
		Order("id ASC").
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return products, nil
}

// GetProduct fetches one product by ID.
func (d *DB) GetProduct(id int64) (*models.Product, error) {
	var product models.Product
	err := d.Bun.NewSelect().
		Model(&product).
		Where("id = ?", id).
		Limit(1).
		Scan(context.Background())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// CountProducts returns the total number of catalog rows, available or not.
func (d *DB) CountProducts() (int, error) {
	return d.Bun.NewSelect().
		Model((*models.Product)(nil)).
		Count(context.Background())
}

// ---------------- ORDERS ----------------

// CreateOrder inserts a new pending order. A payment reference collision
// surfaces as ErrDuplicatePaymentID.
func (d *DB) CreateOrder(order models.Order) error {
	if order.Status == "" {
		order.Status = models.OrderStatusPending
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	_, err := d.Bun.NewInsert().Model(&order).Exec(context.Background())
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", ErrDuplicatePaymentID, order.PaymentID)
		}
		return fmt.Errorf("create order for user %d: %w", order.UserID, err)
	}
	return nil
}

// ListOrdersByAccount returns a user's orders, newest first.
func (d *DB) ListOrdersByAccount(userID int64) ([]models.Order, error) {
	var orders []models.Order
	err := d.Bun.NewSelect().
		Model(&orders).
		Where("user_id = ?", userID).
		Order("created_at DESC", "id DESC").
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// CountOrders returns the total number of orders ever placed.
func (d *DB) CountOrders() (int, error) {
	return d.Bun.NewSelect().
		Model((*models.Order)(nil)).
		Count(context.Background())
}

// isUniqueViolation matches the sqlite unique-constraint error text. Both
// sqlite drivers behind sqliteshim report it this way.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
