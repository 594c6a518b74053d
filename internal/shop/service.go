package shop

import (
	"errors"
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/mironalisherovich1-cpu/ESCOBAR1/internal/logger"
	"github.com/mironalisherovich1-cpu/ESCOBAR1/internal/models"
	"github.com/mironalisherovich1-cpu/ESCOBAR1/internal/shop/keyboard"
	"github.com/mironalisherovich1-cpu/ESCOBAR1/internal/store"
	"github.com/mironalisherovich1-cpu/ESCOBAR1/internal/utils"
)

// maxPaymentRefAttempts bounds regeneration when a minted payment
// reference collides with an existing order.
const maxPaymentRefAttempts = 3

type DBLayer interface {
	EnsureAccount(userID int64, username, fullName string) error
	GetAccount(userID int64) (*models.Account, error)
	AddProduct(title, description string, priceLTC float64, imagePath string) error
	ListAvailableProducts() ([]models.Product, error)
	GetProduct(id int64) (*models.Product, error)
	CreateOrder(order models.Order) error
	ListOrdersByAccount(userID int64) ([]models.Order, error)
	CountAccounts() (int, error)
	CountProducts() (int, error)
	CountOrders() (int, error)
}

type OrderPublisher interface {
	PublishOrderCreated(order models.Order) error
}

// Service holds the storefront handlers. It keeps no state between
// events; everything is re-read from the store.
type Service struct {
	DB             DBLayer
	Publisher      OrderPublisher
	Log            *logger.Logger
	StoreName      string
	PaymentAddress string

	adminIDs map[int64]struct{}
}

func NewService(db DBLayer, publisher OrderPublisher, log *logger.Logger, storeName, paymentAddress string, adminIDs []int64) *Service {
	admins := make(map[int64]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = struct{}{}
	}
	return &Service{
		DB:             db,
		Publisher:      publisher,
		Log:            log,
		StoreName:      storeName,
		PaymentAddress: paymentAddress,
		adminIDs:       admins,
	}
}

func (s *Service) IsAdmin(userID int64) bool {
	_, ok := s.adminIDs[userID]
	return ok
}

// Start greets the visitor and registers their account on first contact.
func (s *Service) Start(v Visitor) (Rendering, error) {
	if err := s.DB.EnsureAccount(v.ID, v.Username, v.FullName); err != nil {
		return Rendering{}, fmt.Errorf("ensure account: %w", err)
	}

	name := v.FirstName
	if name == "" {
		name = v.FullName
	}

	text := fmt.Sprintf(
		"👋 Hi, %s!\n\n🛍 **Welcome to %s!**\n\nHere you can buy products for Litecoin (LTC).\nPick a section below:",
		name, s.StoreName,
	)
	return Rendering{Text: text, Menu: keyboard.MainMenu()}, nil
}

// Products renders the available catalog.
func (s *Service) Products() (Rendering, error) {
	products, err := s.DB.ListAvailableProducts()
	if err != nil {
		return Rendering{}, fmt.Errorf("list products: %w", err)
	}

	if len(products) == 0 {
		return Rendering{
			Text: "🛒 No products in stock right now.",
			Menu: keyboard.BackToMain(),
		}, nil
	}
	return Rendering{
		Text: "📋 **Available products:**",
		Menu: keyboard.ProductsMenu(products),
	}, nil
}

// ProductDetail renders one product with a buy action.
func (s *Service) ProductDetail(productID int64) (Rendering, error) {
	product, err := s.DB.GetProduct(productID)
	if errors.Is(err, store.ErrNotFound) {
		return s.productNotFound(), nil
	}
	if err != nil {
		return Rendering{}, fmt.Errorf("get product %d: %w", productID, err)
	}

	text := fmt.Sprintf(
		"📦 **%s**\n\n📝 Description: %s\n💰 Price: %s LTC\n\nTap the button below to buy:",
		product.Title, product.Description, keyboard.FormatPrice(product.PriceLTC),
	)
	return Rendering{Text: text, Menu: keyboard.ProductDetailMenu(product.ID)}, nil
}

// Buy validates the product, mints a unique payment reference, and records
// a pending order. On a reference collision it regenerates and retries
// before giving up.
func (s *Service) Buy(userID, productID int64) (Rendering, error) {
	product, err := s.DB.GetProduct(productID)
	if errors.Is(err, store.ErrNotFound) {
		return s.productNotFound(), nil
	}
	if err != nil {
		return Rendering{}, fmt.Errorf("get product %d: %w", productID, err)
	}

	var order models.Order
	for attempt := 1; ; attempt++ {
		order = models.Order{
			UserID:     userID,
			ProductID:  product.ID,
			PaymentID:  utils.PaymentRef(userID),
			LTCAddress: s.PaymentAddress,
			AmountLTC:  product.PriceLTC,
			Status:     models.OrderStatusPending,
		}
		err = s.DB.CreateOrder(order)
		if err == nil {
			break
		}
		if errors.Is(err, store.ErrDuplicatePaymentID) && attempt < maxPaymentRefAttempts {
			s.Log.Warn("ORDER", fmt.Sprintf("payment reference collision for user %d, regenerating (attempt %d)", userID, attempt))
			continue
		}
		return Rendering{}, fmt.Errorf("create order (user %d, product %d): %w", userID, productID, err)
	}

	s.Log.LogOrder("CREATED", order.PaymentID, fmt.Sprintf("user=%d product=%d amount=%s LTC", userID, product.ID, keyboard.FormatPrice(order.AmountLTC)))

	if err := s.Publisher.PublishOrderCreated(order); err != nil {
		// Event delivery is best effort; the order row is the source of truth.
		s.Log.Error("KAFKA", fmt.Sprintf("publish order_created %s: %v", order.PaymentID, err))
	}

	amount := keyboard.FormatPrice(order.AmountLTC)
	text := fmt.Sprintf(
		"🛒 **Order created!**\n\n📦 Product: %s\n💰 Amount: %s LTC\n\n**To pay, send %s LTC to:**\n`%s`\n\nThe bot will deliver your product automatically after payment.\n📝 Order ID: `%s`",
		product.Title, amount, amount, order.LTCAddress, order.PaymentID,
	)
	return Rendering{
		Text: text,
		Menu: keyboard.BackToMain(),
		QR:   s.paymentQR(order),
	}, nil
}

// paymentQR encodes the payment URI as a PNG. A QR failure only drops the
// image, never the confirmation.
func (s *Service) paymentQR(order models.Order) []byte {
	uri := fmt.Sprintf("litecoin:%s?amount=%s&label=%s",
		order.LTCAddress, keyboard.FormatPrice(order.AmountLTC), order.PaymentID)
	png, err := qrcode.Encode(uri, qrcode.Medium, 256)
	if err != nil {
		s.Log.Error("QR", fmt.Sprintf("encode payment QR for %s: %v", order.PaymentID, err))
		return nil
	}
	return png
}

// Profile renders the visitor's stored account data.
func (s *Service) Profile(userID int64) (Rendering, error) {
	account, err := s.DB.GetAccount(userID)
	if errors.Is(err, store.ErrNotFound) {
		return Rendering{Text: "❌ Profile not found.", Menu: keyboard.ProfileMenu()}, nil
	}
	if err != nil {
		return Rendering{}, fmt.Errorf("get account %d: %w", userID, err)
	}

	promoUsed := "❌"
	if account.PromoUsed {
		promoUsed = "✅"
	}
	name := account.FullName
	if name == "" {
		name = "not set"
	}
	username := account.Username
	if username == "" {
		username = "not set"
	}

	text := fmt.Sprintf(
		"👤 **Your profile**\n\n🆔 ID: `%d`\n👤 Name: %s\n📛 Username: @%s\n💰 Balance: %.2f $\n🎁 Promo code used: %s",
		account.UserID, name, username, account.Balance, promoUsed,
	)
	return Rendering{Text: text, Menu: keyboard.ProfileMenu()}, nil
}

// MyOrders renders the visitor's order history, newest first.
func (s *Service) MyOrders(userID int64) (Rendering, error) {
	orders, err := s.DB.ListOrdersByAccount(userID)
	if err != nil {
		return Rendering{}, fmt.Errorf("list orders for %d: %w", userID, err)
	}

	if len(orders) == 0 {
		return Rendering{
			Text: "📦 **Order history**\n\nYou haven't placed any orders yet.",
			Menu: keyboard.BackToMain(),
		}, nil
	}

	var b strings.Builder
	b.WriteString("📦 **Order history**\n")
	for _, order := range orders {
		fmt.Fprintf(&b, "\n• `%s` — %s LTC — %s", order.PaymentID, keyboard.FormatPrice(order.AmountLTC), order.Status)
	}
	return Rendering{Text: b.String(), Menu: keyboard.BackToMain()}, nil
}

// Reviews is a stub section, kept as the original shipped it.
func (s *Service) Reviews() Rendering {
	return Rendering{
		Text: "⭐ **Customer reviews**\n\nReviews from other buyers will appear here.\nThis section is under development.",
		Menu: keyboard.BackToMain(),
	}
}

// Admin renders the admin panel, or a denial for anyone off the allow-list.
// The denial carries no menu.
func (s *Service) Admin(userID int64) Rendering {
	if !s.IsAdmin(userID) {
		return Rendering{Text: "❌ You don't have access to the admin panel."}
	}
	return Rendering{
		Text: "🛠 **Admin panel**\n\nPick an action:",
		Menu: keyboard.AdminMenu(),
	}
}

// AdminStats renders store-wide totals for the admin panel.
func (s *Service) AdminStats() (Rendering, error) {
	accounts, err := s.DB.CountAccounts()
	if err != nil {
		return Rendering{}, fmt.Errorf("count accounts: %w", err)
	}
	products, err := s.DB.CountProducts()
	if err != nil {
		return Rendering{}, fmt.Errorf("count products: %w", err)
	}
	orders, err := s.DB.CountOrders()
	if err != nil {
		return Rendering{}, fmt.Errorf("count orders: %w", err)
	}

	text := fmt.Sprintf(
		"📊 **Statistics**\n\n👤 Users: %d\n📦 Products: %d\n🛒 Orders: %d",
		accounts, products, orders,
	)
	return Rendering{Text: text, Menu: keyboard.AdminMenu()}, nil
}

// UnderDevelopment is the stub reply for actions the bot advertises but
// does not implement yet (add balance, promo codes, product management).
func (s *Service) UnderDevelopment() Rendering {
	return Rendering{
		Text: "🚧 This section is under development.",
		Menu: keyboard.BackToMain(),
	}
}

func (s *Service) productNotFound() Rendering {
	return Rendering{Text: "❌ Product not found.", Menu: keyboard.BackToMain()}
}
