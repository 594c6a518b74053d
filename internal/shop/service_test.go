package shop_test

import (
	"errors"
	"fmt"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mironalisherovich1-cpu/ESCOBAR1/internal/logger"
	"github.com/mironalisherovich1-cpu/ESCOBAR1/internal/models"
	"github.com/mironalisherovich1-cpu/ESCOBAR1/internal/shop"
	"github.com/mironalisherovich1-cpu/ESCOBAR1/internal/store"
)

// Mock implementations

type MockDBLayer struct {
	mock.Mock
}

func (m *MockDBLayer) EnsureAccount(userID int64, username, fullName string) error {
	args := m.Called(userID, username, fullName)
	return args.Error(0)
}

func (m *MockDBLayer) GetAccount(userID int64) (*models.Account, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockDBLayer) AddProduct(title, description string, priceLTC float64, imagePath string) error {
	args := m.Called(title, description, priceLTC, imagePath)
	return args.Error(0)
}

func (m *MockDBLayer) ListAvailableProducts() ([]models.Product, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockDBLayer) GetProduct(id int64) (*models.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockDBLayer) CreateOrder(order models.Order) error {
	args := m.Called(order)
	return args.Error(0)
}

func (m *MockDBLayer) ListOrdersByAccount(userID int64) ([]models.Order, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockDBLayer) CountAccounts() (int, error) {
	args := m.Called()
	return args.Int(0), args.Error(1)
}

func (m *MockDBLayer) CountProducts() (int, error) {
	args := m.Called()
	return args.Int(0), args.Error(1)
}

func (m *MockDBLayer) CountOrders() (int, error) {
	args := m.Called()
	return args.Int(0), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishOrderCreated(order models.Order) error {
	args := m.Called(order)
	return args.Error(0)
}

const testAddress = "LQjkT7V5iQnz8hZRwF8s9mNpKqRvS2tUwX"

func newTestService(db *MockDBLayer, pub *MockPublisher) *shop.Service {
	return shop.NewService(db, pub, logger.NewNopLogger(), "ESCOBAR SHOP", testAddress, []int64{1001})
}

func TestStartRegistersAccount(t *testing.T) {
	db := new(MockDBLayer)
	pub := new(MockPublisher)
	db.On("EnsureAccount", int64(42), "alice", "Alice Smith").Return(nil)

	svc := newTestService(db, pub)
	rendering, err := svc.Start(shop.Visitor{ID: 42, Username: "alice", FirstName: "Alice", FullName: "Alice Smith"})

	require.NoError(t, err)
	assert.Contains(t, rendering.Text, "Hi, Alice!")
	assert.Contains(t, rendering.Text, "ESCOBAR SHOP")
	require.Len(t, rendering.Menu, 4)
	db.AssertExpectations(t)
}

func TestStartStoreFailure(t *testing.T) {
	db := new(MockDBLayer)
	pub := new(MockPublisher)
	db.On("EnsureAccount", int64(42), "", "").Return(errors.New("database is locked"))

	svc := newTestService(db, pub)
	_, err := svc.Start(shop.Visitor{ID: 42})

	assert.Error(t, err)
}

func TestProductsEmptyCatalog(t *testing.T) {
	db := new(MockDBLayer)
	pub := new(MockPublisher)
	db.On("ListAvailableProducts").Return([]models.Product{}, nil)

	svc := newTestService(db, pub)
	rendering, err := svc.Products()

	require.NoError(t, err)
	assert.Contains(t, rendering.Text, "No products in stock")
	require.Len(t, rendering.Menu, 1)
	assert.Equal(t, "main_menu", rendering.Menu[0][0].Action)
}

func TestProductsListsCatalog(t *testing.T) {
	db := new(MockDBLayer)
	pub := new(MockPublisher)
	db.On("ListAvailableProducts").Return([]models.Product{
		{ID: 1, Title: "Widget", PriceLTC: 0.5},
	}, nil)

	svc := newTestService(db, pub)
	rendering, err := svc.Products()

	require.NoError(t, err)
	assert.Contains(t, rendering.Text, "Available products")
	require.Len(t, rendering.Menu, 2)
	assert.Equal(t, "📦 Widget - 0.5 LTC", rendering.Menu[0][0].Label)
	assert.Equal(t, "product_1", rendering.Menu[0][0].Action)
}

func TestProductDetailNotFound(t *testing.T) {
	db := new(MockDBLayer)
	pub := new(MockPublisher)
	db.On("GetProduct", int64(99)).Return(nil, store.ErrNotFound)

	svc := newTestService(db, pub)
	rendering, err := svc.ProductDetail(99)

	require.NoError(t, err)
	assert.Contains(t, rendering.Text, "not found")
	assert.Equal(t, "main_menu", rendering.Menu[0][0].Action)
}

func TestBuyCreatesPendingOrder(t *testing.T) {
	db := new(MockDBLayer)
	pub := new(MockPublisher)
	db.On("GetProduct", int64(1)).Return(&models.Product{ID: 1, Title: "Widget", PriceLTC: 0.5}, nil)

	var created models.Order
	db.On("CreateOrder", mock.AnythingOfType("models.Order")).Run(func(args mock.Arguments) {
		created = args.Get(0).(models.Order)
	}).Return(nil).Once()
	pub.On("PublishOrderCreated", mock.AnythingOfType("models.Order")).Return(nil).Once()

	svc := newTestService(db, pub)
	rendering, err := svc.Buy(42, 1)

	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, created.Status)
	assert.Equal(t, 0.5, created.AmountLTC)
	assert.Equal(t, int64(42), created.UserID)
	assert.Equal(t, testAddress, created.LTCAddress)
	assert.Regexp(t, regexp.MustCompile(`^ORDER-42-[0-9a-f]{12}$`), created.PaymentID)

	assert.Contains(t, rendering.Text, "Widget")
	assert.Contains(t, rendering.Text, "0.5 LTC")
	assert.Contains(t, rendering.Text, testAddress)
	assert.Contains(t, rendering.Text, created.PaymentID)
	assert.NotEmpty(t, rendering.QR)
	db.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestBuyUnknownProduct(t *testing.T) {
	db := new(MockDBLayer)
	pub := new(MockPublisher)
	db.On("GetProduct", int64(99)).Return(nil, store.ErrNotFound)

	svc := newTestService(db, pub)
	rendering, err := svc.Buy(42, 99)

	require.NoError(t, err)
	assert.Contains(t, rendering.Text, "not found")
	db.AssertNotCalled(t, "CreateOrder", mock.Anything)
	pub.AssertNotCalled(t, "PublishOrderCreated", mock.Anything)
}

func TestBuyRegeneratesReferenceOnCollision(t *testing.T) {
	db := new(MockDBLayer)
	pub := new(MockPublisher)
	db.On("GetProduct", int64(1)).Return(&models.Product{ID: 1, Title: "Widget", PriceLTC: 0.5}, nil)

	var refs []string
	db.On("CreateOrder", mock.AnythingOfType("models.Order")).Run(func(args mock.Arguments) {
		refs = append(refs, args.Get(0).(models.Order).PaymentID)
	}).Return(fmt.Errorf("%w: collision", store.ErrDuplicatePaymentID)).Once()
	db.On("CreateOrder", mock.AnythingOfType("models.Order")).Run(func(args mock.Arguments) {
		refs = append(refs, args.Get(0).(models.Order).PaymentID)
	}).Return(nil).Once()
	pub.On("PublishOrderCreated", mock.AnythingOfType("models.Order")).Return(nil)

	svc := newTestService(db, pub)
	_, err := svc.Buy(42, 1)

	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.NotEqual(t, refs[0], refs[1], "reference must be regenerated between attempts")
}

func TestBuyGivesUpAfterRepeatedCollisions(t *testing.T) {
	db := new(MockDBLayer)
	pub := new(MockPublisher)
	db.On("GetProduct", int64(1)).Return(&models.Product{ID: 1, Title: "Widget", PriceLTC: 0.5}, nil)
	db.On("CreateOrder", mock.AnythingOfType("models.Order")).Return(fmt.Errorf("%w: collision", store.ErrDuplicatePaymentID))

	svc := newTestService(db, pub)
	_, err := svc.Buy(42, 1)

	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrDuplicatePaymentID)
	db.AssertNumberOfCalls(t, "CreateOrder", 3)
	pub.AssertNotCalled(t, "PublishOrderCreated", mock.Anything)
}

func TestBuyPublishFailureIsNotFatal(t *testing.T) {
	db := new(MockDBLayer)
	pub := new(MockPublisher)
	db.On("GetProduct", int64(1)).Return(&models.Product{ID: 1, Title: "Widget", PriceLTC: 0.5}, nil)
	db.On("CreateOrder", mock.AnythingOfType("models.Order")).Return(nil)
	pub.On("PublishOrderCreated", mock.AnythingOfType("models.Order")).Return(errors.New("broker down"))

	svc := newTestService(db, pub)
	rendering, err := svc.Buy(42, 1)

	require.NoError(t, err)
	assert.Contains(t, rendering.Text, "Order created")
}

func TestProfileRendersAccount(t *testing.T) {
	db := new(MockDBLayer)
	pub := new(MockPublisher)
	db.On("GetAccount", int64(42)).Return(&models.Account{
		UserID:    42,
		Username:  "alice",
		FullName:  "Alice Smith",
		Balance:   1.5,
		PromoUsed: true,
	}, nil)

	svc := newTestService(db, pub)
	rendering, err := svc.Profile(42)

	require.NoError(t, err)
	assert.Contains(t, rendering.Text, "`42`")
	assert.Contains(t, rendering.Text, "@alice")
	assert.Contains(t, rendering.Text, "1.50 $")
	assert.Contains(t, rendering.Text, "✅")
}

func TestProfileAbsent(t *testing.T) {
	db := new(MockDBLayer)
	pub := new(MockPublisher)
	db.On("GetAccount", int64(42)).Return(nil, store.ErrNotFound)

	svc := newTestService(db, pub)
	rendering, err := svc.Profile(42)

	require.NoError(t, err)
	assert.Contains(t, rendering.Text, "Profile not found")
}

func TestMyOrdersEmpty(t *testing.T) {
	db := new(MockDBLayer)
	pub := new(MockPublisher)
	db.On("ListOrdersByAccount", int64(42)).Return([]models.Order{}, nil)

	svc := newTestService(db, pub)
	rendering, err := svc.MyOrders(42)

	require.NoError(t, err)
	assert.Contains(t, rendering.Text, "haven't placed any orders")
}

func TestMyOrdersListsHistory(t *testing.T) {
	db := new(MockDBLayer)
	pub := new(MockPublisher)
	db.On("ListOrdersByAccount", int64(42)).Return([]models.Order{
		{PaymentID: "ORDER-42-aabbccddeeff", AmountLTC: 0.5, Status: "pending"},
	}, nil)

	svc := newTestService(db, pub)
	rendering, err := svc.MyOrders(42)

	require.NoError(t, err)
	assert.Contains(t, rendering.Text, "ORDER-42-aabbccddeeff")
	assert.Contains(t, rendering.Text, "0.5 LTC")
	assert.Contains(t, rendering.Text, "pending")
}

func TestAdminGate(t *testing.T) {
	db := new(MockDBLayer)
	pub := new(MockPublisher)
	svc := newTestService(db, pub)

	denied := svc.Admin(42)
	assert.Contains(t, denied.Text, "don't have access")
	assert.Empty(t, denied.Menu)

	granted := svc.Admin(1001)
	assert.Contains(t, granted.Text, "Admin panel")
	require.Len(t, granted.Menu, 4)
}

func TestAdminStats(t *testing.T) {
	db := new(MockDBLayer)
	pub := new(MockPublisher)
	db.On("CountAccounts").Return(5, nil)
	db.On("CountProducts").Return(2, nil)
	db.On("CountOrders").Return(9, nil)

	svc := newTestService(db, pub)
	rendering, err := svc.AdminStats()

	require.NoError(t, err)
	assert.Contains(t, rendering.Text, "Users: 5")
	assert.Contains(t, rendering.Text, "Products: 2")
	assert.Contains(t, rendering.Text, "Orders: 9")
}
