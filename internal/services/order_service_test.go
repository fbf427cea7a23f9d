// internal/services/order_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/cacho-medina/luxbuy-back/internal/apperrors"
	"github.com/cacho-medina/luxbuy-back/internal/models"
)

func seedProduct(t *testing.T, db *gorm.DB, name string, price int64, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:   name,
		Price:  decimal.NewFromInt(price),
		Stock:  stock,
		Status: models.StatusActive,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func TestOrderCreateDecrementsStock(t *testing.T) {
	db := setupTestDB(t)
	orders := NewOrderService(db, NewNotificationService(testConfig()))
	user := createUser(t, db, "buyer@example.com")
	phone := seedProduct(t, db, "Phone", 500, 10)
	stand := seedProduct(t, db, "Stand", 20, 5)

	order, err := orders.Create(user.ID, &CreateOrderRequest{
		Items: []OrderItemRequest{
			{ProductID: phone.ID, Quantity: 2},
			{ProductID: stand.ID, Quantity: 1},
		},
	})
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(1020).Equal(order.Total))
	require.Len(t, order.Items, 2)

	var updatedPhone models.Product
	require.NoError(t, db.First(&updatedPhone, "id = ?", phone.ID).Error)
	assert.Equal(t, 8, updatedPhone.Stock)
}

func TestOrderCreateInsufficientStockIsAtomic(t *testing.T) {
	db := setupTestDB(t)
	orders := NewOrderService(db, NewNotificationService(testConfig()))
	user := createUser(t, db, "buyer@example.com")
	phone := seedProduct(t, db, "Phone", 500, 10)
	stand := seedProduct(t, db, "Stand", 20, 1)

	_, err := orders.Create(user.ID, &CreateOrderRequest{
		Items: []OrderItemRequest{
			{ProductID: phone.ID, Quantity: 2},
			{ProductID: stand.ID, Quantity: 5},
		},
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Contains(t, err.Error(), "Stand")

	// Nothing committed, the phone stock decrement rolled back
	var updatedPhone models.Product
	require.NoError(t, db.First(&updatedPhone, "id = ?", phone.ID).Error)
	assert.Equal(t, 10, updatedPhone.Stock)

	var orderCount int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orderCount).Error)
	assert.Zero(t, orderCount)
}

func TestOrderCreateUnknownProduct(t *testing.T) {
	db := setupTestDB(t)
	orders := NewOrderService(db, NewNotificationService(testConfig()))
	user := createUser(t, db, "buyer@example.com")

	_, err := orders.Create(user.ID, &CreateOrderRequest{
		Items: []OrderItemRequest{{ProductID: uuid.New(), Quantity: 1}},
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestOrderFindOnePreloadsItems(t *testing.T) {
	db := setupTestDB(t)
	orders := NewOrderService(db, NewNotificationService(testConfig()))
	user := createUser(t, db, "buyer@example.com")
	phone := seedProduct(t, db, "Phone", 500, 10)

	created, err := orders.Create(user.ID, &CreateOrderRequest{
		Items: []OrderItemRequest{{ProductID: phone.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	found, err := orders.FindOne(created.ID)
	require.NoError(t, err)
	require.Len(t, found.Items, 1)
	assert.Equal(t, "Phone", found.Items[0].Product.Name)
	assert.Equal(t, user.Email, found.User.Email)
}
