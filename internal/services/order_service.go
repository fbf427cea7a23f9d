// internal/services/order_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/cacho-medina/luxbuy-back/internal/apperrors"
	"github.com/cacho-medina/luxbuy-back/internal/database"
	"github.com/cacho-medina/luxbuy-back/internal/models"
	"github.com/cacho-medina/luxbuy-back/internal/utils"
)

type OrderService struct {
	db            *gorm.DB
	notifications *NotificationService
}

type CreateOrderRequest struct {
	Items []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type OrderItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
}

func NewOrderService(db *gorm.DB, notifications *NotificationService) *OrderService {
	return &OrderService{
		db:            db,
		notifications: notifications,
	}
}

// Create registers a purchase, decrementing stock per item. Stock checks and
// decrements run in one transaction so a failing item leaves nothing behind.
func (s *OrderService) Create(userID uuid.UUID, req *CreateOrderRequest) (*models.Order, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Wrap(apperrors.KindValidation, "validation failed", err)
	}

	var user models.User
	if err := s.db.Scopes(models.Active).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.KindNotFound, "user not found")
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, "database error", err)
	}

	order := &models.Order{UserID: userID}

	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		total := decimal.Zero
		items := make([]models.OrderItem, 0, len(req.Items))

		for _, item := range req.Items {
			var product models.Product
			if err := tx.Scopes(models.Active).First(&product, "id = ?", item.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperrors.Newf(apperrors.KindNotFound, "product not found: %s", item.ProductID)
				}
				return apperrors.Wrap(apperrors.KindInternal, "database error", err)
			}

			if product.Stock < item.Quantity {
				return apperrors.Newf(apperrors.KindValidation, "insufficient stock for product %s", product.Name)
			}

			product.Stock -= item.Quantity
			if err := tx.Save(&product).Error; err != nil {
				return apperrors.Wrap(apperrors.KindInternal, fmt.Sprintf("failed to update stock for %s", product.Name), err)
			}

			items = append(items, models.OrderItem{
				ProductID: product.ID,
				Quantity:  item.Quantity,
				UnitPrice: product.Price,
			})
			total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}

		order.Total = total
		order.Items = items
		if err := tx.Create(order).Error; err != nil {
			return apperrors.Wrap(apperrors.KindInternal, "failed to create order", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	created, err := s.FindOne(order.ID)
	if err != nil {
		return nil, err
	}

	// Confirmation email is best effort
	go s.notifications.SendOrderConfirmation(&user, created)

	return created, nil
}

func (s *OrderService) FindAll(params utils.PaginationParams) (*utils.PaginationResult, error) {
	var orders []models.Order
	var total int64

	query := s.db.Model(&models.Order{})
	if err := query.Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "database error", err)
	}

	query = utils.ApplySort(query, params, []string{"created_at", "total"})
	query = utils.ApplyPagination(query, params)

	err := query.
		Preload("User").
		Preload("Items.Product").
		Find(&orders).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "database error", err)
	}

	result := utils.CreatePaginationResult(orders, total, params)
	return &result, nil
}

func (s *OrderService) FindOne(id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := s.db.
		Preload("User").
		Preload("Items.Product").
		First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.KindNotFound, "order not found")
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, "database error", err)
	}
	return &order, nil
}
