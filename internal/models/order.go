// internal/models/order.go
package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Order struct {
	BaseModel
	UserID uuid.UUID       `json:"user_id" gorm:"type:uuid;not null;index"`
	Total  decimal.Decimal `json:"total" gorm:"type:decimal(12,2);not null"`

	// Relationships
	User  User        `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Items []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID"`
}

type OrderItem struct {
	BaseModel
	OrderID   uuid.UUID       `json:"order_id" gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `json:"product_id" gorm:"type:uuid;not null;index"`
	Quantity  int             `json:"quantity" gorm:"not null"`
	UnitPrice decimal.Decimal `json:"unit_price" gorm:"type:decimal(10,2);not null"`

	Product Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}
