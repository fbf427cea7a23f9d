// internal/models/product.go
package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Product struct {
	BaseModel
	Name        string          `json:"name" gorm:"size:255;not null;index"`
	Description string          `json:"description" gorm:"type:text"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Stock       int             `json:"stock" gorm:"not null;default:0"`
	Status      RecordStatus    `json:"status" gorm:"type:varchar(20);default:'active';index"`

	// Relationships. No omitempty: clients get an empty list, not a missing
	// key, when a product has no images or categories.
	Images     []Image           `json:"images" gorm:"foreignKey:ProductID"`
	Categories []ProductCategory `json:"categories" gorm:"foreignKey:ProductID"`
}

// ProductCategory is the product/category join row. The composite primary
// key keeps every (product, category) pair unique.
type ProductCategory struct {
	ProductID  uuid.UUID `json:"product_id" gorm:"type:uuid;primaryKey"`
	CategoryID uuid.UUID `json:"category_id" gorm:"type:uuid;primaryKey"`

	Product  Product  `json:"-" gorm:"foreignKey:ProductID"`
	Category Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
}

// Image references a binary stored externally; the row is created after the
// owning product exists because the storage key embeds the product id.
type Image struct {
	BaseModel
	URL        string    `json:"url" gorm:"size:512;not null"`
	AltText    string    `json:"alt_text" gorm:"size:255"`
	StorageKey string    `json:"-" gorm:"size:512"`
	ProductID  uuid.UUID `json:"product_id" gorm:"type:uuid;not null;index"`
}
