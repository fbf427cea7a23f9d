// internal/models/category.go
package models

type Category struct {
	BaseModel
	Name   string       `json:"name" gorm:"size:255;not null;index"`
	Status RecordStatus `json:"status" gorm:"type:varchar(20);default:'active';index"`

	// Relationships
	Products []ProductCategory `json:"products,omitempty" gorm:"foreignKey:CategoryID"`
}
