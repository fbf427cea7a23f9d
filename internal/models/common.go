// internal/models/common.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// Enums
type RecordStatus string

const (
	StatusActive  RecordStatus = "active"
	StatusDeleted RecordStatus = "deleted"
)

type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
)

// Active scopes a query to records that have not been soft-deleted. Every
// "active" read goes through this scope instead of repeating the filter.
func Active(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", StatusActive)
}

// ActiveOf is the table-qualified variant for joined queries.
func ActiveOf(table string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(table+".status = ?", StatusActive)
	}
}
