// internal/models/user.go
package models

import (
	"golang.org/x/crypto/bcrypt"
)

type User struct {
	BaseModel
	Name         string       `json:"name" gorm:"size:100;not null"`
	Email        string       `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string       `json:"-" gorm:"size:255;not null"`
	Role         UserRole     `json:"role" gorm:"type:varchar(20);default:'user'"`
	Image        string       `json:"image" gorm:"size:512"`
	IsActive     bool         `json:"is_active" gorm:"default:true"`
	Status       RecordStatus `json:"status" gorm:"type:varchar(20);default:'active';index"`

	// Relationships
	Orders []Order `json:"orders,omitempty" gorm:"foreignKey:UserID"`
}

func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}
