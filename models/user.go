package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"size:255" json:"name"`
	Tel       string         `gorm:"size:50" json:"tel"`
	Email     string         `gorm:"uniqueIndex;size:150" json:"email"`
	Password  string         `gorm:"size:255" json:"-"` // bcrypt hash, never serialized
	Role      string         `gorm:"size:20;default:user" json:"role"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
