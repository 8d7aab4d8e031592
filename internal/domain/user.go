package domain

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleManager  UserRole = "manager"
	RoleAdmin    UserRole = "admin"
)

type User struct {
	ID           int64          `json:"id" gorm:"primaryKey"`
	Email        string         `json:"email" gorm:"index"`
	PasswordHash string         `json:"-"`
	Role         UserRole       `json:"role"`
	Name         string         `json:"name"`
	Phone        string         `json:"phone,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}

func (u *User) IsStaff() bool {
	return u.Role == RoleManager || u.Role == RoleAdmin
}
