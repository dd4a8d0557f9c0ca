package models

import (
	"time"

	"gorm.io/gorm"
)

// Employee roles. Managers and admins are "elevated": they bypass ownership
// scoping and the immutability lock on protected orders.
const (
	RoleSeller    = "seller"
	RoleLogistics = "logistics"
	RoleManager   = "manager"
	RoleAdmin     = "admin"
)

// Employee represents a staff member in the system (seller, logistics or management)
type Employee struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Auth0ID   string         `gorm:"uniqueIndex;not null" json:"auth0_id"` // Auth0 user ID (from 'sub' claim)
	Name      string         `gorm:"not null" json:"name"`
	Email     string         `gorm:"uniqueIndex;not null" json:"email"`
	Role      string         `gorm:"not null;default:'seller'" json:"role"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Employee model
func (Employee) TableName() string {
	return "employees"
}

// IsElevated reports whether the role bypasses ownership and immutability rules
func (e *Employee) IsElevated() bool {
	return e.Role == RoleManager || e.Role == RoleAdmin
}
