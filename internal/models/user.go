package models

import "time"

// Role values mirror the Authorizer role claims.
const (
	RoleSales   = "Sales"
	RoleManager = "Manager"
)

// User status values.
const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
)

// User is a team-member profile. Identity and credentials live in the
// Authorizer; this row carries the display profile and role used for
// manager views.
type User struct {
	ID        string    `gorm:"type:char(36);primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Role      string    `gorm:"size:32;not null;default:'Sales'" json:"role"`
	Status    string    `gorm:"size:32;not null;default:'Active'" json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}
