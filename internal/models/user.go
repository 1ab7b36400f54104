package models

import "time"

// Role gates dashboard tabs and admin routes.
type Role string

const (
	RoleAdmin          Role = "admin"
	RoleProjectManager Role = "project_manager"
	RoleSales          Role = "sales"
	RoleUser           Role = "user"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleProjectManager, RoleSales, RoleUser:
		return true
	}
	return false
}

// CanManageListings covers properties, agents, reviews and blogs.
func (r Role) CanManageListings() bool {
	return r == RoleAdmin || r == RoleProjectManager
}

// CanManageLeads covers visits, contacts and newsletter subscribers.
func (r Role) CanManageLeads() bool {
	return r == RoleAdmin || r == RoleSales
}

// User is a dashboard account. Password holds a bcrypt hash.
type User struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Email     string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	Password  string    `gorm:"type:varchar(255);not null" json:"-"`
	Role      Role      `gorm:"type:varchar(32);not null;default:'user'" json:"role"`
	CreatedAt time.Time `gorm:"type:datetime;not null;autoCreateTime" json:"created_at"`
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}
