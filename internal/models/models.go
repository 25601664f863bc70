package models

import (
	"time"
)

// Roles understood by the route guards.
const (
	RoleAdmin             = "admin"
	RoleDealerManager     = "dealer_manager"
	RoleFranchiseeManager = "franchisee_manager"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r string) bool {
	switch r {
	case RoleAdmin, RoleDealerManager, RoleFranchiseeManager:
		return true
	}
	return false
}

// User - an administrator or manager signing in to the console
type User struct {
	ID           uint      `gorm:"primaryKey" json:"_id"`
	Username     string    `gorm:"uniqueIndex;size:50" json:"username"`
	PasswordHash string    `json:"-"`    // Never return this in JSON
	Role         string    `json:"role"` // 'admin', 'dealer_manager', 'franchisee_manager'
	CreatedAt    time.Time `json:"createdAt"`
}

// Brand - manufacturer of panels, inverters and batteries
type Brand struct {
	ID        uint      `gorm:"primaryKey" json:"_id"`
	Name      string    `gorm:"uniqueIndex;size:100;not null" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// All returns every model that takes part in schema migration.
func All() []any {
	return []any{
		&User{},
		&State{},
		&City{},
		&District{},
		&Cluster{},
		&Brand{},
		&InventoryItem{},
		&Vendor{},
		&Product{},
		&ProcurementOrder{},
		&OrderItem{},
		&DealerPlan{},
		&DealerReward{},
		&DealerGoal{},
		&DealerProfession{},
		&Project{},
	}
}
