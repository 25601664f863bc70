package models

import (
	"errors"
	"time"
)

// Procurement order statuses. Any status may follow any other.
const (
	OrderPending   = "Pending"
	OrderApproved  = "Approved"
	OrderCompleted = "Completed"
	OrderCancelled = "Cancelled"
)

var ErrInvalidOrderStatus = errors.New("status must be one of Pending, Approved, Completed, Cancelled")

// ValidOrderStatus reports whether s is one of the four order statuses.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderPending, OrderApproved, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

// ProcurementOrder - The purchase header raised against a supplier
type ProcurementOrder struct {
	ID          uint        `gorm:"primaryKey" json:"_id"`
	OrderNumber string      `gorm:"uniqueIndex;size:40;not null" json:"orderNumber"`
	SupplierID  uint        `gorm:"index" json:"supplierId"`
	Supplier    *Vendor     `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	Items       []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	Status      string      `gorm:"size:20;index;default:Pending" json:"status"`
	StateID     *uint       `json:"stateId"`
	State       *State      `gorm:"foreignKey:StateID" json:"state,omitempty"`
	CityID      *uint       `json:"cityId"`
	City        *City       `gorm:"foreignKey:CityID" json:"city,omitempty"`
	DistrictID  *uint       `json:"districtId"`
	District    *District   `gorm:"foreignKey:DistrictID" json:"district,omitempty"`
	TotalAmount float64     `json:"totalAmount"` // always recomputed from Items on write
	Notes       string      `gorm:"type:text" json:"notes"`
	CreatedBy   uint        `json:"createdBy"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// OrderItem - one product line on an order
type OrderItem struct {
	ID        uint     `gorm:"primaryKey" json:"_id"`
	OrderID   uint     `gorm:"index" json:"orderId"`
	ProductID uint     `json:"productId"`
	Product   *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity  int      `json:"quantity"`
	Price     float64  `json:"price"` // unit price agreed for this order
}

// StatusTotal is one row of the procurement summary
type StatusTotal struct {
	Status string  `json:"status"`
	Orders int64   `json:"orders"`
	Amount float64 `json:"amount"`
}

// ProcurementSummary holds order counts and value grouped by status
type ProcurementSummary struct {
	TotalOrders int64         `json:"totalOrders"`
	TotalAmount float64       `json:"totalAmount"`
	ByStatus    []StatusTotal `json:"byStatus"`
}
