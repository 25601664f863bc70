package models

import "time"

// InventoryItem - stock held for one SKU at one location
type InventoryItem struct {
	ID         uint      `gorm:"primaryKey" json:"_id"`
	BrandID    uint      `gorm:"index" json:"brandId"`
	Brand      Brand     `gorm:"foreignKey:BrandID" json:"brand"`
	SKU        string    `gorm:"size:64;index" json:"sku"`
	Technology string    `gorm:"size:64" json:"technology"` // Mono PERC, TOPCon, Polycrystalline...
	Wattage    int       `json:"wattage"`
	Quantity   int       `json:"quantity"` // current stock
	MaxLevel   int       `json:"maxLevel"` // target stock
	Price      float64   `json:"price"`
	StateID    *uint     `gorm:"index" json:"stateId"`
	State      *State    `gorm:"foreignKey:StateID" json:"state,omitempty"`
	ClusterID  *uint     `gorm:"index" json:"clusterId"`
	Cluster    *Cluster  `gorm:"foreignKey:ClusterID" json:"cluster,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Vendor - a supplier or service vendor
type Vendor struct {
	ID      uint   `gorm:"primaryKey" json:"_id"`
	Name    string `gorm:"size:150;not null" json:"name"`
	Contact string `gorm:"size:100" json:"contact"`
	Type    string `gorm:"size:20;index" json:"type"` // 'supplier', 'service'
}

const VendorTypeSupplier = "supplier"

// Product - catalogue entry that procurement orders reference
type Product struct {
	ID         uint    `gorm:"primaryKey" json:"_id"`
	Name       string  `gorm:"size:150;not null" json:"name"`
	BrandID    uint    `json:"brandId"`
	Brand      Brand   `gorm:"foreignKey:BrandID" json:"brand"`
	Technology string  `gorm:"size:64" json:"technology"`
	Wattage    int     `json:"wattage"`
	Price      float64 `json:"price"`
}
