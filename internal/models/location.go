package models

// State is the top level of the geographic hierarchy.
type State struct {
	ID   uint   `gorm:"primaryKey" json:"_id"`
	Name string `gorm:"uniqueIndex;size:100;not null" json:"name"`
}

type City struct {
	ID      uint   `gorm:"primaryKey" json:"_id"`
	Name    string `gorm:"size:100;not null" json:"name"`
	StateID uint   `gorm:"index" json:"stateId"`
}

type District struct {
	ID      uint   `gorm:"primaryKey" json:"_id"`
	Name    string `gorm:"size:100;not null" json:"name"`
	StateID uint   `gorm:"index" json:"stateId"`
}

// Cluster groups dealers inside a district.
type Cluster struct {
	ID         uint   `gorm:"primaryKey" json:"_id"`
	Name       string `gorm:"size:100;not null" json:"name"`
	DistrictID uint   `gorm:"index" json:"districtId"`
}
