package models

import (
	"errors"
	"time"

	"gorm.io/datatypes"
)

// --- Dealer plans ---

type PlanKYC struct {
	Required        bool `json:"required"`
	AadhaarRequired bool `json:"aadhaarRequired"`
	PanRequired     bool `json:"panRequired"`
	GSTRequired     bool `json:"gstRequired"`
}

type PlanEligibility struct {
	MinExperienceYears int     `json:"minExperienceYears"`
	MinAnnualTurnover  float64 `json:"minAnnualTurnover"`
	RequiresShowroom   bool    `json:"requiresShowroom"`
}

type PlanCoverage struct {
	MaxDistricts int  `json:"maxDistricts"`
	MaxClusters  int  `json:"maxClusters"`
	StateWide    bool `json:"stateWide"`
}

type PlanUser struct {
	MaxSubUsers          int  `json:"maxSubUsers"`
	AllowInstallerLogins bool `json:"allowInstallerLogins"`
}

type PlanModule struct {
	Inventory   bool `json:"inventory"`
	Procurement bool `json:"procurement"`
	Projects    bool `json:"projects"`
	Rewards     bool `json:"rewards"`
}

type PlanCategory struct {
	Residential bool `json:"residential"`
	Commercial  bool `json:"commercial"`
	Industrial  bool `json:"industrial"`
}

type PlanFeatures struct {
	Leads           bool `json:"leads"`
	QuoteBuilder    bool `json:"quoteBuilder"`
	Analytics       bool `json:"analytics"`
	PrioritySupport bool `json:"prioritySupport"`
}

type PlanQuote struct {
	MaxQuotesPerMonth int  `json:"maxQuotesPerMonth"`
	CustomBranding    bool `json:"customBranding"`
}

type PlanFees struct {
	OnboardingFee   float64 `json:"onboardingFee"`
	MonthlyFee      float64 `json:"monthlyFee"`
	SecurityDeposit float64 `json:"securityDeposit"`
}

type PlanIncentive struct {
	Enabled      bool    `json:"enabled"`
	PerKW        float64 `json:"perKW"`
	BonusPercent float64 `json:"bonusPercent"`
}

// PlanConfig holds the fixed set of plan sections edited in the plan editor.
type PlanConfig struct {
	KYC         PlanKYC         `json:"kyc"`
	Eligibility PlanEligibility `json:"eligibility"`
	Coverage    PlanCoverage    `json:"coverage"`
	User        PlanUser        `json:"user"`
	Module      PlanModule      `json:"module"`
	Category    PlanCategory    `json:"category"`
	Features    PlanFeatures    `json:"features"`
	Quote       PlanQuote       `json:"quote"`
	Fees        PlanFees        `json:"fees"`
	Incentive   PlanIncentive   `json:"incentive"`
}

type PlanUI struct {
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

// DealerPlan - a subscription tier offered to dealers
type DealerPlan struct {
	ID        uint                           `gorm:"primaryKey" json:"_id"`
	Name      string                         `gorm:"uniqueIndex;size:100;not null" json:"name"`
	Price     float64                        `json:"price"`
	Message   string                         `gorm:"type:text" json:"message"`
	Config    datatypes.JSONType[PlanConfig] `json:"config"`
	UI        datatypes.JSONType[PlanUI]     `json:"ui"`
	CreatedAt time.Time                      `json:"createdAt"`
	UpdatedAt time.Time                      `json:"updatedAt"`
}

// --- Dealer rewards ---

const (
	RewardProjectPointRule = "project_point_rule"
	RewardProduct          = "product"
	RewardCashback         = "cashback"
	RewardExperience       = "experience"
	RewardRedeemSettings   = "redeem_settings"
)

var ErrInvalidRewardType = errors.New("type must be one of project_point_rule, product, cashback, experience, redeem_settings")

func ValidRewardType(t string) bool {
	switch t {
	case RewardProjectPointRule, RewardProduct, RewardCashback, RewardExperience, RewardRedeemSettings:
		return true
	}
	return false
}

// ProjectRule describes how many points an installed project earns.
// Zero bounds are open.
type ProjectRule struct {
	Category    string  `gorm:"size:50" json:"category"`
	MinKW       float64 `json:"minKW"`
	MaxKW       float64 `json:"maxKW"`
	PointsPerKW float64 `json:"pointsPerKW"`
}

// DealerReward is one row of the reward catalogue. Which fields matter depends on Type.
type DealerReward struct {
	ID          uint        `gorm:"primaryKey" json:"_id"`
	Type        string      `gorm:"size:30;index;not null" json:"type"`
	Points      int         `json:"points"`
	Description string      `gorm:"type:text" json:"description"`
	Image       string      `json:"image"`
	ProjectRule ProjectRule `gorm:"embedded;embeddedPrefix:rule_" json:"projectRule"`
	ProductName string      `gorm:"size:150" json:"productName,omitempty"`
	Amount      float64     `json:"amount,omitempty"`
	Duration    string      `gorm:"size:50" json:"duration,omitempty"`
	Location    string      `gorm:"size:150" json:"location,omitempty"`

	// redeem_settings only
	MinRedeemPoints int     `json:"minRedeemPoints,omitempty"`
	ConversionRate  float64 `json:"conversionRate,omitempty"` // currency per point

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// --- Dealer goals ---

type ProfessionTarget struct {
	Type string `json:"type"`
	Goal int    `json:"goal"`
}

// DealerGoal - recruitment target for an area
type DealerGoal struct {
	ID          uint                                 `gorm:"primaryKey" json:"_id"`
	Name        string                               `gorm:"size:150;not null" json:"name"`
	StateID     *uint                                `json:"stateId"`
	State       *State                               `gorm:"foreignKey:StateID" json:"state,omitempty"`
	DistrictID  *uint                                `json:"districtId"`
	District    *District                            `gorm:"foreignKey:DistrictID" json:"district,omitempty"`
	ClusterID   *uint                                `json:"clusterId"`
	Cluster     *Cluster                             `gorm:"foreignKey:ClusterID" json:"cluster,omitempty"`
	DealerCount int                                  `json:"dealerCount"`
	DueDate     string                               `gorm:"size:10" json:"dueDate"` // YYYY-MM-DD
	DealerType  string                               `gorm:"size:50" json:"dealerType"`
	Professions datatypes.JSONSlice[ProfessionTarget] `json:"professions"`

	// Derived on read, never stored
	TotalGoal       int `gorm:"-" json:"totalGoal"`
	ProfessionTypes int `gorm:"-" json:"professionTypes"`

	CreatedAt time.Time `json:"createdAt"`
}

// --- Dealer professions ---

type DealerProfession struct {
	ID        uint      `gorm:"primaryKey" json:"_id"`
	StateID   uint      `gorm:"index;not null" json:"stateId"`
	State     *State    `gorm:"foreignKey:StateID" json:"state,omitempty"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}
