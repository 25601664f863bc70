package views

import (
	"testing"
	"time"

	"solar-dealer-hub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uintPtr(v uint) *uint { return &v }

func sampleInventory() []models.InventoryItem {
	adani := models.Brand{ID: 1, Name: "Adani"}
	waaree := models.Brand{ID: 2, Name: "Waaree"}
	return []models.InventoryItem{
		{ID: 1, Brand: adani, SKU: "ADN-540-M", Technology: "Mono PERC", Wattage: 540, Quantity: 40, MaxLevel: 100, Price: 11000, StateID: uintPtr(1), ClusterID: uintPtr(10)},
		{ID: 2, Brand: adani, SKU: "ADN-550-T", Technology: "TOPCon", Wattage: 550, Quantity: 120, MaxLevel: 100, Price: 12500, StateID: uintPtr(1), ClusterID: uintPtr(11)},
		{ID: 3, Brand: waaree, SKU: "WR-540-M", Technology: "Mono PERC", Wattage: 540, Quantity: 10, MaxLevel: 50, Price: 10500, StateID: uintPtr(2)},
		{ID: 4, Brand: waaree, SKU: "WR-335-P", Technology: "Polycrystalline", Wattage: 335, Quantity: 0, MaxLevel: 20, Price: 7000},
		{ID: 5, SKU: "GEN-100", Technology: "mono perc", Wattage: 100, Quantity: 3, MaxLevel: 3, Price: 2000},
	}
}

func TestFilterInventoryMatchesIndependentPredicate(t *testing.T) {
	items := sampleInventory()
	filters := []InventoryFilter{
		{},
		{Brand: "Adani"},
		{Brand: "adani", Technology: "Mono PERC"},
		{Technology: "mono perc"},
		{Wattage: 540},
		{StateID: 1},
		{StateID: 1, ClusterID: 11},
		{Search: "wr-"},
		{Brand: "Waaree", Technology: "TOPCon"},
	}
	for _, f := range filters {
		got := FilterInventory(items, f)

		want := 0
		for _, it := range items {
			if f.Match(it) {
				want++
			}
		}
		assert.Len(t, got, want, "%+v", f)
		for _, it := range got {
			assert.True(t, f.Match(it))
		}
	}
}

func TestFilterInventoryBrandAndTechnology(t *testing.T) {
	got := FilterInventory(sampleInventory(), InventoryFilter{Brand: "Adani", Technology: "Mono PERC"})
	require.Len(t, got, 1)
	assert.Equal(t, "ADN-540-M", got[0].SKU)

	assert.Empty(t, FilterInventory(sampleInventory(), InventoryFilter{Brand: "Waaree", Technology: "TOPCon"}))
	assert.NotNil(t, FilterInventory(nil, InventoryFilter{}))
}

func TestInventoryOptions(t *testing.T) {
	opts := InventoryOptions(sampleInventory())
	assert.Equal(t, []string{"Adani", "Unbranded", "Waaree"}, opts.Brands)
	assert.Equal(t, []string{"Mono PERC", "Polycrystalline", "TOPCon", "mono perc"}, opts.Technologies)
	assert.Equal(t, []int{100, 335, 540, 550}, opts.Wattages)
}

func TestInventoryByBrand(t *testing.T) {
	series := InventoryByBrand(sampleInventory())
	require.Len(t, series, 3)

	adani := series[0]
	assert.Equal(t, "Adani", adani.Brand)
	assert.Equal(t, 2, adani.Items)
	assert.Equal(t, 160, adani.Quantity)
	assert.Equal(t, 200, adani.MaxLevel)
	assert.Equal(t, 60, adani.Shortfall)
	assert.InDelta(t, 40*11000.0+120*12500.0, adani.StockValue, 0.001)

	assert.Equal(t, "Waaree", series[2].Brand)
	assert.Equal(t, 10, series[2].Quantity)
}

func TestLowStock(t *testing.T) {
	low := LowStock(sampleInventory())
	ids := []uint{}
	for _, it := range low {
		ids = append(ids, it.ID)
	}
	assert.Equal(t, []uint{1, 3, 4}, ids)
}

func TestOrderTotal(t *testing.T) {
	items := []models.OrderItem{{ProductID: 1, Quantity: 2, Price: 100}}
	assert.Equal(t, "200", OrderTotal(items).String())

	items = append(items, models.OrderItem{ProductID: 2, Quantity: 1, Price: 50})
	assert.Equal(t, "250", OrderTotal(items).String())

	assert.True(t, OrderTotal(nil).IsZero())
}

func TestOrderTotalAvoidsFloatDrift(t *testing.T) {
	items := []models.OrderItem{
		{Quantity: 3, Price: 0.1},
		{Quantity: 1, Price: 0.2},
	}
	assert.Equal(t, "0.5", OrderTotal(items).String())
}

func TestFilterOrders(t *testing.T) {
	orders := []models.ProcurementOrder{
		{OrderNumber: "PO-1001", Status: models.OrderPending, SupplierID: 1, Supplier: &models.Vendor{Name: "Sunrise Traders"}},
		{OrderNumber: "PO-1002", Status: models.OrderApproved, SupplierID: 2, StateID: uintPtr(3)},
		{OrderNumber: "PO-2001", Status: models.OrderPending, SupplierID: 2},
	}
	assert.Len(t, FilterOrders(orders, OrderFilter{Status: models.OrderPending}), 2)
	assert.Len(t, FilterOrders(orders, OrderFilter{SupplierID: 2, Status: models.OrderPending}), 1)
	assert.Len(t, FilterOrders(orders, OrderFilter{StateID: 3}), 1)
	assert.Len(t, FilterOrders(orders, OrderFilter{Search: "sunrise"}), 1)
	assert.Len(t, FilterOrders(orders, OrderFilter{Search: "PO-100"}), 2)
}

func TestPartitionRewards(t *testing.T) {
	rewards := []models.DealerReward{
		{ID: 1, Type: models.RewardProjectPointRule},
		{ID: 2, Type: models.RewardProduct},
		{ID: 3, Type: models.RewardCashback},
		{ID: 4, Type: models.RewardExperience},
		{ID: 5, Type: models.RewardRedeemSettings, MinRedeemPoints: 100},
		{ID: 6, Type: models.RewardProduct},
		{ID: 7, Type: models.RewardRedeemSettings, MinRedeemPoints: 500},
		{ID: 8, Type: "voucher"},
	}
	b := PartitionRewards(rewards)
	assert.Len(t, b.ProjectRules, 1)
	assert.Len(t, b.Products, 2)
	assert.Len(t, b.Cashback, 1)
	assert.Len(t, b.Experiences, 1)
	require.NotNil(t, b.RedeemSettings)
	assert.Equal(t, uint(7), b.RedeemSettings.ID)
	require.Len(t, b.Unrecognized, 1)
	assert.Equal(t, "voucher", b.Unrecognized[0].Type)

	empty := PartitionRewards(nil)
	assert.NotNil(t, empty.Products)
	assert.Nil(t, empty.RedeemSettings)
}

func TestProjectPoints(t *testing.T) {
	rule := models.DealerReward{
		Type:   models.RewardProjectPointRule,
		Points: 50,
		ProjectRule: models.ProjectRule{
			Category:    "Residential",
			MinKW:       3,
			MaxKW:       10,
			PointsPerKW: 12.5,
		},
	}
	assert.Equal(t, 50+62, ProjectPoints(rule, "residential", 5))
	assert.Equal(t, 50+125, ProjectPoints(rule, "Residential", 10))
	assert.Equal(t, 0, ProjectPoints(rule, "Residential", 2.9))
	assert.Equal(t, 0, ProjectPoints(rule, "Residential", 10.5))
	assert.Equal(t, 0, ProjectPoints(rule, "Commercial", 5))

	open := models.DealerReward{Type: models.RewardProjectPointRule, ProjectRule: models.ProjectRule{PointsPerKW: 10}}
	assert.Equal(t, 1000, ProjectPoints(open, "Industrial", 100))

	cashback := models.DealerReward{Type: models.RewardCashback, Points: 10}
	assert.Equal(t, 0, ProjectPoints(cashback, "Residential", 5))
}

func TestGoalTotals(t *testing.T) {
	goal := models.DealerGoal{Professions: []models.ProfessionTarget{
		{Type: "Electrician", Goal: 10},
		{Type: "Plumber", Goal: 4},
		{Type: "Civil Contractor", Goal: 6},
	}}
	total, types := GoalTotals(goal)
	assert.Equal(t, 20, total)
	assert.Equal(t, 3, types)

	goals := WithGoalTotals([]models.DealerGoal{goal, {}})
	assert.Equal(t, 20, goals[0].TotalGoal)
	assert.Equal(t, 0, goals[1].ProfessionTypes)
}

func TestGroupProfessionsByStateCounts(t *testing.T) {
	gujarat := &models.State{ID: 1, Name: "Gujarat"}
	rajasthan := &models.State{ID: 2, Name: "Rajasthan"}
	professions := []models.DealerProfession{
		{StateID: 1, State: gujarat, Name: "Electrician"},
		{StateID: 2, State: rajasthan, Name: "Electrician"},
		{StateID: 1, State: gujarat, Name: "Plumber"},
		{StateID: 1, Name: "Architect"},
	}

	groups := GroupProfessionsByState(professions)
	require.Len(t, groups, 2)
	for _, g := range groups {
		want := 0
		for _, p := range professions {
			if p.StateID == g.StateID {
				want++
			}
		}
		assert.Equal(t, want, g.Count, g.StateName)
	}
	assert.Equal(t, "Gujarat", groups[0].StateName)
	assert.Equal(t, []string{"Electrician", "Plumber", "Architect"}, groups[0].Names)
}

func sampleProjects() []models.Project {
	day := func(d int) time.Time { return time.Date(2026, 9, d, 10, 0, 0, 0, time.UTC) }
	return []models.Project{
		{ProjectID: "P1", ProjectName: "Shah Residence", Category: "Residential", StatusStage: "lead", TotalKW: 5, CP: "Surya Power", CreatedAt: day(1), UpdatedAt: day(1)},
		{ProjectID: "P2", ProjectName: "Mehta Warehouse", Category: "Commercial", StatusStage: "KYC Done", TotalKW: 50, CP: "Surya Power", CreatedAt: day(2), UpdatedAt: day(20)},
		{ProjectID: "P3", Category: "Residential", StatusStage: "installer_assigned", TotalKW: 3, CP: "GreenVolt", CreatedAt: day(3), UpdatedAt: day(4)},
		{ProjectID: "P4", Category: "Industrial", StatusStage: "completed", TotalKW: 200, CP: "GreenVolt", CreatedAt: day(1), UpdatedAt: day(5)},
		{ProjectID: "P5", Category: "Residential", StatusStage: "awaiting subsidy", TotalKW: 4, CP: "Helios", CreatedAt: day(2), UpdatedAt: day(2)},
		{ProjectID: "P6", Category: "Residential", StatusStage: "cancelled", TotalKW: 500, CP: "Helios", CreatedAt: day(2), UpdatedAt: day(3)},
	}
}

func TestBucketProjectsNeverDropsProjects(t *testing.T) {
	projects := sampleProjects()
	p := BucketProjects(projects)

	require.Len(t, p.Columns, len(models.PipelineColumns))
	placed := len(p.Unclassified)
	for _, c := range p.Columns {
		assert.Equal(t, len(c.Projects), c.Count)
		placed += c.Count
	}
	assert.Equal(t, len(projects), placed)

	require.Len(t, p.Unclassified, 1)
	assert.Equal(t, "P5", p.Unclassified[0].ProjectID)

	byColumn := map[models.PipelineColumn]PipelineBucket{}
	for _, c := range p.Columns {
		byColumn[c.Column] = c
	}
	assert.Equal(t, 1, byColumn[models.ColumnKYC].Count)
	assert.InDelta(t, 50, byColumn[models.ColumnKYC].TotalKW, 0.001)
	assert.Equal(t, 1, byColumn[models.ColumnInstaller].Count)
	assert.Equal(t, 0, byColumn[models.ColumnInstallation].Count)
	assert.NotNil(t, byColumn[models.ColumnInstallation].Projects)
}

func TestFilterProjects(t *testing.T) {
	projects := sampleProjects()
	assert.Len(t, FilterProjects(projects, ProjectFilter{Category: "residential"}), 4)
	assert.Len(t, FilterProjects(projects, ProjectFilter{Stage: "kyc-verified"}), 1)
	assert.Len(t, FilterProjects(projects, ProjectFilter{Column: "kyc"}), 1)
	assert.Len(t, FilterProjects(projects, ProjectFilter{Stage: "not a stage"}), 0)
	assert.Len(t, FilterProjects(projects, ProjectFilter{CP: "GreenVolt", Category: "Industrial"}), 1)
	assert.Len(t, FilterProjects(projects, ProjectFilter{Search: "shah"}), 1)
}

func TestProjectSummary(t *testing.T) {
	s := ProjectSummary(sampleProjects())
	assert.Equal(t, 6, s.Total)
	assert.InDelta(t, 762, s.TotalKW, 0.001)
	assert.Equal(t, 1, s.Unclassified)
	assert.Equal(t, 4, s.ByCategory["Residential"])
	assert.Equal(t, 1, s.ByColumn["Completed"])
	assert.Equal(t, 0, s.ByColumn["Installation"])
}

func TestTopPerformers(t *testing.T) {
	top := TopPerformers(sampleProjects(), 0)
	require.Len(t, top, 3)
	assert.Equal(t, "GreenVolt", top[0].CP)
	assert.InDelta(t, 203, top[0].TotalKW, 0.001)
	assert.Equal(t, 1, top[0].Completed)
	assert.Equal(t, "Surya Power", top[1].CP)
	// cancelled 500 kW project does not count for Helios
	assert.Equal(t, "Helios", top[2].CP)
	assert.InDelta(t, 4, top[2].TotalKW, 0.001)

	assert.Len(t, TopPerformers(sampleProjects(), 1), 1)
}

func TestInactiveDealers(t *testing.T) {
	since := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	inactive := InactiveDealers(sampleProjects(), since)

	require.Len(t, inactive, 2)
	assert.Equal(t, "Helios", inactive[0].CP)
	assert.Equal(t, "GreenVolt", inactive[1].CP)
	assert.Equal(t, 2, inactive[1].Projects)
}
