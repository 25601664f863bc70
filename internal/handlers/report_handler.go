package handlers

import (
	"cmp"
	"net/http"
	"slices"

	"solar-dealer-hub/internal/database"
	"solar-dealer-hub/internal/models"

	"github.com/gin-gonic/gin"
)

// SupplierTotal is one row of the top suppliers table
type SupplierTotal struct {
	Supplier string  `json:"supplier"`
	Orders   int64   `json:"orders"`
	Amount   float64 `json:"amount"`
}

// ReportData is the procurement overview shown on the admin dashboard
type ReportData struct {
	*models.ProcurementSummary
	TopSuppliers []SupplierTotal          `json:"topSuppliers"`
	RecentOrders []models.ProcurementOrder `json:"recentOrders"`
}

// --- GET: /api/reports ---
func GetProcurementReport(c *gin.Context) {
	summary, err := database.GetProcurementSummary()
	if err != nil {
		respondError(c, err, "report")
		return
	}
	data := ReportData{ProcurementSummary: summary, TopSuppliers: []SupplierTotal{}}

	// Cancelled orders never reach the supplier
	err = database.DB.Table("procurement_orders").
		Select("vendors.name as supplier, COUNT(*) as orders, COALESCE(SUM(procurement_orders.total_amount), 0) as amount").
		Joins("JOIN vendors ON procurement_orders.supplier_id = vendors.id").
		Where("procurement_orders.status <> ?", models.OrderCancelled).
		Group("vendors.name").
		Order("amount desc").
		Limit(5).
		Scan(&data.TopSuppliers).Error
	if err != nil {
		respondError(c, err, "report")
		return
	}

	err = database.DB.Preload("Supplier").Order("created_at desc, id desc").Limit(10).Find(&data.RecentOrders).Error
	if err != nil {
		respondError(c, err, "report")
		return
	}

	c.JSON(http.StatusOK, data)
}

// ValuationItem is a single stock row priced at its unit price
type ValuationItem struct {
	SKU        string  `json:"sku"`
	Brand      string  `json:"brand"`
	Quantity   int     `json:"quantity"`
	Price      float64 `json:"price"`
	TotalValue float64 `json:"totalValue"`
}

// StateGroup is the stock held in one state
type StateGroup struct {
	State    string          `json:"state"`
	Items    []ValuationItem `json:"items"`
	Subtotal float64         `json:"subtotal"`
}

type ValuationResponse struct {
	States     []StateGroup `json:"states"`
	GrandTotal float64      `json:"grandTotal"`
}

// --- GET: /api/reports/valuation ---
// GetStockValuation prices every inventory row and groups the result by state.
func GetStockValuation(c *gin.Context) {
	items, err := database.ListInventory()
	if err != nil {
		respondError(c, err, "inventory")
		return
	}

	var resp ValuationResponse
	grouped := make(map[string]*StateGroup)
	for _, it := range items {
		name := "Unassigned"
		if it.State != nil {
			name = it.State.Name
		}
		g, ok := grouped[name]
		if !ok {
			g = &StateGroup{State: name, Items: []ValuationItem{}}
			grouped[name] = g
		}

		value := float64(it.Quantity) * it.Price
		g.Items = append(g.Items, ValuationItem{
			SKU:        it.SKU,
			Brand:      it.Brand.Name,
			Quantity:   it.Quantity,
			Price:      it.Price,
			TotalValue: value,
		})
		g.Subtotal += value
		resp.GrandTotal += value
	}

	resp.States = make([]StateGroup, 0, len(grouped))
	for _, g := range grouped {
		resp.States = append(resp.States, *g)
	}
	slices.SortFunc(resp.States, func(a, b StateGroup) int { return cmp.Compare(a.State, b.State) })

	c.JSON(http.StatusOK, resp)
}
