package views

import (
	"solar-dealer-hub/internal/models"

	"github.com/shopspring/decimal"
)

// OrderTotal sums quantity × price over the order lines.
func OrderTotal(items []models.OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		line := decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity)))
		total = total.Add(line)
	}
	return total
}

// OrderFilter narrows the procurement order list.
type OrderFilter struct {
	Status     string `form:"status" json:"status,omitempty"`
	SupplierID uint   `form:"supplierId" json:"supplierId,omitempty"`
	StateID    uint   `form:"stateId" json:"stateId,omitempty"`
	Search     string `form:"search" json:"search,omitempty"`
}

func (f OrderFilter) Match(o models.ProcurementOrder) bool {
	if f.Status != "" && o.Status != f.Status {
		return false
	}
	if f.SupplierID != 0 && o.SupplierID != f.SupplierID {
		return false
	}
	if f.StateID != 0 && (o.StateID == nil || *o.StateID != f.StateID) {
		return false
	}
	if f.Search != "" {
		supplier := ""
		if o.Supplier != nil {
			supplier = o.Supplier.Name
		}
		return containsFold(f.Search, o.OrderNumber, supplier)
	}
	return true
}

func FilterOrders(orders []models.ProcurementOrder, f OrderFilter) []models.ProcurementOrder {
	return filter(orders, f.Match)
}
