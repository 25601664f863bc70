// Package views holds the list derivations shared by the REST handlers, the
// assistant and the terminal dashboards: filters, option lists, groupings and totals.
package views

import (
	"cmp"
	"slices"
	"strings"

	"solar-dealer-hub/internal/models"
)

const unbranded = "Unbranded"

// InventoryFilter narrows an inventory list. Zero fields match everything.
type InventoryFilter struct {
	Brand      string `form:"brand" json:"brand,omitempty"`
	Technology string `form:"technology" json:"technology,omitempty"`
	Wattage    int    `form:"wattage" json:"wattage,omitempty"`
	StateID    uint   `form:"stateId" json:"stateId,omitempty"`
	ClusterID  uint   `form:"clusterId" json:"clusterId,omitempty"`
	Search     string `form:"search" json:"search,omitempty"`
}

// Match reports whether the item satisfies every set field of the filter.
func (f InventoryFilter) Match(it models.InventoryItem) bool {
	if f.Brand != "" && !strings.EqualFold(brandName(it), f.Brand) {
		return false
	}
	if f.Technology != "" && !strings.EqualFold(it.Technology, f.Technology) {
		return false
	}
	if f.Wattage != 0 && it.Wattage != f.Wattage {
		return false
	}
	if f.StateID != 0 && (it.StateID == nil || *it.StateID != f.StateID) {
		return false
	}
	if f.ClusterID != 0 && (it.ClusterID == nil || *it.ClusterID != f.ClusterID) {
		return false
	}
	if f.Search != "" {
		return containsFold(f.Search, it.SKU, brandName(it), it.Technology)
	}
	return true
}

// FilterInventory returns the items matching f, in their original order.
func FilterInventory(items []models.InventoryItem, f InventoryFilter) []models.InventoryItem {
	return filter(items, f.Match)
}

// InventoryOptionSet feeds the filter dropdowns.
type InventoryOptionSet struct {
	Brands       []string `json:"brands"`
	Technologies []string `json:"technologies"`
	Wattages     []int    `json:"wattages"`
}

// InventoryOptions returns the distinct brands, technologies and wattages, sorted.
func InventoryOptions(items []models.InventoryItem) InventoryOptionSet {
	brands := map[string]struct{}{}
	techs := map[string]struct{}{}
	watts := map[int]struct{}{}
	for _, it := range items {
		brands[brandName(it)] = struct{}{}
		if it.Technology != "" {
			techs[it.Technology] = struct{}{}
		}
		if it.Wattage > 0 {
			watts[it.Wattage] = struct{}{}
		}
	}
	return InventoryOptionSet{
		Brands:       sortedKeys(brands),
		Technologies: sortedKeys(techs),
		Wattages:     sortedKeys(watts),
	}
}

// BrandSeries is one bar of the stock-by-brand chart.
type BrandSeries struct {
	Brand      string  `json:"brand"`
	Items      int     `json:"items"`
	Quantity   int     `json:"quantity"`
	MaxLevel   int     `json:"maxLevel"`
	Shortfall  int     `json:"shortfall"`
	StockValue float64 `json:"stockValue"`
}

// InventoryByBrand groups items by brand and sums their numeric fields.
func InventoryByBrand(items []models.InventoryItem) []BrandSeries {
	grouped := make(map[string]*BrandSeries)
	for _, it := range items {
		name := brandName(it)
		s, ok := grouped[name]
		if !ok {
			s = &BrandSeries{Brand: name}
			grouped[name] = s
		}
		s.Items++
		s.Quantity += it.Quantity
		s.MaxLevel += it.MaxLevel
		if it.MaxLevel > it.Quantity {
			s.Shortfall += it.MaxLevel - it.Quantity
		}
		s.StockValue += float64(it.Quantity) * it.Price
	}

	out := make([]BrandSeries, 0, len(grouped))
	for _, s := range grouped {
		out = append(out, *s)
	}
	slices.SortFunc(out, func(a, b BrandSeries) int { return cmp.Compare(a.Brand, b.Brand) })
	return out
}

// LowStock returns items whose quantity is below their max level.
func LowStock(items []models.InventoryItem) []models.InventoryItem {
	return filter(items, func(it models.InventoryItem) bool { return it.Quantity < it.MaxLevel })
}

func brandName(it models.InventoryItem) string {
	if it.Brand.Name == "" {
		return unbranded
	}
	return it.Brand.Name
}

func filter[T any](in []T, keep func(T) bool) []T {
	out := make([]T, 0, len(in))
	for _, v := range in {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

func containsFold(needle string, haystacks ...string) bool {
	needle = strings.ToLower(strings.TrimSpace(needle))
	for _, h := range haystacks {
		if strings.Contains(strings.ToLower(h), needle) {
			return true
		}
	}
	return false
}

func sortedKeys[K cmp.Ordered](m map[K]struct{}) []K {
	out := make([]K, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
