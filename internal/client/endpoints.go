package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"solar-dealer-hub/internal/models"
	"solar-dealer-hub/internal/views"
)

// --- Auth ---

// Login exchanges credentials for a token and adopts the new session.
func (c *Client) Login(ctx context.Context, username, password string) (*Session, error) {
	var s Session
	body := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", nil, body, &s); err != nil {
		return nil, err
	}
	c.session = &s
	return &s, nil
}

type Identity struct {
	UserID   uint   `json:"userId"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (c *Client) Me(ctx context.Context) (*Identity, error) {
	var id Identity
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, nil, &id); err != nil {
		return nil, err
	}
	return &id, nil
}

// --- Locations ---

func (c *Client) States(ctx context.Context) ([]models.State, error) {
	var out []models.State
	err := c.do(ctx, http.MethodGet, "/api/locations/states", nil, nil, &out)
	return out, err
}

func (c *Client) Cities(ctx context.Context, stateID uint) ([]models.City, error) {
	var out []models.City
	err := c.do(ctx, http.MethodGet, "/api/locations/cities", idQuery("stateId", stateID), nil, &out)
	return out, err
}

func (c *Client) Districts(ctx context.Context, stateID uint) ([]models.District, error) {
	var out []models.District
	err := c.do(ctx, http.MethodGet, "/api/locations/districts", idQuery("stateId", stateID), nil, &out)
	return out, err
}

func (c *Client) Clusters(ctx context.Context, districtID uint) ([]models.Cluster, error) {
	var out []models.Cluster
	err := c.do(ctx, http.MethodGet, "/api/locations/clusters", idQuery("districtId", districtID), nil, &out)
	return out, err
}

// --- Catalogue and inventory ---

func (c *Client) Brands(ctx context.Context) ([]models.Brand, error) {
	var out []models.Brand
	err := c.do(ctx, http.MethodGet, "/api/brands", nil, nil, &out)
	return out, err
}

// Products lists the procurement catalogue. Servers without /api/products
// answer 404; the inventory rows are then turned into catalogue entries.
func (c *Client) Products(ctx context.Context) ([]models.Product, error) {
	var out []models.Product
	err := c.do(ctx, http.MethodGet, "/api/products", nil, nil, &out)
	if StatusOf(err) != http.StatusNotFound {
		return out, err
	}

	items, err := c.InventoryItems(ctx)
	if err != nil {
		return nil, err
	}
	out = make([]models.Product, 0, len(items))
	for _, it := range items {
		name := it.SKU
		if name == "" {
			name = fmt.Sprintf("%s %dW", it.Brand.Name, it.Wattage)
		}
		out = append(out, models.Product{
			ID:         it.ID,
			Name:       name,
			BrandID:    it.BrandID,
			Brand:      it.Brand,
			Technology: it.Technology,
			Wattage:    it.Wattage,
			Price:      it.Price,
		})
	}
	return out, nil
}

func (c *Client) SupplierVendors(ctx context.Context) ([]models.Vendor, error) {
	var out []models.Vendor
	err := c.do(ctx, http.MethodGet, "/api/vendors/supplier-vendors", nil, nil, &out)
	return out, err
}

func (c *Client) InventoryItems(ctx context.Context) ([]models.InventoryItem, error) {
	var out []models.InventoryItem
	err := c.do(ctx, http.MethodGet, "/api/inventory/items", nil, nil, &out)
	return out, err
}

func (c *Client) CreateInventoryItem(ctx context.Context, item models.InventoryItem) (*models.InventoryItem, error) {
	var out models.InventoryItem
	if err := c.do(ctx, http.MethodPost, "/api/inventory/items", nil, item, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// InventoryPage is the filtered inventory answer.
type InventoryPage struct {
	Items    []models.InventoryItem `json:"items"`
	Count    int                    `json:"count"`
	LowStock int                    `json:"lowStock"`
}

func (c *Client) Inventory(ctx context.Context, f views.InventoryFilter) (*InventoryPage, error) {
	var out InventoryPage
	if err := c.do(ctx, http.MethodGet, "/api/inventory", inventoryQuery(f), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) InventoryOptions(ctx context.Context) (*views.InventoryOptionSet, error) {
	var out views.InventoryOptionSet
	if err := c.do(ctx, http.MethodGet, "/api/inventory/options", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) InventoryChart(ctx context.Context, f views.InventoryFilter) ([]views.BrandSeries, error) {
	var out []views.BrandSeries
	err := c.do(ctx, http.MethodGet, "/api/inventory/chart", inventoryQuery(f), nil, &out)
	return out, err
}

// ExportInventory writes the filtered inventory to w as csv or xlsx.
func (c *Client) ExportInventory(ctx context.Context, f views.InventoryFilter, format string, w io.Writer) error {
	q := inventoryQuery(f)
	q.Set("format", format)
	return c.download(ctx, "/api/inventory/export", q, w)
}

// --- Procurement ---

func (c *Client) Orders(ctx context.Context, f views.OrderFilter) ([]models.ProcurementOrder, error) {
	var out []models.ProcurementOrder
	err := c.do(ctx, http.MethodGet, "/api/procurement-orders", orderQuery(f), nil, &out)
	return out, err
}

func (c *Client) Order(ctx context.Context, id uint) (*models.ProcurementOrder, error) {
	var out models.ProcurementOrder
	if err := c.do(ctx, http.MethodGet, orderPath(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateOrder submits header and lines. The server computes totalAmount.
func (c *Client) CreateOrder(ctx context.Context, o models.ProcurementOrder) (*models.ProcurementOrder, error) {
	var out models.ProcurementOrder
	if err := c.do(ctx, http.MethodPost, "/api/procurement-orders", nil, o, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateOrder(ctx context.Context, o models.ProcurementOrder) (*models.ProcurementOrder, error) {
	var out models.ProcurementOrder
	if err := c.do(ctx, http.MethodPut, orderPath(o.ID), nil, o, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SetOrderStatus(ctx context.Context, id uint, status string) error {
	return c.do(ctx, http.MethodPatch, orderPath(id)+"/status", nil, map[string]string{"status": status}, nil)
}

func (c *Client) DeleteOrder(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, orderPath(id), nil, nil, nil)
}

func (c *Client) OrderSummary(ctx context.Context) (*models.ProcurementSummary, error) {
	var out models.ProcurementSummary
	if err := c.do(ctx, http.MethodGet, "/api/procurement-orders/summary", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ExportOrders(ctx context.Context, f views.OrderFilter, format string, w io.Writer) error {
	q := orderQuery(f)
	q.Set("format", format)
	return c.download(ctx, "/api/procurement-orders/export", q, w)
}

// --- Dealer settings ---

const settingsPath = "/api/dealer-settings"

func (c *Client) Plans(ctx context.Context) ([]models.DealerPlan, error) {
	var out []models.DealerPlan
	err := c.do(ctx, http.MethodGet, settingsPath+"/plans", nil, nil, &out)
	return out, err
}

func (c *Client) Plan(ctx context.Context, id uint) (*models.DealerPlan, error) {
	var out models.DealerPlan
	if err := c.do(ctx, http.MethodGet, itemPath(settingsPath+"/plans", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreatePlan(ctx context.Context, p models.DealerPlan) (*models.DealerPlan, error) {
	var out models.DealerPlan
	if err := c.do(ctx, http.MethodPost, settingsPath+"/plans", nil, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdatePlan(ctx context.Context, p models.DealerPlan) (*models.DealerPlan, error) {
	var out models.DealerPlan
	if err := c.do(ctx, http.MethodPut, itemPath(settingsPath+"/plans", p.ID), nil, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeletePlan(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, itemPath(settingsPath+"/plans", id), nil, nil, nil)
}

func (c *Client) Rewards(ctx context.Context, rewardType string) ([]models.DealerReward, error) {
	var q url.Values
	if rewardType != "" {
		q = url.Values{"type": {rewardType}}
	}
	var out []models.DealerReward
	err := c.do(ctx, http.MethodGet, settingsPath+"/rewards", q, nil, &out)
	return out, err
}

func (c *Client) Reward(ctx context.Context, id uint) (*models.DealerReward, error) {
	var out models.DealerReward
	if err := c.do(ctx, http.MethodGet, itemPath(settingsPath+"/rewards", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RewardBuckets(ctx context.Context) (*views.RewardBuckets, error) {
	var out views.RewardBuckets
	if err := c.do(ctx, http.MethodGet, settingsPath+"/rewards/buckets", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateReward(ctx context.Context, r models.DealerReward) (*models.DealerReward, error) {
	var out models.DealerReward
	if err := c.do(ctx, http.MethodPost, settingsPath+"/rewards", nil, r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateReward(ctx context.Context, r models.DealerReward) (*models.DealerReward, error) {
	var out models.DealerReward
	if err := c.do(ctx, http.MethodPut, itemPath(settingsPath+"/rewards", r.ID), nil, r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteReward(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, itemPath(settingsPath+"/rewards", id), nil, nil, nil)
}

// RewardPoints asks how many points a project earns under a project point rule.
func (c *Client) RewardPoints(ctx context.Context, id uint, category string, kw float64) (int, error) {
	q := url.Values{"kw": {strconv.FormatFloat(kw, 'f', -1, 64)}}
	if category != "" {
		q.Set("category", category)
	}
	var out struct {
		Points int `json:"points"`
	}
	err := c.do(ctx, http.MethodGet, itemPath(settingsPath+"/rewards", id)+"/points", q, nil, &out)
	return out.Points, err
}

func (c *Client) Goals(ctx context.Context) ([]models.DealerGoal, error) {
	var out []models.DealerGoal
	err := c.do(ctx, http.MethodGet, settingsPath+"/goals", nil, nil, &out)
	return out, err
}

func (c *Client) CreateGoal(ctx context.Context, g models.DealerGoal) (*models.DealerGoal, error) {
	var out models.DealerGoal
	if err := c.do(ctx, http.MethodPost, settingsPath+"/goals", nil, g, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteGoal(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, itemPath(settingsPath+"/goals", id), nil, nil, nil)
}

// Professions lists professions, all of them when stateID is 0.
func (c *Client) Professions(ctx context.Context, stateID uint) ([]models.DealerProfession, error) {
	var out []models.DealerProfession
	err := c.do(ctx, http.MethodGet, settingsPath+"/professions", idQuery("stateId", stateID), nil, &out)
	return out, err
}

func (c *Client) ProfessionsByState(ctx context.Context) ([]views.StateProfessions, error) {
	var out []views.StateProfessions
	err := c.do(ctx, http.MethodGet, settingsPath+"/professions/by-state", nil, nil, &out)
	return out, err
}

func (c *Client) CreateProfession(ctx context.Context, stateID uint, name string) (*models.DealerProfession, error) {
	var out models.DealerProfession
	body := map[string]any{"stateId": stateID, "name": name}
	if err := c.do(ctx, http.MethodPost, settingsPath+"/professions", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteProfession(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, itemPath(settingsPath+"/professions", id), nil, nil, nil)
}

// --- Projects ---

func (c *Client) Projects(ctx context.Context, f views.ProjectFilter) ([]models.Project, error) {
	var out []models.Project
	err := c.do(ctx, http.MethodGet, "/api/projects", projectQuery(f), nil, &out)
	return out, err
}

func (c *Client) Project(ctx context.Context, id uint) (*models.Project, error) {
	var out models.Project
	if err := c.do(ctx, http.MethodGet, itemPath("/api/projects", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateProject(ctx context.Context, p models.Project) (*models.Project, error) {
	var out models.Project
	if err := c.do(ctx, http.MethodPost, "/api/projects", nil, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProject(ctx context.Context, p models.Project) (*models.Project, error) {
	var out models.Project
	if err := c.do(ctx, http.MethodPut, itemPath("/api/projects", p.ID), nil, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteProject(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, itemPath("/api/projects", id), nil, nil, nil)
}

func (c *Client) ProjectStats(ctx context.Context, f views.ProjectFilter) (*views.Summary, error) {
	var out views.Summary
	if err := c.do(ctx, http.MethodGet, "/api/projects/stats", projectQuery(f), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Pipeline(ctx context.Context, f views.ProjectFilter) (*views.Pipeline, error) {
	var out views.Pipeline
	if err := c.do(ctx, http.MethodGet, "/api/projects/pipeline", projectQuery(f), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// --- Dealer manager ---

func (c *Client) TopPerformers(ctx context.Context, limit int) ([]views.CPPerformance, error) {
	q := url.Values{"limit": {strconv.Itoa(limit)}}
	var out []views.CPPerformance
	err := c.do(ctx, http.MethodGet, "/api/dealer-manager/performers", q, nil, &out)
	return out, err
}

func (c *Client) InactiveDealers(ctx context.Context, days int) ([]views.CPActivity, error) {
	var q url.Values
	if days > 0 {
		q = url.Values{"days": {strconv.Itoa(days)}}
	}
	var out struct {
		Dealers []views.CPActivity `json:"dealers"`
	}
	err := c.do(ctx, http.MethodGet, "/api/dealer-manager/inactive", q, nil, &out)
	return out.Dealers, err
}

// --- Assistant ---

func (c *Client) Ask(ctx context.Context, message string) (string, error) {
	var out struct {
		Reply string `json:"reply"`
	}
	err := c.do(ctx, http.MethodPost, "/api/ask", nil, map[string]string{"message": message}, &out)
	return out.Reply, err
}

// --- query helpers ---

func itemPath(base string, id uint) string {
	return base + "/" + strconv.FormatUint(uint64(id), 10)
}

func orderPath(id uint) string {
	return itemPath("/api/procurement-orders", id)
}

func idQuery(key string, id uint) url.Values {
	if id == 0 {
		return nil
	}
	return url.Values{key: {strconv.FormatUint(uint64(id), 10)}}
}

type query url.Values

func (q query) str(key, v string) {
	if v != "" {
		url.Values(q).Set(key, v)
	}
}

func (q query) num(key string, v uint64) {
	if v != 0 {
		url.Values(q).Set(key, strconv.FormatUint(v, 10))
	}
}

func inventoryQuery(f views.InventoryFilter) url.Values {
	q := query{}
	q.str("brand", f.Brand)
	q.str("technology", f.Technology)
	q.num("wattage", uint64(max(f.Wattage, 0)))
	q.num("stateId", uint64(f.StateID))
	q.num("clusterId", uint64(f.ClusterID))
	q.str("search", f.Search)
	return url.Values(q)
}

func orderQuery(f views.OrderFilter) url.Values {
	q := query{}
	q.str("status", f.Status)
	q.num("supplierId", uint64(f.SupplierID))
	q.num("stateId", uint64(f.StateID))
	q.str("search", f.Search)
	return url.Values(q)
}

func projectQuery(f views.ProjectFilter) url.Values {
	q := query{}
	q.str("category", f.Category)
	q.str("subCategory", f.SubCategory)
	q.str("projectType", f.ProjectType)
	q.str("subProjectType", f.SubProjectType)
	q.str("stage", f.Stage)
	q.str("column", f.Column)
	q.str("cp", f.CP)
	q.str("search", f.Search)
	return url.Values(q)
}
