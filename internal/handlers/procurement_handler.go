package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"solar-dealer-hub/internal/database"
	"solar-dealer-hub/internal/export"
	"solar-dealer-hub/internal/middleware"
	"solar-dealer-hub/internal/models"
	"solar-dealer-hub/internal/views"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderRequest is what the order modal submits. totalAmount is ignored and recomputed.
type OrderRequest struct {
	OrderNumber string `json:"orderNumber"`
	SupplierID  uint   `json:"supplierId"`
	Items       []struct {
		ProductID uint    `json:"productId"`
		Quantity  int     `json:"quantity"`
		Price     float64 `json:"price"`
	} `json:"items"`
	Status     string `json:"status"`
	StateID    *uint  `json:"stateId"`
	CityID     *uint  `json:"cityId"`
	DistrictID *uint  `json:"districtId"`
	Notes      string `json:"notes"`
}

func (r *OrderRequest) validate() error {
	if r.SupplierID == 0 {
		return invalid("supplierId is required")
	}
	if len(r.Items) == 0 {
		return invalid("an order needs at least one item")
	}
	for i, it := range r.Items {
		if it.ProductID == 0 {
			return invalid("item %d: productId is required", i+1)
		}
		if it.Quantity <= 0 {
			return invalid("item %d: quantity must be positive", i+1)
		}
		if it.Price < 0 {
			return invalid("item %d: price cannot be negative", i+1)
		}
	}
	if r.Status != "" && !models.ValidOrderStatus(r.Status) {
		return invalid("%s", models.ErrInvalidOrderStatus.Error())
	}
	return nil
}

// checkReferences answers a validation error when the supplier or a product does not exist.
func (r *OrderRequest) checkReferences(db *gorm.DB) error {
	var supplier models.Vendor
	err := db.Where("type = ?", models.VendorTypeSupplier).First(&supplier, r.SupplierID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return invalid("supplier %d not found", r.SupplierID)
	}
	if err != nil {
		return err
	}

	ids := make([]uint, 0, len(r.Items))
	seen := make(map[uint]bool, len(r.Items))
	for _, it := range r.Items {
		if !seen[it.ProductID] {
			seen[it.ProductID] = true
			ids = append(ids, it.ProductID)
		}
	}
	var found []uint
	if err := db.Model(&models.Product{}).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return err
	}
	for _, id := range found {
		delete(seen, id)
	}
	for i, it := range r.Items {
		if seen[it.ProductID] {
			return invalid("item %d: product %d not found", i+1, it.ProductID)
		}
	}
	return nil
}

func (r *OrderRequest) lines() []models.OrderItem {
	items := make([]models.OrderItem, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, models.OrderItem{ProductID: it.ProductID, Quantity: it.Quantity, Price: it.Price})
	}
	return items
}

func newOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("PO-%s-%s", now.Format("20060102"), suffix)
}

func orderQuery(db *gorm.DB) *gorm.DB {
	return db.Preload("Supplier").Preload("Items", func(tx *gorm.DB) *gorm.DB { return tx.Order("id") }).
		Preload("Items.Product").Preload("State").Preload("City").Preload("District")
}

func loadOrder(id uint) (*models.ProcurementOrder, error) {
	var order models.ProcurementOrder
	if err := orderQuery(database.DB).First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func ListOrders(c *gin.Context) {
	var f views.OrderFilter
	if !bindQuery(c, &f) {
		return
	}
	var orders []models.ProcurementOrder
	if err := orderQuery(database.DB).Order("created_at desc, id desc").Find(&orders).Error; err != nil {
		respondError(c, err, "orders")
		return
	}
	c.JSON(http.StatusOK, views.FilterOrders(orders, f))
}

func GetOrder(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	order, err := loadOrder(id)
	if err != nil {
		respondError(c, err, "Order")
		return
	}
	c.JSON(http.StatusOK, order)
}

func CreateOrder(c *gin.Context) {
	var req OrderRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := req.validate(); err != nil {
		respondError(c, err, "Order")
		return
	}
	if err := req.checkReferences(database.DB); err != nil {
		respondError(c, err, "Order")
		return
	}
	if req.Status == "" {
		req.Status = models.OrderPending
	}

	items := req.lines()
	order := models.ProcurementOrder{
		OrderNumber: strings.TrimSpace(req.OrderNumber),
		SupplierID:  req.SupplierID,
		Items:       items,
		Status:      req.Status,
		StateID:     req.StateID,
		CityID:      req.CityID,
		DistrictID:  req.DistrictID,
		TotalAmount: views.OrderTotal(items).InexactFloat64(),
		Notes:       req.Notes,
		CreatedBy:   c.GetUint(middleware.KeyUserID),
	}
	if order.OrderNumber == "" {
		order.OrderNumber = newOrderNumber(time.Now())
	}

	// Header and lines are written together or not at all
	if err := database.DB.Create(&order).Error; err != nil {
		respondError(c, err, "Order")
		return
	}

	created, err := loadOrder(order.ID)
	if err != nil {
		respondError(c, err, "Order")
		return
	}
	notify("procurement_order", actionCreate, order.ID)
	c.JSON(http.StatusCreated, created)
}

func UpdateOrder(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req OrderRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := req.validate(); err != nil {
		respondError(c, err, "Order")
		return
	}

	var order models.ProcurementOrder
	if err := database.DB.First(&order, id).Error; err != nil {
		respondError(c, err, "Order")
		return
	}
	if n := strings.TrimSpace(req.OrderNumber); n != "" && n != order.OrderNumber {
		c.JSON(http.StatusBadRequest, gin.H{"error": "orderNumber cannot be changed"})
		return
	}
	if err := req.checkReferences(database.DB); err != nil {
		respondError(c, err, "Order")
		return
	}
	if req.Status == "" {
		req.Status = order.Status
	}

	items := req.lines()
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}
		return tx.Model(&order).Select("supplier_id", "status", "state_id", "city_id", "district_id", "total_amount", "notes").
			Updates(models.ProcurementOrder{
				SupplierID:  req.SupplierID,
				Status:      req.Status,
				StateID:     req.StateID,
				CityID:      req.CityID,
				DistrictID:  req.DistrictID,
				TotalAmount: views.OrderTotal(items).InexactFloat64(),
				Notes:       req.Notes,
			}).Error
	})
	if err != nil {
		respondError(c, err, "Order")
		return
	}

	updated, err := loadOrder(order.ID)
	if err != nil {
		respondError(c, err, "Order")
		return
	}
	notify("procurement_order", actionUpdate, order.ID)
	c.JSON(http.StatusOK, updated)
}

type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateOrderStatus sets any of the four statuses; there are no transition rules.
func UpdateOrderStatus(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req StatusRequest
	if !bindJSON(c, &req) {
		return
	}
	if !models.ValidOrderStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": models.ErrInvalidOrderStatus.Error()})
		return
	}

	result := database.DB.Model(&models.ProcurementOrder{}).Where("id = ?", id).Update("status", req.Status)
	if result.Error != nil {
		respondError(c, result.Error, "Order")
		return
	}
	if result.RowsAffected == 0 {
		respondError(c, gorm.ErrRecordNotFound, "Order")
		return
	}
	notify("procurement_order", actionUpdate, id)
	c.JSON(http.StatusOK, gin.H{"message": "Order status updated", "_id": id, "status": req.Status})
}

func DeleteOrder(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var deleted int64
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.ProcurementOrder{}, id)
		deleted = result.RowsAffected
		return result.Error
	})
	if err != nil {
		respondError(c, err, "Order")
		return
	}
	if deleted == 0 {
		respondError(c, gorm.ErrRecordNotFound, "Order")
		return
	}
	notify("procurement_order", actionDelete, id)
	c.JSON(http.StatusOK, gin.H{"message": "Order deleted successfully"})
}

// GetProcurementSummary reports order counts and value by status.
func GetProcurementSummary(c *gin.Context) {
	summary, err := database.GetProcurementSummary()
	if err != nil {
		respondError(c, err, "summary")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// ExportOrders streams the filtered order list as csv (default) or xlsx.
func ExportOrders(c *gin.Context) {
	var f views.OrderFilter
	if !bindQuery(c, &f) {
		return
	}
	var orders []models.ProcurementOrder
	if err := orderQuery(database.DB).Order("created_at desc, id desc").Find(&orders).Error; err != nil {
		respondError(c, err, "orders")
		return
	}

	table := export.Table{
		Sheet:   "Procurement Orders",
		Headers: []string{"Order Number", "Supplier", "Status", "Items", "Total Amount", "Created"},
	}
	for _, o := range views.FilterOrders(orders, f) {
		supplier := ""
		if o.Supplier != nil {
			supplier = o.Supplier.Name
		}
		table.Rows = append(table.Rows, []string{
			o.OrderNumber,
			supplier,
			o.Status,
			strconv.Itoa(len(o.Items)),
			strconv.FormatFloat(o.TotalAmount, 'f', 2, 64),
			o.CreatedAt.Format("2006-01-02"),
		})
	}
	writeExport(c, table)
}

func writeExport(c *gin.Context, table export.Table) {
	format := c.DefaultQuery("format", export.FormatCSV)
	if format != export.FormatCSV && format != export.FormatXLSX {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be csv or xlsx"})
		return
	}
	c.Header("Content-Type", export.ContentType(format))
	c.Header("Content-Disposition", "attachment; filename="+table.Filename(format))
	c.Status(http.StatusOK)
	if err := export.Write(c.Writer, format, table); err != nil {
		_ = c.Error(err)
	}
}

// ListSupplierVendors returns vendors of type supplier for the order form.
func ListSupplierVendors(c *gin.Context) {
	var vendors []models.Vendor
	if err := database.DB.Where("type = ?", models.VendorTypeSupplier).Order("name").Find(&vendors).Error; err != nil {
		respondError(c, err, "vendors")
		return
	}
	c.JSON(http.StatusOK, vendors)
}

func CreateVendor(c *gin.Context) {
	var vendor models.Vendor
	if !bindJSON(c, &vendor) {
		return
	}
	vendor.ID = 0
	if strings.TrimSpace(vendor.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	if vendor.Type == "" {
		vendor.Type = models.VendorTypeSupplier
	}
	if err := database.DB.Create(&vendor).Error; err != nil {
		respondError(c, err, "Vendor")
		return
	}
	notify("vendor", actionCreate, vendor.ID)
	c.JSON(http.StatusCreated, vendor)
}
