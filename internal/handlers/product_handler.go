package handlers

import (
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"solar-dealer-hub/internal/database"
	"solar-dealer-hub/internal/export"
	"solar-dealer-hub/internal/models"
	"solar-dealer-hub/internal/views"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// --- GET: procurement catalogue ---
func ListProducts(c *gin.Context) {
	var products []models.Product
	if err := database.DB.Preload("Brand").Order("name").Find(&products).Error; err != nil {
		respondError(c, err, "products")
		return
	}
	c.JSON(http.StatusOK, products)
}

func ListBrands(c *gin.Context) {
	var brands []models.Brand
	if err := database.DB.Order("name").Find(&brands).Error; err != nil {
		respondError(c, err, "brands")
		return
	}
	c.JSON(http.StatusOK, brands)
}

// --- GET: raw inventory rows, also the product fallback for older clients ---
func ListInventoryItems(c *gin.Context) {
	items, err := database.ListInventory()
	if err != nil {
		respondError(c, err, "inventory")
		return
	}
	c.JSON(http.StatusOK, items)
}

// InventoryItemRequest is the "add inventory" form.
type InventoryItemRequest struct {
	BrandID    uint    `json:"brandId" binding:"required"`
	SKU        string  `json:"sku"`
	Technology string  `json:"technology"`
	Wattage    int     `json:"wattage"`
	Quantity   int     `json:"quantity"`
	MaxLevel   int     `json:"maxLevel"`
	Price      float64 `json:"price"`
	StateID    *uint   `json:"stateId"`
	ClusterID  *uint   `json:"clusterId"`
}

func (r InventoryItemRequest) validate() error {
	if r.Wattage < 0 {
		return invalid("wattage cannot be negative")
	}
	if r.Quantity < 0 || r.MaxLevel < 0 {
		return invalid("quantity and maxLevel cannot be negative")
	}
	if r.Price < 0 {
		return invalid("price cannot be negative")
	}
	return nil
}

// --- POST: add stock for a brand at a location ---
func CreateInventoryItem(c *gin.Context) {
	var req InventoryItemRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := req.validate(); err != nil {
		respondError(c, err, "Inventory item")
		return
	}

	var brand models.Brand
	if err := database.DB.First(&brand, req.BrandID).Error; err != nil {
		respondError(c, err, "Brand")
		return
	}

	item := models.InventoryItem{
		BrandID:    brand.ID,
		SKU:        strings.TrimSpace(req.SKU),
		Technology: strings.TrimSpace(req.Technology),
		Wattage:    req.Wattage,
		Quantity:   req.Quantity,
		MaxLevel:   req.MaxLevel,
		Price:      req.Price,
		StateID:    req.StateID,
		ClusterID:  req.ClusterID,
	}
	if err := database.DB.Omit("Brand", "State", "Cluster").Create(&item).Error; err != nil {
		respondError(c, err, "Inventory item")
		return
	}
	item.Brand = brand
	notify("inventory", actionCreate, item.ID)
	c.JSON(http.StatusCreated, item)
}

// loadFilteredInventory binds the query filters and returns the matching rows.
func loadFilteredInventory(c *gin.Context) ([]models.InventoryItem, bool) {
	var f views.InventoryFilter
	if !bindQuery(c, &f) {
		return nil, false
	}
	items, err := database.ListInventory()
	if err != nil {
		respondError(c, err, "inventory")
		return nil, false
	}
	return views.FilterInventory(items, f), true
}

// --- GET: /api/inventory?brand=&technology=&wattage=&stateId=&clusterId=&search= ---
func GetInventory(c *gin.Context) {
	items, ok := loadFilteredInventory(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"items":    items,
		"count":    len(items),
		"lowStock": len(views.LowStock(items)),
	})
}

// GetInventoryOptions feeds the filter dropdowns from the unfiltered list.
func GetInventoryOptions(c *gin.Context) {
	items, err := database.ListInventory()
	if err != nil {
		respondError(c, err, "inventory")
		return
	}
	c.JSON(http.StatusOK, views.InventoryOptions(items))
}

// GetInventoryChart returns the stock-by-brand series for the current filters.
func GetInventoryChart(c *gin.Context) {
	items, ok := loadFilteredInventory(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, views.InventoryByBrand(items))
}

func ExportInventory(c *gin.Context) {
	items, ok := loadFilteredInventory(c)
	if !ok {
		return
	}

	table := export.Table{
		Sheet:   "Inventory",
		Headers: []string{"SKU", "Brand", "Technology", "Wattage", "Quantity", "Max Level", "Price", "State", "Cluster"},
	}
	for _, it := range items {
		state, cluster := "", ""
		if it.State != nil {
			state = it.State.Name
		}
		if it.Cluster != nil {
			cluster = it.Cluster.Name
		}
		table.Rows = append(table.Rows, []string{
			it.SKU,
			it.Brand.Name,
			it.Technology,
			strconv.Itoa(it.Wattage),
			strconv.Itoa(it.Quantity),
			strconv.Itoa(it.MaxLevel),
			strconv.FormatFloat(it.Price, 'f', 2, 64),
			state,
			cluster,
		})
	}
	writeExport(c, table)
}

// Raster formats only. Uploads are served same-origin, so svg is refused.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// --- UPLOAD: reward images ---
func UploadImage(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !imageExtensions[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only image files can be uploaded"})
		return
	}

	// The client's file name is never used on disk
	filename := uuid.NewString() + ext
	if err := c.SaveUploadedFile(file, filepath.Join(opts.UploadsDir, filename)); err != nil {
		respondError(c, err, "upload")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "File uploaded successfully",
		"url":     strings.TrimRight(opts.BaseURL, "/") + "/uploads/" + filename,
	})
}
