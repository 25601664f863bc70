package database

import (
	"solar-dealer-hub/internal/models"
)

// GetProcurementSummary aggregates all procurement orders by status
func GetProcurementSummary() (*models.ProcurementSummary, error) {
	var result models.ProcurementSummary

	// COALESCE ensures we get 0 instead of NULL if no orders exist
	err := DB.Model(&models.ProcurementOrder{}).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&result.TotalAmount).Error
	if err != nil {
		return nil, err
	}

	err = DB.Model(&models.ProcurementOrder{}).Count(&result.TotalOrders).Error
	if err != nil {
		return nil, err
	}

	err = DB.Model(&models.ProcurementOrder{}).
		Select("status, COUNT(*) as orders, COALESCE(SUM(total_amount), 0) as amount").
		Group("status").
		Order("status").
		Scan(&result.ByStatus).Error
	if err != nil {
		return nil, err
	}
	if result.ByStatus == nil {
		result.ByStatus = []models.StatusTotal{}
	}

	return &result, nil
}

// ListInventory loads inventory rows with their references for in-memory filtering
func ListInventory() ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	err := DB.Preload("Brand").Preload("State").Preload("Cluster").Order("id").Find(&items).Error
	return items, err
}

// ListProjects loads every project, newest first
func ListProjects() ([]models.Project, error) {
	var projects []models.Project
	err := DB.Order("created_at desc, id desc").Find(&projects).Error
	return projects, err
}
