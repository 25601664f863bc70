package handlers

import (
	"errors"
	"net/http"
	"strings"

	"solar-dealer-hub/internal/database"
	"solar-dealer-hub/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// listByParent answers a cascading dropdown: every row when the parent
// query parameter is absent, otherwise only that parent's children.
func listByParent[T any](c *gin.Context, param, column, what string) {
	query := database.DB.Order("name")
	if v := c.Query(param); v != "" {
		query = query.Where(column+" = ?", v)
	}
	rows := []T{}
	if err := query.Find(&rows).Error; err != nil {
		respondError(c, err, what)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func ListStates(c *gin.Context) {
	var states []models.State
	if err := database.DB.Order("name").Find(&states).Error; err != nil {
		respondError(c, err, "states")
		return
	}
	c.JSON(http.StatusOK, states)
}

func ListCities(c *gin.Context) {
	listByParent[models.City](c, "stateId", "state_id", "cities")
}

func ListDistricts(c *gin.Context) {
	listByParent[models.District](c, "stateId", "state_id", "districts")
}

func ListClusters(c *gin.Context) {
	listByParent[models.Cluster](c, "districtId", "district_id", "clusters")
}

type LocationRequest struct {
	Name     string `json:"name" binding:"required"`
	ParentID uint   `json:"parentId"`
}

// createLocation inserts one row after checking its parent exists.
func createLocation(c *gin.Context, parent any, build func(name string, parentID uint) any, what string) {
	var req LocationRequest
	if !bindJSON(c, &req) {
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	if parent != nil {
		if req.ParentID == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "parentId is required"})
			return
		}
		if err := database.DB.First(parent, req.ParentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Parent location not found"})
				return
			}
			respondError(c, err, what)
			return
		}
	}

	row := build(name, req.ParentID)
	if err := database.DB.Create(row).Error; err != nil {
		respondError(c, err, what)
		return
	}
	notify("location", actionCreate, name)
	c.JSON(http.StatusCreated, row)
}

func CreateState(c *gin.Context) {
	createLocation(c, nil, func(name string, _ uint) any {
		return &models.State{Name: name}
	}, "State")
}

func CreateCity(c *gin.Context) {
	createLocation(c, &models.State{}, func(name string, parentID uint) any {
		return &models.City{Name: name, StateID: parentID}
	}, "City")
}

func CreateDistrict(c *gin.Context) {
	createLocation(c, &models.State{}, func(name string, parentID uint) any {
		return &models.District{Name: name, StateID: parentID}
	}, "District")
}

func CreateCluster(c *gin.Context) {
	createLocation(c, &models.District{}, func(name string, parentID uint) any {
		return &models.Cluster{Name: name, DistrictID: parentID}
	}, "Cluster")
}
