package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"solar-dealer-hub/internal/database"
	"solar-dealer-hub/internal/models"
	"solar-dealer-hub/internal/views"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProjectRequest struct {
	ProjectID      string  `json:"projectId"`
	ProjectName    string  `json:"projectName"`
	Customer       string  `json:"customer"`
	Category       string  `json:"category"`
	SubCategory    string  `json:"subCategory"`
	ProjectType    string  `json:"projectType"`
	SubProjectType string  `json:"subProjectType"`
	StatusStage    string  `json:"statusStage"`
	TotalKW        float64 `json:"totalKW"`
	CP             string  `json:"cp"`
	StateID        *uint   `json:"stateId"`
	DistrictID     *uint   `json:"districtId"`
	ClusterID      *uint   `json:"clusterId"`
}

// stage resolves the requested stage to its canonical spelling. An omitted
// stage keeps current: lead on create, the stored stage on update.
func (r ProjectRequest) stage(current models.ProjectStage) (models.ProjectStage, error) {
	if strings.TrimSpace(r.StatusStage) == "" {
		return current, nil
	}
	st, err := models.ParseProjectStage(r.StatusStage)
	if err != nil {
		return "", invalid("%s", err.Error())
	}
	return st, nil
}

func (r ProjectRequest) validate() error {
	if strings.TrimSpace(r.ProjectName) == "" && strings.TrimSpace(r.Customer) == "" {
		return invalid("projectName or customer is required")
	}
	if r.TotalKW < 0 {
		return invalid("totalKW cannot be negative")
	}
	return nil
}

func (r ProjectRequest) apply(p *models.Project, stage models.ProjectStage) {
	p.ProjectName = strings.TrimSpace(r.ProjectName)
	p.Customer = strings.TrimSpace(r.Customer)
	p.Category = r.Category
	p.SubCategory = r.SubCategory
	p.ProjectType = r.ProjectType
	p.SubProjectType = r.SubProjectType
	p.StatusStage = string(stage)
	p.TotalKW = r.TotalKW
	p.CP = strings.TrimSpace(r.CP)
	p.StateID = r.StateID
	p.DistrictID = r.DistrictID
	p.ClusterID = r.ClusterID
}

func newProjectID(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("PRJ-%s-%s", now.Format("20060102"), suffix)
}

// loadFilteredProjects binds the query filters and returns the matching projects.
func loadFilteredProjects(c *gin.Context) ([]models.Project, bool) {
	var f views.ProjectFilter
	if !bindQuery(c, &f) {
		return nil, false
	}
	projects, err := database.ListProjects()
	if err != nil {
		respondError(c, err, "projects")
		return nil, false
	}
	return views.FilterProjects(projects, f), true
}

func ListProjects(c *gin.Context) {
	projects, ok := loadFilteredProjects(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, projects)
}

func GetProject(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var project models.Project
	if err := database.DB.First(&project, id).Error; err != nil {
		respondError(c, err, "Project")
		return
	}
	c.JSON(http.StatusOK, project)
}

func CreateProject(c *gin.Context) {
	var req ProjectRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := req.validate(); err != nil {
		respondError(c, err, "Project")
		return
	}
	stage, err := req.stage(models.StageLead)
	if err != nil {
		respondError(c, err, "Project")
		return
	}

	project := models.Project{ProjectID: strings.TrimSpace(req.ProjectID)}
	if project.ProjectID == "" {
		project.ProjectID = newProjectID(time.Now())
	}
	req.apply(&project, stage)
	if err := database.DB.Create(&project).Error; err != nil {
		respondError(c, err, "Project")
		return
	}
	notify("project", actionCreate, project.ID)
	c.JSON(http.StatusCreated, project)
}

func UpdateProject(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req ProjectRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := req.validate(); err != nil {
		respondError(c, err, "Project")
		return
	}
	var project models.Project
	if err := database.DB.First(&project, id).Error; err != nil {
		respondError(c, err, "Project")
		return
	}
	stage, err := req.stage(models.ProjectStage(project.StatusStage))
	if err != nil {
		respondError(c, err, "Project")
		return
	}
	if pid := strings.TrimSpace(req.ProjectID); pid != "" && pid != project.ProjectID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "projectId cannot be changed"})
		return
	}

	req.apply(&project, stage)
	if err := database.DB.Save(&project).Error; err != nil {
		respondError(c, err, "Project")
		return
	}
	notify("project", actionUpdate, project.ID)
	c.JSON(http.StatusOK, project)
}

func DeleteProject(c *gin.Context) {
	deleteByID(c, database.DB, &models.Project{}, "project", "Project")
}

// GetProjectStats returns the dashboard headline numbers for the filtered list.
func GetProjectStats(c *gin.Context) {
	projects, ok := loadFilteredProjects(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, views.ProjectSummary(projects))
}

func GetPipeline(c *gin.Context) {
	projects, ok := loadFilteredProjects(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, views.BucketProjects(projects))
}

// --- Dealer manager ---

const defaultPerformers = 10

// GetTopPerformers ranks channel partners by installed kW: ?limit=10
func GetTopPerformers(c *gin.Context) {
	limit := defaultPerformers
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = n
	}
	projects, err := database.ListProjects()
	if err != nil {
		respondError(c, err, "projects")
		return
	}
	c.JSON(http.StatusOK, views.TopPerformers(projects, limit))
}

const defaultInactiveDays = 30

// GetInactiveDealers lists channel partners idle for at least ?days=30.
func GetInactiveDealers(c *gin.Context) {
	days := defaultInactiveDays
	if v := c.Query("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a positive integer"})
			return
		}
		days = n
	}
	projects, err := database.ListProjects()
	if err != nil {
		respondError(c, err, "projects")
		return
	}
	since := time.Now().AddDate(0, 0, -days)
	c.JSON(http.StatusOK, gin.H{
		"days":    days,
		"since":   since,
		"dealers": views.InactiveDealers(projects, since),
	})
}
