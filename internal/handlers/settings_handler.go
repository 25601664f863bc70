package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"solar-dealer-hub/internal/database"
	"solar-dealer-hub/internal/models"
	"solar-dealer-hub/internal/views"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

// --- Plans ---

type PlanRequest struct {
	Name    string            `json:"name"`
	Price   float64           `json:"price"`
	Message string            `json:"message"`
	Config  models.PlanConfig `json:"config"`
	UI      models.PlanUI     `json:"ui"`
}

func (r PlanRequest) validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return invalid("name is required")
	}
	if r.Price < 0 {
		return invalid("price cannot be negative")
	}
	return nil
}

func (r PlanRequest) apply(p *models.DealerPlan) {
	p.Name = strings.TrimSpace(r.Name)
	p.Price = r.Price
	p.Message = r.Message
	p.Config = datatypes.NewJSONType(r.Config)
	p.UI = datatypes.NewJSONType(r.UI)
}

func ListPlans(c *gin.Context) {
	var plans []models.DealerPlan
	if err := database.DB.Order("price, id").Find(&plans).Error; err != nil {
		respondError(c, err, "plans")
		return
	}
	c.JSON(http.StatusOK, plans)
}

func GetPlan(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var plan models.DealerPlan
	if err := database.DB.First(&plan, id).Error; err != nil {
		respondError(c, err, "Plan")
		return
	}
	c.JSON(http.StatusOK, plan)
}

func CreatePlan(c *gin.Context) {
	var req PlanRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := req.validate(); err != nil {
		respondError(c, err, "Plan")
		return
	}

	var plan models.DealerPlan
	req.apply(&plan)
	if err := database.DB.Create(&plan).Error; err != nil {
		respondError(c, err, "Plan")
		return
	}
	notify("plan", actionCreate, plan.ID)
	c.JSON(http.StatusCreated, plan)
}

func UpdatePlan(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req PlanRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := req.validate(); err != nil {
		respondError(c, err, "Plan")
		return
	}

	var plan models.DealerPlan
	if err := database.DB.First(&plan, id).Error; err != nil {
		respondError(c, err, "Plan")
		return
	}
	req.apply(&plan)
	if err := database.DB.Save(&plan).Error; err != nil {
		respondError(c, err, "Plan")
		return
	}
	notify("plan", actionUpdate, plan.ID)
	c.JSON(http.StatusOK, plan)
}

func DeletePlan(c *gin.Context) {
	deleteByID(c, database.DB, &models.DealerPlan{}, "plan", "Plan")
}

// --- Rewards ---

func validateReward(r *models.DealerReward) error {
	if !models.ValidRewardType(r.Type) {
		return models.ErrInvalidRewardType
	}
	if r.Points < 0 {
		return invalid("points cannot be negative")
	}
	if r.Type == models.RewardProjectPointRule {
		rule := r.ProjectRule
		if rule.PointsPerKW < 0 || rule.MinKW < 0 || rule.MaxKW < 0 {
			return invalid("project rule values cannot be negative")
		}
		if rule.MaxKW > 0 && rule.MinKW > rule.MaxKW {
			return invalid("minKW cannot exceed maxKW")
		}
	}
	if r.Type == models.RewardCashback && r.Amount <= 0 {
		return invalid("cashback amount must be positive")
	}
	return nil
}

func ListRewards(c *gin.Context) {
	query := database.DB.Order("id")
	if t := c.Query("type"); t != "" {
		query = query.Where("type = ?", t)
	}
	var rewards []models.DealerReward
	if err := query.Find(&rewards).Error; err != nil {
		respondError(c, err, "rewards")
		return
	}
	c.JSON(http.StatusOK, rewards)
}

func GetReward(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var reward models.DealerReward
	if err := database.DB.First(&reward, id).Error; err != nil {
		respondError(c, err, "Reward")
		return
	}
	c.JSON(http.StatusOK, reward)
}

// GetRewardBuckets returns the catalogue split into the settings page sections.
func GetRewardBuckets(c *gin.Context) {
	var rewards []models.DealerReward
	if err := database.DB.Order("id").Find(&rewards).Error; err != nil {
		respondError(c, err, "rewards")
		return
	}
	c.JSON(http.StatusOK, views.PartitionRewards(rewards))
}

func CreateReward(c *gin.Context) {
	var reward models.DealerReward
	if !bindJSON(c, &reward) {
		return
	}
	reward.ID = 0
	if err := validateReward(&reward); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := database.DB.Create(&reward).Error; err != nil {
		respondError(c, err, "Reward")
		return
	}
	notify("reward", actionCreate, reward.ID)
	c.JSON(http.StatusCreated, reward)
}

func UpdateReward(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var existing models.DealerReward
	if err := database.DB.First(&existing, id).Error; err != nil {
		respondError(c, err, "Reward")
		return
	}

	var reward models.DealerReward
	if !bindJSON(c, &reward) {
		return
	}
	reward.ID = existing.ID
	reward.CreatedAt = existing.CreatedAt
	if err := validateReward(&reward); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := database.DB.Save(&reward).Error; err != nil {
		respondError(c, err, "Reward")
		return
	}
	notify("reward", actionUpdate, reward.ID)
	c.JSON(http.StatusOK, reward)
}

func DeleteReward(c *gin.Context) {
	deleteByID(c, database.DB, &models.DealerReward{}, "reward", "Reward")
}

// GetRewardPoints evaluates a project_point_rule: ?kw=5&category=Residential
func GetRewardPoints(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	kw, err := strconv.ParseFloat(c.Query("kw"), 64)
	if err != nil || kw <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "kw must be a positive number"})
		return
	}

	var reward models.DealerReward
	if err := database.DB.First(&reward, id).Error; err != nil {
		respondError(c, err, "Reward")
		return
	}
	if reward.Type != models.RewardProjectPointRule {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Reward is not a project point rule"})
		return
	}

	category := c.Query("category")
	c.JSON(http.StatusOK, gin.H{
		"rewardId": reward.ID,
		"kw":       kw,
		"category": category,
		"points":   views.ProjectPoints(reward, category, kw),
	})
}

// --- Goals ---

type GoalRequest struct {
	Name        string                    `json:"name"`
	StateID     *uint                     `json:"stateId"`
	DistrictID  *uint                     `json:"districtId"`
	ClusterID   *uint                     `json:"clusterId"`
	DealerCount int                       `json:"dealerCount"`
	DueDate     string                    `json:"dueDate"`
	DealerType  string                    `json:"dealerType"`
	Professions []models.ProfessionTarget `json:"professions"`
}

func (r GoalRequest) validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return invalid("name is required")
	}
	if r.DealerCount < 0 {
		return invalid("dealerCount cannot be negative")
	}
	if r.DueDate != "" {
		if _, err := time.Parse("2006-01-02", r.DueDate); err != nil {
			return invalid("dueDate must be YYYY-MM-DD")
		}
	}
	for _, p := range r.Professions {
		if strings.TrimSpace(p.Type) == "" {
			return invalid("every profession target needs a type")
		}
		if p.Goal < 0 {
			return invalid("profession goal cannot be negative")
		}
	}
	return nil
}

func ListGoals(c *gin.Context) {
	var goals []models.DealerGoal
	err := database.DB.Preload("State").Preload("District").Preload("Cluster").
		Order("due_date, id").Find(&goals).Error
	if err != nil {
		respondError(c, err, "goals")
		return
	}
	c.JSON(http.StatusOK, views.WithGoalTotals(goals))
}

func CreateGoal(c *gin.Context) {
	var req GoalRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := req.validate(); err != nil {
		respondError(c, err, "Goal")
		return
	}

	professions := req.Professions
	if professions == nil {
		professions = []models.ProfessionTarget{}
	}
	goal := models.DealerGoal{
		Name:        strings.TrimSpace(req.Name),
		StateID:     req.StateID,
		DistrictID:  req.DistrictID,
		ClusterID:   req.ClusterID,
		DealerCount: req.DealerCount,
		DueDate:     req.DueDate,
		DealerType:  req.DealerType,
		Professions: datatypes.NewJSONSlice(professions),
	}
	if err := database.DB.Create(&goal).Error; err != nil {
		respondError(c, err, "Goal")
		return
	}
	goal.TotalGoal, goal.ProfessionTypes = views.GoalTotals(goal)
	notify("goal", actionCreate, goal.ID)
	c.JSON(http.StatusCreated, goal)
}

func DeleteGoal(c *gin.Context) {
	deleteByID(c, database.DB, &models.DealerGoal{}, "goal", "Goal")
}

// --- Professions ---

type ProfessionRequest struct {
	StateID uint   `json:"stateId" binding:"required"`
	Name    string `json:"name" binding:"required"`
}

func ListProfessions(c *gin.Context) {
	query := database.DB.Preload("State").Order("state_id, name")
	if s := c.Query("stateId"); s != "" {
		query = query.Where("state_id = ?", s)
	}
	var professions []models.DealerProfession
	if err := query.Find(&professions).Error; err != nil {
		respondError(c, err, "professions")
		return
	}
	c.JSON(http.StatusOK, professions)
}

// GetProfessionsByState returns the per-state profession counts.
func GetProfessionsByState(c *gin.Context) {
	var professions []models.DealerProfession
	if err := database.DB.Preload("State").Order("id").Find(&professions).Error; err != nil {
		respondError(c, err, "professions")
		return
	}
	c.JSON(http.StatusOK, views.GroupProfessionsByState(professions))
}

func CreateProfession(c *gin.Context) {
	var req ProfessionRequest
	if !bindJSON(c, &req) {
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	var state models.State
	if err := database.DB.First(&state, req.StateID).Error; err != nil {
		respondError(c, err, "State")
		return
	}

	var dup int64
	err := database.DB.Model(&models.DealerProfession{}).
		Where("state_id = ? AND LOWER(name) = ?", req.StateID, strings.ToLower(name)).Count(&dup).Error
	if err != nil {
		respondError(c, err, "Profession")
		return
	}
	if dup > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Profession already exists in this state"})
		return
	}

	profession := models.DealerProfession{StateID: state.ID, State: &state, Name: name}
	if err := database.DB.Omit("State").Create(&profession).Error; err != nil {
		respondError(c, err, "Profession")
		return
	}
	notify("profession", actionCreate, profession.ID)
	c.JSON(http.StatusCreated, profession)
}

func DeleteProfession(c *gin.Context) {
	deleteByID(c, database.DB, &models.DealerProfession{}, "profession", "Profession")
}
