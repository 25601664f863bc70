// Package server assembles the gin engine: middleware, route groups and role guards.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"solar-dealer-hub/internal/config"
	"solar-dealer-hub/internal/handlers"
	"solar-dealer-hub/internal/middleware"
	"solar-dealer-hub/internal/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter builds the HTTP API. hub serves /api/ws and may be nil.
func NewRouter(cfg *config.Config, hub http.Handler, logger *slog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Use(cors.New(corsConfig(cfg.Server.AllowedOrigins)))
	if cfg.Server.RateLimitRPS > 0 {
		r.Use(middleware.NewRateLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst).Middleware())
	}

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "online"}) })
	r.Static("/uploads", cfg.Uploads.Dir)

	authGroup := r.Group("/api/auth")
	authGroup.POST("/login", handlers.Login)
	if cfg.Server.AllowRegistration {
		authGroup.POST("/register", handlers.Register)
		slog.Warn("registration route is OPEN, disable ALLOW_REGISTRATION in production")
	}

	allRoles := []string{models.RoleAdmin, models.RoleDealerManager, models.RoleFranchiseeManager}

	// --- PROTECTED ROUTES ---
	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware(allRoles...))
	{
		api.GET("/auth/me", handlers.Me)
		if hub != nil {
			api.GET("/ws", gin.WrapH(hub))
		}

		// Reference data, any signed-in role
		api.GET("/locations/states", handlers.ListStates)
		api.GET("/locations/cities", handlers.ListCities)
		api.GET("/locations/districts", handlers.ListDistricts)
		api.GET("/locations/clusters", handlers.ListClusters)
		api.GET("/brands", handlers.ListBrands)
		api.GET("/products", handlers.ListProducts)
		api.GET("/inventory", handlers.GetInventory)
		api.GET("/inventory/items", handlers.ListInventoryItems)
		api.GET("/inventory/options", handlers.GetInventoryOptions)
		api.GET("/inventory/chart", handlers.GetInventoryChart)
		api.GET("/inventory/export", handlers.ExportInventory)

		// Projects are worked by every role
		api.GET("/projects", handlers.ListProjects)
		api.GET("/projects/stats", handlers.GetProjectStats)
		api.GET("/projects/pipeline", handlers.GetPipeline)
		api.GET("/projects/:id", handlers.GetProject)
		api.POST("/projects", handlers.CreateProject)
		api.PUT("/projects/:id", handlers.UpdateProject)
		api.DELETE("/projects/:id", handlers.DeleteProject)

		managers := api.Group("/dealer-manager")
		managers.Use(middleware.RequireRole(models.RoleAdmin, models.RoleDealerManager))
		{
			managers.GET("/performers", handlers.GetTopPerformers)
			managers.GET("/inactive", handlers.GetInactiveDealers)
		}

		// ADMIN ONLY
		admin := api.Group("")
		admin.Use(middleware.RequireRole(models.RoleAdmin))
		{
			admin.POST("/ask", handlers.AskAI)
			admin.POST("/upload", handlers.UploadImage)

			admin.POST("/locations/states", handlers.CreateState)
			admin.POST("/locations/cities", handlers.CreateCity)
			admin.POST("/locations/districts", handlers.CreateDistrict)
			admin.POST("/locations/clusters", handlers.CreateCluster)
			admin.POST("/inventory/items", handlers.CreateInventoryItem)

			admin.GET("/vendors/supplier-vendors", handlers.ListSupplierVendors)
			admin.POST("/vendors", handlers.CreateVendor)

			admin.GET("/procurement-orders", handlers.ListOrders)
			admin.GET("/procurement-orders/summary", handlers.GetProcurementSummary)
			admin.GET("/procurement-orders/export", handlers.ExportOrders)
			admin.GET("/procurement-orders/:id", handlers.GetOrder)
			admin.POST("/procurement-orders", handlers.CreateOrder)
			admin.PUT("/procurement-orders/:id", handlers.UpdateOrder)
			admin.PUT("/procurement-orders/:id/status", handlers.UpdateOrderStatus)
			admin.PATCH("/procurement-orders/:id/status", handlers.UpdateOrderStatus)
			admin.DELETE("/procurement-orders/:id", handlers.DeleteOrder)

			admin.GET("/reports", handlers.GetProcurementReport)
			admin.GET("/reports/valuation", handlers.GetStockValuation)

			settings := admin.Group("/dealer-settings")
			settings.GET("/plans", handlers.ListPlans)
			settings.POST("/plans", handlers.CreatePlan)
			settings.GET("/plans/:id", handlers.GetPlan)
			settings.PUT("/plans/:id", handlers.UpdatePlan)
			settings.DELETE("/plans/:id", handlers.DeletePlan)

			settings.GET("/rewards", handlers.ListRewards)
			settings.GET("/rewards/buckets", handlers.GetRewardBuckets)
			settings.POST("/rewards", handlers.CreateReward)
			settings.GET("/rewards/:id", handlers.GetReward)
			settings.PUT("/rewards/:id", handlers.UpdateReward)
			settings.DELETE("/rewards/:id", handlers.DeleteReward)
			settings.GET("/rewards/:id/points", handlers.GetRewardPoints)

			settings.GET("/goals", handlers.ListGoals)
			settings.POST("/goals", handlers.CreateGoal)
			settings.DELETE("/goals/:id", handlers.DeleteGoal)

			settings.GET("/professions", handlers.ListProfessions)
			settings.GET("/professions/by-state", handlers.GetProfessionsByState)
			settings.POST("/professions", handlers.CreateProfession)
			settings.DELETE("/professions/:id", handlers.DeleteProfession)
		}
	}

	return r
}

// corsConfig allows the listed origins with credentials. An empty list
// allows any origin without credentials, the same rule the websocket hub uses.
func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = origins
	c.AllowCredentials = true
	return c
}
