package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"

	"solar-dealer-hub/internal/middleware"
	"solar-dealer-hub/internal/models"
	"solar-dealer-hub/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type published struct {
	Resource string
	Action   string
}

type eventRecorder struct {
	mu     sync.Mutex
	events []published
}

func (r *eventRecorder) Publish(resource, action string, _ any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, published{resource, action})
}

func (r *eventRecorder) all() []published {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]published(nil), r.events...)
}

type testEnv struct {
	router  *gin.Engine
	fx      testutil.Fixtures
	events  *eventRecorder
	uploads string
}

// newEnv wires every handler onto a bare engine, signed in as admin user 1.
func newEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.OpenDB(t)
	env := &testEnv{fx: testutil.Seed(t, db), events: &eventRecorder{}, uploads: t.TempDir()}

	prev := opts
	Configure(Options{UploadsDir: env.uploads, BaseURL: "http://files.test/", Events: env.events})
	t.Cleanup(func() { opts = prev })

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.KeyUserID, uint(1))
		c.Set(middleware.KeyUsername, "admin")
		c.Set(middleware.KeyRole, models.RoleAdmin)
		c.Next()
	})

	r.POST("/auth/login", Login)
	r.POST("/auth/register", Register)
	r.GET("/auth/me", Me)

	r.GET("/locations/states", ListStates)
	r.POST("/locations/states", CreateState)
	r.GET("/locations/cities", ListCities)
	r.POST("/locations/cities", CreateCity)
	r.GET("/locations/districts", ListDistricts)
	r.GET("/locations/clusters", ListClusters)
	r.POST("/locations/clusters", CreateCluster)

	r.GET("/products", ListProducts)
	r.GET("/inventory", GetInventory)
	r.GET("/inventory/items", ListInventoryItems)
	r.POST("/inventory/items", CreateInventoryItem)
	r.GET("/inventory/options", GetInventoryOptions)
	r.GET("/inventory/chart", GetInventoryChart)
	r.GET("/inventory/export", ExportInventory)
	r.POST("/upload", UploadImage)

	r.GET("/vendors/supplier-vendors", ListSupplierVendors)
	r.GET("/procurement-orders", ListOrders)
	r.GET("/procurement-orders/summary", GetProcurementSummary)
	r.GET("/procurement-orders/export", ExportOrders)
	r.GET("/procurement-orders/:id", GetOrder)
	r.POST("/procurement-orders", CreateOrder)
	r.PUT("/procurement-orders/:id", UpdateOrder)
	r.PATCH("/procurement-orders/:id/status", UpdateOrderStatus)
	r.DELETE("/procurement-orders/:id", DeleteOrder)
	r.GET("/reports", GetProcurementReport)
	r.GET("/reports/valuation", GetStockValuation)

	r.GET("/plans", ListPlans)
	r.POST("/plans", CreatePlan)
	r.GET("/plans/:id", GetPlan)
	r.PUT("/plans/:id", UpdatePlan)
	r.DELETE("/plans/:id", DeletePlan)
	r.GET("/rewards", ListRewards)
	r.GET("/rewards/buckets", GetRewardBuckets)
	r.POST("/rewards", CreateReward)
	r.GET("/rewards/:id", GetReward)
	r.PUT("/rewards/:id", UpdateReward)
	r.DELETE("/rewards/:id", DeleteReward)
	r.GET("/rewards/:id/points", GetRewardPoints)
	r.GET("/goals", ListGoals)
	r.POST("/goals", CreateGoal)
	r.DELETE("/goals/:id", DeleteGoal)
	r.GET("/professions", ListProfessions)
	r.GET("/professions/by-state", GetProfessionsByState)
	r.POST("/professions", CreateProfession)
	r.DELETE("/professions/:id", DeleteProfession)

	r.GET("/projects", ListProjects)
	r.GET("/projects/stats", GetProjectStats)
	r.GET("/projects/pipeline", GetPipeline)
	r.GET("/projects/:id", GetProject)
	r.POST("/projects", CreateProject)
	r.PUT("/projects/:id", UpdateProject)
	r.DELETE("/projects/:id", DeleteProject)
	r.GET("/dealer-manager/performers", GetTopPerformers)
	r.GET("/dealer-manager/inactive", GetInactiveDealers)

	r.POST("/ask", AskAI)

	env.router = r
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// decode unmarshals the response body into T, failing the test on error.
func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func errorOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]string](t, w)["error"]
}
