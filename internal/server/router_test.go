package server

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"solar-dealer-hub/internal/auth"
	"solar-dealer-hub/internal/config"
	"solar-dealer-hub/internal/models"
	"solar-dealer-hub/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	auth.Configure("router-test-secret", time.Hour)
}

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Env:            "test",
			AllowedOrigins: []string{"http://localhost:5173"},
		},
		Uploads: config.UploadsConfig{Dir: t.TempDir()},
	}
}

func newTestRouter(t *testing.T, cfg *config.Config) *gin.Engine {
	t.Helper()
	testutil.OpenDB(t)
	return NewRouter(cfg, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func call(t *testing.T, r http.Handler, method, path, role string, body []byte) int {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		token, err := auth.GenerateToken(7, "tester", role)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRoleGuards(t *testing.T) {
	r := newTestRouter(t, testConfig(t))

	tests := []struct {
		name   string
		method string
		path   string
		role   string
		want   int
	}{
		{"health is public", http.MethodGet, "/health", "", http.StatusOK},
		{"api needs a token", http.MethodGet, "/api/projects", "", http.StatusUnauthorized},
		{"unknown role rejected", http.MethodGet, "/api/projects", "installer", http.StatusForbidden},

		{"franchisee reads projects", http.MethodGet, "/api/projects", models.RoleFranchiseeManager, http.StatusOK},
		{"franchisee reads pipeline", http.MethodGet, "/api/projects/pipeline", models.RoleFranchiseeManager, http.StatusOK},
		{"franchisee reads inventory", http.MethodGet, "/api/inventory", models.RoleFranchiseeManager, http.StatusOK},
		{"franchisee reads states", http.MethodGet, "/api/locations/states", models.RoleFranchiseeManager, http.StatusOK},
		{"franchisee blocked from performers", http.MethodGet, "/api/dealer-manager/performers", models.RoleFranchiseeManager, http.StatusForbidden},
		{"franchisee blocked from settings", http.MethodGet, "/api/dealer-settings/plans", models.RoleFranchiseeManager, http.StatusForbidden},
		{"franchisee blocked from orders", http.MethodGet, "/api/procurement-orders", models.RoleFranchiseeManager, http.StatusForbidden},
		{"franchisee cannot add stock", http.MethodPost, "/api/inventory/items", models.RoleFranchiseeManager, http.StatusForbidden},

		{"dealer manager reads performers", http.MethodGet, "/api/dealer-manager/inactive", models.RoleDealerManager, http.StatusOK},
		{"dealer manager blocked from assistant", http.MethodPost, "/api/ask", models.RoleDealerManager, http.StatusForbidden},

		{"admin reads plans", http.MethodGet, "/api/dealer-settings/plans", models.RoleAdmin, http.StatusOK},
		{"admin reads orders", http.MethodGet, "/api/procurement-orders", models.RoleAdmin, http.StatusOK},
		{"admin reads order summary", http.MethodGet, "/api/procurement-orders/summary", models.RoleAdmin, http.StatusOK},
		{"admin reads reward buckets", http.MethodGet, "/api/dealer-settings/rewards/buckets", models.RoleAdmin, http.StatusOK},
		{"admin reads performers", http.MethodGet, "/api/dealer-manager/performers", models.RoleAdmin, http.StatusOK},
		{"me", http.MethodGet, "/api/auth/me", models.RoleDealerManager, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, call(t, r, tt.method, tt.path, tt.role, nil))
		})
	}
}

func TestRegistrationFlag(t *testing.T) {
	body := []byte(`{"username":"newuser","password":"password123"}`)

	closed := newTestRouter(t, testConfig(t))
	assert.Equal(t, http.StatusNotFound, call(t, closed, http.MethodPost, "/api/auth/register", "", body))

	cfg := testConfig(t)
	cfg.Server.AllowRegistration = true
	open := newTestRouter(t, cfg)
	assert.Equal(t, http.StatusCreated, call(t, open, http.MethodPost, "/api/auth/register", "", body))
}

func TestRateLimitApplies(t *testing.T) {
	cfg := testConfig(t)
	cfg.Server.RateLimitRPS = 1
	cfg.Server.RateLimitBurst = 2
	r := newTestRouter(t, cfg)

	assert.Equal(t, http.StatusOK, call(t, r, http.MethodGet, "/health", "", nil))
	assert.Equal(t, http.StatusOK, call(t, r, http.MethodGet, "/health", "", nil))
	assert.Equal(t, http.StatusTooManyRequests, call(t, r, http.MethodGet, "/health", "", nil))
}

func TestCORSPreflight(t *testing.T) {
	r := newTestRouter(t, testConfig(t))

	req := httptest.NewRequest(http.MethodOptions, "/api/projects", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestEmptyOriginListAllowsAnyOrigin(t *testing.T) {
	cfg := testConfig(t)
	cfg.Server.AllowedOrigins = nil

	var r *gin.Engine
	require.NotPanics(t, func() { r = newTestRouter(t, cfg) })
	assert.Equal(t, http.StatusOK, call(t, r, http.MethodGet, "/health", "", nil))

	req := httptest.NewRequest(http.MethodOptions, "/api/projects", nil)
	req.Header.Set("Origin", "http://anywhere.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
}
