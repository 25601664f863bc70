package handlers

import (
	"net/http"
	"testing"

	"solar-dealer-hub/internal/auth"
	"solar-dealer-hub/internal/database"
	"solar-dealer-hub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	e := newEnv(t)
	hash, err := auth.HashPassword("sunshine-2025")
	require.NoError(t, err)
	require.NoError(t, database.DB.Create(&models.User{Username: "meera", PasswordHash: hash, Role: models.RoleDealerManager}).Error)

	w := e.do(t, http.MethodPost, "/auth/login", map[string]string{"username": "meera", "password": "sunshine-2025"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[map[string]string](t, w)
	assert.Equal(t, models.RoleDealerManager, resp["role"])
	assert.Equal(t, "meera", resp["username"])

	claims, err := auth.ValidateToken(resp["token"])
	require.NoError(t, err)
	assert.Equal(t, models.RoleDealerManager, claims.Role)

	w = e.do(t, http.MethodPost, "/auth/login", map[string]string{"username": "meera", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = e.do(t, http.MethodPost, "/auth/login", map[string]string{"username": "nobody", "password": "sunshine-2025"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = e.do(t, http.MethodPost, "/auth/login", map[string]string{"username": "meera"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegister(t *testing.T) {
	e := newEnv(t)

	w := e.do(t, http.MethodPost, "/auth/register", map[string]string{"username": "ravi", "password": "long-enough"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var user models.User
	require.NoError(t, database.DB.Where("username = ?", "ravi").First(&user).Error)
	assert.Equal(t, models.RoleFranchiseeManager, user.Role)
	assert.True(t, auth.CheckPassword(user.PasswordHash, "long-enough"))
	assert.NotContains(t, w.Body.String(), user.PasswordHash)

	w = e.do(t, http.MethodPost, "/auth/register", map[string]string{"username": "ravi", "password": "long-enough"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = e.do(t, http.MethodPost, "/auth/register", map[string]string{"username": "asha", "password": "long-enough", "role": "owner"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = e.do(t, http.MethodPost, "/auth/register", map[string]string{"username": "asha", "password": "short"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMe(t *testing.T) {
	e := newEnv(t)
	resp := decode[map[string]any](t, e.do(t, http.MethodGet, "/auth/me", nil))
	assert.Equal(t, "admin", resp["username"])
	assert.Equal(t, models.RoleAdmin, resp["role"])
	assert.Equal(t, 1.0, resp["userId"])
}

func TestAskWithoutKey(t *testing.T) {
	e := newEnv(t)
	w := e.do(t, http.MethodPost, "/ask", map[string]string{"message": "How many Adani panels are left?"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	w = e.do(t, http.MethodPost, "/ask", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
