package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"solar-dealer-hub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocationCascade(t *testing.T) {
	e := newEnv(t)

	states := decode[[]models.State](t, e.do(t, http.MethodGet, "/locations/states", nil))
	require.Len(t, states, 2)
	assert.Equal(t, "Gujarat", states[0].Name)

	districts := decode[[]models.District](t, e.do(t, http.MethodGet,
		fmt.Sprintf("/locations/districts?stateId=%d", e.fx.Rajasthan.ID), nil))
	require.Len(t, districts, 1)
	assert.Equal(t, "Jaipur", districts[0].Name)

	all := decode[[]models.District](t, e.do(t, http.MethodGet, "/locations/districts", nil))
	assert.Len(t, all, 2)

	clusters := decode[[]models.Cluster](t, e.do(t, http.MethodGet,
		fmt.Sprintf("/locations/clusters?districtId=%d", e.fx.Jaipur.ID), nil))
	assert.Empty(t, clusters)
	assert.Equal(t, "[]", e.do(t, http.MethodGet, "/locations/cities?stateId=99", nil).Body.String())
}

func TestCreateLocations(t *testing.T) {
	e := newEnv(t)

	w := e.do(t, http.MethodPost, "/locations/cities", map[string]any{"name": "Surat", "parentId": e.fx.Gujarat.ID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	city := decode[models.City](t, w)
	assert.Equal(t, e.fx.Gujarat.ID, city.StateID)

	cities := decode[[]models.City](t, e.do(t, http.MethodGet,
		fmt.Sprintf("/locations/cities?stateId=%d", e.fx.Gujarat.ID), nil))
	require.Len(t, cities, 1)

	w = e.do(t, http.MethodPost, "/locations/clusters", map[string]any{"name": "Jaipur North", "parentId": 999})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = e.do(t, http.MethodPost, "/locations/clusters", map[string]any{"name": "Jaipur North"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(t, http.MethodPost, "/locations/states", map[string]any{"name": "Gujarat"})
	assert.Equal(t, http.StatusConflict, w.Code)
	w = e.do(t, http.MethodPost, "/locations/states", map[string]any{"name": "Maharashtra"})
	assert.Equal(t, http.StatusCreated, w.Code)
}
