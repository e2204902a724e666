package handlers

import (
	"net/http"
	"testing"

	"medlab-backend/internal/models"

	"gotest.tools/v3/assert"
)

func listCompanies(t *testing.T, api *testAPI) []models.Company {
	t.Helper()
	w := api.do(http.MethodGet, "/api/companies", nil)
	assert.Equal(t, w.Code, http.StatusOK)
	return decode[[]models.Company](t, w)
}

func TestCreateCompany(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodPost, "/api/companies", map[string]any{
		"name":    "City Diagnostics",
		"address": "4 Lake View",
		"phone":   "020-5550101",
		"email":   "desk@citydiag.example",
	})
	assert.Equal(t, w.Code, http.StatusCreated)
	resp := decode[map[string]any](t, w)
	assert.Equal(t, resp["message"], "Company added successfully")
	id := uint(resp["id"].(float64))
	assert.Assert(t, id > 0)

	assert.DeepEqual(t, listCompanies(t, api), []models.Company{{
		ID:      id,
		Name:    "City Diagnostics",
		Address: "4 Lake View",
		Phone:   "020-5550101",
		Email:   "desk@citydiag.example",
	}})
}

func TestCreateCompany_OptionalFieldsDefaultEmpty(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodPost, "/api/companies", map[string]any{"name": "Metro Labs"})
	assert.Equal(t, w.Code, http.StatusCreated)

	c := listCompanies(t, api)[0]
	assert.Equal(t, c.Address, "")
	assert.Equal(t, c.Phone, "")
	assert.Equal(t, c.Email, "")
}

func TestCreateCompany_NameRequired(t *testing.T) {
	api := newTestAPI(t)

	for _, body := range []map[string]any{{}, {"name": ""}, {"name": "  "}, {"name": nil, "phone": "1"}} {
		w := api.do(http.MethodPost, "/api/companies", body)
		assert.Equal(t, w.Code, http.StatusBadRequest)
		assert.Equal(t, message(t, w), "Company name is required")
	}
	assert.Equal(t, len(listCompanies(t, api)), 0)
}

func TestCreateCompany_DuplicateName(t *testing.T) {
	api := newTestAPI(t)
	w := api.do(http.MethodPost, "/api/companies", map[string]any{"name": "Metro Labs", "phone": "111"})
	assert.Equal(t, w.Code, http.StatusCreated)

	w = api.do(http.MethodPost, "/api/companies", map[string]any{"name": "Metro Labs", "phone": "222"})
	assert.Equal(t, w.Code, http.StatusBadRequest)
	assert.Equal(t, message(t, w), "Company name must be unique")

	companies := listCompanies(t, api)
	assert.Equal(t, len(companies), 1)
	assert.Equal(t, companies[0].Phone, "111")
}
