package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/zac-t-smith/restoration-intel/model"
)

func TestCreateVendor(t *testing.T) {
	env := newTestEnv(t, false)

	w := env.do(http.MethodPost, "/api/vendors", gin.H{"name": "Dry Air Rentals", "payment_terms": "net_15", "preferred_payment_method": "ach"})
	assertStatus(t, http.StatusCreated, w)

	var vendor model.Vendor
	decodeJSON(t, w, &vendor)
	assert.NotZero(t, vendor.ID)
	assert.Equal(t, "net_15", vendor.PaymentTerms)
	assert.NotContains(t, w.Body.String(), "acme", "tenant is not exposed")

	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodPost, "/api/vendors", gin.H{}).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodPost, "/api/projects", gin.H{}).Code)
}

func TestCashBalances(t *testing.T) {
	env := newTestEnv(t, false)

	assertStatus(t, http.StatusNotFound, env.do(http.MethodGet, "/api/cash-balances/latest", nil))

	assertStatus(t, http.StatusCreated, env.do(http.MethodPost, "/api/cash-balances", gin.H{"balance": "2500.00", "as_of_date": "2026-03-01"}))
	assertStatus(t, http.StatusCreated, env.do(http.MethodPost, "/api/cash-balances", gin.H{"balance": 1800, "as_of_date": "2026-02-01"}))

	w := env.do(http.MethodGet, "/api/cash-balances/latest", nil)
	assertStatus(t, http.StatusOK, w)
	var latest model.CashBalance
	decodeJSON(t, w, &latest)
	assert.Equal(t, "2500", latest.Balance.String())
	assert.Equal(t, "2026-03-01", latest.AsOfDate.Format(dateLayout))

	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodPost, "/api/cash-balances", gin.H{"as_of_date": "2026-03-01"}).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodPost, "/api/cash-balances", gin.H{"balance": 1, "as_of_date": "March"}).Code)
}
