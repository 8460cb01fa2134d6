package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zac-t-smith/restoration-intel/model"
)

func createExpense(t *testing.T, env *testEnv, body gin.H) model.Expense {
	t.Helper()
	w := env.do(http.MethodPost, "/api/expenses", body)
	assertStatus(t, http.StatusCreated, w)

	var e model.Expense
	decodeJSON(t, w, &e)
	return e
}

func TestExpenseCreateAndList(t *testing.T) {
	env := newTestEnv(t, false)

	var project model.Project
	w := env.do(http.MethodPost, "/api/projects", gin.H{"name": "Basement flood"})
	assertStatus(t, http.StatusCreated, w)
	decodeJSON(t, w, &project)

	later := createExpense(t, env, gin.H{"vendor_name": "Paint Co", "amount": "120.50", "due_date": dateIn(10), "category": "materials"})
	sooner := createExpense(t, env, gin.H{"vendor_name": "Lumber", "amount": 300, "due_date": dateIn(1), "project_id": project.ID, "urgency": "high"})

	assert.Equal(t, model.ExpenseStatusPending, later.Status)
	assert.Equal(t, "Medium", later.Urgency)
	assert.Equal(t, "High", sooner.Urgency)

	w = env.do(http.MethodGet, "/api/expenses", nil)
	assertStatus(t, http.StatusOK, w)

	var resp struct {
		Expenses []model.Expense `json:"expenses"`
	}
	decodeJSON(t, w, &resp)
	require.Len(t, resp.Expenses, 2)
	assert.Equal(t, sooner.ID, resp.Expenses[0].ID)
	require.NotNil(t, resp.Expenses[0].Project)
	assert.Equal(t, "Basement flood", resp.Expenses[0].Project.Name)
}

func TestExpenseCreateValidation(t *testing.T) {
	env := newTestEnv(t, false)

	tests := []struct {
		name   string
		body   gin.H
		status int
	}{
		{"missing amount", gin.H{"vendor_name": "x"}, http.StatusBadRequest},
		{"zero amount", gin.H{"amount": 0}, http.StatusBadRequest},
		{"bad urgency", gin.H{"amount": 1, "urgency": "someday"}, http.StatusBadRequest},
		{"bad due date", gin.H{"amount": 1, "due_date": "tomorrow"}, http.StatusBadRequest},
		{"unknown vendor", gin.H{"amount": 1, "vendor_id": 999}, http.StatusBadRequest},
		{"unknown project", gin.H{"amount": 1, "project_id": 999}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(http.MethodPost, "/api/expenses", tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}

func TestExpensePay(t *testing.T) {
	env := newTestEnv(t, false)
	e := createExpense(t, env, gin.H{"vendor_name": "Lumber", "amount": 75, "due_date": dateIn(2)})

	w := env.do(http.MethodPost, fmt.Sprintf("/api/expenses/%d/pay", e.ID), nil)
	assertStatus(t, http.StatusOK, w)
	var paid model.Expense
	decodeJSON(t, w, &paid)
	assert.Equal(t, model.ExpenseStatusPaid, paid.Status)
	assert.NotNil(t, paid.PaidAt)

	var resp struct {
		Expenses []model.Expense `json:"expenses"`
	}
	decodeJSON(t, env.do(http.MethodGet, "/api/expenses", nil), &resp)
	assert.Empty(t, resp.Expenses)

	assert.Equal(t, http.StatusNotFound, env.do(http.MethodPost, "/api/expenses/4242/pay", nil).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodPost, "/api/expenses/abc/pay", nil).Code)
}

func TestExpenseSummaries(t *testing.T) {
	env := newTestEnv(t, false)
	createExpense(t, env, gin.H{"amount": 100, "category": "materials", "urgency": "High", "due_date": dateIn(-2)})
	createExpense(t, env, gin.H{"amount": 50, "category": "materials", "due_date": dateIn(45)})
	createExpense(t, env, gin.H{"amount": 25, "category": "fuel"})

	var byCategory struct {
		Summary map[string]float64 `json:"summary"`
	}
	w := env.do(http.MethodGet, "/api/expenses/summary/by-category", nil)
	assertStatus(t, http.StatusOK, w)
	decodeJSON(t, w, &byCategory)
	assert.Equal(t, map[string]float64{"materials": 150, "fuel": 25}, byCategory.Summary)

	var byUrgency struct {
		Summary map[string]float64 `json:"summary"`
	}
	w = env.do(http.MethodGet, "/api/expenses/summary/by-urgency", nil)
	assertStatus(t, http.StatusOK, w)
	decodeJSON(t, w, &byUrgency)
	assert.Equal(t, map[string]float64{"High": 100, "Medium": 75}, byUrgency.Summary)

	var byDueDate struct {
		Summary map[string]float64 `json:"summary"`
		Buckets []string           `json:"buckets"`
	}
	w = env.do(http.MethodGet, "/api/expenses/summary/by-due-date", nil)
	assertStatus(t, http.StatusOK, w)
	decodeJSON(t, w, &byDueDate)
	assert.Len(t, byDueDate.Buckets, 7)
	assert.Equal(t, 100.0, byDueDate.Summary["overdue"])
	assert.Equal(t, 50.0, byDueDate.Summary["30+_days"])
	assert.Equal(t, 0.0, byDueDate.Summary["due_today"])
}
