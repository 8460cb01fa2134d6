package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zac-t-smith/restoration-intel/model"
)

func TestLedgerListUnpaid(t *testing.T) {
	_, ledger := newTestPayables(t)
	ctx := context.Background()

	vendor := &model.Vendor{Tenant: "acme", Name: "Dry Air Rentals", PaymentTerms: "critical"}
	require.NoError(t, ledger.CreateVendor(ctx, vendor))
	project := &model.Project{Tenant: "acme", Name: "Flood job 114"}
	require.NoError(t, ledger.CreateProject(ctx, project))

	seedExpense(t, ledger, model.Expense{VendorName: "Paint Co", Amount: amount("300"), DueDate: dueIn(9)})
	first := seedExpense(t, ledger, model.Expense{VendorID: &vendor.ID, ProjectID: &project.ID, Amount: amount("1200.50"), DueDate: dueIn(-3)})
	paid := seedExpense(t, ledger, model.Expense{VendorName: "Old", Amount: amount("10"), DueDate: dueIn(-20)})
	seedExpense(t, ledger, model.Expense{Tenant: "other", VendorName: "Elsewhere", Amount: amount("99"), DueDate: dueIn(1)})

	_, err := ledger.MarkPaid(ctx, "acme", paid.ID, testNow)
	require.NoError(t, err)

	expenses, err := ledger.ListUnpaid(ctx, "acme")
	require.NoError(t, err)
	require.Len(t, expenses, 2)

	assert.Equal(t, first.ID, expenses[0].ID)
	assert.Equal(t, "Dry Air Rentals", expenses[0].VendorName)
	require.NotNil(t, expenses[0].Vendor)
	assert.True(t, expenses[0].Vendor.IsCritical())
	require.NotNil(t, expenses[0].Project)
	assert.Equal(t, "Flood job 114", expenses[0].Project.Name)
	assert.True(t, expenses[0].Amount.Equal(amount("1200.5")))
	assert.Equal(t, model.ExpenseStatusPending, expenses[1].Status)
}

func TestLedgerCreateExpenseChecksTenant(t *testing.T) {
	_, ledger := newTestPayables(t)
	ctx := context.Background()

	vendor := &model.Vendor{Tenant: "other", Name: "Not yours"}
	require.NoError(t, ledger.CreateVendor(ctx, vendor))
	project := &model.Project{Tenant: "other", Name: "Not yours either"}
	require.NoError(t, ledger.CreateProject(ctx, project))

	err := ledger.CreateExpense(ctx, &model.Expense{Tenant: "acme", VendorID: &vendor.ID, Amount: amount("1")})
	assert.ErrorIs(t, err, ErrVendorNotFound)

	err = ledger.CreateExpense(ctx, &model.Expense{Tenant: "acme", ProjectID: &project.ID, Amount: amount("1")})
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestLedgerMarkPaid(t *testing.T) {
	_, ledger := newTestPayables(t)
	ctx := context.Background()
	e := seedExpense(t, ledger, model.Expense{VendorName: "Lumber", Amount: amount("75"), DueDate: dueIn(2)})

	_, err := ledger.MarkPaid(ctx, "other", e.ID, testNow)
	assert.ErrorIs(t, err, ErrExpenseNotFound)

	got, err := ledger.MarkPaid(ctx, "acme", e.ID, testNow)
	require.NoError(t, err)
	assert.Equal(t, model.ExpenseStatusPaid, got.Status)
	require.NotNil(t, got.PaidAt)

	again, err := ledger.MarkPaid(ctx, "acme", e.ID, testNow.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, model.ExpenseStatusPaid, again.Status)
}

func TestLedgerLatestCashBalance(t *testing.T) {
	_, ledger := newTestPayables(t)
	ctx := context.Background()

	_, err := ledger.LatestCashBalance(ctx, "acme")
	assert.ErrorIs(t, err, ErrNoCashBalance)

	require.NoError(t, ledger.RecordCashBalance(ctx, &model.CashBalance{Tenant: "acme", Balance: amount("5000"), AsOfDate: testNow.AddDate(0, 0, -1)}))
	require.NoError(t, ledger.RecordCashBalance(ctx, &model.CashBalance{Tenant: "acme", Balance: amount("4000"), AsOfDate: testNow.AddDate(0, 0, -7)}))

	latest, err := ledger.LatestCashBalance(ctx, "acme")
	require.NoError(t, err)
	assert.True(t, latest.Balance.Equal(amount("5000")))

	// Served from cache until a new balance is recorded.
	cached, err := ledger.LatestCashBalance(ctx, "acme")
	require.NoError(t, err)
	assert.True(t, cached.Balance.Equal(amount("5000")))
	assert.Equal(t, "acme", cached.Tenant)

	// Same as-of date: the newer row wins.
	require.NoError(t, ledger.RecordCashBalance(ctx, &model.CashBalance{Tenant: "acme", Balance: amount("6500.25"), AsOfDate: testNow.AddDate(0, 0, -1)}))
	latest, err = ledger.LatestCashBalance(ctx, "acme")
	require.NoError(t, err)
	assert.True(t, latest.Balance.Equal(amount("6500.25")))
}

func TestLedgerSummaries(t *testing.T) {
	_, ledger := newTestPayables(t)
	ctx := context.Background()

	seedExpense(t, ledger, model.Expense{Amount: amount("100"), Category: "materials", Urgency: "High", DueDate: dueIn(1)})
	seedExpense(t, ledger, model.Expense{Amount: amount("250.5"), Category: "materials", DueDate: dueIn(3)})
	seedExpense(t, ledger, model.Expense{Amount: amount("40"), Category: "equipment", Urgency: "Medium"})
	paid := seedExpense(t, ledger, model.Expense{Amount: amount("999"), Category: "equipment", Urgency: "Low"})
	_, err := ledger.MarkPaid(ctx, "acme", paid.ID, testNow)
	require.NoError(t, err)

	byCategory, err := ledger.SummaryByCategory(ctx, "acme")
	require.NoError(t, err)
	require.Len(t, byCategory, 2)
	assert.True(t, byCategory["materials"].Equal(amount("350.5")))
	assert.True(t, byCategory["equipment"].Equal(amount("40")))

	byUrgency, err := ledger.SummaryByUrgency(ctx, "acme")
	require.NoError(t, err)
	require.Len(t, byUrgency, 2)
	assert.True(t, byUrgency["High"].Equal(amount("100")))
	assert.True(t, byUrgency["Medium"].Equal(amount("290.5")))
}
