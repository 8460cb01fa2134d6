package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/zac-t-smith/restoration-intel/allocator"
	"github.com/zac-t-smith/restoration-intel/config"
	"github.com/zac-t-smith/restoration-intel/model"
	"gorm.io/gorm"
)

var testNow = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := OpenDatabase(&config.DatabaseConfig{
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "ledger.db"),
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func newTestPayables(t *testing.T) (*PayablesService, *Ledger) {
	t.Helper()
	ledger := NewLedger(newTestDB(t), NewMemoryCache(), time.Minute)
	svc := NewPayablesService(ledger, allocator.New(allocator.DefaultPolicy()), 60)
	svc.now = func() time.Time { return testNow }
	return svc, ledger
}

func dueIn(days int) *time.Time {
	d := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC).AddDate(0, 0, days)
	return &d
}

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func seedExpense(t *testing.T, ledger *Ledger, e model.Expense) *model.Expense {
	t.Helper()
	if e.Tenant == "" {
		e.Tenant = "acme"
	}
	require.NoError(t, ledger.CreateExpense(context.Background(), &e))
	return &e
}
