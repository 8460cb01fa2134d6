package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/zac-t-smith/restoration-intel/model"
	"github.com/zac-t-smith/restoration-intel/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrNoCashBalance   = errors.New("no cash balance found")
	ErrExpenseNotFound = errors.New("expense not found")
	ErrVendorNotFound  = errors.New("vendor not found")
	ErrProjectNotFound = errors.New("project not found")
)

// Ledger reads and writes the tenant-scoped accounts-payable tables
type Ledger struct {
	db      *gorm.DB
	cache   Cache
	cashTTL time.Duration
}

func NewLedger(db *gorm.DB, cache Cache, cashTTL time.Duration) *Ledger {
	if cache == nil {
		cache = NewMemoryCache()
	}
	return &Ledger{db: db, cache: cache, cashTTL: cashTTL}
}

// ListUnpaid returns every expense not yet paid, earliest due date first,
// with vendor and project loaded.
func (l *Ledger) ListUnpaid(ctx context.Context, tenant string) ([]model.Expense, error) {
	var expenses []model.Expense
	err := l.db.WithContext(ctx).
		Preload("Vendor").
		Preload("Project").
		Where("tenant = ? AND status <> ?", tenant, model.ExpenseStatusPaid).
		Order("due_date IS NULL, due_date").
		Order("id").
		Find(&expenses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list unpaid expenses: %w", err)
	}
	return expenses, nil
}

func (l *Ledger) CreateVendor(ctx context.Context, vendor *model.Vendor) error {
	if err := l.db.WithContext(ctx).Create(vendor).Error; err != nil {
		return fmt.Errorf("failed to create vendor: %w", err)
	}
	return nil
}

func (l *Ledger) CreateProject(ctx context.Context, project *model.Project) error {
	if err := l.db.WithContext(ctx).Create(project).Error; err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

// CreateExpense stores a pending expense. Referenced vendor and project
// must belong to the same tenant.
func (l *Ledger) CreateExpense(ctx context.Context, expense *model.Expense) error {
	db := l.db.WithContext(ctx)

	if expense.VendorID != nil {
		var vendor model.Vendor
		if err := db.Where("id = ? AND tenant = ?", *expense.VendorID, expense.Tenant).First(&vendor).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrVendorNotFound
			}
			return fmt.Errorf("failed to load vendor: %w", err)
		}
		if expense.VendorName == "" {
			expense.VendorName = vendor.Name
		}
	}
	if expense.ProjectID != nil {
		var count int64
		if err := db.Model(&model.Project{}).Where("id = ? AND tenant = ?", *expense.ProjectID, expense.Tenant).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to load project: %w", err)
		}
		if count == 0 {
			return ErrProjectNotFound
		}
	}

	expense.Status = model.ExpenseStatusPending
	if err := db.Create(expense).Error; err != nil {
		return fmt.Errorf("failed to create expense: %w", err)
	}
	return nil
}

// MarkPaid settles an expense. Paying an already paid expense is a no-op.
func (l *Ledger) MarkPaid(ctx context.Context, tenant string, id uint, paidAt time.Time) (*model.Expense, error) {
	db := l.db.WithContext(ctx)

	var expense model.Expense
	if err := db.Where("id = ? AND tenant = ?", id, tenant).First(&expense).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExpenseNotFound
		}
		return nil, fmt.Errorf("failed to load expense: %w", err)
	}
	if expense.Status == model.ExpenseStatusPaid {
		return &expense, nil
	}

	err := db.Model(&expense).Updates(map[string]any{
		"status":  model.ExpenseStatusPaid,
		"paid_at": paidAt,
	}).Error
	if err != nil {
		return nil, fmt.Errorf("failed to mark expense paid: %w", err)
	}
	expense.Status = model.ExpenseStatusPaid
	expense.PaidAt = &paidAt
	return &expense, nil
}

func cashCacheKey(tenant string) string {
	return "cash_balance:latest:" + tenant
}

// RecordCashBalance stores a balance snapshot and drops the cached latest
// balance for the tenant.
func (l *Ledger) RecordCashBalance(ctx context.Context, balance *model.CashBalance) error {
	if err := l.db.WithContext(ctx).Create(balance).Error; err != nil {
		return fmt.Errorf("failed to record cash balance: %w", err)
	}
	if err := l.cache.Delete(ctx, cashCacheKey(balance.Tenant)); err != nil {
		logger.Warn(ctx, "failed to invalidate cash balance cache", "error", err)
	}
	return nil
}

// LatestCashBalance returns the most recent snapshot by as-of date, newest
// row winning ties. Cache failures fall through to the database.
func (l *Ledger) LatestCashBalance(ctx context.Context, tenant string) (*model.CashBalance, error) {
	key := cashCacheKey(tenant)

	cached, ok, err := l.cache.Get(ctx, key)
	if err != nil {
		logger.Warn(ctx, "cash balance cache read failed", "error", err)
	}
	if ok {
		var balance model.CashBalance
		if err := json.Unmarshal([]byte(cached), &balance); err == nil {
			balance.Tenant = tenant
			return &balance, nil
		}
		logger.Warn(ctx, "discarding unreadable cached cash balance", "key", key)
	}

	var balance model.CashBalance
	err = l.db.WithContext(ctx).
		Where("tenant = ?", tenant).
		Order("as_of_date DESC").
		Order("id DESC").
		First(&balance).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoCashBalance
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cash balance: %w", err)
	}

	if data, err := json.Marshal(&balance); err == nil {
		if err := l.cache.Set(ctx, key, string(data), l.cashTTL); err != nil {
			logger.Warn(ctx, "cash balance cache write failed", "error", err)
		}
	}
	return &balance, nil
}

type amountRow struct {
	Label string
	Total decimal.Decimal
}

func (l *Ledger) sumUnpaidBy(ctx context.Context, tenant, labelExpr string) (map[string]decimal.Decimal, error) {
	var rows []amountRow
	err := l.db.WithContext(ctx).
		Model(&model.Expense{}).
		Select(labelExpr+" AS label, SUM(amount) AS total").
		Where("tenant = ? AND status <> ?", tenant, model.ExpenseStatusPaid).
		Group(labelExpr).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	totals := make(map[string]decimal.Decimal, len(rows))
	for _, r := range rows {
		totals[r.Label] = totals[r.Label].Add(r.Total)
	}
	return totals, nil
}

// SummaryByCategory totals unpaid amounts per category.
func (l *Ledger) SummaryByCategory(ctx context.Context, tenant string) (map[string]decimal.Decimal, error) {
	totals, err := l.sumUnpaidBy(ctx, tenant, "COALESCE(category, '')")
	if err != nil {
		return nil, fmt.Errorf("failed to summarize by category: %w", err)
	}
	return totals, nil
}

// SummaryByUrgency totals unpaid amounts per urgency; unset urgency counts
// as Medium.
func (l *Ledger) SummaryByUrgency(ctx context.Context, tenant string) (map[string]decimal.Decimal, error) {
	totals, err := l.sumUnpaidBy(ctx, tenant, "COALESCE(NULLIF(urgency, ''), 'Medium')")
	if err != nil {
		return nil, fmt.Errorf("failed to summarize by urgency: %w", err)
	}
	return totals, nil
}
