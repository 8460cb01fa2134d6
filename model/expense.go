package model

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Money goes over the wire as JSON numbers; decoding accepts both forms.
	decimal.MarshalJSONWithoutQuotes = true
}

// Expense status constants
const (
	ExpenseStatusPending = "Pending"
	ExpenseStatusPaid    = "Paid"
)

// UnknownVendor names expenses recorded without any vendor.
const UnknownVendor = "Unknown Vendor"

// Expense is an accounts-payable item
type Expense struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Tenant      string          `json:"-" gorm:"type:varchar(64);not null;index:idx_expenses_tenant_status"`
	VendorID    *uint           `json:"vendor_id,omitempty" gorm:"index"`
	Vendor      *Vendor         `json:"vendor,omitempty" gorm:"foreignKey:VendorID"`
	VendorName  string          `json:"vendor_name" gorm:"column:vendor;type:varchar(255)"`
	ProjectID   *uint           `json:"project_id,omitempty" gorm:"index"`
	Project     *Project        `json:"project,omitempty" gorm:"foreignKey:ProjectID"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:numeric(14,2);not null"`
	DueDate     *time.Time      `json:"due_date,omitempty" gorm:"index"`
	Urgency     string          `json:"urgency" gorm:"type:varchar(16)"`
	Category    string          `json:"category" gorm:"type:varchar(64)"`
	Description string          `json:"description" gorm:"type:text"`
	Status      string          `json:"status" gorm:"type:varchar(16);not null;default:Pending;index:idx_expenses_tenant_status"`
	PaidAt      *time.Time      `json:"paid_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// DisplayVendor prefers the linked vendor record's name.
func (e *Expense) DisplayVendor() string {
	if e.Vendor != nil && e.Vendor.Name != "" {
		return e.Vendor.Name
	}
	if e.VendorName != "" {
		return e.VendorName
	}
	return UnknownVendor
}

// CashBalance is a dated snapshot of cash on hand
type CashBalance struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	Tenant    string          `json:"-" gorm:"type:varchar(64);not null;index"`
	Balance   decimal.Decimal `json:"balance" gorm:"type:numeric(14,2);not null"`
	AsOfDate  time.Time       `json:"as_of_date" gorm:"not null;index"`
	CreatedAt time.Time       `json:"created_at"`
}
