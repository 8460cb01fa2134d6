package model

import (
	"strings"
	"time"
)

// Vendor is a supplier that issues expenses
type Vendor struct {
	ID                     uint      `json:"id" gorm:"primaryKey"`
	Tenant                 string    `json:"-" gorm:"type:varchar(64);not null;index"`
	Name                   string    `json:"name" gorm:"type:varchar(255);not null"`
	PaymentTerms           string    `json:"payment_terms" gorm:"type:varchar(64)"`
	PreferredPaymentMethod string    `json:"preferred_payment_method" gorm:"type:varchar(32)"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

// DefaultPaymentTerms applies when a vendor has none recorded.
const DefaultPaymentTerms = "net_30"

// Vendor relationship labels
const (
	RelationshipCritical = "critical"
	RelationshipStandard = "standard"
)

// IsCritical reports whether the vendor's payment terms mark it for
// priority payment.
func (v *Vendor) IsCritical() bool {
	terms := strings.ToLower(v.PaymentTerms)
	return strings.Contains(terms, "critical") || strings.Contains(terms, "priority")
}

// Terms returns the recorded payment terms or the default.
func (v *Vendor) Terms() string {
	if v.PaymentTerms == "" {
		return DefaultPaymentTerms
	}
	return v.PaymentTerms
}

// Project groups expenses by restoration job
type Project struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Tenant    string    `json:"-" gorm:"type:varchar(64);not null;index"`
	Name      string    `json:"name" gorm:"type:varchar(255);not null"`
	CreatedAt time.Time `json:"created_at"`
}
