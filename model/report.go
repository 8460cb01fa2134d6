package model

import (
	"time"
)

// ReportRecord describes a payment recommendation report archived to
// object storage
type ReportRecord struct {
	ID               string    `json:"id"`
	Tenant           string    `json:"tenant"`
	ObjectName       string    `json:"object_name"`
	URL              string    `json:"url"`
	AvailableCash    string    `json:"available_cash"`
	TotalPending     string    `json:"total_pending"`
	TotalRecommended string    `json:"total_recommended"`
	Recommendations  int       `json:"recommendations"`
	DaysForecast     int       `json:"days_forecast"`
	CreatedBy        string    `json:"created_by,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}
