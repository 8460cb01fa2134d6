package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/zac-t-smith/restoration-intel/model"
	"github.com/zac-t-smith/restoration-intel/pkg/logger"
)

var (
	ErrArchiveDisabled = errors.New("report archive is not configured")
	ErrReportNotFound  = errors.New("report not found")
)

// ReportService exports recommendation reports to the archive
type ReportService struct {
	payables *PayablesService
	store    *ReportStore
	archive  ReportArchive
	now      func() time.Time
}

// NewReportService builds the service; a nil archive disables exports.
func NewReportService(payables *PayablesService, store *ReportStore, archive ReportArchive) *ReportService {
	return &ReportService{
		payables: payables,
		store:    store,
		archive:  archive,
		now:      time.Now,
	}
}

func (s *ReportService) Enabled() bool {
	return s.archive != nil
}

// Export computes a fresh report for the tenant and archives it.
func (s *ReportService) Export(ctx context.Context, tenant, username string, req RecommendRequest) (*model.ReportRecord, error) {
	if s.archive == nil {
		return nil, ErrArchiveDisabled
	}

	report, err := s.payables.Recommend(ctx, tenant, req)
	if err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}

	id := uuid.New().String()
	objectName := fmt.Sprintf("%s/payables/%s.json", tenant, id)
	if err := s.archive.Put(ctx, objectName, data, "application/json"); err != nil {
		return nil, err
	}

	url, err := s.archive.PresignedURL(ctx, objectName)
	if err != nil {
		return nil, err
	}

	record := &model.ReportRecord{
		ID:               id,
		Tenant:           tenant,
		ObjectName:       objectName,
		URL:              url,
		AvailableCash:    report.Summary.AvailableCash.String(),
		TotalPending:     report.Summary.TotalPending.String(),
		TotalRecommended: report.Summary.TotalRecommended.String(),
		Recommendations:  len(report.Recommendations),
		DaysForecast:     report.DaysForecast,
		CreatedBy:        username,
		CreatedAt:        s.now(),
	}

	for _, old := range s.store.Save(record) {
		if err := s.archive.Remove(ctx, old.ObjectName); err != nil {
			logger.Warn(ctx, "failed to remove evicted report", "report_id", old.ID, "error", err)
		}
	}

	logger.Info(ctx, "payables report archived", "report_id", id, "object", objectName)
	return record, nil
}

func (s *ReportService) List(tenant string) []*model.ReportRecord {
	return s.store.ListByTenant(tenant)
}

func (s *ReportService) Get(tenant, id string) (*model.ReportRecord, error) {
	record := s.store.Get(tenant, id)
	if record == nil {
		return nil, ErrReportNotFound
	}
	return record, nil
}

// Delete removes the report document and its index entry.
func (s *ReportService) Delete(ctx context.Context, tenant, id string) error {
	record := s.store.Get(tenant, id)
	if record == nil {
		return ErrReportNotFound
	}
	if s.archive != nil {
		if err := s.archive.Remove(ctx, record.ObjectName); err != nil {
			return err
		}
	}
	s.store.Delete(id)
	return nil
}
