package service

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/zac-t-smith/restoration-intel/model"
)

// ReportStore is an in-memory index of archived reports. The report bodies
// live in object storage; only their metadata is kept here.
type ReportStore struct {
	reports    map[string]*model.ReportRecord
	mu         sync.RWMutex
	maxReports int // 0 = unlimited
}

func NewReportStore(maxReports int) *ReportStore {
	if maxReports < 0 {
		maxReports = 0
	}
	return &ReportStore{
		reports:    make(map[string]*model.ReportRecord),
		maxReports: maxReports,
	}
}

// Save stores the record and returns any records evicted to stay within
// the size limit, so their objects can be removed too.
func (s *ReportStore) Save(report *model.ReportRecord) []*model.ReportRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reports[report.ID] = report
	return s.evictIfNeeded()
}

func (s *ReportStore) Get(tenant, id string) *model.ReportRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r := s.reports[id]
	if r == nil || r.Tenant != tenant {
		return nil
	}
	return r
}

// ListByTenant returns the tenant's reports, newest first.
func (s *ReportStore) ListByTenant(tenant string) []*model.ReportRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*model.ReportRecord, 0)
	for _, r := range s.reports {
		if r.Tenant == tenant {
			result = append(result, r)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

func (s *ReportStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.reports, id)
}

// evictIfNeeded drops the oldest reports beyond maxReports.
// Must be called with lock held
func (s *ReportStore) evictIfNeeded() []*model.ReportRecord {
	if s.maxReports <= 0 || len(s.reports) <= s.maxReports {
		return nil
	}

	reports := make([]*model.ReportRecord, 0, len(s.reports))
	for _, r := range s.reports {
		reports = append(reports, r)
	}
	sort.Slice(reports, func(i, j int) bool {
		return reports[i].CreatedAt.Before(reports[j].CreatedAt)
	})

	evicted := reports[:len(reports)-s.maxReports]
	for _, r := range evicted {
		slog.Info("evicting old report", "report_id", r.ID, "created_at", r.CreatedAt)
		delete(s.reports, r.ID)
	}
	return evicted
}

func (s *ReportStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.reports)
}
