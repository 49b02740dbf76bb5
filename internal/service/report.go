package service

import (
	"context"
	"time"

	"github.com/Aakashvish187/jalrakshak.ai/internal/domain"
)

// ReportService stores and lists citizen flood reports.
type ReportService struct {
	reports domain.ReportStore
}

// NewReportService creates a new report service.
func NewReportService(reports domain.ReportStore) *ReportService {
	return &ReportService{reports: reports}
}

// Submit stores a citizen report.
func (s *ReportService) Submit(ctx context.Context, r domain.Report) (domain.Report, error) {
	if r.Severity == "" {
		r.Severity = "medium"
	}
	r.Timestamp = time.Now().UTC()

	id, err := s.reports.SaveReport(ctx, r)
	if err != nil {
		return domain.Report{}, err
	}
	r.ID = id
	return r, nil
}

// Recent returns the latest reports, newest first.
func (s *ReportService) Recent(ctx context.Context, limit int) ([]domain.Report, error) {
	return s.reports.ListReports(ctx, limit)
}
