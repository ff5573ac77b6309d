package admin

import (
	"context"

	"jobboard/internal/applications"
	"jobboard/internal/auth"
	"jobboard/internal/jobs"
	"jobboard/internal/reports"
)

type JobStatistics struct {
	Total    int64                 `json:"total"`
	ByStatus map[jobs.Status]int64 `json:"byStatus"`
}

type UserActivity struct {
	Total  int64               `json:"total"`
	ByRole map[auth.Role]int64 `json:"byRole"`
}

type ApplicationMetrics struct {
	Total    int64                         `json:"total"`
	ByStatus map[applications.Status]int64 `json:"byStatus"`
}

// ReportSources exposes the aggregations written by the report worker.
func (s *Service) ReportSources() []reports.Source {
	return []reports.Source{
		{Type: reports.TypeJobStatistics, Collect: func(ctx context.Context) (any, error) { return s.JobStatistics(ctx) }},
		{Type: reports.TypeUserActivity, Collect: func(ctx context.Context) (any, error) { return s.UserActivity(ctx) }},
		{Type: reports.TypeApplicationMetrics, Collect: func(ctx context.Context) (any, error) { return s.ApplicationMetrics(ctx) }},
	}
}

func (s *Service) JobStatistics(ctx context.Context) (*JobStatistics, error) {
	by, err := s.Jobs.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	return &JobStatistics{Total: sum(by), ByStatus: by}, nil
}

func (s *Service) UserActivity(ctx context.Context) (*UserActivity, error) {
	by, err := s.Users.CountByRole(ctx)
	if err != nil {
		return nil, err
	}
	return &UserActivity{Total: sum(by), ByRole: by}, nil
}

func (s *Service) ApplicationMetrics(ctx context.Context) (*ApplicationMetrics, error) {
	by, err := s.Applications.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	return &ApplicationMetrics{Total: sum(by), ByStatus: by}, nil
}

func sum[K comparable](m map[K]int64) int64 {
	var n int64
	for _, v := range m {
		n += v
	}
	return n
}
