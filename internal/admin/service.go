// Package admin implements moderation and oversight operations.
package admin

import (
	"context"
	"time"

	"jobboard/internal/apperr"
	"jobboard/internal/applications"
	"jobboard/internal/auth"
	"jobboard/internal/jobs"
	"jobboard/internal/reports"
)

type UserStore interface {
	FindByID(ctx context.Context, id uint64) (*auth.User, error)
	List(ctx context.Context) ([]auth.User, error)
	UpdateRole(ctx context.Context, id uint64, role auth.Role, at time.Time) (*auth.User, error)
	Count(ctx context.Context) (int64, error)
	CountByRole(ctx context.Context) (map[auth.Role]int64, error)
}

type JobCounter interface {
	Count(ctx context.Context, status jobs.Status) (int64, error)
	CountByStatus(ctx context.Context) (map[jobs.Status]int64, error)
}

type ApplicationCounter interface {
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context) (map[applications.Status]int64, error)
}

type ReportLister interface {
	List(ctx context.Context) ([]reports.Report, error)
}

type Service struct {
	Users        UserStore
	Jobs         JobCounter
	Applications ApplicationCounter
	Reports      ReportLister
	Clock        func() time.Time
}

// UserSummary is the admin listing shape of a user.
type UserSummary struct {
	ID         uint64    `json:"id"`
	FullName   string    `json:"fullName"`
	Email      string    `json:"email"`
	Role       auth.Role `json:"role"`
	JoinedDate time.Time `json:"joinedDate"`
}

type Stats struct {
	TotalUsers        int64 `json:"totalUsers"`
	TotalJobs         int64 `json:"totalJobs"`
	TotalApplications int64 `json:"totalApplications"`
	ActiveJobs        int64 `json:"activeJobs"`
}

func (s *Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock().UTC()
	}
	return time.Now().UTC()
}

func requireAdmin(caller auth.Identity) error {
	if !auth.HasRole(caller, auth.RoleAdmin) {
		return apperr.Forbidden("admin only")
	}
	return nil
}

func (s *Service) ListUsers(ctx context.Context, caller auth.Identity) ([]UserSummary, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	users, err := s.Users.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]UserSummary, 0, len(users))
	for _, u := range users {
		out = append(out, UserSummary{
			ID:         u.ID,
			FullName:   u.FullName,
			Email:      u.Email,
			Role:       u.Role,
			JoinedDate: u.CreatedAt,
		})
	}
	return out, nil
}

func (s *Service) UpdateUserRole(ctx context.Context, caller auth.Identity, userID uint64, role string) (*auth.UserView, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	if _, err := s.Users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	r, ok := auth.ParseRole(role)
	if !ok {
		return nil, apperr.Invalid("invalid role")
	}
	u, err := s.Users.UpdateRole(ctx, userID, r, s.now())
	if err != nil {
		return nil, err
	}
	v := u.View()
	return &v, nil
}

// DashboardStats is computed from the store on every call.
func (s *Service) DashboardStats(ctx context.Context, caller auth.Identity) (*Stats, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	var (
		st  Stats
		err error
	)
	if st.TotalUsers, err = s.Users.Count(ctx); err != nil {
		return nil, err
	}
	if st.TotalJobs, err = s.Jobs.Count(ctx, ""); err != nil {
		return nil, err
	}
	if st.TotalApplications, err = s.Applications.Count(ctx); err != nil {
		return nil, err
	}
	if st.ActiveJobs, err = s.Jobs.Count(ctx, jobs.StatusApproved); err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *Service) ListReports(ctx context.Context, caller auth.Identity) ([]reports.Report, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	return s.Reports.List(ctx)
}
