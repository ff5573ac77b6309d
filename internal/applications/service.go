package applications

import (
	"context"
	"strings"
	"time"

	"jobboard/internal/apperr"
	"jobboard/internal/auth"
	"jobboard/internal/jobs"
	"jobboard/internal/validation"
)

const msgAlreadyApplied = "you have already applied to this job"

type applyInput struct {
	CoverLetter string `json:"coverLetter" validate:"max=5000"`
}

type Store interface {
	Create(ctx context.Context, a *Application) error
	Exists(ctx context.Context, jobID, applicantID uint64) (bool, error)
	Get(ctx context.Context, id uint64) (*Application, error)
	View(ctx context.Context, id uint64) (*View, error)
	ListByApplicant(ctx context.Context, applicantID uint64) ([]View, error)
	ListByJob(ctx context.Context, jobID uint64) ([]View, error)
	UpdateStatus(ctx context.Context, id uint64, status Status, at time.Time) error
}

type JobLookup interface {
	Get(ctx context.Context, id uint64) (*jobs.Job, error)
}

type Service struct {
	Store Store
	Jobs  JobLookup
	Clock func() time.Time
}

func (s *Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock().UTC()
	}
	return time.Now().UTC()
}

// Apply submits the caller's application to an approved job.
func (s *Service) Apply(ctx context.Context, caller auth.Identity, jobID uint64, coverLetter string) (*View, error) {
	if !auth.HasRole(caller, auth.RoleSeeker) {
		return nil, apperr.Forbidden("only job seekers can apply")
	}
	in := applyInput{CoverLetter: strings.TrimSpace(coverLetter)}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	job, err := s.Jobs.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.Status != jobs.StatusApproved {
		return nil, apperr.Invalid("cannot apply to this job")
	}

	// fast path for a friendly error; the unique index below is authoritative
	exists, err := s.Store.Exists(ctx, jobID, caller.UserID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Conflict(msgAlreadyApplied)
	}

	a := &Application{
		CoverLetter: in.CoverLetter,
		Status:      StatusPending,
		AppliedDate: s.now(),
		JobID:       jobID,
		ApplicantID: caller.UserID,
	}
	if err := s.Store.Create(ctx, a); err != nil {
		if apperr.IsUniqueViolation(err) {
			return nil, apperr.Conflict(msgAlreadyApplied)
		}
		return nil, err
	}
	return s.Store.View(ctx, a.ID)
}

// ListMine returns the caller's applications, newest first.
func (s *Service) ListMine(ctx context.Context, caller auth.Identity) ([]View, error) {
	if !auth.HasRole(caller, auth.RoleSeeker) {
		return nil, apperr.Forbidden("only job seekers have applications")
	}
	return s.Store.ListByApplicant(ctx, caller.UserID)
}

// ListForJob returns a job's applications to its owner or an admin.
func (s *Service) ListForJob(ctx context.Context, caller auth.Identity, jobID uint64) ([]View, error) {
	job, err := s.Jobs.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if !auth.IsOwnerOrAdmin(job.EmployerID, caller) {
		return nil, apperr.Forbidden("you are not authorized to view these applications")
	}
	return s.Store.ListByJob(ctx, jobID)
}

// UpdateStatus records the employer's decision on an application.
func (s *Service) UpdateStatus(ctx context.Context, caller auth.Identity, id uint64, status string) (*View, error) {
	a, err := s.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	job, err := s.Jobs.Get(ctx, a.JobID)
	if err != nil {
		return nil, err
	}
	if !auth.IsOwnerOrAdmin(job.EmployerID, caller) {
		return nil, apperr.Forbidden("you are not authorized to update this application")
	}
	next, ok := ParseDecision(status)
	if !ok {
		return nil, apperr.Invalid("invalid status, must be 'Accepted' or 'Rejected'")
	}

	if err := s.Store.UpdateStatus(ctx, id, next, s.now()); err != nil {
		return nil, err
	}
	return s.Store.View(ctx, id)
}
