package jobs

import (
	"context"
	"time"

	"jobboard/internal/apperr"
	"jobboard/internal/auth"
)

type Store interface {
	Create(ctx context.Context, j *Job) error
	Get(ctx context.Context, id uint64) (*Job, error)
	View(ctx context.Context, id uint64) (*View, error)
	List(ctx context.Context, q Query) ([]View, error)
	Update(ctx context.Context, j *Job) error
	Delete(ctx context.Context, id uint64) error
	SetStatus(ctx context.Context, id uint64, status Status, at time.Time) error
}

// Service owns the job posting lifecycle. Every call re-reads the job so
// ownership is checked against persisted state.
type Service struct {
	Store Store
	Clock func() time.Time
}

func (s *Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock().UTC()
	}
	return time.Now().UTC()
}

// List returns approved jobs matching f, newest first.
func (s *Service) List(ctx context.Context, f Filter) ([]View, error) {
	return s.Store.List(ctx, Query{Status: StatusApproved, Filter: f})
}

// Get returns a job in any status.
func (s *Service) Get(ctx context.Context, id uint64) (*View, error) {
	return s.Store.View(ctx, id)
}

// Create always stores the job as Pending, posted now, owned by the caller.
func (s *Service) Create(ctx context.Context, caller auth.Identity, in Input) (*View, error) {
	if !auth.HasRole(caller, auth.RoleEmployer, auth.RoleAdmin) {
		return nil, apperr.Forbidden("only employers can post jobs")
	}
	if err := in.normalize(); err != nil {
		return nil, err
	}

	j := &Job{
		Status:     StatusPending,
		PostedDate: s.now(),
		EmployerID: caller.UserID,
	}
	in.apply(j)
	if err := s.Store.Create(ctx, j); err != nil {
		return nil, err
	}
	return s.Store.View(ctx, j.ID)
}

// Update overwrites the editable fields. Status is left untouched, so an
// approved job stays approved after an edit.
func (s *Service) Update(ctx context.Context, caller auth.Identity, id uint64, in Input) (*View, error) {
	j, err := s.ownedJob(ctx, caller, id, "you are not authorized to update this job")
	if err != nil {
		return nil, err
	}
	if err := in.normalize(); err != nil {
		return nil, err
	}

	in.apply(j)
	now := s.now()
	j.UpdatedAt = &now
	if err := s.Store.Update(ctx, j); err != nil {
		return nil, err
	}
	return s.Store.View(ctx, j.ID)
}

// Delete removes the job and, with it, every application to it.
func (s *Service) Delete(ctx context.Context, caller auth.Identity, id uint64) error {
	if _, err := s.ownedJob(ctx, caller, id, "you are not authorized to delete this job"); err != nil {
		return err
	}
	return s.Store.Delete(ctx, id)
}

// ListMine returns all of the caller's jobs in any status, newest first.
func (s *Service) ListMine(ctx context.Context, caller auth.Identity) ([]View, error) {
	if !auth.HasRole(caller, auth.RoleEmployer, auth.RoleAdmin) {
		return nil, apperr.Forbidden("only employers have job postings")
	}
	return s.Store.List(ctx, Query{EmployerID: caller.UserID})
}

func (s *Service) ListPending(ctx context.Context, caller auth.Identity) ([]View, error) {
	if !auth.HasRole(caller, auth.RoleAdmin) {
		return nil, apperr.Forbidden("admin only")
	}
	return s.Store.List(ctx, Query{Status: StatusPending})
}

// Approve is the only path that moves a job to Approved.
func (s *Service) Approve(ctx context.Context, caller auth.Identity, id uint64) (*View, error) {
	if !auth.HasRole(caller, auth.RoleAdmin) {
		return nil, apperr.Forbidden("admin only")
	}
	if err := s.Store.SetStatus(ctx, id, StatusApproved, s.now()); err != nil {
		return nil, err
	}
	return s.Store.View(ctx, id)
}

func (s *Service) ownedJob(ctx context.Context, caller auth.Identity, id uint64, denied string) (*Job, error) {
	j, err := s.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !auth.IsOwner(j.EmployerID, caller) {
		return nil, apperr.Forbidden(denied)
	}
	return j, nil
}
