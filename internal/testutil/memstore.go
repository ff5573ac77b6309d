// Package testutil provides in-memory stores that honour the same
// constraints as the PostgreSQL schema: unique emails, one application per
// (job, applicant), cascading job deletes and restricted user deletes.
package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"jobboard/internal/apperr"
	"jobboard/internal/applications"
	"jobboard/internal/auth"
	"jobboard/internal/jobs"
	"jobboard/internal/reports"
)

type MemDB struct {
	mu     sync.Mutex
	seq    uint64
	users  map[uint64]auth.User
	jobs   map[uint64]jobs.Job
	apps   map[uint64]applications.Application
	report []reports.Report
}

func NewMemDB() *MemDB {
	return &MemDB{
		users: map[uint64]auth.User{},
		jobs:  map[uint64]jobs.Job{},
		apps:  map[uint64]applications.Application{},
	}
}

func (db *MemDB) nextID() uint64 {
	db.seq++
	return db.seq
}

func (db *MemDB) Users() *MemUsers               { return &MemUsers{db} }
func (db *MemDB) Jobs() *MemJobs                 { return &MemJobs{db} }
func (db *MemDB) Applications() *MemApplications { return &MemApplications{db} }
func (db *MemDB) Reports() *MemReports           { return &MemReports{db} }

// ApplicationCount counts stored applications for a (job, applicant) pair.
func (db *MemDB) ApplicationCount(jobID, applicantID uint64) int {
	db.mu.Lock()
	defer db.mu.Unlock()
	n := 0
	for _, a := range db.apps {
		if a.JobID == jobID && a.ApplicantID == applicantID {
			n++
		}
	}
	return n
}

type MemUsers struct{ db *MemDB }

func (s *MemUsers) Create(_ context.Context, u *auth.User) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, existing := range s.db.users {
		if existing.Email == u.Email {
			return apperr.FromDB(apperr.ErrDuplicate, "user not found")
		}
	}
	u.ID = s.db.nextID()
	s.db.users[u.ID] = *u
	return nil
}

func (s *MemUsers) FindByID(_ context.Context, id uint64) (*auth.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	u, ok := s.db.users[id]
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	return &u, nil
}

func (s *MemUsers) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, u := range s.db.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, apperr.NotFound("user not found")
}

func (s *MemUsers) List(_ context.Context) ([]auth.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := make([]auth.User, 0, len(s.db.users))
	for _, u := range s.db.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemUsers) UpdateRole(_ context.Context, id uint64, role auth.Role, at time.Time) (*auth.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	u, ok := s.db.users[id]
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	u.Role = role
	u.UpdatedAt = &at
	s.db.users[id] = u
	return &u, nil
}

func (s *MemUsers) Count(_ context.Context) (int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return int64(len(s.db.users)), nil
}

func (s *MemUsers) CountByRole(_ context.Context) (map[auth.Role]int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := map[auth.Role]int64{}
	for _, u := range s.db.users {
		out[u.Role]++
	}
	return out, nil
}

type MemJobs struct{ db *MemDB }

func (s *MemJobs) Create(_ context.Context, j *jobs.Job) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.users[j.EmployerID]; !ok {
		return apperr.Conflict("resource is still referenced")
	}
	j.ID = s.db.nextID()
	s.db.jobs[j.ID] = *j
	return nil
}

func (s *MemJobs) Get(_ context.Context, id uint64) (*jobs.Job, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	j, ok := s.db.jobs[id]
	if !ok {
		return nil, apperr.NotFound("job not found")
	}
	return &j, nil
}

func (s *MemJobs) View(_ context.Context, id uint64) (*jobs.View, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	j, ok := s.db.jobs[id]
	if !ok {
		return nil, apperr.NotFound("job not found")
	}
	v := s.view(j)
	return &v, nil
}

func (s *MemJobs) List(_ context.Context, q jobs.Query) ([]jobs.View, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := []jobs.View{}
	for _, j := range s.db.jobs {
		if q.Status != "" && j.Status != q.Status {
			continue
		}
		if q.EmployerID != 0 && j.EmployerID != q.EmployerID {
			continue
		}
		if q.Keyword != "" && !strings.Contains(j.Title, q.Keyword) && !strings.Contains(j.Description, q.Keyword) {
			continue
		}
		if q.Category != "" && j.Category != q.Category {
			continue
		}
		if q.Location != "" && !strings.Contains(j.Location, q.Location) {
			continue
		}
		out = append(out, s.view(j))
	}
	sort.Slice(out, func(i, k int) bool {
		if !out[i].PostedDate.Equal(out[k].PostedDate) {
			return out[i].PostedDate.After(out[k].PostedDate)
		}
		return out[i].ID > out[k].ID
	})
	return out, nil
}

func (s *MemJobs) Update(_ context.Context, j *jobs.Job) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	cur, ok := s.db.jobs[j.ID]
	if !ok || cur.EmployerID != j.EmployerID {
		return apperr.NotFound("job not found")
	}
	cur.Title, cur.Company, cur.Location = j.Title, j.Company, j.Location
	cur.JobType, cur.Category, cur.Salary = j.JobType, j.Category, j.Salary
	cur.Description, cur.UpdatedAt = j.Description, j.UpdatedAt
	s.db.jobs[j.ID] = cur
	return nil
}

func (s *MemJobs) Delete(_ context.Context, id uint64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.jobs[id]; !ok {
		return apperr.NotFound("job not found")
	}
	for appID, a := range s.db.apps {
		if a.JobID == id {
			delete(s.db.apps, appID)
		}
	}
	delete(s.db.jobs, id)
	return nil
}

func (s *MemJobs) SetStatus(_ context.Context, id uint64, status jobs.Status, at time.Time) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	j, ok := s.db.jobs[id]
	if !ok {
		return apperr.NotFound("job not found")
	}
	j.Status = status
	j.UpdatedAt = &at
	s.db.jobs[id] = j
	return nil
}

func (s *MemJobs) Count(_ context.Context, status jobs.Status) (int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var n int64
	for _, j := range s.db.jobs {
		if status == "" || j.Status == status {
			n++
		}
	}
	return n, nil
}

func (s *MemJobs) CountByStatus(_ context.Context) (map[jobs.Status]int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := map[jobs.Status]int64{}
	for _, j := range s.db.jobs {
		out[j.Status]++
	}
	return out, nil
}

// view must be called with the lock held.
func (s *MemJobs) view(j jobs.Job) jobs.View {
	var count int64
	for _, a := range s.db.apps {
		if a.JobID == j.ID {
			count++
		}
	}
	return jobs.View{
		ID:                j.ID,
		Title:             j.Title,
		Company:           j.Company,
		Location:          j.Location,
		JobType:           j.JobType,
		Category:          j.Category,
		Salary:            j.Salary,
		Description:       j.Description,
		Status:            j.Status,
		PostedDate:        j.PostedDate,
		EmployerID:        j.EmployerID,
		EmployerName:      s.db.users[j.EmployerID].FullName,
		ApplicationsCount: count,
	}
}

type MemApplications struct{ db *MemDB }

func (s *MemApplications) Create(_ context.Context, a *applications.Application) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, existing := range s.db.apps {
		if existing.JobID == a.JobID && existing.ApplicantID == a.ApplicantID {
			return apperr.FromDB(apperr.ErrDuplicate, "application not found")
		}
	}
	if _, ok := s.db.jobs[a.JobID]; !ok {
		return apperr.Conflict("resource is still referenced")
	}
	a.ID = s.db.nextID()
	s.db.apps[a.ID] = *a
	return nil
}

func (s *MemApplications) Exists(_ context.Context, jobID, applicantID uint64) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, a := range s.db.apps {
		if a.JobID == jobID && a.ApplicantID == applicantID {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemApplications) Get(_ context.Context, id uint64) (*applications.Application, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	a, ok := s.db.apps[id]
	if !ok {
		return nil, apperr.NotFound("application not found")
	}
	return &a, nil
}

func (s *MemApplications) View(_ context.Context, id uint64) (*applications.View, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	a, ok := s.db.apps[id]
	if !ok {
		return nil, apperr.NotFound("application not found")
	}
	v := s.view(a)
	return &v, nil
}

func (s *MemApplications) ListByApplicant(_ context.Context, applicantID uint64) ([]applications.View, error) {
	return s.list(func(a applications.Application) bool { return a.ApplicantID == applicantID }), nil
}

func (s *MemApplications) ListByJob(_ context.Context, jobID uint64) ([]applications.View, error) {
	return s.list(func(a applications.Application) bool { return a.JobID == jobID }), nil
}

func (s *MemApplications) list(keep func(applications.Application) bool) []applications.View {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := []applications.View{}
	for _, a := range s.db.apps {
		if keep(a) {
			out = append(out, s.view(a))
		}
	}
	sort.Slice(out, func(i, k int) bool {
		if !out[i].AppliedDate.Equal(out[k].AppliedDate) {
			return out[i].AppliedDate.After(out[k].AppliedDate)
		}
		return out[i].ID > out[k].ID
	})
	return out
}

func (s *MemApplications) UpdateStatus(_ context.Context, id uint64, status applications.Status, at time.Time) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	a, ok := s.db.apps[id]
	if !ok {
		return apperr.NotFound("application not found")
	}
	a.Status = status
	a.UpdatedAt = &at
	s.db.apps[id] = a
	return nil
}

func (s *MemApplications) Count(_ context.Context) (int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return int64(len(s.db.apps)), nil
}

func (s *MemApplications) CountByStatus(_ context.Context) (map[applications.Status]int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := map[applications.Status]int64{}
	for _, a := range s.db.apps {
		out[a.Status]++
	}
	return out, nil
}

// view must be called with the lock held.
func (s *MemApplications) view(a applications.Application) applications.View {
	j := s.db.jobs[a.JobID]
	u := s.db.users[a.ApplicantID]
	return applications.View{
		ID:             a.ID,
		CoverLetter:    a.CoverLetter,
		Status:         a.Status,
		AppliedDate:    a.AppliedDate,
		JobID:          a.JobID,
		JobTitle:       j.Title,
		Company:        j.Company,
		Location:       j.Location,
		ApplicantID:    a.ApplicantID,
		ApplicantName:  u.FullName,
		ApplicantEmail: u.Email,
	}
}

type MemReports struct{ db *MemDB }

func (s *MemReports) Create(_ context.Context, rep *reports.Report) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	rep.ID = s.db.nextID()
	s.db.report = append(s.db.report, *rep)
	return nil
}

func (s *MemReports) List(_ context.Context) ([]reports.Report, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := append([]reports.Report{}, s.db.report...)
	sort.Slice(out, func(i, k int) bool {
		if !out[i].GeneratedDate.Equal(out[k].GeneratedDate) {
			return out[i].GeneratedDate.After(out[k].GeneratedDate)
		}
		return out[i].ID > out[k].ID
	})
	return out, nil
}
