package applications

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"jobboard/internal/apperr"
)

const msgApplicationNotFound = "application not found"

type Repo struct {
	DB *gorm.DB
}

const viewColumns = `applications.id, applications.cover_letter, applications.status,
	applications.applied_date, applications.job_id, jobs.title as job_title,
	jobs.company, jobs.location, applications.applicant_id,
	users.full_name as applicant_name, users.email as applicant_email`

func (r *Repo) views(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).
		Table("applications").
		Select(viewColumns).
		Joins("join jobs on jobs.id = applications.job_id").
		Joins("join users on users.id = applications.applicant_id")
}

// Create inserts a. A second application for the same (job, applicant)
// fails with a unique violation.
func (r *Repo) Create(ctx context.Context, a *Application) error {
	err := r.DB.WithContext(ctx).Omit(clause.Associations).Create(a).Error
	return apperr.FromDB(err, msgApplicationNotFound)
}

func (r *Repo) Exists(ctx context.Context, jobID, applicantID uint64) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&Application{}).
		Where("job_id = ? AND applicant_id = ?", jobID, applicantID).
		Count(&n).Error
	if err != nil {
		return false, apperr.FromDB(err, msgApplicationNotFound)
	}
	return n > 0, nil
}

func (r *Repo) Get(ctx context.Context, id uint64) (*Application, error) {
	var a Application
	if err := r.DB.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, apperr.FromDB(err, msgApplicationNotFound)
	}
	return &a, nil
}

func (r *Repo) View(ctx context.Context, id uint64) (*View, error) {
	var v View
	res := r.views(ctx).Where("applications.id = ?", id).Limit(1).Scan(&v)
	if res.Error != nil {
		return nil, apperr.FromDB(res.Error, msgApplicationNotFound)
	}
	if res.RowsAffected == 0 {
		return nil, apperr.NotFound(msgApplicationNotFound)
	}
	return &v, nil
}

func (r *Repo) ListByApplicant(ctx context.Context, applicantID uint64) ([]View, error) {
	return r.list(ctx, "applications.applicant_id = ?", applicantID)
}

func (r *Repo) ListByJob(ctx context.Context, jobID uint64) ([]View, error) {
	return r.list(ctx, "applications.job_id = ?", jobID)
}

func (r *Repo) list(ctx context.Context, where string, arg uint64) ([]View, error) {
	out := []View{}
	err := r.views(ctx).
		Where(where, arg).
		Order("applications.applied_date desc, applications.id desc").
		Scan(&out).Error
	if err != nil {
		return nil, apperr.FromDB(err, msgApplicationNotFound)
	}
	return out, nil
}

func (r *Repo) UpdateStatus(ctx context.Context, id uint64, status Status, at time.Time) error {
	res := r.DB.WithContext(ctx).Model(&Application{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "updated_at": at})
	if res.Error != nil {
		return apperr.FromDB(res.Error, msgApplicationNotFound)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound(msgApplicationNotFound)
	}
	return nil
}

func (r *Repo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&Application{}).Count(&n).Error; err != nil {
		return 0, apperr.FromDB(err, msgApplicationNotFound)
	}
	return n, nil
}

func (r *Repo) CountByStatus(ctx context.Context) (map[Status]int64, error) {
	var rows []struct {
		Status Status
		Count  int64
	}
	if err := r.DB.WithContext(ctx).Model(&Application{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, apperr.FromDB(err, msgApplicationNotFound)
	}
	out := make(map[Status]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.Count
	}
	return out, nil
}
