package jobs

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"jobboard/internal/apperr"
)

const msgJobNotFound = "job not found"

// Repo is the gorm-backed job store. Views are read with one joined query.
type Repo struct {
	DB *gorm.DB
}

const viewColumns = `jobs.id, jobs.title, jobs.company, jobs.location, jobs.job_type,
	jobs.category, jobs.salary, jobs.description, jobs.status, jobs.posted_date,
	jobs.employer_id, users.full_name as employer_name,
	(select count(*) from applications a where a.job_id = jobs.id) as applications_count`

func (r *Repo) views(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).
		Table("jobs").
		Select(viewColumns).
		Joins("join users on users.id = jobs.employer_id")
}

func (r *Repo) Create(ctx context.Context, j *Job) error {
	err := r.DB.WithContext(ctx).Omit(clause.Associations).Create(j).Error
	return apperr.FromDB(err, msgJobNotFound)
}

func (r *Repo) Get(ctx context.Context, id uint64) (*Job, error) {
	var j Job
	if err := r.DB.WithContext(ctx).First(&j, id).Error; err != nil {
		return nil, apperr.FromDB(err, msgJobNotFound)
	}
	return &j, nil
}

func (r *Repo) View(ctx context.Context, id uint64) (*View, error) {
	var v View
	res := r.views(ctx).Where("jobs.id = ?", id).Limit(1).Scan(&v)
	if res.Error != nil {
		return nil, apperr.FromDB(res.Error, msgJobNotFound)
	}
	if res.RowsAffected == 0 {
		return nil, apperr.NotFound(msgJobNotFound)
	}
	return &v, nil
}

func (r *Repo) List(ctx context.Context, q Query) ([]View, error) {
	tx := r.views(ctx)
	if q.Status != "" {
		tx = tx.Where("jobs.status = ?", q.Status)
	}
	if q.EmployerID != 0 {
		tx = tx.Where("jobs.employer_id = ?", q.EmployerID)
	}
	// LIKE is case-sensitive in PostgreSQL; backslash is its default escape.
	if q.Keyword != "" {
		p := containsPattern(q.Keyword)
		tx = tx.Where("(jobs.title LIKE ? OR jobs.description LIKE ?)", p, p)
	}
	if q.Category != "" {
		tx = tx.Where("jobs.category = ?", q.Category)
	}
	if q.Location != "" {
		tx = tx.Where("jobs.location LIKE ?", containsPattern(q.Location))
	}

	out := []View{}
	if err := tx.Order("jobs.posted_date desc, jobs.id desc").Scan(&out).Error; err != nil {
		return nil, apperr.FromDB(err, msgJobNotFound)
	}
	return out, nil
}

// Update overwrites the mutable fields of j. The employer_id guard keeps a
// concurrent ownership change from being overwritten.
func (r *Repo) Update(ctx context.Context, j *Job) error {
	res := r.DB.WithContext(ctx).Model(&Job{}).
		Where("id = ? AND employer_id = ?", j.ID, j.EmployerID).
		Updates(map[string]any{
			"title":       j.Title,
			"company":     j.Company,
			"location":    j.Location,
			"job_type":    j.JobType,
			"category":    j.Category,
			"salary":      j.Salary,
			"description": j.Description,
			"updated_at":  j.UpdatedAt,
		})
	if res.Error != nil {
		return apperr.FromDB(res.Error, msgJobNotFound)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound(msgJobNotFound)
	}
	return nil
}

// Delete removes the job and its applications in one transaction.
func (r *Repo) Delete(ctx context.Context, id uint64) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`delete from applications where job_id = ?`, id).Error; err != nil {
			return err
		}
		res := tx.Delete(&Job{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return apperr.FromDB(err, msgJobNotFound)
}

func (r *Repo) SetStatus(ctx context.Context, id uint64, status Status, at time.Time) error {
	res := r.DB.WithContext(ctx).Model(&Job{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "updated_at": at})
	if res.Error != nil {
		return apperr.FromDB(res.Error, msgJobNotFound)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound(msgJobNotFound)
	}
	return nil
}

// Count returns the number of jobs, optionally restricted to one status.
func (r *Repo) Count(ctx context.Context, status Status) (int64, error) {
	tx := r.DB.WithContext(ctx).Model(&Job{})
	if status != "" {
		tx = tx.Where("status = ?", status)
	}
	var n int64
	if err := tx.Count(&n).Error; err != nil {
		return 0, apperr.FromDB(err, msgJobNotFound)
	}
	return n, nil
}

func (r *Repo) CountByStatus(ctx context.Context) (map[Status]int64, error) {
	var rows []struct {
		Status Status
		Count  int64
	}
	if err := r.DB.WithContext(ctx).Model(&Job{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, apperr.FromDB(err, msgJobNotFound)
	}
	out := make(map[Status]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.Count
	}
	return out, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
