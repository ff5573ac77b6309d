package reports

import (
	"context"

	"gorm.io/gorm"

	"jobboard/internal/apperr"
)

type Repo struct {
	DB *gorm.DB
}

func (r *Repo) Create(ctx context.Context, rep *Report) error {
	return apperr.FromDB(r.DB.WithContext(ctx).Create(rep).Error, "report not found")
}

// List returns every report, newest first.
func (r *Repo) List(ctx context.Context) ([]Report, error) {
	out := []Report{}
	if err := r.DB.WithContext(ctx).Order("generated_date desc, id desc").Find(&out).Error; err != nil {
		return nil, apperr.FromDB(err, "report not found")
	}
	return out, nil
}
