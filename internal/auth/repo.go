package auth

import (
	"context"
	"time"

	"gorm.io/gorm"

	"jobboard/internal/apperr"
)

// Repo is the gorm-backed identity store.
type Repo struct {
	DB *gorm.DB
}

const msgUserNotFound = "user not found"

func (r *Repo) Create(ctx context.Context, u *User) error {
	return apperr.FromDB(r.DB.WithContext(ctx).Create(u).Error, msgUserNotFound)
}

func (r *Repo) FindByID(ctx context.Context, id uint64) (*User, error) {
	var u User
	if err := r.DB.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, apperr.FromDB(err, msgUserNotFound)
	}
	return &u, nil
}

func (r *Repo) FindByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, apperr.FromDB(err, msgUserNotFound)
	}
	return &u, nil
}

func (r *Repo) List(ctx context.Context) ([]User, error) {
	var users []User
	if err := r.DB.WithContext(ctx).Order("id asc").Find(&users).Error; err != nil {
		return nil, apperr.FromDB(err, msgUserNotFound)
	}
	return users, nil
}

func (r *Repo) UpdateRole(ctx context.Context, id uint64, role Role, at time.Time) (*User, error) {
	var u User
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&User{}).Where("id = ?", id).Updates(map[string]any{
			"role":       role,
			"updated_at": at,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.First(&u, id).Error
	})
	if err != nil {
		return nil, apperr.FromDB(err, msgUserNotFound)
	}
	return &u, nil
}

func (r *Repo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&User{}).Count(&n).Error; err != nil {
		return 0, apperr.FromDB(err, msgUserNotFound)
	}
	return n, nil
}

// CountByRole returns the number of users per role.
func (r *Repo) CountByRole(ctx context.Context) (map[Role]int64, error) {
	var rows []struct {
		Role  Role
		Count int64
	}
	if err := r.DB.WithContext(ctx).Model(&User{}).
		Select("role, count(*) as count").
		Group("role").
		Scan(&rows).Error; err != nil {
		return nil, apperr.FromDB(err, msgUserNotFound)
	}
	out := make(map[Role]int64, len(rows))
	for _, row := range rows {
		out[row.Role] = row.Count
	}
	return out, nil
}
