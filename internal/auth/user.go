package auth

import "time"

type Role string

const (
	RoleSeeker   Role = "Seeker"
	RoleEmployer Role = "Employer"
	RoleAdmin    Role = "Admin"
)

// ParseRole accepts the exact role names only.
func ParseRole(s string) (Role, bool) {
	switch r := Role(s); r {
	case RoleSeeker, RoleEmployer, RoleAdmin:
		return r, true
	default:
		return "", false
	}
}

type User struct {
	ID           uint64     `gorm:"primaryKey"`
	FullName     string     `gorm:"size:100;not null"`
	Email        string     `gorm:"size:100;uniqueIndex;not null"`
	PasswordHash string     `gorm:"not null"`
	Role         Role       `gorm:"size:20;not null;default:'Seeker'"`
	Phone        *string    `gorm:"size:20"`
	Location     *string    `gorm:"size:100"`
	Bio          *string    `gorm:"size:1000"`
	CreatedAt    time.Time  `gorm:"not null;default:now()"`
	UpdatedAt    *time.Time `gorm:"autoUpdateTime:false"`
}

// UserView is the public shape of a user. It never carries password material.
type UserView struct {
	ID         uint64    `json:"id"`
	FullName   string    `json:"fullName"`
	Email      string    `json:"email"`
	Role       Role      `json:"role"`
	Phone      *string   `json:"phone,omitempty"`
	Location   *string   `json:"location,omitempty"`
	Bio        *string   `json:"bio,omitempty"`
	JoinedDate time.Time `json:"joinedDate"`
}

func (u *User) View() UserView {
	return UserView{
		ID:         u.ID,
		FullName:   u.FullName,
		Email:      u.Email,
		Role:       u.Role,
		Phone:      u.Phone,
		Location:   u.Location,
		Bio:        u.Bio,
		JoinedDate: u.CreatedAt,
	}
}
