package auth

import (
	"context"
	"strings"
	"time"

	"jobboard/internal/apperr"
	"jobboard/internal/validation"
)

const msgBadCredentials = "invalid email or password"

type UserStore interface {
	UserLookup
	Create(ctx context.Context, u *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
}

// Service registers users and exchanges credentials for tokens.
type Service struct {
	Users UserStore
	JWT   *JWT
	Clock func() time.Time
}

// RegisterInput is checked with validate tags. The password limit is in
// bytes because bcrypt rejects longer input.
type RegisterInput struct {
	FullName string `json:"fullName" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=100"`
	Password string `json:"password" validate:"required,min=8,maxbytes=72"`
	Role     string `json:"role" validate:"required,oneof=Seeker Employer"`
}

type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      UserView  `json:"user"`
}

func (s *Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock().UTC()
	}
	return time.Now().UTC()
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = NormalizeEmail(in.Email)

	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	if _, err := s.Users.FindByEmail(ctx, in.Email); err == nil {
		return nil, apperr.Conflict("user with this email already exists")
	} else if !apperr.Is(err, apperr.KindNotFound) {
		return nil, err
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Internal("hash password", err)
	}

	u := &User{
		FullName:     in.FullName,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         Role(in.Role),
		CreatedAt:    s.now(),
	}
	if err := s.Users.Create(ctx, u); err != nil {
		// lost a race with a concurrent registration
		if apperr.IsUniqueViolation(err) {
			return nil, apperr.Conflict("user with this email already exists")
		}
		return nil, err
	}

	return s.issue(u)
}

func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperr.Unauthorized(msgBadCredentials)
	}

	u, err := s.Users.FindByEmail(ctx, email)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, apperr.Unauthorized(msgBadCredentials)
		}
		return nil, err
	}
	if !ComparePassword(u.PasswordHash, password) {
		return nil, apperr.Unauthorized(msgBadCredentials)
	}

	return s.issue(u)
}

func (s *Service) Me(ctx context.Context, id uint64) (*UserView, error) {
	u, err := s.Users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	v := u.View()
	return &v, nil
}

func (s *Service) issue(u *User) (*Session, error) {
	token, exp, err := s.JWT.Sign(u)
	if err != nil {
		return nil, apperr.Internal("sign token", err)
	}
	return &Session{Token: token, ExpiresAt: exp, User: u.View()}, nil
}
