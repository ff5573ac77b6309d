package testutil

import (
	"sync"
	"time"

	"jobboard/internal/auth"
	"jobboard/internal/config"
	"jobboard/internal/jobs"
)

const JWTSecret = "test-secret-test-secret-test-secret!"

func JWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:   JWTSecret,
		Issuer:   "jobboard-test",
		Audience: "jobboard-test-clients",
		Expiry:   time.Hour,
	}
}

// Clock is a manually advanced time source. Each call to Now moves it
// forward by Step so consecutive writes get distinct timestamps.
type Clock struct {
	mu   sync.Mutex
	t    time.Time
	Step time.Duration
}

func NewClock() *Clock {
	return &Clock{t: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC), Step: time.Second}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(c.Step)
	return c.t
}

// Peek returns the current time without advancing.
func (c *Clock) Peek() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

// SeedUser stores a user directly, bypassing registration.
func (db *MemDB) SeedUser(name, email string, role auth.Role) auth.Identity {
	db.mu.Lock()
	defer db.mu.Unlock()
	u := auth.User{
		ID:        db.nextID(),
		FullName:  name,
		Email:     email,
		Role:      role,
		CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	db.users[u.ID] = u
	return auth.Identity{UserID: u.ID, Email: u.Email, Name: u.FullName, Role: u.Role}
}

// SeedJob stores a job with the given status and posted date.
func (db *MemDB) SeedJob(employerID uint64, title string, status jobs.Status, posted time.Time) jobs.Job {
	db.mu.Lock()
	defer db.mu.Unlock()
	j := jobs.Job{
		ID:          db.nextID(),
		Title:       title,
		Company:     "Acme",
		Location:    "Berlin",
		JobType:     "Full-time",
		Category:    "Engineering",
		Salary:      "80k",
		Description: "Build things",
		Status:      status,
		PostedDate:  posted,
		EmployerID:  employerID,
	}
	db.jobs[j.ID] = j
	return j
}

func ValidJobInput(title string) jobs.Input {
	return jobs.Input{
		Title:       title,
		Company:     "Acme",
		Location:    "Berlin, DE",
		JobType:     "Full-time",
		Category:    "Engineering",
		Salary:      "80k-100k",
		Description: "Design and operate backend services.",
	}
}
