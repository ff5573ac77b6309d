package jobs

import (
	"strings"
	"time"

	"jobboard/internal/auth"
	"jobboard/internal/validation"
)

type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	// StatusRejected is modeled but no operation sets it yet.
	StatusRejected Status = "Rejected"
)

type Job struct {
	ID          uint64     `gorm:"primaryKey"`
	Title       string     `gorm:"size:200;not null"`
	Company     string     `gorm:"size:100;not null"`
	Location    string     `gorm:"size:100;not null"`
	JobType     string     `gorm:"size:50;not null"`
	Category    string     `gorm:"size:100;index;not null"`
	Salary      string     `gorm:"size:100;not null"`
	Description string     `gorm:"type:text;not null"`
	Status      Status     `gorm:"size:20;index;not null;default:'Pending'"`
	PostedDate  time.Time  `gorm:"index;not null;default:now()"`
	UpdatedAt   *time.Time `gorm:"autoUpdateTime:false"`

	EmployerID uint64     `gorm:"index;not null"`
	Employer   *auth.User `gorm:"foreignKey:EmployerID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// View is a job enriched with its employer's name and application count.
type View struct {
	ID                uint64    `json:"id"`
	Title             string    `json:"title"`
	Company           string    `json:"company"`
	Location          string    `json:"location"`
	JobType           string    `json:"jobType"`
	Category          string    `json:"category"`
	Salary            string    `json:"salary"`
	Description       string    `json:"description"`
	Status            Status    `json:"status"`
	PostedDate        time.Time `json:"postedDate"`
	EmployerID        uint64    `json:"employerId"`
	EmployerName      string    `json:"employerName"`
	ApplicationsCount int64     `json:"applicationsCount"`
}

// Input holds the caller-editable fields of a job.
type Input struct {
	Title       string `json:"title" validate:"required,max=200"`
	Company     string `json:"company" validate:"required,max=100"`
	Location    string `json:"location" validate:"required,max=100"`
	JobType     string `json:"jobType" validate:"required,max=50"`
	Category    string `json:"category" validate:"required,max=100"`
	Salary      string `json:"salary" validate:"required,max=100"`
	Description string `json:"description" validate:"required"`
}

// Filter narrows the public listing. Empty fields are ignored.
type Filter struct {
	Keyword  string
	Category string
	Location string
}

// Query is what stores list by. Zero values mean "any".
type Query struct {
	Status     Status
	EmployerID uint64
	Filter
}

// normalize trims every field before the tags are checked, so blank input
// fails "required".
func (in *Input) normalize() error {
	for _, f := range []*string{&in.Title, &in.Company, &in.Location, &in.JobType, &in.Category, &in.Salary, &in.Description} {
		*f = strings.TrimSpace(*f)
	}
	return validation.Struct(in)
}

func (in Input) apply(j *Job) {
	j.Title = in.Title
	j.Company = in.Company
	j.Location = in.Location
	j.JobType = in.JobType
	j.Category = in.Category
	j.Salary = in.Salary
	j.Description = in.Description
}
