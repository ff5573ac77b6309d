package applications

import (
	"time"

	"jobboard/internal/auth"
	"jobboard/internal/jobs"
)

type Status string

const (
	StatusPending  Status = "Pending"
	StatusAccepted Status = "Accepted"
	StatusRejected Status = "Rejected"
)

// ParseDecision accepts the statuses an employer may set.
func ParseDecision(s string) (Status, bool) {
	switch st := Status(s); st {
	case StatusAccepted, StatusRejected:
		return st, true
	default:
		return "", false
	}
}

// Application is unique per (job, applicant); the index is the real guard
// against duplicate submissions.
type Application struct {
	ID          uint64     `gorm:"primaryKey"`
	CoverLetter string     `gorm:"type:text;not null"`
	Status      Status     `gorm:"size:20;not null;default:'Pending'"`
	AppliedDate time.Time  `gorm:"index;not null;default:now()"`
	UpdatedAt   *time.Time `gorm:"autoUpdateTime:false"`

	JobID uint64    `gorm:"not null;uniqueIndex:uq_applications_job_applicant,priority:1"`
	Job   *jobs.Job `gorm:"foreignKey:JobID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`

	ApplicantID uint64     `gorm:"not null;index;uniqueIndex:uq_applications_job_applicant,priority:2"`
	Applicant   *auth.User `gorm:"foreignKey:ApplicantID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// View is an application joined with its job and applicant.
type View struct {
	ID             uint64    `json:"id"`
	CoverLetter    string    `json:"coverLetter"`
	Status         Status    `json:"status"`
	AppliedDate    time.Time `json:"appliedDate"`
	JobID          uint64    `json:"jobId"`
	JobTitle       string    `json:"jobTitle"`
	Company        string    `json:"company"`
	Location       string    `json:"location"`
	ApplicantID    uint64    `json:"applicantId"`
	ApplicantName  string    `json:"applicantName"`
	ApplicantEmail string    `json:"applicantEmail"`
}
