package model

import (
	"time"

	"github.com/google/uuid"
)

var (
	// ApplicationStatusPending indicates that the application is waiting for review
	ApplicationStatusPending = "PENDING"
	// ApplicationStatusUnderReview indicates that a recruiter has started reviewing
	ApplicationStatusUnderReview = "UNDER_REVIEW"
	// ApplicationStatusShortlisted indicates that the applicant made the shortlist
	ApplicationStatusShortlisted = "SHORTLISTED"
	// ApplicationStatusAccepted indicates a final positive decision
	ApplicationStatusAccepted = "ACCEPTED"
	// ApplicationStatusRejected indicates a final negative decision
	ApplicationStatusRejected = "REJECTED"
	// ApplicationStatusWithdrawn indicates the applicant pulled out
	ApplicationStatusWithdrawn = "WITHDRAWN"
)

// Sources an applicant can pick when submitting
var (
	SourceReferral       = "referral"
	SourceJobBoard       = "job-board"
	SourceLinkedin       = "linkedin"
	SourceCompanyWebsite = "company-website"
	SourceOther          = "other"

	// ApplicationSources is the closed enumeration accepted at submission time
	ApplicationSources = []string{
		SourceReferral,
		SourceJobBoard,
		SourceLinkedin,
		SourceCompanyWebsite,
		SourceOther,
	}
)

// Application represents one submitted job application. FormResponse is an
// immutable point-in-time snapshot of what was submitted, never a live
// reference to Profile or OtherInfoAnswer data.
type Application struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	AppliedAt time.Time `gorm:"type:timestamp" json:"applied_at"`
	Status    string    `gorm:"type:text" json:"status"`

	ApplicantID uuid.UUID `gorm:"type:uuid;not null;index" json:"applicant_id"`
	Applicant   User      `gorm:"foreignKey:ApplicantID;references:ID" json:"-"`

	JobPostID uint    `gorm:"not null;index" json:"job_post_id"`
	JobPost   JobPost `gorm:"foreignKey:JobPostID;references:ID" json:"-"`

	FormResponse JSONMap `gorm:"type:jsonb" json:"form_response"`
	CoverLetter  string  `gorm:"type:text" json:"cover_letter"`
	ResumeURL    string  `gorm:"type:text" json:"resume_url"`
	Source       string  `gorm:"type:text" json:"source"`

	ViewedAt        *time.Time `gorm:"type:timestamp" json:"viewed_at,omitempty"`
	StatusUpdatedAt *time.Time `gorm:"type:timestamp" json:"status_updated_at,omitempty"`
}
