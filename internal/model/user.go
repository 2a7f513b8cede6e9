// Package model contain gorm model for recording data to database
package model

import (
	"time"

	"github.com/google/uuid"
)

var (
	// RoleApplicant is the role for job seekers filling application forms
	RoleApplicant = "applicant"
	// RoleRecruiter is the role for company users publishing job posts
	RoleRecruiter = "recruiter"
	// RoleAdmin is the role for platform administrators
	RoleAdmin = "admin"
)

// User is the base account record shared by every role
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;not null" json:"username"`
	Password  string    `json:"-"`
	GoogleID  string    `json:"-"`
	Email     *string   `json:"email"`
	Role      string    `gorm:"type:text;not null" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AuthResponse struct holds the response data for login or registration
type AuthResponse struct {
	User        User   `json:"user"`
	AccessToken string `json:"access_token"`
}
