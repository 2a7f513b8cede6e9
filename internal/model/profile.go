package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EditableProfileInfo groups the canonical applicant attributes that both the
// profile-editing endpoint and the submission flow are allowed to overwrite.
type EditableProfileInfo struct {
	Fullname    string `json:"fullname"`
	Phone       string `json:"phone"`
	Location    string `json:"location"`
	LinkedinURL string `json:"linkedin_url"`
	Gender      string `json:"gender"`
}

// Profile is the durable applicant profile. One per user; mutated by the
// submission flow and by the profile-editing endpoint.
type Profile struct {
	gorm.Model          `gorm:"embedded"`
	EditableProfileInfo `gorm:"embedded"`

	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	User   User      `gorm:"foreignKey:UserID;references:ID" json:"user"`

	ResumeURL string `json:"resume_url"`
	AvatarURL string `json:"avatar_url"`

	OtherInfoAnswers []OtherInfoAnswer `gorm:"foreignKey:ProfileID" json:"other_info_answers"`
}
