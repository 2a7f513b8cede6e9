package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// EditableJobPostInfo groups the fields a recruiter may change after posting.
// Ownership and timing fields live on JobPost itself.
type EditableJobPostInfo struct {
	Title    string         `gorm:"type:text" json:"title"`
	Desc     string         `gorm:"type:text" json:"desc"`
	Req      string         `gorm:"type:text" json:"req"`
	Location string         `gorm:"type:text" json:"location"`
	Type     string         `gorm:"type:text" json:"type"`
	Salary   string         `gorm:"type:text" json:"salary"`
	Tags     pq.StringArray `gorm:"type:text[]" json:"tags"`
	Expiring *time.Time     `gorm:"type:timestamp" json:"expiring,omitempty"`
}

// JobPost is gorm model for store job post data in DB
type JobPost struct {
	ID          uint      `gorm:"primaryKey;autoIncrement;->" json:"id"`
	RecruiterID uuid.UUID `gorm:"type:uuid;not null;index;<-:create" json:"recruiter_id"`
	Recruiter   User      `gorm:"foreignKey:RecruiterID;references:ID" json:"-"`

	EditableJobPostInfo `gorm:"embedded"`

	PostTime time.Time `gorm:"type:timestamp;default:CURRENT_TIMESTAMP;->" json:"post_time"`

	FieldConfigurations []FieldConfiguration `gorm:"foreignKey:JobPostID" json:"field_configurations"`
	Applications        []Application        `gorm:"foreignKey:JobPostID" json:"applications"`
}
