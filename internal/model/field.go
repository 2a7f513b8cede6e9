package model

import (
	"time"

	"github.com/lib/pq"
)

// Field types supported by the catalog. They drive which input kind the
// frontend renders and which validation rule the schema builder picks.
var (
	FieldTypeText     = "text"
	FieldTypeEmail    = "email"
	FieldTypeURL      = "url"
	FieldTypePhone    = "phone"
	FieldTypeNumber   = "number"
	FieldTypeSelect   = "select"
	FieldTypeTextarea = "textarea"
	FieldTypeDate     = "date"
	FieldTypeRadio    = "radio"
	FieldTypeCheckbox = "checkbox"
)

// Field keys that get bespoke widgets regardless of their declared type.
var (
	FieldKeyGender       = "gender"
	FieldKeyPhoneNumber  = "phone_number"
	FieldKeyPhotoProfile = "photo_profile"
	FieldKeyLinkedinURL  = "linkedin_url"
	FieldKeyDateOfBirth  = "date_of_birth"
	FieldKeyDomicile     = "domicile"
	FieldKeyFullName     = "full_name"
	FieldKeyEmail        = "email"
)

// Per-job visibility/requirement states of a catalog field.
var (
	FieldStateMandatory = "mandatory"
	FieldStateOptional  = "optional"
	FieldStateOff       = "off"
)

// FieldDescriptor is the catalog-level definition of one answerable question.
// Immutable once referenced by a configuration.
type FieldDescriptor struct {
	ID      uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Key     string         `gorm:"uniqueIndex;not null" json:"key"`
	Label   string         `gorm:"type:text;not null" json:"label"`
	Type    string         `gorm:"type:text;not null" json:"type"`
	Desc    string         `gorm:"type:text" json:"desc"`
	Options pq.StringArray `gorm:"type:text[]" json:"options"`

	// Optional validation hints, only enforced when set.
	Min     *int       `json:"min,omitempty"`
	Max     *int       `json:"max,omitempty"`
	MinDate *time.Time `gorm:"type:timestamp" json:"min_date,omitempty"`
	MaxDate *time.Time `gorm:"type:timestamp" json:"max_date,omitempty"`
}

// FieldConfiguration is the per-job decision about whether/how a descriptor is
// used. One row per (job, field) pair; `off` rows are retained so historical
// jobs keep a stable shape (soft-disable, never deleted).
type FieldConfiguration struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	JobPostID uint    `gorm:"not null;index;uniqueIndex:idx_job_field" json:"job_post_id"`
	JobPost   JobPost `gorm:"foreignKey:JobPostID;references:ID" json:"-"`

	FieldID uint            `gorm:"not null;uniqueIndex:idx_job_field" json:"field_id"`
	Field   FieldDescriptor `gorm:"foreignKey:FieldID;references:ID" json:"field"`

	State     string `gorm:"type:text;not null;default:'optional'" json:"state"`
	SortOrder int    `gorm:"not null;default:0" json:"sort_order"`
}

// Visible reports whether the field takes part in rendering and validation.
func (fc *FieldConfiguration) Visible() bool {
	return fc.State != FieldStateOff
}

// Mandatory reports whether the field must carry a non-empty answer.
func (fc *FieldConfiguration) Mandatory() bool {
	return fc.State == FieldStateMandatory
}
