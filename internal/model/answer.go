package model

// OtherInfoAnswer stores an applicant's previously given answer to a
// non-canonical field, reusable across jobs. At most one per (profile, field)
// pair; upserted by the submission flow, never deleted.
type OtherInfoAnswer struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	ProfileID uint    `gorm:"not null;uniqueIndex:idx_profile_field" json:"profile_id"`
	Profile   Profile `gorm:"foreignKey:ProfileID;references:ID" json:"-"`

	FieldID uint            `gorm:"not null;uniqueIndex:idx_profile_field" json:"field_id"`
	Field   FieldDescriptor `gorm:"foreignKey:FieldID;references:ID" json:"field"`

	Answer string `gorm:"type:text" json:"answer"`
}
