// Package form implements the dynamic application form engine: resolving a
// job's field configuration into a renderable field list, building the
// validation schema, prefilling initial values, validating attachments, and
// assembling a submission into its three coordinated writes.
package form

import (
	"errors"
	"sort"

	"TalentForm-backend/internal/model"

	"gorm.io/gorm"
)

// ErrEmptyForm signals that a job post has no field configuration at all.
// Callers must surface this as an explicit empty-form state, distinct from a
// database or network failure.
var ErrEmptyForm = errors.New("no application form configured for this job post")

// ResolveFieldConfiguration fetches the full ordered field configuration of a
// job post, descriptors included. The returned list still contains `off` rows;
// rendering and validation callers go through Visible.
func ResolveFieldConfiguration(db *gorm.DB, jobPostID uint) ([]model.FieldConfiguration, error) {
	var configs []model.FieldConfiguration
	err := db.Preload("Field").
		Where("job_post_id = ?", jobPostID).
		Order("sort_order ASC").
		Find(&configs).Error
	if err != nil {
		return nil, err
	}
	if len(configs) == 0 {
		return nil, ErrEmptyForm
	}
	return configs, nil
}

// Visible filters out `off` rows and returns the remaining configurations in
// sort order. The input is not mutated.
func Visible(configs []model.FieldConfiguration) []model.FieldConfiguration {
	visible := make([]model.FieldConfiguration, 0, len(configs))
	for _, fc := range configs {
		if fc.Visible() {
			visible = append(visible, fc)
		}
	}
	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].SortOrder < visible[j].SortOrder
	})
	return visible
}

// SplitPhoto removes the photo_profile field from the generic list, returning
// it separately. The photo is rendered as an image upload control and is never
// part of the text schema.
func SplitPhoto(visible []model.FieldConfiguration) ([]model.FieldConfiguration, *model.FieldConfiguration) {
	generic := make([]model.FieldConfiguration, 0, len(visible))
	var photo *model.FieldConfiguration
	for i := range visible {
		if visible[i].Field.Key == model.FieldKeyPhotoProfile {
			fc := visible[i]
			photo = &fc
			continue
		}
		generic = append(generic, visible[i])
	}
	return generic, photo
}

// InputKind names the widget class the frontend renders for a field.
type InputKind string

// Input kinds understood by the frontend
const (
	InputSingleLine  InputKind = "single-line"
	InputMultiLine   InputKind = "multi-line"
	InputNumeric     InputKind = "numeric"
	InputOneOf       InputKind = "one-of"
	InputBoolean     InputKind = "boolean"
	InputCalendar    InputKind = "calendar"
	InputGender      InputKind = "gender-choice"
	InputPhoneNumber InputKind = "phone-composite"
	InputPhoto       InputKind = "photo-upload"
)

// InputKindFor resolves the render strategy for a descriptor: special-cased
// keys win over the declared field type.
func InputKindFor(field model.FieldDescriptor) InputKind {
	switch field.Key {
	case model.FieldKeyGender:
		return InputGender
	case model.FieldKeyPhoneNumber:
		return InputPhoneNumber
	case model.FieldKeyPhotoProfile:
		return InputPhoto
	}

	switch field.Type {
	case model.FieldTypeTextarea:
		return InputMultiLine
	case model.FieldTypeNumber:
		return InputNumeric
	case model.FieldTypeSelect, model.FieldTypeRadio:
		return InputOneOf
	case model.FieldTypeCheckbox:
		return InputBoolean
	case model.FieldTypeDate:
		return InputCalendar
	default:
		// text, email, url, phone
		return InputSingleLine
	}
}

// RenderField is one entry of the render plan handed to the frontend.
type RenderField struct {
	Key       string                `json:"key"`
	Label     string                `json:"label"`
	Desc      string                `json:"desc,omitempty"`
	InputKind InputKind             `json:"input_kind"`
	State     string                `json:"state"`
	SortOrder int                   `json:"sort_order"`
	Options   []string              `json:"options,omitempty"`
	Field     model.FieldDescriptor `json:"field"`
}

// RenderPlan maps visible configurations to frontend render instructions.
func RenderPlan(visible []model.FieldConfiguration) []RenderField {
	plan := make([]RenderField, 0, len(visible))
	for _, fc := range visible {
		plan = append(plan, RenderField{
			Key:       fc.Field.Key,
			Label:     fc.Field.Label,
			Desc:      fc.Field.Desc,
			InputKind: InputKindFor(fc.Field),
			State:     fc.State,
			SortOrder: fc.SortOrder,
			Options:   fc.Field.Options,
			Field:     fc.Field,
		})
	}
	return plan
}
