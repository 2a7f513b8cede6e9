package form

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"TalentForm-backend/internal/model"

	"github.com/go-playground/validator/v10"
)

// validate is the shared validator instance backing the key rules. Schema
// construction itself stays pure so a fresh schema can be built on every
// configuration change with no cached state.
var validate = validator.New()

var phonePattern = regexp.MustCompile(`^\+?[0-9 \-]+$`)

// MinCoverLetterLen is the minimum length of a typed cover letter.
const MinCoverLetterLen = 50

// SubmissionInput is the candidate value set a schema validates: the dynamic
// field values plus the fixed baseline slots every form carries.
type SubmissionInput struct {
	Values map[string]string `json:"values"`
	// Resume is a file reference (upload URL) or a pre-existing profile URL.
	// Presence satisfies the rule; format is the attachment validator's job.
	Resume string `json:"resume"`
	Source string `json:"source"`
	// CoverLetter holds the typed text, or the uploaded file's URL when
	// CoverLetterIsFile is set. Exactly one representation may be present.
	CoverLetter       string `json:"cover_letter"`
	CoverLetterIsFile bool   `json:"cover_letter_is_file"`
}

type fieldRule struct {
	key       string
	label     string
	mandatory bool
	check     func(value string) string
}

// Schema is an executable validation contract built from a job's visible
// field configurations.
type Schema struct {
	rules []fieldRule
	keys  map[string]bool
}

// BuildSchema converts the visible field list into a validation contract.
// Fields with state `off` must already be filtered out by Visible; the
// photo_profile field must already be split off.
func BuildSchema(visible []model.FieldConfiguration) *Schema {
	s := &Schema{keys: make(map[string]bool, len(visible))}
	for _, fc := range visible {
		s.rules = append(s.rules, fieldRule{
			key:       fc.Field.Key,
			label:     fc.Field.Label,
			mandatory: fc.Mandatory(),
			check:     checkerFor(fc.Field),
		})
		s.keys[fc.Field.Key] = true
	}
	return s
}

// Keys returns the set of field keys the schema knows about. Values outside
// this set are rejected at submission time so no non-visible key can sneak
// into the snapshot.
func (s *Schema) Keys() map[string]bool {
	return s.keys
}

// Validate checks the candidate input and returns a per-key error map, empty
// on success.
func (s *Schema) Validate(input SubmissionInput) map[string]string {
	errs := make(map[string]string)

	for _, rule := range s.rules {
		value := strings.TrimSpace(input.Values[rule.key])
		if value == "" {
			if rule.mandatory {
				errs[rule.key] = fmt.Sprintf("%s is required", rule.label)
			}
			continue
		}
		if msg := rule.check(value); msg != "" {
			errs[rule.key] = msg
		}
	}

	for key := range input.Values {
		if !s.keys[key] {
			errs[key] = fmt.Sprintf("Field %s is not part of this form", key)
		}
	}

	if strings.TrimSpace(input.Resume) == "" {
		errs["resume"] = "Resume is required"
	}

	if !validSource(input.Source) {
		errs["source"] = fmt.Sprintf(
			"Source must be one of: %s", strings.Join(model.ApplicationSources, ", "))
	}

	if !input.CoverLetterIsFile {
		if letter := strings.TrimSpace(input.CoverLetter); letter != "" && len(letter) < MinCoverLetterLen {
			errs["cover_letter"] = fmt.Sprintf(
				"Cover letter must be at least %d characters", MinCoverLetterLen)
		}
	}

	return errs
}

func validSource(source string) bool {
	for _, s := range model.ApplicationSources {
		if s == source {
			return true
		}
	}
	return false
}

// checkerFor picks the non-empty-value rule for a descriptor. Key rules take
// precedence over type rules; the state-based empty handling lives in Validate.
func checkerFor(field model.FieldDescriptor) func(string) string {
	switch field.Key {
	case model.FieldKeyEmail:
		return func(v string) string {
			if validate.Var(v, "email") != nil {
				return fmt.Sprintf("%s must be a valid email address", field.Label)
			}
			return ""
		}
	case model.FieldKeyPhoneNumber:
		return func(v string) string {
			if !phonePattern.MatchString(v) {
				return fmt.Sprintf("%s must contain only digits, spaces, and hyphens", field.Label)
			}
			return ""
		}
	case model.FieldKeyLinkedinURL:
		return func(v string) string {
			if validate.Var(v, "url") != nil {
				return fmt.Sprintf("%s must be a valid URL", field.Label)
			}
			return ""
		}
	case model.FieldKeyDateOfBirth:
		// Non-empty is enough unless the catalog carries date hints.
		return dateHintChecker(field)
	}

	switch field.Type {
	case model.FieldTypeEmail:
		return func(v string) string {
			if validate.Var(v, "email") != nil {
				return fmt.Sprintf("%s must be a valid email address", field.Label)
			}
			return ""
		}
	case model.FieldTypeURL:
		return func(v string) string {
			if validate.Var(v, "url") != nil {
				return fmt.Sprintf("%s must be a valid URL", field.Label)
			}
			return ""
		}
	case model.FieldTypePhone:
		return func(v string) string {
			if !phonePattern.MatchString(v) {
				return fmt.Sprintf("%s must contain only digits, spaces, and hyphens", field.Label)
			}
			return ""
		}
	case model.FieldTypeNumber:
		return numberHintChecker(field)
	case model.FieldTypeSelect, model.FieldTypeRadio:
		return func(v string) string {
			for _, opt := range field.Options {
				if opt == v {
					return ""
				}
			}
			return fmt.Sprintf("%s must be one of the provided options", field.Label)
		}
	}

	// Default rule: any non-empty string passes.
	return func(string) string { return "" }
}

func numberHintChecker(field model.FieldDescriptor) func(string) string {
	return func(v string) string {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Sprintf("%s must be a number", field.Label)
		}
		if field.Min != nil && n < *field.Min {
			return fmt.Sprintf("%s must be at least %d", field.Label, *field.Min)
		}
		if field.Max != nil && n > *field.Max {
			return fmt.Sprintf("%s must be at most %d", field.Label, *field.Max)
		}
		return ""
	}
}

func dateHintChecker(field model.FieldDescriptor) func(string) string {
	return func(v string) string {
		if field.MinDate == nil && field.MaxDate == nil {
			return ""
		}
		t, err := parseDate(v)
		if err != nil {
			return fmt.Sprintf("%s must be a valid date", field.Label)
		}
		if field.MinDate != nil && t.Before(*field.MinDate) {
			return fmt.Sprintf("%s is before the earliest allowed date", field.Label)
		}
		if field.MaxDate != nil && t.After(*field.MaxDate) {
			return fmt.Sprintf("%s is after the latest allowed date", field.Label)
		}
		return ""
	}
}
