package form

import (
	"time"

	"TalentForm-backend/internal/model"
)

// PrefillStrategy tries to produce an initial value for one field. The bool
// reports whether the strategy had an answer at all, so an explicitly empty
// prior answer still wins over a later strategy.
type PrefillStrategy func(fc model.FieldConfiguration) (string, bool)

// profileAttribute maps the fixed set of field keys that mirror canonical
// Profile columns. Only these keys ever read from, or write back to, Profile.
var profileAttribute = map[string]struct {
	get func(p *model.Profile) string
	set func(p *model.Profile, v string)
}{
	model.FieldKeyPhoneNumber: {
		get: func(p *model.Profile) string { return p.Phone },
		set: func(p *model.Profile, v string) { p.Phone = v },
	},
	model.FieldKeyDomicile: {
		get: func(p *model.Profile) string { return p.Location },
		set: func(p *model.Profile, v string) { p.Location = v },
	},
	model.FieldKeyLinkedinURL: {
		get: func(p *model.Profile) string { return p.LinkedinURL },
		set: func(p *model.Profile, v string) { p.LinkedinURL = v },
	},
	model.FieldKeyFullName: {
		get: func(p *model.Profile) string { return p.Fullname },
		set: func(p *model.Profile, v string) { p.Fullname = v },
	},
	model.FieldKeyGender: {
		get: func(p *model.Profile) string { return p.Gender },
		set: func(p *model.Profile, v string) { p.Gender = v },
	},
}

// AnswerLookup prefers an answer the applicant explicitly gave to exactly this
// field in a prior context.
func AnswerLookup(answers []model.OtherInfoAnswer) PrefillStrategy {
	byField := make(map[uint]string, len(answers))
	for _, a := range answers {
		byField[a.FieldID] = a.Answer
	}
	return func(fc model.FieldConfiguration) (string, bool) {
		v, ok := byField[fc.FieldID]
		return v, ok
	}
}

// ProfileLookup reads the canonical Profile attribute for the fixed set of
// mapped keys. Unmapped keys never consult the profile.
func ProfileLookup(profile *model.Profile) PrefillStrategy {
	return func(fc model.FieldConfiguration) (string, bool) {
		attr, ok := profileAttribute[fc.Field.Key]
		if !ok || profile == nil {
			return "", false
		}
		if v := attr.get(profile); v != "" {
			return v, true
		}
		return "", false
	}
}

// Prefill resolves the one-shot initial value set for the visible fields,
// trying each strategy in order, first match wins. No strategy matching means
// empty string; data is never fabricated.
func Prefill(visible []model.FieldConfiguration, strategies ...PrefillStrategy) map[string]string {
	values := make(map[string]string, len(visible))
	for _, fc := range visible {
		values[fc.Field.Key] = ""
		for _, try := range strategies {
			if v, ok := try(fc); ok {
				values[fc.Field.Key] = v
				break
			}
		}
	}
	return values
}

// ResumeSeed returns the initial resume slot value: the profile's stored
// resume URL when present, otherwise empty. A file chosen in the current
// session always replaces the seed on the client side.
func ResumeSeed(profile *model.Profile) string {
	if profile == nil {
		return ""
	}
	return profile.ResumeURL
}

// AnswerID reports the id of an existing answer for a field, so the
// submission upsert can update rather than insert.
func AnswerID(answers []model.OtherInfoAnswer, fieldID uint) *uint {
	for _, a := range answers {
		if a.FieldID == fieldID {
			id := a.ID
			return &id
		}
	}
	return nil
}

func parseDate(v string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, v)
}
