package form

import (
	"strings"
	"time"

	"TalentForm-backend/internal/model"

	"github.com/google/uuid"
)

// SubmissionPayload is the three-part outbound write a validated submission
// assembles into. The parts must be applied together inside one transaction:
// the Application insert, the Profile update, and the OtherInfoAnswer upserts.
type SubmissionPayload struct {
	Application model.Application
	Profile     model.Profile
	Upserts     []model.OtherInfoAnswer
}

// AssembleInput carries everything the assembler needs besides the validated
// values themselves.
type AssembleInput struct {
	JobPostID   uint
	ApplicantID uuid.UUID
	Visible     []model.FieldConfiguration // photo already split off
	Profile     model.Profile
	Answers     []model.OtherInfoAnswer
	// ResumeURL is the freshly uploaded file's URL or the pre-existing one.
	ResumeURL string
	// PhotoURL is set when a photo_profile attachment was uploaded; it folds
	// into the profile's avatar, never into the answer upserts.
	PhotoURL string
}

// Assemble combines the validated value map, the resolved attachments, and
// the loaded profile into the three-part payload. It is pure: the caller's
// profile value is copied, and the snapshot map is built fresh.
func Assemble(input SubmissionInput, in AssembleInput) SubmissionPayload {
	coverLetter := strings.TrimSpace(input.CoverLetter)

	snapshot := make(model.JSONMap, len(in.Visible)+3)
	for _, fc := range in.Visible {
		snapshot[fc.Field.Key] = input.Values[fc.Field.Key]
	}
	snapshot["resume"] = in.ResumeURL
	snapshot["source"] = input.Source
	snapshot["cover_letter"] = coverLetter

	application := model.Application{
		JobPostID:    in.JobPostID,
		ApplicantID:  in.ApplicantID,
		Status:       model.ApplicationStatusPending,
		AppliedAt:    time.Now(),
		FormResponse: snapshot,
		CoverLetter:  coverLetter,
		ResumeURL:    in.ResumeURL,
		Source:       input.Source,
	}

	profile := in.Profile
	applyProfileDeltas(&profile, input.Values, in.Visible)
	if in.ResumeURL != "" {
		profile.ResumeURL = in.ResumeURL
	}
	if in.PhotoURL != "" {
		profile.AvatarURL = in.PhotoURL
	}

	upserts := make([]model.OtherInfoAnswer, 0, len(in.Visible))
	for _, fc := range in.Visible {
		upsert := model.OtherInfoAnswer{
			ProfileID: profile.ID,
			FieldID:   fc.FieldID,
			Answer:    input.Values[fc.Field.Key],
		}
		if id := AnswerID(in.Answers, fc.FieldID); id != nil {
			upsert.ID = *id
		}
		upserts = append(upserts, upsert)
	}

	return SubmissionPayload{
		Application: application,
		Profile:     profile,
		Upserts:     upserts,
	}
}

// applyProfileDeltas writes submitted values onto the canonical profile
// attributes. Only the fixed mapped keys are touched, and a populated
// attribute is never regressed to empty just because the field was off or
// left blank for this particular job.
func applyProfileDeltas(profile *model.Profile, values map[string]string, visible []model.FieldConfiguration) {
	for _, fc := range visible {
		attr, ok := profileAttribute[fc.Field.Key]
		if !ok {
			continue
		}
		if v := strings.TrimSpace(values[fc.Field.Key]); v != "" {
			attr.set(profile, v)
		}
	}
}
