package application

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"TalentForm-backend/internal/auth"
	"TalentForm-backend/internal/database"
	"TalentForm-backend/internal/middleware"
	"TalentForm-backend/internal/model"
	"TalentForm-backend/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
)

var testDB *database.DBinstanceStruct

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	var err error
	var midTeardown func(context.Context, ...testcontainers.TerminateOption) error
	midTeardown, testDB, err = database.GetTestDB()
	if err != nil {
		os.Exit(1)
	}
	m.Run()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if midTeardown != nil {
		_ = midTeardown(ctx)
	}
}

func router() *gin.Engine {
	ac := NewApplicationController(testDB)
	r := gin.New()
	authed := r.Group("", middleware.RequireAuth(testDB))
	authed.POST("/application", ac.Submit)
	authed.GET("/application/mine", ac.ListMine)
	authed.PATCH("/application/:id/status", ac.UpdateStatus)
	authed.POST("/application/:id/withdraw", ac.Withdraw)
	authed.GET("/jobpost/:id/applications", ac.ListForPost)
	return r
}

func login(t *testing.T, username string) string {
	t.Helper()
	token, err := auth.GetAccessToken(t, testDB, username, database.TestSeedPassword)
	require.NoError(t, err)
	return token
}

// seedApplication inserts an application directly, bypassing the submit flow.
func seedApplication(t *testing.T, applicantID uuid.UUID, jobPostID uint, status string) model.Application {
	t.Helper()
	app := model.Application{
		ApplicantID: applicantID,
		JobPostID:   jobPostID,
		Status:      status,
		AppliedAt:   time.Now(),
		FormResponse: model.JSONMap{
			"resume": "/api/v1/file/1",
			"source": model.SourceOther,
		},
		ResumeURL: "/api/v1/file/1",
		Source:    model.SourceOther,
	}
	require.NoError(t, testDB.Create(&app).Error)
	return app
}

func validSubmission(values gin.H) gin.H {
	return gin.H{
		"job_post_id": database.TestJobPost1.ID,
		"values":      values,
		"resume":      "/api/v1/file/1",
		"source":      model.SourceLinkedin,
	}
}

func TestSubmit_AppliesThreePartWrite(t *testing.T) {
	token := login(t, database.TestUserApplicant1.Username)
	r := router()

	rec, resp := testutil.MakeJSONRequest(validSubmission(gin.H{
		"full_name":    "John Doe",
		"linkedin_url": "https://linkedin.com/in/johndoe",
		"domicile":     "Surabaya",
	}), token, r, "/application", http.MethodPost)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	assert.Equal(t, model.ApplicationStatusPending, resp["status"])

	// The snapshot carries every visible key plus the baseline slots
	snapshot, ok := resp["form_response"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "John Doe", snapshot["full_name"])
	assert.Equal(t, "Surabaya", snapshot["domicile"])
	assert.Equal(t, "/api/v1/file/1", snapshot["resume"])
	assert.Equal(t, model.SourceLinkedin, snapshot["source"])

	// Profile deltas: the submitted domicile replaces the stored location
	var profile model.Profile
	require.NoError(t, testDB.Preload("OtherInfoAnswers").
		Where("user_id = ?", database.TestUserApplicant1.ID).
		First(&profile).Error)
	assert.Equal(t, "Surabaya", profile.Location)
	assert.Equal(t, "https://linkedin.com/in/johndoe", profile.LinkedinURL)
	assert.Equal(t, "/api/v1/file/1", profile.ResumeURL)

	// The prior domicile answer was updated in place, not duplicated
	var domicileAnswers []model.OtherInfoAnswer
	require.NoError(t, testDB.
		Where("profile_id = ? AND field_id = ?", profile.ID, database.TestAnswerDomicile.FieldID).
		Find(&domicileAnswers).Error)
	require.Len(t, domicileAnswers, 1)
	assert.Equal(t, database.TestAnswerDomicile.ID, domicileAnswers[0].ID)
	assert.Equal(t, "Surabaya", domicileAnswers[0].Answer)
}

func TestSubmit_DuplicateRejected(t *testing.T) {
	token := login(t, database.TestUserApplicant1.Username)
	r := router()

	rec, resp := testutil.MakeJSONRequest(validSubmission(gin.H{
		"full_name": "John Doe",
	}), token, r, "/application", http.MethodPost)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, resp["error"], "already applied")
}

func TestSubmit_ValidationFailure(t *testing.T) {
	token := login(t, database.TestUserApplicant2.Username)
	r := router()

	rec, resp := testutil.MakeJSONRequest(gin.H{
		"job_post_id": database.TestJobPost1.ID,
		"values": gin.H{
			"linkedin_url":   "not a url",
			"favorite_color": "green",
		},
		"source":       "carrier-pigeon",
		"cover_letter": "Too short.",
	}, token, r, "/application", http.MethodPost)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	fields, ok := resp["fields"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Full Name is required", fields["full_name"])
	assert.Contains(t, fields["linkedin_url"], "valid URL")
	assert.Contains(t, fields["favorite_color"], "not part of this form")
	assert.Equal(t, "Resume is required", fields["resume"])
	assert.Contains(t, fields["source"], "must be one of")
	assert.Contains(t, fields["cover_letter"], "at least 50 characters")

	// Nothing was written
	var count int64
	require.NoError(t, testDB.Model(&model.Application{}).
		Where("applicant_id = ?", database.TestUserApplicant2.ID).
		Count(&count).Error)
	assert.Zero(t, count)
}

func TestSubmit_EmptyForm(t *testing.T) {
	token := login(t, database.TestUserApplicant2.Username)
	r := router()

	rec, resp := testutil.MakeJSONRequest(gin.H{
		"job_post_id": database.TestJobPost2.ID,
		"values":      gin.H{},
		"resume":      "/api/v1/file/1",
		"source":      model.SourceOther,
	}, token, r, "/application", http.MethodPost)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, resp["error"], "no application form")
}

func TestUpdateStatus_Pipeline(t *testing.T) {
	recruiterToken := login(t, database.TestUserRecruiter1.Username)
	applicantToken := login(t, database.TestUserApplicant2.Username)
	r := router()

	app := seedApplication(t, database.TestUserApplicant2.ID, database.TestJobPost1.ID, model.ApplicationStatusPending)
	endpoint := fmt.Sprintf("/application/%d/status", app.ID)

	// Skipping review is not a legal edge
	rec, _ := testutil.MakeJSONRequest(gin.H{"status": model.ApplicationStatusAccepted}, recruiterToken, r, endpoint, http.MethodPatch)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Applicants never drive the review pipeline
	rec, _ = testutil.MakeJSONRequest(gin.H{"status": model.ApplicationStatusUnderReview}, applicantToken, r, endpoint, http.MethodPatch)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Withdrawal has its own endpoint
	rec, _ = testutil.MakeJSONRequest(gin.H{"status": model.ApplicationStatusWithdrawn}, recruiterToken, r, endpoint, http.MethodPatch)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	for _, status := range []string{
		model.ApplicationStatusUnderReview,
		model.ApplicationStatusShortlisted,
		model.ApplicationStatusAccepted,
	} {
		rec, resp := testutil.MakeJSONRequest(gin.H{"status": status}, recruiterToken, r, endpoint, http.MethodPatch)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, status, resp["status"])
		assert.NotEmpty(t, resp["status_updated_at"])
	}

	// Accepted is terminal
	rec, _ = testutil.MakeJSONRequest(gin.H{"status": model.ApplicationStatusRejected}, recruiterToken, r, endpoint, http.MethodPatch)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestWithdraw(t *testing.T) {
	applicant2Token := login(t, database.TestUserApplicant2.Username)
	applicant1Token := login(t, database.TestUserApplicant1.Username)
	r := router()

	// A separate post keeps the one-application-per-post rule satisfied
	job := model.JobPost{
		RecruiterID: database.TestUserRecruiter1.ID,
		EditableJobPostInfo: model.EditableJobPostInfo{
			Title: "Withdrawable Post",
			Type:  "contract",
		},
	}
	require.NoError(t, testDB.Create(&job).Error)
	app := seedApplication(t, database.TestUserApplicant2.ID, job.ID, model.ApplicationStatusPending)
	endpoint := fmt.Sprintf("/application/%d/withdraw", app.ID)

	// Only the owner may withdraw
	rec, _ := testutil.MakeJSONRequest(nil, applicant1Token, r, endpoint, http.MethodPost)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, resp := testutil.MakeJSONRequest(nil, applicant2Token, r, endpoint, http.MethodPost)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.ApplicationStatusWithdrawn, resp["status"])

	// Withdrawn is terminal
	rec, _ = testutil.MakeJSONRequest(nil, applicant2Token, r, endpoint, http.MethodPost)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestListForPost_StampsViewedAtOnce(t *testing.T) {
	recruiterToken := login(t, database.TestUserRecruiter1.Username)
	applicantToken := login(t, database.TestUserApplicant1.Username)
	r := router()
	endpoint := fmt.Sprintf("/jobpost/%d/applications", database.TestJobPost1.ID)

	// Applicants cannot read a post's pipeline
	rec, _ := testutil.MakeJSONRequest(nil, applicantToken, r, endpoint, http.MethodGet)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = testutil.MakeJSONRequest(nil, recruiterToken, r, endpoint, http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code)

	var listed []model.Application
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.NotEmpty(t, listed)
	firstSeen := make(map[uint]time.Time, len(listed))
	for _, app := range listed {
		require.NotNil(t, app.ViewedAt)
		firstSeen[app.ID] = *app.ViewedAt
	}

	// A second look keeps the original timestamp
	rec, _ = testutil.MakeJSONRequest(nil, recruiterToken, r, endpoint, http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	for _, app := range listed {
		require.NotNil(t, app.ViewedAt)
		assert.True(t, app.ViewedAt.Equal(firstSeen[app.ID]))
	}
}

func TestListMine(t *testing.T) {
	token := login(t, database.TestUserApplicant1.Username)
	r := router()

	rec, _ := testutil.MakeJSONRequest(nil, token, r, "/application/mine", http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code)

	var listed []model.Application
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.NotEmpty(t, listed)
	for _, app := range listed {
		assert.Equal(t, database.TestUserApplicant1.ID, app.ApplicantID)
	}
}
