package jobpost

import (
	"TalentForm-backend/internal/auth"
	"TalentForm-backend/internal/database"
	"TalentForm-backend/internal/middleware"
	"TalentForm-backend/internal/model"
	"TalentForm-backend/internal/testutil"
	"context"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
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
	jc := NewJobPostController(testDB)
	r := gin.New()
	authed := r.Group("", middleware.RequireAuth(testDB))
	authed.POST("/jobpost", jc.CreateJobPost)
	authed.GET("/jobpost/:id", jc.GetPostByID)
	authed.GET("/jobpost/:id/form", jc.GetApplicationForm)
	authed.PATCH("/jobpost/:id/fields", jc.EditFieldConfiguration)
	return r
}

func login(t *testing.T, username string) string {
	t.Helper()
	token, err := auth.GetAccessToken(t, testDB, username, database.TestSeedPassword)
	require.NoError(t, err)
	return token
}

func TestGetPostByID(t *testing.T) {
	token := login(t, database.TestUserApplicant1.Username)
	r := router()

	rec, resp := testutil.MakeJSONRequest(nil, token, r, fmt.Sprintf("/jobpost/%d", database.TestJobPost1.ID), http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(database.TestJobPost1.ID), resp["id"])
	assert.Equal(t, database.TestJobPost1.Title, resp["title"])

	rec, _ = testutil.MakeJSONRequest(nil, token, r, "/jobpost/999999", http.MethodGet)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetApplicationForm(t *testing.T) {
	token := login(t, database.TestUserApplicant1.Username)
	r := router()

	rec, resp := testutil.MakeJSONRequest(nil, token, r, fmt.Sprintf("/jobpost/%d/form", database.TestJobPost1.ID), http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code)

	// The off field never appears
	fields, ok := resp["fields"].([]interface{})
	require.True(t, ok)
	require.Len(t, fields, 3)
	keys := make([]string, 0, len(fields))
	for _, f := range fields {
		keys = append(keys, f.(map[string]interface{})["key"].(string))
	}
	assert.Equal(t, []string{"full_name", "linkedin_url", "domicile"}, keys)

	// Prior answer wins over the profile attribute; absent data stays empty
	initial, ok := resp["initial_values"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, database.TestProfile1.Fullname, initial["full_name"])
	assert.Equal(t, database.TestAnswerDomicile.Answer, initial["domicile"])
	assert.Equal(t, "", initial["linkedin_url"])

	assert.Equal(t, "", resp["resume_seed"])
}

func TestGetApplicationForm_EmptyForm(t *testing.T) {
	token := login(t, database.TestUserApplicant1.Username)
	r := router()

	rec, resp := testutil.MakeJSONRequest(nil, token, r, fmt.Sprintf("/jobpost/%d/form", database.TestJobPost2.ID), http.MethodGet)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, resp["error"], "no application form")
}

func TestCreateJobPost_WithFieldConfiguration(t *testing.T) {
	token := login(t, database.TestUserRecruiter1.Username)
	r := router()

	rec, resp := testutil.MakeJSONRequest(gin.H{
		"title":    "Data Engineer",
		"type":     "full-time",
		"location": "Remote",
		"fields": []gin.H{
			{"key": model.FieldKeyFullName, "state": "mandatory", "sort_order": 0},
			{"key": model.FieldKeyEmail, "state": "optional", "sort_order": 1},
		},
	}, token, r, "/jobpost", http.MethodPost)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Data Engineer", resp["title"])

	var count int64
	require.NoError(t, testDB.Model(&model.FieldConfiguration{}).
		Where("job_post_id = ?", uint(resp["id"].(float64))).
		Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestCreateJobPost_RejectsUnknownField(t *testing.T) {
	token := login(t, database.TestUserRecruiter1.Username)
	r := router()

	rec, _ := testutil.MakeJSONRequest(gin.H{
		"title":  "Broken",
		"fields": []gin.H{{"key": "no_such_field", "state": "optional"}},
	}, token, r, "/jobpost", http.MethodPost)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEditFieldConfiguration_ToggleRoundTrip(t *testing.T) {
	recruiterToken := login(t, database.TestUserRecruiter1.Username)
	applicantToken := login(t, database.TestUserApplicant1.Username)
	r := router()
	endpoint := fmt.Sprintf("/jobpost/%d/fields", database.TestJobPost1.ID)
	formEndpoint := fmt.Sprintf("/jobpost/%d/form", database.TestJobPost1.ID)

	countConfigs := func() int64 {
		var count int64
		require.NoError(t, testDB.Model(&model.FieldConfiguration{}).
			Where("job_post_id = ?", database.TestJobPost1.ID).
			Count(&count).Error)
		return count
	}
	before := countConfigs()

	// Turn the hidden salary field on
	rec, _ := testutil.MakeJSONRequest(gin.H{
		"fields": []gin.H{{"key": "expected_salary", "state": "optional", "sort_order": 3}},
	}, recruiterToken, r, endpoint, http.MethodPatch)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, resp := testutil.MakeJSONRequest(nil, applicantToken, r, formEndpoint, http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, resp["fields"], 4)

	// And off again; the row survives as a soft-disable
	rec, _ = testutil.MakeJSONRequest(gin.H{
		"fields": []gin.H{{"key": "expected_salary", "state": "off", "sort_order": 3}},
	}, recruiterToken, r, endpoint, http.MethodPatch)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, resp = testutil.MakeJSONRequest(nil, applicantToken, r, formEndpoint, http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, resp["fields"], 3)
	assert.Equal(t, before, countConfigs())
}

func TestEditFieldConfiguration_Rejections(t *testing.T) {
	recruiterToken := login(t, database.TestUserRecruiter1.Username)
	applicantToken := login(t, database.TestUserApplicant1.Username)
	r := router()
	endpoint := fmt.Sprintf("/jobpost/%d/fields", database.TestJobPost1.ID)

	// Not the owner
	rec, _ := testutil.MakeJSONRequest(gin.H{
		"fields": []gin.H{{"key": "expected_salary", "state": "optional"}},
	}, applicantToken, r, endpoint, http.MethodPatch)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Unknown state
	rec, _ = testutil.MakeJSONRequest(gin.H{
		"fields": []gin.H{{"key": "expected_salary", "state": "hidden"}},
	}, recruiterToken, r, endpoint, http.MethodPatch)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
