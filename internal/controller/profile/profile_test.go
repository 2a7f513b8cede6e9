package profile

import (
	"context"
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
	pc := NewProfileController(testDB)
	r := gin.New()
	authed := r.Group("", middleware.RequireAuth(testDB))
	authed.GET("/profile/me", pc.GetMyProfile)
	authed.PATCH("/profile/me", pc.EditProfile)
	return r
}

func login(t *testing.T, username string) string {
	t.Helper()
	token, err := auth.GetAccessToken(t, testDB, username, database.TestSeedPassword)
	require.NoError(t, err)
	return token
}

func TestGetMyProfile(t *testing.T) {
	token := login(t, database.TestUserApplicant1.Username)
	r := router()

	rec, resp := testutil.MakeJSONRequest(nil, token, r, "/profile/me", http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, database.TestProfile1.Fullname, resp["fullname"])
	assert.Equal(t, database.TestProfile1.Location, resp["location"])

	answers, ok := resp["other_info_answers"].([]interface{})
	require.True(t, ok)
	assert.Len(t, answers, 1)
}

func TestGetMyProfile_NoProfile(t *testing.T) {
	token := login(t, database.TestUserRecruiter1.Username)
	r := router()

	rec, _ := testutil.MakeJSONRequest(nil, token, r, "/profile/me", http.MethodGet)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEditProfile_MergesNonEmpty(t *testing.T) {
	token := login(t, database.TestUserApplicant1.Username)
	r := router()

	rec, resp := testutil.MakeJSONRequest(gin.H{
		"phone": "+62 811-9999",
	}, token, r, "/profile/me", http.MethodPatch)
	require.Equal(t, http.StatusOK, rec.Code)

	// Only the sent field changed
	assert.Equal(t, "+62 811-9999", resp["phone"])
	assert.Equal(t, database.TestProfile1.Fullname, resp["fullname"])
	assert.Equal(t, database.TestProfile1.Location, resp["location"])

	var stored model.Profile
	require.NoError(t, testDB.Where("user_id = ?", database.TestUserApplicant1.ID).First(&stored).Error)
	assert.Equal(t, "+62 811-9999", stored.Phone)
	assert.Equal(t, database.TestProfile1.Fullname, stored.Fullname)
}

func TestEditProfile_RejectsUnknownFields(t *testing.T) {
	token := login(t, database.TestUserApplicant1.Username)
	r := router()

	rec, _ := testutil.MakeJSONRequest(gin.H{
		"resume_url": "/api/v1/file/42",
	}, token, r, "/profile/me", http.MethodPatch)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
