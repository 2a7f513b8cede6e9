package auth

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"TalentForm-backend/internal/database"
	"TalentForm-backend/internal/model"
	"TalentForm-backend/internal/utilities"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
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

func TestLocalRegister_Applicant(t *testing.T) {
	handler := NewLocalAuthHandler(testDB)

	rec, resp, err := utilities.SimulateAPICall(handler.LocalRegisterHandler, "/register", http.MethodPost, map[string]string{
		"username": "new_applicant",
		"password": "Password123!",
		"role":     "applicant",
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.NotEmpty(t, resp["access_token"])

	// Registration creates the durable profile immediately
	var user model.User
	assert.NoError(t, testDB.Where("username = ?", "new_applicant").First(&user).Error)
	var profile model.Profile
	assert.NoError(t, testDB.Where("user_id = ?", user.ID).First(&profile).Error)
}

func TestLocalRegister_Rejections(t *testing.T) {
	handler := NewLocalAuthHandler(testDB)

	// Duplicate username
	rec, _, err := utilities.SimulateAPICall(handler.LocalRegisterHandler, "/register", http.MethodPost, map[string]string{
		"username": database.TestUserApplicant1.Username,
		"password": "Password123!",
		"role":     "applicant",
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Short password
	rec, _, err = utilities.SimulateAPICall(handler.LocalRegisterHandler, "/register", http.MethodPost, map[string]string{
		"username": "short_pwd_user",
		"password": "short",
		"role":     "applicant",
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Admin cannot self-register
	rec, _, err = utilities.SimulateAPICall(handler.LocalRegisterHandler, "/register", http.MethodPost, map[string]string{
		"username": "wannabe_admin",
		"password": "Password123!",
		"role":     "admin",
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLocalLogin(t *testing.T) {
	handler := NewLocalAuthHandler(testDB)

	rec, resp, err := utilities.SimulateAPICall(handler.LocalLoginHandler, "/login", http.MethodPost, map[string]string{
		"username": database.TestUserApplicant1.Username,
		"password": database.TestSeedPassword,
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, resp["access_token"])

	rec, _, err = utilities.SimulateAPICall(handler.LocalLoginHandler, "/login", http.MethodPost, map[string]string{
		"username": database.TestUserApplicant1.Username,
		"password": "WrongPassword!",
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestValidatedToken_RoundTrip(t *testing.T) {
	token, _, err := GenerateStandardToken(database.TestUserApplicant1.ID)
	assert.NoError(t, err)

	parsed, err := ValidatedToken(token)
	assert.NoError(t, err)
	assert.True(t, parsed.Valid)
}
