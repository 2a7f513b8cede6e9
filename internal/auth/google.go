package auth

import (
	"TalentForm-backend/internal/database"
	"TalentForm-backend/internal/model"
	"TalentForm-backend/internal/utilities"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"gorm.io/gorm"
)

// GoogleLoginHandler exchanges an OAuth authorization code for a Google
// profile and logs the applicant in, creating the account and an empty
// durable profile on first sign-in.
type GoogleLoginHandler struct {
	DB          *database.DBinstanceStruct
	Oauth       *oauth2.Config
	UserInfoURL string
}

// NewGoogleLoginHandler creates a new instance of GoogleLoginHandler.
func NewGoogleLoginHandler(db *database.DBinstanceStruct, oauth *oauth2.Config, userInfoURL string) *GoogleLoginHandler {
	return &GoogleLoginHandler{
		DB:          db,
		Oauth:       oauth,
		UserInfoURL: userInfoURL,
	}
}

type googleUserInfo struct {
	GID       string `json:"sub"`
	FirstName string `json:"given_name"`
	LastName  string `json:"family_name"`
	Email     string `json:"email"`
}

func (gh *GoogleLoginHandler) fetchUserInfo(c *gin.Context) (googleUserInfo, error) {
	var uInfo googleUserInfo

	var body struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("No authorization code provided: %s", err.Error()),
		})
		return uInfo, err
	}

	token, err := gh.Oauth.Exchange(context.Background(), body.Code)
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to receive token: %s", err.Error()),
		})
		return uInfo, err
	}

	client := gh.Oauth.Client(context.Background(), token)
	resp, err := client.Get(gh.UserInfoURL)
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch user information: %s", err.Error()),
		})
		return uInfo, err
	}
	defer func() { _ = resp.Body.Close() }()

	if err := json.NewDecoder(resp.Body).Decode(&uInfo); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to decode user info: %s", err.Error()),
		})
		return uInfo, err
	}
	return uInfo, nil
}

// ApplicantGoogleLoginHandler logs an applicant in via Google OAuth.
// @Summary Google sign-in for applicants
// @Tags Auth
// @Accept json
// @Produce json
// @Success 200 {object} model.AuthResponse "Existing user logged in"
// @Success 201 {object} model.AuthResponse "New user created"
// @Failure 400 {object} utilities.ErrorResponse "Missing or invalid authorization code"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /auth/google/applicant [post]
func (gh *GoogleLoginHandler) ApplicantGoogleLoginHandler(c *gin.Context) {
	uInfo, err := gh.fetchUserInfo(c)
	if err != nil {
		return
	}

	respStatus := http.StatusOK

	var user model.User
	err = gh.DB.Where("google_id = ?", uInfo.GID).First(&user).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		email := uInfo.Email
		user = model.User{
			Username: uInfo.Email,
			Email:    &email,
			GoogleID: uInfo.GID,
			Role:     model.RoleApplicant,
		}
		if err := gh.DB.Create(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Failed to create user: %s", err.Error()),
			})
			return
		}

		profile := model.Profile{
			UserID: user.ID,
			EditableProfileInfo: model.EditableProfileInfo{
				Fullname: fmt.Sprintf("%s %s", uInfo.FirstName, uInfo.LastName),
			},
		}
		if err := gh.DB.Create(&profile).Error; err != nil {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Failed to create profile: %s", err.Error()),
			})
			return
		}

		respStatus = http.StatusCreated

	case err != nil:
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %s", err.Error()),
		})
		return
	}

	accessToken, _, err := GenerateStandardToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to generate access token: %s", err.Error()),
		})
		return
	}

	LogAuthAttempt("info", "Google", "Success", user.Username, "")
	c.JSON(respStatus, model.AuthResponse{
		User:        user,
		AccessToken: accessToken,
	})
}

// Callback echoes the authorization code back for frontend development.
func (gh *GoogleLoginHandler) Callback(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"code": c.Query("code")})
}
