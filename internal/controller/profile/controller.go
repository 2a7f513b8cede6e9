// Package profile provides HTTP handlers for the durable applicant profile.
package profile

import (
	"TalentForm-backend/internal/database"
	"TalentForm-backend/internal/model"
	"TalentForm-backend/internal/utilities"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ProfileController handles profile related endpoints
type ProfileController struct {
	DB *database.DBinstanceStruct
}

// NewProfileController creates a new instance of ProfileController
func NewProfileController(db *database.DBinstanceStruct) *ProfileController {
	return &ProfileController{
		DB: db,
	}
}

// GetMyProfile returns the requesting user's profile with its accumulated
// answers.
// @Summary Get own profile
// @Tags Profile
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {object} model.Profile "Profile of the requesting user"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "No profile for this user"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /profile/me [get]
func (pc *ProfileController) GetMyProfile(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	profile := model.Profile{}
	if err := pc.DB.
		Preload("User").
		Preload("OtherInfoAnswers").
		Where("user_id = ?", user.ID.String()).
		First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve profile: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, profile)
}

// EditProfile merges non-empty fields of the request body into the profile.
// @Summary Edit own profile
// @Description Empty fields in the body leave the stored value untouched.
// @Tags Profile
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param profile body model.EditableProfileInfo true "Profile fields to change"
// @Success 200 {object} model.Profile "Updated profile"
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "No profile for this user"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /profile/me [patch]
func (pc *ProfileController) EditProfile(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	profile := model.Profile{}
	if err := pc.DB.
		Where("user_id = ?", user.ID.String()).
		First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve profile: %s", err.Error()),
		})
		return
	}

	incoming := model.EditableProfileInfo{}
	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&incoming); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	utilities.MergeNonEmpty(&profile.EditableProfileInfo, &incoming)

	if err := pc.DB.Omit("User", "OtherInfoAnswers").Save(&profile).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update profile: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, profile)
}
