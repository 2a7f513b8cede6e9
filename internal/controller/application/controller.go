// Package application provides HTTP handlers for job application operations.
package application

import (
	"TalentForm-backend/internal/database"
	"TalentForm-backend/internal/form"
	"TalentForm-backend/internal/model"
	"TalentForm-backend/internal/utilities"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ApplicationController handles job application related endpoints
type ApplicationController struct {
	DB *database.DBinstanceStruct
}

// NewApplicationController creates a new instance of ApplicationController with the provided database connection.
func NewApplicationController(db *database.DBinstanceStruct) *ApplicationController {
	return &ApplicationController{
		DB: db,
	}
}

// submitRequest is the submission body: the target post, the dynamic field
// values plus baseline slots, and the optionally uploaded profile photo URL.
type submitRequest struct {
	JobPostID uint `json:"job_post_id"`
	form.SubmissionInput
	Photo string `json:"photo"`
}

// Submit validates a submission against the job's form and applies the
// three-part write: the application snapshot, the profile update, and the
// reusable answer upserts. All three land in one transaction, so a failure
// leaves no partial state behind.
// @Summary Submit a job application
// @Description Only applicants can access this endpoint. The value map may only carry keys belonging to the job's visible fields; validation failures return a per-field error map.
// @Tags Application
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param application body submitRequest true "Application information"
// @Success 201 {object} model.Application "Successfully apply to job post"
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body, duplicate application, or invalid reference"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as applicant"
// @Failure 404 {object} utilities.ErrorResponse "Job post not found, or no form configured"
// @Failure 422 {object} utilities.ValidationErrorResponse "Validation failed"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /application [post]
func (ac *ApplicationController) Submit(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	req := submitRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	var job model.JobPost
	if err := ac.DB.First(&job, req.JobPostID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Job post not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve job post: %s", err.Error()),
		})
		return
	}

	// One application per (applicant, post); withdrawn ones included
	existing := model.Application{}
	if err := ac.DB.
		Where("applicant_id = ? AND job_post_id = ?", user.ID, req.JobPostID).
		First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "You have already applied to this job post",
		})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: "Failed to check existing application",
		})
		return
	}

	configs, err := form.ResolveFieldConfiguration(ac.DB.DB, req.JobPostID)
	if err != nil {
		if errors.Is(err, form.ErrEmptyForm) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{
				Error: "This job post has no application form",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to resolve field configuration: %s", err.Error()),
		})
		return
	}

	profile := model.Profile{}
	if err := ac.DB.Preload("OtherInfoAnswers").
		Where("user_id = ?", user.ID).
		First(&profile).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Failed to retrieve profile: %s", err.Error()),
			})
			return
		}
		profile = model.Profile{UserID: user.ID}
		if err := ac.DB.Create(&profile).Error; err != nil {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Failed to create profile: %s", err.Error()),
			})
			return
		}
	}

	visible := form.Visible(configs)
	generic, photo := form.SplitPhoto(visible)

	schema := form.BuildSchema(generic)
	fieldErrs := schema.Validate(req.SubmissionInput)
	if photo != nil && photo.Mandatory() && strings.TrimSpace(req.Photo) == "" {
		fieldErrs[photo.Field.Key] = fmt.Sprintf("%s is required", photo.Field.Label)
	}
	if len(fieldErrs) > 0 {
		c.JSON(http.StatusUnprocessableEntity, utilities.ValidationErrorResponse{
			Error:  "Validation failed",
			Fields: fieldErrs,
		})
		return
	}

	payload := form.Assemble(req.SubmissionInput, form.AssembleInput{
		JobPostID:   req.JobPostID,
		ApplicantID: user.ID,
		Visible:     generic,
		Profile:     profile,
		Answers:     profile.OtherInfoAnswers,
		ResumeURL:   req.Resume,
		PhotoURL:    req.Photo,
	})

	err = ac.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&payload.Application).Error; err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Save(&payload.Profile).Error; err != nil {
			return err
		}
		for i := range payload.Upserts {
			up := &payload.Upserts[i]
			if up.ID != 0 {
				if err := tx.Model(&model.OtherInfoAnswer{}).
					Where("id = ?", up.ID).
					Update("answer", up.Answer).Error; err != nil {
					return err
				}
				continue
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "profile_id"}, {Name: "field_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"answer"}),
			}).Create(up).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		var pqErr *pgconn.PgError
		// Foreign key violation means the post or a file reference is invalid
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
				Error: fmt.Sprintf("Invalid reference in application: %s", err.Error()),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to create application: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusCreated, payload.Application)
}

// ListMine returns the requesting applicant's applications, newest first.
// @Summary List own applications
// @Tags Application
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {array} model.Application "Applications of the requesting user"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /application/mine [get]
func (ac *ApplicationController) ListMine(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var applications []model.Application
	if err := ac.DB.
		Where("applicant_id = ?", user.ID).
		Order("applied_at DESC").
		Find(&applications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch applications: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, applications)
}

// ListForPost returns every application of a job post the requesting recruiter
// owns, stamping ViewedAt on first sight.
// @Summary List applications of a job post
// @Description Only the recruiter that owns the post or an admin has access to this endpoint. Unseen applications get their viewed timestamp set by this call.
// @Tags Application
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of desired job post"
// @Success 200 {array} model.Application "Applications of the job post"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not the owner of this job post"
// @Failure 404 {object} utilities.ErrorResponse "Job post not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobpost/{id}/applications [get]
func (ac *ApplicationController) ListForPost(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	id := c.Param("id")
	job := model.JobPost{}
	if err := ac.DB.Where("id = ?", id).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Job post not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve job post: %s", err.Error()),
		})
		return
	}

	if job.RecruiterID.String() != user.ID.String() && user.Role != model.RoleAdmin {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{
			Error: "You are not allowed to view applications of this job post",
		})
		return
	}

	// First sight stamps the viewed timestamp; later calls leave it alone
	if err := ac.DB.Model(&model.Application{}).
		Where("job_post_id = ? AND viewed_at IS NULL", job.ID).
		Update("viewed_at", time.Now()).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to mark applications viewed: %s", err.Error()),
		})
		return
	}

	var applications []model.Application
	if err := ac.DB.
		Where("job_post_id = ?", job.ID).
		Order("applied_at DESC").
		Find(&applications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch applications: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, applications)
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus moves an application along the review pipeline.
// @Summary Update application status
// @Description Only the recruiter that owns the post or an admin has access to this endpoint. Withdrawal is the applicant's own endpoint, not a reachable status here.
// @Tags Application
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of desired application"
// @Param status body statusRequest true "Target status"
// @Success 200 {object} model.Application "Application with the new status"
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body or target status"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not the owner of this job post"
// @Failure 404 {object} utilities.ErrorResponse "Application not found"
// @Failure 409 {object} utilities.ErrorResponse "Transition not allowed from the current status"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /application/{id}/status [patch]
func (ac *ApplicationController) UpdateStatus(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	req := statusRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}
	if req.Status == model.ApplicationStatusWithdrawn {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Withdrawal is only available to the applicant",
		})
		return
	}

	application, ok := ac.loadApplication(c)
	if !ok {
		return
	}

	if application.JobPost.RecruiterID.String() != user.ID.String() && user.Role != model.RoleAdmin {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{
			Error: "You are not allowed to update this application",
		})
		return
	}

	if err := application.Transition(req.Status); err != nil {
		c.JSON(http.StatusConflict, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	if err := ac.DB.Model(&application).
		Select("status", "status_updated_at").
		Updates(&application).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update application: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, application)
}

// Withdraw lets the applicant pull a still-running application.
// @Summary Withdraw own application
// @Description Only the applicant that submitted the application has access to this endpoint. Applications in a final status can no longer be withdrawn.
// @Tags Application
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of desired application"
// @Success 200 {object} model.Application "Withdrawn application"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not the owner of this application"
// @Failure 404 {object} utilities.ErrorResponse "Application not found"
// @Failure 409 {object} utilities.ErrorResponse "Application already in a final status"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /application/{id}/withdraw [post]
func (ac *ApplicationController) Withdraw(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	application, ok := ac.loadApplication(c)
	if !ok {
		return
	}

	if application.ApplicantID.String() != user.ID.String() {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{
			Error: "You are not allowed to withdraw this application",
		})
		return
	}

	if err := application.Transition(model.ApplicationStatusWithdrawn); err != nil {
		c.JSON(http.StatusConflict, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	if err := ac.DB.Model(&application).
		Select("status", "status_updated_at").
		Updates(&application).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update application: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, application)
}

// loadApplication loads the application in the path with its job post.
func (ac *ApplicationController) loadApplication(c *gin.Context) (model.Application, bool) {
	id := c.Param("id")

	application := model.Application{}
	if err := ac.DB.Preload("JobPost").Where("id = ?", id).First(&application).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Application not found"})
			return application, false
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve application: %s", err.Error()),
		})
		return application, false
	}

	return application, true
}
