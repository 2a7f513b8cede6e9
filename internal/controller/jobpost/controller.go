// Package jobpost provides HTTP handlers for job post and application form
// configuration operations.
package jobpost

import (
	"TalentForm-backend/internal/database"
	"TalentForm-backend/internal/form"
	"TalentForm-backend/internal/model"
	"TalentForm-backend/internal/utilities"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// JobPostController handles job post related endpoints
type JobPostController struct {
	DB *database.DBinstanceStruct
}

// NewJobPostController creates a new instance of JobPostController
func NewJobPostController(db *database.DBinstanceStruct) *JobPostController {
	return &JobPostController{
		DB: db,
	}
}

// fieldConfigInput names one catalog field and its per-job state. The field is
// addressed by id or by catalog key, id winning when both are present.
type fieldConfigInput struct {
	FieldID   uint   `json:"field_id"`
	Key       string `json:"key"`
	State     string `json:"state"`
	SortOrder int    `json:"sort_order"`
}

type createJobPostRequest struct {
	model.EditableJobPostInfo
	Fields []fieldConfigInput `json:"fields"`
}

func validState(state string) bool {
	return state == model.FieldStateMandatory ||
		state == model.FieldStateOptional ||
		state == model.FieldStateOff
}

// resolveField loads the catalog descriptor the input addresses.
func (jc *JobPostController) resolveField(in fieldConfigInput) (model.FieldDescriptor, error) {
	var field model.FieldDescriptor
	if in.FieldID != 0 {
		return field, jc.DB.First(&field, in.FieldID).Error
	}
	return field, jc.DB.Where("key = ?", in.Key).First(&field).Error
}

// CreateJobPost handles the creation of a new job post by a recruiter,
// including the per-job form configuration.
// @Summary Create job post based on given json structure
// @Description Only recruiters have access to this endpoint. Fields reference the shared catalog by id or key; omitted catalog fields are simply not part of this job's form.
// @Tags Jobpost
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param Jobpost body createJobPostRequest true "Input jobpost information"
// @Success 201 {object} model.JobPost "Successfully create job post"
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body, unknown field or state"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as recruiter"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobpost [post]
func (jc *JobPostController) CreateJobPost(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	req := createJobPostRequest{}
	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	jobPost := model.JobPost{
		RecruiterID:         user.ID,
		EditableJobPostInfo: req.EditableJobPostInfo,
	}

	for _, in := range req.Fields {
		if !validState(in.State) {
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
				Error: fmt.Sprintf("Invalid field state %q", in.State),
			})
			return
		}
		field, err := jc.resolveField(in)
		if err != nil {
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
				Error: fmt.Sprintf("Unknown catalog field (id=%d, key=%q)", in.FieldID, in.Key),
			})
			return
		}
		jobPost.FieldConfigurations = append(jobPost.FieldConfigurations, model.FieldConfiguration{
			FieldID:   field.ID,
			State:     in.State,
			SortOrder: in.SortOrder,
		})
	}

	if err := jc.DB.Create(&jobPost).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprint("Failed to create job post: ", err),
		})
		return
	}

	c.JSON(http.StatusCreated, jobPost)
}

// GetPosts fetches all non-expired job posts that match query from the database
// and returns them as a JSON response.
// @Summary Get non-expired job posts based on query
// @Description Every query are not required, but they have specific use defined in their description
// @Tags Jobpost
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param search query string false "Search from job post title with substring matching and case insensitive"
// @Param type query string false "Job type field with substring matching and case insensitive"
// @Param tag query string false "Search if tags field contain tag param, no substring matching and case insensitive"
// @Param location query string false "Search from location with substring matching and case insensitive"
// @Param desc query boolean false "Sorting by post time in descending if true, otherwise ascending"
// @Success 200 {array} model.JobPost "Return non-expired job post(s)"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobpost [get]
func (jc *JobPostController) GetPosts(c *gin.Context) {
	rawSearch := c.Query("search")
	rawJobType := c.Query("type")
	rawTag := c.Query("tag")
	rawLocation := c.Query("location")
	rawDesc := c.Query("desc")

	var posts []model.JobPost

	result := jc.DB.Preload("FieldConfigurations.Field").
		Where("expiring > ? OR expiring IS NULL", time.Now())

	if rawSearch != "" {
		result = result.Where("title ILIKE ?", "%"+rawSearch+"%")
	}

	if rawJobType != "" {
		result = result.Where("type ILIKE ?", "%"+rawJobType+"%")
	}

	if rawTag != "" {
		result = result.Where("? ILIKE ANY(tags)", rawTag)
	}

	if rawLocation != "" {
		result = result.Where("location ILIKE ?", "%"+rawLocation+"%")
	}

	result = result.Order(clause.OrderByColumn{
		Column: clause.Column{Name: "post_time"},
		Desc:   strings.ToLower(rawDesc) == "true",
	}).Find(&posts)

	if err := result.Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprint("Failed to fetch job post: ", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, posts)
}

// GetPostByID fetches a job post by its ID from the database
// and returns it as a JSON response.
// @Summary Get job post by ID
// @Description Retrieve a specific job post using its unique ID
// @Tags Jobpost
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of desired job post"
// @Success 200 {object} model.JobPost "Return the job post with the specified ID"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Job post not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobpost/{id} [get]
func (jc *JobPostController) GetPostByID(c *gin.Context) {
	id := c.Param("id")

	job := model.JobPost{}
	if err := jc.DB.
		Preload("FieldConfigurations", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Preload("FieldConfigurations.Field").
		Where("id = ?", id).
		First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Job post not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve job post: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, job)
}

// EditJobPost allows a recruiter to update a job post they own.
// @Summary Edit job post based on given json structure
// @Description Only the recruiter that owns the post or an admin has access to this endpoint
// @Tags Jobpost
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of desired job post"
// @Param Jobpost body model.EditableJobPostInfo true "Input jobpost information"
// @Success 200 {object} model.JobPost "Successfully update job post"
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Do not have permission to edit"
// @Failure 404 {object} utilities.ErrorResponse "Post not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobpost/{id} [patch]
func (jc *JobPostController) EditJobPost(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	job, ok := jc.loadOwnedPost(c, user)
	if !ok {
		return
	}

	updated := model.JobPost{}
	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&updated.EditableJobPostInfo); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to parse request body: %s", err.Error()),
		})
		return
	}

	if err := jc.DB.Model(&job).Updates(updated).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update job post: %s", err.Error()),
		})
		return
	}

	if err := jc.DB.Where("id = ?", job.ID).First(&job).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve updated job post: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, job)
}

// DeleteJobPost allows a recruiter to delete a job post they own.
// @Summary Delete given job post ID
// @Description Only the recruiter that owns the post or an admin has access to this endpoint
// @Tags Jobpost
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of desired job post"
// @Success 200 {object} utilities.MessageResponse "Successfully delete job post"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Do not have permission to delete this post"
// @Failure 404 {object} utilities.ErrorResponse "Post not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobpost/{id} [delete]
func (jc *JobPostController) DeleteJobPost(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	job, ok := jc.loadOwnedPost(c, user)
	if !ok {
		return
	}

	if err := jc.DB.Delete(&job).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to delete job post: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, utilities.MessageResponse{Message: "Job post deleted"})
}

// loadOwnedPost loads the job post in the path and enforces ownership. Admins
// bypass the ownership check.
func (jc *JobPostController) loadOwnedPost(c *gin.Context, user model.User) (model.JobPost, bool) {
	id := c.Param("id")

	job := model.JobPost{}
	if err := jc.DB.Where("id = ?", id).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Job post not found"})
			return job, false
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve job post: %s", err.Error()),
		})
		return job, false
	}

	if job.RecruiterID.String() != user.ID.String() && user.Role != model.RoleAdmin {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{
			Error: "You are not allowed to modify this job post",
		})
		return job, false
	}

	return job, true
}

type editFieldsRequest struct {
	Fields []fieldConfigInput `json:"fields"`
}

// EditFieldConfiguration updates the per-job form configuration. Rows are
// upserted per (job, field) pair; turning a field off keeps its row so the
// historical shape stays stable.
// @Summary Reconfigure the application form of a job post
// @Description Only the recruiter that owns the post or an admin has access to this endpoint. Fields absent from the request keep their current configuration.
// @Tags Jobpost
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of desired job post"
// @Param Fields body editFieldsRequest true "Field configuration changes"
// @Success 200 {object} model.JobPost "Job post with the updated configuration"
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body, unknown field or state"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Do not have permission to edit"
// @Failure 404 {object} utilities.ErrorResponse "Post not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobpost/{id}/fields [patch]
func (jc *JobPostController) EditFieldConfiguration(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	job, ok := jc.loadOwnedPost(c, user)
	if !ok {
		return
	}

	req := editFieldsRequest{}
	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}
	if len(req.Fields) == 0 {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "No field changes given"})
		return
	}

	rows := make([]model.FieldConfiguration, 0, len(req.Fields))
	for _, in := range req.Fields {
		if !validState(in.State) {
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
				Error: fmt.Sprintf("Invalid field state %q", in.State),
			})
			return
		}
		field, err := jc.resolveField(in)
		if err != nil {
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
				Error: fmt.Sprintf("Unknown catalog field (id=%d, key=%q)", in.FieldID, in.Key),
			})
			return
		}
		rows = append(rows, model.FieldConfiguration{
			JobPostID: job.ID,
			FieldID:   field.ID,
			State:     in.State,
			SortOrder: in.SortOrder,
		})
	}

	err = jc.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "job_post_id"}, {Name: "field_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"state", "sort_order"}),
	}).Create(&rows).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update field configuration: %s", err.Error()),
		})
		return
	}

	if err := jc.DB.
		Preload("FieldConfigurations", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Preload("FieldConfigurations.Field").
		First(&job, job.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve updated job post: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, job)
}

// applicationFormResponse is the one-shot payload the frontend renders the
// application form from.
type applicationFormResponse struct {
	JobPostID     uint               `json:"job_post_id"`
	Fields        []form.RenderField `json:"fields"`
	PhotoField    *form.RenderField  `json:"photo_field,omitempty"`
	InitialValues map[string]string  `json:"initial_values"`
	ResumeSeed    string             `json:"resume_seed"`
	Sources       []string           `json:"sources"`
}

// GetApplicationForm resolves the job's form into render instructions plus
// prefilled initial values for the requesting applicant.
// @Summary Get the application form of a job post
// @Description Off fields are excluded entirely. Initial values prefer the applicant's prior answers over profile attributes; missing data yields empty strings.
// @Tags Jobpost
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of desired job post"
// @Success 200 {object} applicationFormResponse "Renderable form with initial values"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Job post not found, or no form configured"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobpost/{id}/form [get]
func (jc *JobPostController) GetApplicationForm(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	rawID := c.Param("id")
	jobPostID, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid job post id"})
		return
	}

	var job model.JobPost
	if err := jc.DB.First(&job, jobPostID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Job post not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve job post: %s", err.Error()),
		})
		return
	}

	configs, err := form.ResolveFieldConfiguration(jc.DB.DB, uint(jobPostID))
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

	// A missing profile (fresh account) just means nothing to prefill from.
	var profile *model.Profile
	var answers []model.OtherInfoAnswer
	loaded := model.Profile{}
	if err := jc.DB.Preload("OtherInfoAnswers").
		Where("user_id = ?", user.ID).
		First(&loaded).Error; err == nil {
		profile = &loaded
		answers = loaded.OtherInfoAnswers
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve profile: %s", err.Error()),
		})
		return
	}

	visible := form.Visible(configs)
	generic, photo := form.SplitPhoto(visible)

	var photoField *form.RenderField
	if photo != nil {
		rf := form.RenderPlan([]model.FieldConfiguration{*photo})[0]
		photoField = &rf
	}

	c.JSON(http.StatusOK, applicationFormResponse{
		JobPostID:  uint(jobPostID),
		Fields:     form.RenderPlan(generic),
		PhotoField: photoField,
		InitialValues: form.Prefill(generic,
			form.AnswerLookup(answers),
			form.ProfileLookup(profile)),
		ResumeSeed: form.ResumeSeed(profile),
		Sources:    model.ApplicationSources,
	})
}
