// Package server contain implementation of go-gin-server and each route handlers
package server

import (
	"TalentForm-backend/internal/auth"
	"TalentForm-backend/internal/controller/application"
	"TalentForm-backend/internal/controller/file"
	"TalentForm-backend/internal/controller/jobpost"
	"TalentForm-backend/internal/controller/profile"
	"TalentForm-backend/internal/form"
	"TalentForm-backend/internal/middleware"
	"TalentForm-backend/internal/model"
	"net/http"
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	// Load env
	_ "github.com/joho/godotenv/autoload"
)

// RegisterRoutes will register each http endpoint routes to bound Server instance
func (s *Server) RegisterRoutes() http.Handler {
	r := gin.Default()

	allowOriginsStr := os.Getenv("ALLOW_ORIGIN")
	allowOrigins := strings.Split(allowOriginsStr, ",")

	googleOauth := &oauth2.Config{
		ClientID:     os.Getenv("GOOGLE_AUTH_CLIENT"),
		ClientSecret: os.Getenv("GOOGLE_AUTH_SECRET"),
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
			"https://www.googleapis.com/auth/userinfo.openid",
		},
		Endpoint:    google.Endpoint,
		RedirectURL: os.Getenv("OAUTH_REDIRECT_URL"),
	}

	gAuth := auth.NewGoogleLoginHandler(s.DB, googleOauth, "https://www.googleapis.com/oauth2/v2/userinfo")
	lAuth := auth.NewLocalAuthHandler(s.DB)
	logout := auth.NewLogoutController(s.Blacklist)

	jobPostCtrl := jobpost.NewJobPostController(s.DB)
	applicationCtrl := application.NewApplicationController(s.DB)
	profileCtrl := profile.NewProfileController(s.DB)
	fileCtrl := file.NewFileController(s.DB, s.Storage)

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(middleware.SafeHeader())

	r.GET("/", s.HelloWorldHandler)
	r.GET("/health", s.healthHandler)
	v1 := r.Group("/api/v1")
	{
		authRoute := v1.Group("/auth", middleware.RateLimiterMiddleware(5))
		{
			authRoute.POST("google/applicant", gAuth.ApplicantGoogleLoginHandler)
			authRoute.GET("google/callback", gAuth.Callback)

			authRoute.POST("login", lAuth.LocalLoginHandler)
			authRoute.POST("register", lAuth.LocalRegisterHandler)
		}

		needAuth := v1.Group("")
		{
			needAuth.Use(middleware.RequireAuth(s.DB), middleware.JwtBlacklistCheck(s.Blacklist))

			needAuth.POST("auth/logout", logout.LogoutHandler)

			fileRoute := needAuth.Group("/file")
			{
				fileRoute.GET(":id", fileCtrl.GetFile)
				fileRoute.POST(":kind", middleware.SizeLimit(form.MaxAttachmentBytes), fileCtrl.Upload)
			}

			jobPostRoute := needAuth.Group("/jobpost")
			{
				jobPostRoute.GET("", jobPostCtrl.GetPosts)
				jobPostRoute.GET(":id", jobPostCtrl.GetPostByID)
				jobPostRoute.GET(":id/form", jobPostCtrl.GetApplicationForm)

				needRecruiter := jobPostRoute.Group("")
				{
					needRecruiter.Use(middleware.CheckRole(model.RoleRecruiter, model.RoleAdmin))
					needRecruiter.POST("", jobPostCtrl.CreateJobPost)
					needRecruiter.PATCH(":id", jobPostCtrl.EditJobPost)
					needRecruiter.DELETE(":id", jobPostCtrl.DeleteJobPost)
					needRecruiter.PATCH(":id/fields", jobPostCtrl.EditFieldConfiguration)
					needRecruiter.GET(":id/applications", applicationCtrl.ListForPost)
				}
			}

			applicationRoute := needAuth.Group("/application")
			{
				needApplicant := applicationRoute.Group("")
				{
					needApplicant.Use(middleware.CheckRole(model.RoleApplicant))
					needApplicant.POST("", applicationCtrl.Submit)
					needApplicant.GET("mine", applicationCtrl.ListMine)
					needApplicant.POST(":id/withdraw", applicationCtrl.Withdraw)
				}

				applicationRoute.PATCH(":id/status",
					middleware.CheckRole(model.RoleRecruiter, model.RoleAdmin),
					applicationCtrl.UpdateStatus)
			}

			profileRoute := needAuth.Group("/profile")
			{
				profileRoute.Use(middleware.CheckRole(model.RoleApplicant))
				profileRoute.GET("me", profileCtrl.GetMyProfile)
				profileRoute.PATCH("me", profileCtrl.EditProfile)
			}
		}
	}

	return r
}

// HelloWorldHandler handle request by return message "Hello World"
func (s *Server) HelloWorldHandler(c *gin.Context) {
	resp := make(map[string]string)
	resp["message"] = "Hello World"

	c.JSON(http.StatusOK, resp)
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, s.DB.Health())
}
