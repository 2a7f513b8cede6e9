package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"TalentForm-backend/internal/auth"
	"TalentForm-backend/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func performWithUser(t *testing.T, user *model.User, handler gin.HandlerFunc, token string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	rec := httptest.NewRecorder()
	r := gin.New()
	r.GET("/", func(c *gin.Context) {
		if user != nil {
			c.Set("user", *user)
		}
	}, handler, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(rec, req)
	return rec
}

func TestCheckRole(t *testing.T) {
	applicant := model.User{Role: model.RoleApplicant}

	rec := performWithUser(t, &applicant, CheckRole(model.RoleApplicant), "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = performWithUser(t, &applicant, CheckRole(model.RoleRecruiter), "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = performWithUser(t, &applicant, CheckRole(model.RoleRecruiter, model.RoleApplicant), "")
	assert.Equal(t, http.StatusOK, rec.Code)

	// No user in context at all
	rec = performWithUser(t, nil, CheckRole(model.RoleApplicant), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJwtBlacklistCheck(t *testing.T) {
	store := auth.NewInMemoryBlacklistStore()

	rec := performWithUser(t, nil, JwtBlacklistCheck(store), "still-valid-token")
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.NoError(t, store.AddToBlacklist("revoked-token", time.Now().Add(time.Hour)))
	rec = performWithUser(t, nil, JwtBlacklistCheck(store), "revoked-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Missing header
	rec = performWithUser(t, nil, JwtBlacklistCheck(store), "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSafeHeader(t *testing.T) {
	rec := performWithUser(t, nil, SafeHeader(), "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}
