package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lidiabooking/booking-api/pkg/auth"
)

func setupAdminRouter(token string, jwtSvc auth.TokenService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	mw := NewAdminAuthMiddleware(token, jwtSvc)
	r.GET("/admin/ping", mw.Authenticate(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestAdminAuthSharedSecret(t *testing.T) {
	jwtSvc := auth.NewJWTService("test-secret", time.Hour)
	r := setupAdminRouter("s3cret", jwtSvc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set(HeaderAdminToken, "s3cret")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set(HeaderAdminToken, "wrong")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminAuthBearerToken(t *testing.T) {
	jwtSvc := auth.NewJWTService("test-secret", time.Hour)
	r := setupAdminRouter("s3cret", jwtSvc)

	token, err := jwtSvc.GenerateToken("admin")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminAuthDisabledWhenNoToken(t *testing.T) {
	jwtSvc := auth.NewJWTService("test-secret", time.Hour)
	r := setupAdminRouter("", jwtSvc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
