package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agency-erp/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers := append(mw, func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	r.GET("/t", handlers...)
	return r
}

func do(r http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/t", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestCronAuth(t *testing.T) {
	tests := []struct {
		name       string
		production bool
		header     string
		wantStatus int
	}{
		{"production valid secret", true, "Bearer s3cret", http.StatusOK},
		{"production wrong secret", true, "Bearer nope", http.StatusUnauthorized},
		{"production missing header", true, "", http.StatusUnauthorized},
		{"production malformed header", true, "s3cret", http.StatusUnauthorized},
		{"development bypass without header", false, "", http.StatusOK},
		{"development bypass with wrong secret", false, "Bearer nope", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRouter(CronAuth("s3cret", tt.production))
			rec := do(r, tt.header)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestCronAuth_EmptySecretRejectsInProduction(t *testing.T) {
	r := newRouter(CronAuth("", true))
	rec := do(r, "Bearer ")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware(t *testing.T) {
	manager := jwt.NewManager("secret", time.Hour)
	token, _, err := manager.GenerateAccessToken("6f0b8c1e-4f8e-4d35-9a55-0d5f0fbbd3a1", "pm@agency.test", "manager")
	require.NoError(t, err)

	r := newRouter(AuthMiddleware(manager), RequireRole("admin", "manager"))

	assert.Equal(t, http.StatusOK, do(r, "Bearer "+token).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "Bearer garbage").Code)
}

func TestRequireRole_Forbidden(t *testing.T) {
	manager := jwt.NewManager("secret", time.Hour)
	token, _, err := manager.GenerateAccessToken("6f0b8c1e-4f8e-4d35-9a55-0d5f0fbbd3a1", "staff@agency.test", "staff")
	require.NoError(t, err)

	r := newRouter(AuthMiddleware(manager), RequireRole("admin"))
	assert.Equal(t, http.StatusForbidden, do(r, "Bearer "+token).Code)
}

func TestRequestID(t *testing.T) {
	r := newRouter(RequestID())

	rec := do(r, "")
	assert.NotEmpty(t, rec.Header().Get(HeaderRequestID))

	req := httptest.NewRequest(http.MethodGet, "/t", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(HeaderRequestID))
}
