package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifex-api/pkg/utils"
)

func newAuthRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(Auth(AuthConfig{
		Secret:        "test-secret",
		Issuer:        "lifex-api",
		SkipPaths:     DefaultSkipPaths,
		OptionalPaths: DefaultOptionalPaths,
		Enabled:       true,
	}))

	handler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetString("user_id"),
			"tier":    c.GetString("tier"),
		})
	}
	r.GET("/health", handler)
	r.GET("/v1/businesses/abc", handler)
	r.POST("/v1/assistant/chat", handler)
	r.GET("/v1/assistant/conversations", handler)
	r.GET("/v1/bookings", handler)
	return r
}

func doRequest(r *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func validToken(t *testing.T, tokenType string) string {
	t.Helper()
	token, err := utils.NewJWTManager("test-secret", "lifex-api").
		GenerateToken("user-1", "premium", tokenType, time.Minute)
	require.NoError(t, err)
	return token
}

func TestAuthSkipsPublicPaths(t *testing.T) {
	r := newAuthRouter(t)

	assert.Equal(t, http.StatusOK, doRequest(r, http.MethodGet, "/health", "").Code)
	// 前缀匹配覆盖子路径
	assert.Equal(t, http.StatusOK, doRequest(r, http.MethodGet, "/v1/businesses/abc", "").Code)
}

func TestAuthOptionalPathAllowsAnonymous(t *testing.T) {
	r := newAuthRouter(t)

	w := doRequest(r, http.MethodPost, "/v1/assistant/chat", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":""`)
}

func TestAuthOptionalPathUsesTokenWhenPresent(t *testing.T) {
	r := newAuthRouter(t)

	w := doRequest(r, http.MethodPost, "/v1/assistant/chat", validToken(t, "access"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":"user-1"`)
	assert.Contains(t, w.Body.String(), `"tier":"premium"`)
}

func TestAuthProtectedPathRequiresToken(t *testing.T) {
	r := newAuthRouter(t)

	assert.Equal(t, http.StatusUnauthorized, doRequest(r, http.MethodGet, "/v1/bookings", "").Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(r, http.MethodGet, "/v1/assistant/conversations", "").Code)
	assert.Equal(t, http.StatusOK, doRequest(r, http.MethodGet, "/v1/bookings", validToken(t, "access")).Code)
}

func TestAuthRejectsBadTokens(t *testing.T) {
	r := newAuthRouter(t)

	assert.Equal(t, http.StatusUnauthorized, doRequest(r, http.MethodGet, "/v1/bookings", "garbage").Code)

	// refresh token 不能当 access 用
	w := doRequest(r, http.MethodGet, "/v1/bookings", validToken(t, "refresh"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid token type")

	req := httptest.NewRequest(http.MethodGet, "/v1/bookings", nil)
	req.Header.Set("Authorization", "Basic abc")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// 关闭认证时所有路径直接放行
func TestAuthDisabledPassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Auth(AuthConfig{Enabled: false}))
	r.GET("/v1/bookings", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, doRequest(r, http.MethodGet, "/v1/bookings", "").Code)
}
