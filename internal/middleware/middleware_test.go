package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"clinic-scheduling-server/internal/apperrors"
	"clinic-scheduling-server/internal/logger"
	"clinic-scheduling-server/internal/models"
	"clinic-scheduling-server/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "middleware-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func tokenFor(t *testing.T, role models.Role) string {
	t.Helper()
	token, err := utils.GenerateAccessToken(&models.User{
		BaseModel: models.BaseModel{ID: "0d9c4a8e-6b1f-4c3e-8a2d-5f7e9b1c3d5a"},
		Email:     "user@clinic.test",
		Profile:   role,
	}, testSecret, time.Hour)
	require.NoError(t, err)
	return token
}

func newProtectedRouter(roles ...models.Role) *gin.Engine {
	r := gin.New()
	chain := []gin.HandlerFunc{AuthMiddleware(testSecret)}
	if len(roles) > 0 {
		chain = append(chain, RoleAuthMiddleware(roles...))
	}
	chain = append(chain, func(c *gin.Context) {
		principal, ok := GetPrincipal(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"userId": principal.UserID, "role": principal.Role})
	})
	r.GET("/protected", chain...)
	return r
}

func serve(r http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func messageOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body utils.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	return body.Message
}

func TestAuthMiddleware(t *testing.T) {
	r := newProtectedRouter()

	tests := []struct {
		name    string
		header  string
		status  int
		message string
	}{
		{"missing header", "", http.StatusUnauthorized, "Token não informado"},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, "Token não informado"},
		{"bearer without token", "Bearer", http.StatusUnauthorized, "Token não informado"},
		{"garbage token", "Bearer nope", http.StatusUnauthorized, "Token inválido"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(r, tt.header)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.message, messageOf(t, w))
		})
	}

	t.Run("valid token", func(t *testing.T) {
		w := serve(r, "bearer "+tokenFor(t, models.RoleMedico))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"role":"MEDICO"`)
	})
}

func TestRoleAuthMiddleware(t *testing.T) {
	r := newProtectedRouter(models.RoleSecretaria, models.RoleAdmin)

	w := serve(r, "Bearer "+tokenFor(t, models.RoleMedico))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, apperrors.ErrForbidden.Message, messageOf(t, w))

	for _, role := range []models.Role{models.RoleSecretaria, models.RoleAdmin} {
		w = serve(r, "Bearer "+tokenFor(t, role))
		assert.Equal(t, http.StatusOK, w.Code, role)
	}
}

func TestRoleAuthMiddleware_WithoutPrincipal(t *testing.T) {
	r := gin.New()
	r.GET("/protected", RoleAuthMiddleware(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := serve(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/protected", func(c *gin.Context) {
		c.String(http.StatusOK, GetRequestID(c))
	})

	w := serve(r, "")
	generated := w.Header().Get(RequestIDHeader)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
	assert.Equal(t, "abc-123", w.Body.String())
}

func TestRequestLogger(t *testing.T) {
	base, hook := test.NewNullLogger()
	log := &logger.Logger{Logger: base}

	r := gin.New()
	r.Use(RequestID(), RequestLogger(log))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/bad", func(c *gin.Context) { c.Status(http.StatusBadRequest) })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	tests := []struct {
		path  string
		level logrus.Level
	}{
		{"/ok", logrus.InfoLevel},
		{"/bad", logrus.WarnLevel},
		{"/boom", logrus.ErrorLevel},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			hook.Reset()
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			r.ServeHTTP(httptest.NewRecorder(), req)

			entry := hook.LastEntry()
			require.NotNil(t, entry)
			assert.Equal(t, tt.level, entry.Level)
			assert.Equal(t, tt.path, entry.Data["path"])
			assert.NotEmpty(t, entry.Data["request_id"])
		})
	}
}
