package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"ptieasy-service/internal/domain/auth"
	"ptieasy-service/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type staticValidator map[string]*jwt.Claims

func (v staticValidator) ValidateToken(ctx context.Context, token string) (*jwt.Claims, error) {
	claims, ok := v[token]
	if !ok {
		return nil, errors.New("unknown token")
	}
	return claims, nil
}

var validator = staticValidator{
	"manager-token": {AccountID: "m1", Role: "manager", RegisteredClaims: gojwt.RegisteredClaims{ID: "jti-m"}},
	"driver-token":  {AccountID: "d1", Role: "driver", DriverRef: "John Doe", RegisteredClaims: gojwt.RegisteredClaims{ID: "jti-d"}},
}

func init() {
	gin.SetMode(gin.TestMode)
}

func do(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRoleGuards(t *testing.T) {
	m := NewAuthMiddleware(validator)
	r := gin.New()
	r.GET("/manager", append(m.ManagerOnly(), func(c *gin.Context) {
		c.String(http.StatusOK, MustGetAccountID(c))
	})...)
	r.GET("/driver", append(m.DriverOnly(), func(c *gin.Context) {
		c.String(http.StatusOK, GetDriverRef(c))
	})...)

	tests := []struct {
		name   string
		path   string
		token  string
		status int
		body   string
	}{
		{"no token", "/manager", "", http.StatusUnauthorized, ""},
		{"bad token", "/manager", "nope", http.StatusUnauthorized, ""},
		{"manager allowed", "/manager", "manager-token", http.StatusOK, "m1"},
		{"driver on manager route", "/manager", "driver-token", http.StatusForbidden, ""},
		{"driver allowed", "/driver", "driver-token", http.StatusOK, "John Doe"},
		{"manager on driver route", "/driver", "manager-token", http.StatusForbidden, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodGet, tt.path, tt.token)
			assert.Equal(t, tt.status, w.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, w.Body.String())
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	m := NewAuthMiddleware(validator)
	r := gin.New()
	r.GET("/state", m.OptionalAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, GetAuthState(c))
	})

	var state auth.AuthState
	w := do(r, http.MethodGet, "/state", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	assert.Equal(t, auth.Anonymous, state)

	w = do(r, http.MethodGet, "/state", "nope")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	assert.Equal(t, auth.Anonymous, state)

	w = do(r, http.MethodGet, "/state", "driver-token")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	assert.Equal(t, auth.AuthState{Authenticated: true, Role: auth.RoleDriver}, state)
}

func TestRecoveryMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RecoveryMiddleware(zap.NewNop()), LoggingMiddleware(zap.NewNop()))
	r.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	w := do(r, http.MethodGet, "/boom", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body struct {
		Success bool            `json:"success"`
		Data    RecoveryActions `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, []string{"reload", "dashboard"}, body.Data.Actions)
	assert.Equal(t, "/dashboard", body.Data.Dashboard)
}

func TestLoggingMiddleware_RequestID(t *testing.T) {
	r := gin.New()
	r.Use(LoggingMiddleware(zap.NewNop()))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := do(r, http.MethodGet, "/ok", "")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set("X-Request-ID", "abc")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc", w.Header().Get("X-Request-ID"))
}

func TestCORSMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"https://fleet.example.com"}))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/ok", nil)
	req.Header.Set("Origin", "https://fleet.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://fleet.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
