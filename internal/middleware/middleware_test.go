package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/projectdesk/internal/app/models"
	"github.com/yigit/projectdesk/internal/app/models/dto"
	"github.com/yigit/projectdesk/internal/pkg/apperrors"
	"github.com/yigit/projectdesk/internal/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
	SetupValidator()
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	return resp
}

func TestHandleAPIError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   dto.ErrorCode
		field  string
	}{
		{"validation", apperrors.NewValidationError("status", "Invalid status"), http.StatusBadRequest, dto.ErrorCodeValidationFailed, "status"},
		{"duplicate email", apperrors.NewDuplicateError("email", "Email already registered"), http.StatusBadRequest, dto.ErrorCodeResourceAlreadyExists, "email"},
		{"mentor missing", apperrors.ErrMentorNotFound, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "mentorName"},
		{"not found", fmt.Errorf("load: %w", apperrors.ErrProjectNotFound), http.StatusNotFound, dto.ErrorCodeResourceNotFound, ""},
		{"credentials", apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, ""},
		{"forbidden", apperrors.NewForbiddenError("nope"), http.StatusForbidden, dto.ErrorCodeForbidden, ""},
		{"transition", apperrors.NewInvalidTransitionError("already accepted"), http.StatusConflict, dto.ErrorCodeInvalidTransition, ""},
		{"too large", apperrors.ErrFileTooLarge, http.StatusRequestEntityTooLarge, dto.ErrorCodePayloadTooLarge, ""},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError, dto.ErrorCodeInternalServer, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)

			HandleAPIError(c, tt.err)

			assert.Equal(t, tt.status, rec.Code)
			resp := decodeError(t, rec)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.Equal(t, tt.field, resp.Error.Field)
		})
	}
}

func TestHandleAPIErrorHidesInternalMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)

	HandleAPIError(c, errors.New("pq: password authentication failed"))

	resp := decodeError(t, rec)
	assert.Equal(t, "Internal server error", resp.Error.Message)
}

func newAuthRouter(t *testing.T, svc *auth.JWTService) *gin.Engine {
	t.Helper()
	m := NewAuthMiddleware(svc)
	r := gin.New()
	r.GET("/any", m.JWTAuth(), func(c *gin.Context) {
		p, _ := GetPrincipal(c)
		c.String(http.StatusOK, p.UserID)
	})
	r.GET("/teacher", m.JWTAuth(), m.RoleRequired(models.RoleTeacher), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestJWTAuth(t *testing.T) {
	svc := auth.NewJWTService(auth.JWTConfig{SecretKey: "test-secret", AccessTokenExp: time.Hour, TokenIssuer: "test"})
	router := newAuthRouter(t, svc)

	student := &models.User{ID: "student-1", Email: "s@x.edu", Role: models.RoleStudent}
	token, _, err := svc.GenerateToken(student)
	require.NoError(t, err)

	tests := []struct {
		name   string
		path   string
		header string
		status int
	}{
		{"missing header", "/any", "", http.StatusUnauthorized},
		{"bare bearer", "/any", "Bearer", http.StatusUnauthorized},
		{"garbage token", "/any", "Bearer abc.def.ghi", http.StatusUnauthorized},
		{"valid header", "/any", "Bearer " + token, http.StatusOK},
		{"valid query", "/any?token=" + token, "", http.StatusOK},
		{"wrong role", "/teacher", "Bearer " + token, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, "student-1", rec.Body.String())
			}
		})
	}
}

func TestBindJSON(t *testing.T) {
	r := gin.New()
	r.POST("/login", func(c *gin.Context) {
		var req dto.LoginRequest
		if !BindJSON(c, &req) {
			return
		}
		c.Status(http.StatusNoContent)
	})

	tests := []struct {
		name   string
		body   string
		status int
		field  string
	}{
		{"valid", `{"email":"a@b.co","password":"x"}`, http.StatusNoContent, ""},
		{"missing password", `{"email":"a@b.co"}`, http.StatusBadRequest, "password"},
		{"bad email", `{"email":"nope","password":"x"}`, http.StatusBadRequest, "email"},
		{"unknown field", `{"email":"a@b.co","password":"x","admin":true}`, http.StatusBadRequest, "admin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.field != "" {
				resp := decodeError(t, rec)
				assert.Equal(t, dto.ErrorCodeValidationFailed, resp.Error.Code)
				assert.Equal(t, tt.field, resp.Error.Field)
			}
		})
	}
}
