package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/yigit/projectdesk/internal/app/models/dto"
	"github.com/yigit/projectdesk/internal/pkg/apperrors"
)

// HandleAPIError maps a service error to its HTTP status and error envelope.
// It is the only place where error kinds turn into status codes.
func HandleAPIError(c *gin.Context, err error) {
	status, detail := classify(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Msg("Request failed")
	}
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(detail))
}

func classify(err error) (int, *dto.ErrorDetail) {
	var custom *apperrors.CustomError
	hasCustom := errors.As(err, &custom)

	message := func(fallback string) string {
		if hasCustom && custom.Message != "" {
			return custom.Message
		}
		return fallback
	}
	withField := func(d *dto.ErrorDetail) *dto.ErrorDetail {
		if hasCustom {
			if custom.Field != "" {
				d = d.WithField(custom.Field)
			}
			if len(custom.Details) > 0 {
				d = d.WithDetails(custom.Details)
			}
		}
		return d
	}

	switch {
	case errors.Is(err, apperrors.ErrValidationFailed),
		errors.Is(err, apperrors.ErrBadRequest),
		errors.Is(err, apperrors.ErrFileRequired):
		return http.StatusBadRequest, withField(dto.NewErrorDetail(dto.ErrorCodeValidationFailed, message(err.Error())))

	case errors.Is(err, apperrors.ErrMentorNotFound):
		return http.StatusBadRequest, withField(dto.NewErrorDetail(dto.ErrorCodeValidationFailed, message("Mentor not found")).WithField("mentorName"))

	case errors.Is(err, apperrors.ErrMentorAmbiguous):
		return http.StatusBadRequest, withField(dto.NewErrorDetail(dto.ErrorCodeValidationFailed, message("Mentor name is ambiguous")).WithField("mentorName"))

	case errors.Is(err, apperrors.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, withField(dto.NewErrorDetail(dto.ErrorCodePayloadTooLarge, message("File exceeds the upload size limit")))

	case errors.Is(err, apperrors.ErrResourceAlreadyExists):
		return http.StatusBadRequest, withField(dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, message(err.Error())))

	case apperrors.Is(err, apperrors.ErrResourceNotFound,
		apperrors.ErrUserNotFound, apperrors.ErrProjectNotFound, apperrors.ErrDocumentNotFound,
		apperrors.ErrNotificationNotFound, apperrors.ErrFileMissing):
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, message(capitalize(err.Error())))

	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, message("Invalid email or password"))

	case errors.Is(err, apperrors.ErrTokenExpired):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Token expired")

	case errors.Is(err, apperrors.ErrTokenInvalid):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid token")

	case errors.Is(err, apperrors.ErrTokenNotFound):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeTokenNotFound, "Token not found")

	case errors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden, dto.NewErrorDetail(dto.ErrorCodeForbidden, message("Permission denied"))

	case errors.Is(err, apperrors.ErrInvalidTransition):
		return http.StatusConflict, withField(dto.NewErrorDetail(dto.ErrorCodeInvalidTransition, message("Status can no longer be changed")))

	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeResourceInvalid, message("Conflict"))

	default:
		return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
	}
}

func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
