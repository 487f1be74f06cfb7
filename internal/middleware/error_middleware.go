package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kerem/doctrack/internal/app/models/dto"
	"github.com/kerem/doctrack/internal/pkg/apperrors"
	"github.com/kerem/doctrack/internal/pkg/logger"
)

// HandleAPIError maps application errors to HTTP responses in one place.
// A CustomError's message is surfaced to the client; bare sentinels get a
// generic message per class.
func HandleAPIError(c *gin.Context, err error) {
	statusCode, errorCode, message := classify(err)

	var customErr *apperrors.CustomError
	if errors.As(err, &customErr) && customErr.Message != "" {
		message = customErr.Message
	}

	if statusCode >= http.StatusInternalServerError {
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled API error")
	}

	errorDetail := dto.NewErrorDetail(errorCode, message)
	if customErr != nil && customErr.Details != nil {
		errorDetail = errorDetail.WithDetails(customErr.Details)
	}
	c.AbortWithStatusJSON(statusCode, dto.NewErrorResponse(errorDetail))
}

func classify(err error) (int, dto.ErrorCode, string) {
	switch {
	case apperrors.Is(err, apperrors.ErrResourceNotFound,
		apperrors.ErrRequestNotFound, apperrors.ErrUserNotFound,
		apperrors.ErrDocumentNotFound, apperrors.ErrNotificationNotFound):
		return http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found"

	case errors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied"

	case apperrors.Is(err, apperrors.ErrSelfDeletion, apperrors.ErrLastAdmin):
		return http.StatusForbidden, dto.ErrorCodeForbidden, err.Error()

	case errors.Is(err, apperrors.ErrInvalidTransition):
		return http.StatusUnprocessableEntity, dto.ErrorCodeInvalidTransition, "Invalid status transition"

	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, dto.ErrorCodeConflict, "The request was modified concurrently, retry with fresh data"

	case errors.Is(err, apperrors.ErrEmailAlreadyExists):
		return http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Email already exists"

	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials"

	case errors.Is(err, apperrors.ErrAccountDisabled):
		return http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Account is disabled"

	case apperrors.Is(err, apperrors.ErrTokenExpired, apperrors.ErrTokenRevoked):
		return http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token is no longer valid"

	case apperrors.Is(err, apperrors.ErrTokenInvalid, apperrors.ErrTokenNotFound, apperrors.ErrInvalidFormat):
		return http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token"

	case apperrors.Is(err, apperrors.ErrValidationFailed,
		apperrors.ErrInvalidEmail, apperrors.ErrInvalidPassword,
		apperrors.ErrNotStaffMember, apperrors.ErrBadRequest):
		return http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed"

	default:
		return http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error"
	}
}
