// Package errors renders the API's JSON error envelope.
package errors

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/stwalsh4118/homematch/api/internal/middleware"
)

// Error code constants for standardized error responses
const (
	ErrNotFound           = "NOT_FOUND"
	ErrBadRequest         = "BAD_REQUEST"
	ErrInternalServer     = "INTERNAL_SERVER_ERROR"
	ErrValidation         = "VALIDATION_ERROR"
	ErrConflict           = "CONFLICT"
	ErrServiceUnavailable = "SERVICE_UNAVAILABLE"
	ErrTooManyRequests    = "TOO_MANY_REQUESTS"
)

// ErrorResponse is the top-level error response structure.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains the error information.
type ErrorDetail struct {
	Code      string                 `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
}

// respond writes the envelope and aborts the chain so later middleware sees the final status.
func respond(c *gin.Context, status int, code, message string, details map[string]interface{}) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: ErrorDetail{
			Code:      code,
			Message:   message,
			Details:   details,
			RequestID: middleware.GetRequestID(c),
		},
	})
}

// requestFields returns the log fields shared by every error response.
func requestFields(c *gin.Context, message string) map[string]interface{} {
	return map[string]interface{}{
		"message":    message,
		"request_id": middleware.GetRequestID(c),
		"path":       c.Request.URL.Path,
	}
}

// NotFound returns a 404 Not Found error response.
func NotFound(c *gin.Context, message string) {
	if log := middleware.GetLogger(c); log != nil {
		log.Warn("Resource not found", requestFields(c, message))
	}
	respond(c, http.StatusNotFound, ErrNotFound, message, nil)
}

// BadRequest returns a 400 Bad Request error response with optional details.
func BadRequest(c *gin.Context, message string, details map[string]interface{}) {
	fields := requestFields(c, message)
	if details != nil {
		fields["details"] = details
	}
	if log := middleware.GetLogger(c); log != nil {
		log.Warn("Bad request", fields)
	}
	respond(c, http.StatusBadRequest, ErrBadRequest, message, details)
}

// Conflict returns a 409 Conflict error response.
func Conflict(c *gin.Context, message string, details map[string]interface{}) {
	if log := middleware.GetLogger(c); log != nil {
		log.Warn("Conflict", requestFields(c, message))
	}
	respond(c, http.StatusConflict, ErrConflict, message, details)
}

// ServiceUnavailable returns a 503 Service Unavailable error response.
// Used when an optional backing store is not connected.
func ServiceUnavailable(c *gin.Context, message string) {
	if log := middleware.GetLogger(c); log != nil {
		log.Warn("Service unavailable", requestFields(c, message))
	}
	respond(c, http.StatusServiceUnavailable, ErrServiceUnavailable, message, nil)
}

// TooManyRequests returns a 429 response and sets Retry-After.
func TooManyRequests(c *gin.Context, retryAfter time.Duration) {
	seconds := int(retryAfter.Seconds())
	if seconds < 1 {
		seconds = 1
	}
	c.Header("Retry-After", strconv.Itoa(seconds))

	fields := requestFields(c, "rate limit exceeded")
	fields["ip"] = c.ClientIP()
	if log := middleware.GetLogger(c); log != nil {
		log.Warn("Rate limit exceeded", fields)
	}
	respond(c, http.StatusTooManyRequests, ErrTooManyRequests, "Too many requests, please retry later", map[string]interface{}{
		"retry_after_seconds": seconds,
	})
}

// InternalServerError returns a 500 Internal Server Error response.
// The underlying error is logged but never sent to the client.
func InternalServerError(c *gin.Context, message string, err error) {
	fields := requestFields(c, message)
	fields["method"] = c.Request.Method

	if log := middleware.GetLogger(c); log != nil {
		log.Error("Internal server error", err, fields)
	}
	respond(c, http.StatusInternalServerError, ErrInternalServer, message, nil)
}

// ValidationError returns a 400 Bad Request error response with field-specific validation errors.
func ValidationError(c *gin.Context, validationErrors validator.ValidationErrors) {
	details := make(map[string]interface{}, len(validationErrors))
	for _, err := range validationErrors {
		details[err.Field()] = formatValidationError(err)
	}

	if log := middleware.GetLogger(c); log != nil {
		log.Warn("Validation error", map[string]interface{}{
			"request_id": middleware.GetRequestID(c),
			"path":       c.Request.URL.Path,
			"fields":     details,
		})
	}
	respond(c, http.StatusBadRequest, ErrValidation, "Validation failed for one or more fields", details)
}

// formatValidationError converts a validator.FieldError to a human-readable message.
func formatValidationError(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "This field is required"
	case "min":
		return "Value is too short or small (minimum: " + err.Param() + ")"
	case "max":
		return "Value is too long or large (maximum: " + err.Param() + ")"
	case "gt":
		return "Must be greater than " + err.Param()
	case "gte":
		return "Must be greater than or equal to " + err.Param()
	case "lte":
		return "Must be less than or equal to " + err.Param()
	case "url":
		return "Must be a valid URL"
	default:
		return "Validation failed for tag: " + err.Tag()
	}
}
