package errors

import (
	"errors"
	"net/http"
	"strings"

	"github.com/david50407/obs-studio/internal/logger"
	"github.com/gin-gonic/gin"
)

// APIError represents a structured error with HTTP context
type APIError struct {
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	Context    map[string]interface{} `json:"context,omitempty"`
	Cause      error                  `json:"-"`
	HTTPStatus int                    `json:"-"`
}

func (e *APIError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Cause
}

// ToGinResponse sends the error as a standardized JSON response
func (e *APIError) ToGinResponse(c *gin.Context) {
	statusCode := e.HTTPStatus
	if statusCode == 0 {
		statusCode = http.StatusInternalServerError
	}

	response := gin.H{
		"error": e.Message,
		"code":  e.Code,
	}

	if len(e.Context) > 0 {
		response["details"] = e.Context
	}

	logger.Warn("http error response",
		"status", statusCode,
		"code", e.Code,
		"message", e.Message,
		"path", c.Request.URL.Path,
		"method", c.Request.Method)

	c.JSON(statusCode, response)
}

// Common error constructors
func NewValidationError(message string, field string) *APIError {
	return &APIError{
		Code:       "VALIDATION_ERROR",
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
		Context:    map[string]interface{}{"field": field},
	}
}

func NewNotFoundError(resource string, id string) *APIError {
	return &APIError{
		Code:       "NOT_FOUND",
		Message:    resource + " not found",
		HTTPStatus: http.StatusNotFound,
		Context:    map[string]interface{}{"resource": resource, "id": id},
	}
}

func NewInternalError(message string, cause error) *APIError {
	return &APIError{
		Code:       "INTERNAL_ERROR",
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

func NewUnavailableError(component string) *APIError {
	return &APIError{
		Code:       "UNAVAILABLE",
		Message:    component + " not configured",
		HTTPStatus: http.StatusServiceUnavailable,
		Context:    map[string]interface{}{"component": component},
	}
}

// FromModuleError maps a classified module error onto an HTTP response
func FromModuleError(err error) *APIError {
	var mErr *ModuleError
	if !errors.As(err, &mErr) {
		return NewInternalError("Module operation failed", err)
	}

	status := http.StatusInternalServerError
	switch mErr.Type {
	case ErrorTypeNotFound:
		status = http.StatusNotFound
	case ErrorTypeValidation, ErrorTypeRegistry, ErrorTypeDescriptor:
		status = http.StatusBadRequest
	case ErrorTypeLocale:
		status = http.StatusNotFound
	case ErrorTypeLoad, ErrorTypeSymbol, ErrorTypeRejected, ErrorTypeFailed:
		status = http.StatusUnprocessableEntity
	}

	ctx := map[string]interface{}{"type": string(mErr.Type), "operation": mErr.Op}
	if mErr.Module != "" {
		ctx["module"] = mErr.Module
	}
	return &APIError{
		Code:       "MODULE_" + strings.ToUpper(string(mErr.Type)),
		Message:    mErr.Err.Error(),
		HTTPStatus: status,
		Context:    ctx,
		Cause:      mErr,
	}
}

// HandleNotFound sends a not found error response
func HandleNotFound(c *gin.Context, resource string, id string) {
	NewNotFoundError(resource, id).ToGinResponse(c)
}

// HandleValidationError sends a validation error response
func HandleValidationError(c *gin.Context, message string, field string) {
	NewValidationError(message, field).ToGinResponse(c)
}

// HandleInternalError sends an internal server error response
func HandleInternalError(c *gin.Context, message string, err error) {
	NewInternalError(message, err).ToGinResponse(c)
}
