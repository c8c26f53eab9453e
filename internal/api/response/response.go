package response

import (
	"net/http"

	"github.com/labstack/echo/v4"
	apperrors "github.com/prasetyadi/graphmail-pipeline/internal/errors"
)

// ErrorResponse represents an error API response
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
}

// Error returns an error response with appropriate status code
func Error(c echo.Context, err error) error {
	code := apperrors.GetErrorCode(err)
	status := getHTTPStatus(code)

	return c.JSON(status, ErrorResponse{
		Success: false,
		Error:   err.Error(),
		Code:    code,
	})
}

// InternalError returns a 500 Internal Server Error response
func InternalError(c echo.Context, message string) error {
	return c.JSON(http.StatusInternalServerError, ErrorResponse{
		Success: false,
		Error:   message,
		Code:    apperrors.CodeInternalError,
	})
}

// getHTTPStatus maps error codes to HTTP status codes
func getHTTPStatus(code string) int {
	switch code {
	case apperrors.CodeNotFound:
		return http.StatusNotFound
	case apperrors.CodeDuplicateEntry:
		return http.StatusConflict
	case apperrors.CodeInvalidInput:
		return http.StatusBadRequest
	case apperrors.CodeUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
