package response

import (
	"errors"
	"net/http"

	"cnc-fabbook/pkg/apperror"

	"github.com/gin-gonic/gin"
)

// StatusResponse is the `{success, message}` envelope most mutation endpoints
// return.
type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ErrorResponse is the `{error}` envelope every failure returns.
type ErrorResponse struct {
	Error string `json:"error"`
}

// OK sends a 200 response with the payload as-is.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Success sends a 200 `{success: true, message}` response.
func Success(c *gin.Context, message string) {
	c.JSON(http.StatusOK, StatusResponse{Success: true, Message: message})
}

// Error sends an error response. It checks if err is an *apperror.AppError
// and maps its status, otherwise returns 500 without leaking detail.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.HTTPStatus, ErrorResponse{Error: appErr.Message})
		return
	}

	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
}
