// Common helper functions for HTTP handlers.

package handlers

import (
	stderrors "errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rxlens/rxlens/pkg/errors"
)

// ErrorBody is the error payload nested inside ErrorResponse.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the standard error response envelope.
type ErrorResponse struct {
	Success   bool      `json:"success"`
	Error     ErrorBody `json:"error"`
	Timestamp time.Time `json:"timestamp"`
}

// respondError maps application-level errors to HTTP status codes. Errors
// that are not AppErrors get a masked message so internals never leak.
func respondError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	status := errors.HTTPStatusForCode(code)

	message := errors.DefaultMessageForCode(code)
	var ae *errors.AppError
	if stderrors.As(err, &ae) {
		message = ae.Message
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, ErrorResponse{
		Success: false,
		Error: ErrorBody{
			Code:    string(code),
			Message: message,
		},
		Timestamp: time.Now().UTC(),
	})
}

// parseListParams extracts limit and offset from query parameters.
func parseListParams(c *gin.Context) (int, int) {
	limit := 20
	offset := 0

	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	if v := c.Query("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}
