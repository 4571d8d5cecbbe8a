package response

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/odlab/odflow-backend/internal/models"
)

// Response represents a standard API response
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success sends a successful response
func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Error sends an error response
func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

// BadRequest sends a 400 bad request response
func BadRequest(c *gin.Context, message string) {
	Error(c, 400, message)
}

// NotFound sends a 404 not found response
func NotFound(c *gin.Context, message string) {
	Error(c, 404, message)
}

// InternalError sends a 500 internal server error response
func InternalError(c *gin.Context, message string) {
	Error(c, 500, message)
}

// BadGateway sends a 502 bad gateway response
func BadGateway(c *gin.Context, message string) {
	Error(c, 502, message)
}

// FromError maps a service error onto the HTTP status it deserves.
// Validation sentinels are the caller's fault, store failures are the
// backend's, anything unrecognized is a 500.
func FromError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidTimeRange),
		errors.Is(err, models.ErrInvalidIDFilter),
		errors.Is(err, models.ErrInvalidArgument),
		errors.Is(err, models.ErrInvalidFillValue),
		errors.Is(err, models.ErrEmptyQuery),
		errors.Is(err, models.ErrLengthMismatch),
		errors.Is(err, models.ErrNoValidPairs):
		BadRequest(c, err.Error())
	case errors.Is(err, models.ErrNotFound):
		NotFound(c, err.Error())
	case errors.Is(err, models.ErrUpstreamUnavailable):
		BadGateway(c, err.Error())
	default:
		InternalError(c, err.Error())
	}
}
