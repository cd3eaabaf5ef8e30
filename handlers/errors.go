package handlers

import (
	"net/http"

	"trivia/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse is the only error shape the API emits.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   int    `json:"error"`
	Message string `json:"message"`
}

var errorMessages = map[int]string{
	http.StatusBadRequest:          "bad request",
	http.StatusUnauthorized:        "unauthorized",
	http.StatusNotFound:            "Not found",
	http.StatusMethodNotAllowed:    "method not allowed",
	http.StatusUnprocessableEntity: "unprocessable",
	http.StatusInternalServerError: "internal server error",
}

func NewErrorResponse(status int) ErrorResponse {
	message, ok := errorMessages[status]
	if !ok {
		message = http.StatusText(status)
	}
	return ErrorResponse{Success: false, Error: status, Message: message}
}

// Abort stops the handler chain and writes the error envelope for status.
func Abort(c *gin.Context, status int) {
	c.AbortWithStatusJSON(status, NewErrorResponse(status))
}

// errorStatuses maps each service error kind to the status a route reports.
type errorStatuses struct {
	notFound   int
	invalid    int
	badRequest int
	storage    int
}

var (
	readStatuses = errorStatuses{
		notFound:   http.StatusNotFound,
		invalid:    http.StatusUnprocessableEntity,
		badRequest: http.StatusBadRequest,
		storage:    http.StatusInternalServerError,
	}
	writeStatuses = errorStatuses{
		notFound:   http.StatusNotFound,
		invalid:    http.StatusUnprocessableEntity,
		badRequest: http.StatusBadRequest,
		storage:    http.StatusUnprocessableEntity,
	}
	// Existing clients expect 422 for a question that is already gone.
	deleteStatuses = errorStatuses{
		notFound:   http.StatusUnprocessableEntity,
		invalid:    http.StatusUnprocessableEntity,
		badRequest: http.StatusBadRequest,
		storage:    http.StatusUnprocessableEntity,
	}
)

func (s errorStatuses) status(kind services.ErrorKind) int {
	switch kind {
	case services.KindNotFound:
		return s.notFound
	case services.KindInvalid:
		return s.invalid
	case services.KindBadRequest:
		return s.badRequest
	default:
		return s.storage
	}
}

func respondError(c *gin.Context, logger *zap.Logger, statuses errorStatuses, err error) {
	kind := services.KindOf(err)
	status := statuses.status(kind)

	fields := []zap.Field{
		zap.String("route", c.FullPath()),
		zap.String("kind", kind.String()),
		zap.Int("status", status),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", fields...)
	} else {
		logger.Info("request rejected", fields...)
	}

	Abort(c, status)
}
