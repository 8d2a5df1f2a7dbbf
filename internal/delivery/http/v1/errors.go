package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/todo-crud/internal/services"
)

var (
	errInvalidRequestBody = errors.New("invalid request body")
	errInvalidTodoID      = errors.New("invalid todo id")
)

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func newAPIError(code int, message string) apiError {
	return apiError{
		Code:    code,
		Message: message,
	}
}

func (e apiError) Error() string {
	return e.Message
}

func abort(c *gin.Context, err apiError) {
	c.AbortWithStatusJSON(err.Code, gin.H{"error": err.Message})
}

func newStatusTextError(status int) apiError {
	return newAPIError(status, http.StatusText(status))
}

func newBadRequestError(message string) apiError {
	return newAPIError(http.StatusBadRequest, message)
}

type outcome int

const (
	outcomeOK outcome = iota
	outcomeNotFound
	outcomeInternal
)

// classify maps a service error onto the only two failures clients see.
func classify(err error) outcome {
	switch {
	case err == nil:
		return outcomeOK
	case errors.Is(err, services.ErrTodoNotFound):
		return outcomeNotFound
	default:
		return outcomeInternal
	}
}

// abortOnError writes the failure response for err and reports whether it
// did. Internal errors carry no body.
func abortOnError(c *gin.Context, err error) bool {
	switch classify(err) {
	case outcomeNotFound:
		abort(c, newStatusTextError(http.StatusNotFound))
		return true
	case outcomeInternal:
		c.AbortWithStatus(http.StatusInternalServerError)
		return true
	default:
		return false
	}
}
