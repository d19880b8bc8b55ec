package apperrors

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Kind categorizes an error for HTTP mapping
type Kind int

const (
	KindNotFound Kind = iota + 1
	KindUnauthorized
	KindBadRequest
	KindInternal
)

// Error is a domain error with an HTTP-mappable kind
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NotFound creates a not-found error
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Unauthorized creates an ownership/permission error
func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

// BadRequest creates a business-rule violation error
func BadRequest(message string) *Error {
	return &Error{Kind: KindBadRequest, Message: message}
}

// BadRequestWrap wraps an underlying error as a business-rule violation
func BadRequestWrap(message string, err error) *Error {
	return &Error{Kind: KindBadRequest, Message: message, Err: err}
}

// StatusCode maps an error to an HTTP status code
func StatusCode(err error) int {
	var appErr *Error
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError
	}
	switch appErr.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindBadRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Respond writes an error response. Domain errors pass through with their
// message; anything else is logged and masked so internals don't leak.
func Respond(c *gin.Context, err error) {
	var appErr *Error
	if errors.As(err, &appErr) {
		c.JSON(StatusCode(err), gin.H{"error": appErr.Message})
		return
	}
	log.Printf("internal error handling %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong"})
}
