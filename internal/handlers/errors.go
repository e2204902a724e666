package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// ValidationError reports a missing, blank or malformed request field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func missingField(field string) *ValidationError {
	return &ValidationError{Field: field, Message: "Missing or empty required field: " + field}
}

func invalidField(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Message: "Invalid value for field " + field + ": " + reason}
}

// ConflictError reports a uniqueness violation.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// NotFoundError reports that the addressed record does not exist.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

// PersistenceError wraps an unexpected storage failure. Message is what the
// client sees, Err is only logged.
type PersistenceError struct {
	Message string
	Err     error
}

func (e *PersistenceError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// isDuplicateKey reports whether err is a unique constraint violation. Drivers
// that do not translate errors are matched on their message.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}

func statusFor(err error) int {
	var (
		verr *ValidationError
		cerr *ConflictError
		nerr *NotFoundError
		perr *PersistenceError
	)
	switch {
	case errors.As(err, &verr), errors.As(err, &cerr), errors.As(err, &perr):
		return http.StatusBadRequest
	case errors.As(err, &nerr):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as {"message": ...} with the status its kind maps to.
func respondError(c *gin.Context, log zerolog.Logger, err error) {
	status := statusFor(err)

	var perr *PersistenceError
	switch {
	case errors.As(err, &perr):
		log.Error().Err(perr.Err).Str("path", c.FullPath()).Msg(perr.Message)
		c.JSON(status, gin.H{"message": perr.Message})
	case status == http.StatusInternalServerError:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("unhandled error")
		c.JSON(status, gin.H{"message": "Internal server error"})
	default:
		c.JSON(status, gin.H{"message": err.Error()})
	}
}
