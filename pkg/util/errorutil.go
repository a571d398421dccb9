package util

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"

	"github.com/deskwise/workflow-service/internal/domain"
)

// DomainError standardizes application errors for the transport layer.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError("FORBIDDEN", message, http.StatusForbidden, nil)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts core typed errors and storage errors into
// transport-ready DomainErrors without losing their structured detail.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}

	var (
		invalid  *domain.InvalidInputError
		missing  *domain.MissingFieldsError
		illegal  *domain.IllegalTransitionError
		conflict *domain.ConcurrentModificationError
		badCfg   *domain.ConfigurationError
	)
	switch {
	case errors.As(err, &invalid):
		return NewDomainError("INVALID_INPUT", invalid.Error(), http.StatusBadRequest, map[string]any{
			"field": invalid.Field,
			"value": invalid.Value,
		})
	case errors.As(err, &missing):
		return NewDomainError("MISSING_FIELDS", missing.Error(), http.StatusBadRequest, map[string]any{
			"category": missing.Category,
			"fields":   missing.Fields,
		})
	case errors.As(err, &illegal):
		return NewDomainError("ILLEGAL_TRANSITION", illegal.Error(), http.StatusUnprocessableEntity, map[string]any{
			"category":         illegal.Category,
			"current_status":   illegal.Current,
			"requested_status": illegal.Requested,
			"allowed":          illegal.Allowed,
		})
	case errors.As(err, &conflict):
		return NewDomainError("CONCURRENT_MODIFICATION", conflict.Error(), http.StatusConflict, map[string]any{
			"ticket_id":        conflict.TicketID,
			"expected_version": conflict.ExpectedVersion,
		})
	case errors.As(err, &badCfg):
		return &DomainError{
			Code:       "CONFIGURATION_ERROR",
			Message:    badCfg.Error(),
			HTTPStatus: http.StatusInternalServerError,
			Err:        err,
		}
	case errors.Is(err, pgx.ErrNoRows):
		return NewNotFound("ticket", nil).(*DomainError)
	}

	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// MapError converts generic errors to DomainError.
func MapError(err error) error {
	return ToDomainError(err)
}
