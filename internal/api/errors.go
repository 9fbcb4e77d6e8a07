package api

import (
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/JovelRamos/myfi-server/internal/errors"
	"github.com/JovelRamos/myfi-server/internal/scorer"
	"github.com/JovelRamos/myfi-server/internal/service"
	"github.com/JovelRamos/myfi-server/internal/store"
)

// APIError is a custom error type that implements huma.StatusError.
// It maps domain errors to HTTP responses with consistent structure.
type APIError struct { //nolint:revive // API prefix is intentional for clarity
	status  int
	Code    string `json:"code" doc:"Machine-readable error code"`
	Message string `json:"message" doc:"Human-readable error message"`
	Details any    `json:"details,omitempty" doc:"Additional error details"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// GetStatus implements huma.StatusError.
func (e *APIError) GetStatus() int {
	return e.status
}

// ContentType returns the content type for the error response.
func (e *APIError) ContentType(_ string) string {
	return "application/json"
}

// RegisterErrorHandler configures huma to use domain errors.
// Call this after creating the huma.API but before registering routes.
func RegisterErrorHandler() {
	huma.NewError = func(status int, message string, errs ...error) huma.StatusError {
		for _, err := range errs {
			if apiErr := convertError(err); apiErr != nil {
				return apiErr
			}
		}

		return &APIError{
			status:  status,
			Code:    statusToCode(status),
			Message: message,
		}
	}
}

// convertError maps known error types to an APIError, or nil when the
// error carries no mapping of its own.
func convertError(err error) *APIError {
	var domainErr *domainerrors.Error
	if errors.As(err, &domainErr) {
		return &APIError{
			status:  domainErr.HTTPStatus(),
			Code:    string(domainErr.Code),
			Message: domainErr.Message,
			Details: domainErr.Details,
		}
	}

	// An unresolvable anchor is a client mistake, not a server fault.
	var unknownBook *service.UnknownBookError
	if errors.As(err, &unknownBook) {
		return &APIError{
			status:  http.StatusBadRequest,
			Code:    string(domainerrors.CodeValidation),
			Message: unknownBook.Error(),
		}
	}

	// Scoring engine failures surface as a bad upstream dependency.
	var procErr *scorer.ProcessError
	if errors.As(err, &procErr) {
		status := http.StatusBadGateway
		if procErr.Timeout {
			status = http.StatusGatewayTimeout
		}
		return &APIError{
			status:  status,
			Code:    string(domainerrors.CodeUnavailable),
			Message: procErr.Error(),
		}
	}
	var malformedErr *scorer.MalformedOutputError
	if errors.As(err, &malformedErr) {
		return &APIError{
			status:  http.StatusBadGateway,
			Code:    string(domainerrors.CodeUnavailable),
			Message: malformedErr.Error(),
		}
	}

	var storeErr *store.Error
	if errors.As(err, &storeErr) {
		return &APIError{
			status:  storeErr.HTTPCode(),
			Code:    statusToCode(storeErr.HTTPCode()),
			Message: storeErr.Message,
		}
	}

	return nil
}

// statusToCode maps HTTP status codes to our domain error codes.
func statusToCode(status int) string {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return string(domainerrors.CodeValidation)
	case http.StatusNotFound:
		return string(domainerrors.CodeNotFound)
	case http.StatusConflict:
		return string(domainerrors.CodeConflict)
	case http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusGatewayTimeout, http.StatusTooManyRequests:
		return string(domainerrors.CodeUnavailable)
	default:
		return string(domainerrors.CodeInternal)
	}
}
