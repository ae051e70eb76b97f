package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/foodgramapp/foodgram-server/internal/errors"
	"github.com/foodgramapp/foodgram-server/internal/logger"
	"github.com/foodgramapp/foodgram-server/internal/store"
)

// APIError is the JSON error body for every failed request.
type APIError struct { //nolint:revive // API prefix is intentional for clarity
	status  int
	Code    string `json:"code" doc:"Machine-readable error code"`
	Message string `json:"message" doc:"Human-readable error message"`
	Details any    `json:"details,omitempty" doc:"Per-field messages for validation errors"`
}

func (e *APIError) Error() string {
	return e.Message
}

// GetStatus implements huma.StatusError.
func (e *APIError) GetStatus() int {
	return e.status
}

func (e *APIError) ContentType(_ string) string {
	return "application/json"
}

// RegisterErrorHandler makes huma render domain and store errors as APIError.
// Server errors are logged with their full cause chain, which the response
// body never carries. Call it before registering routes.
func RegisterErrorHandler(log *slog.Logger) {
	huma.NewError = newAPIError
	huma.NewErrorWithContext = func(ctx huma.Context, status int, message string, errs ...error) huma.StatusError {
		apiErr := newAPIError(status, message, errs...)
		if apiErr.GetStatus() >= http.StatusInternalServerError {
			reqLog := log
			if ctx != nil {
				reqLog = logger.FromContext(ctx.Context(), log)
			}
			reqLog.Error("request failed",
				"status", apiErr.GetStatus(),
				"message", message,
				"error", errors.Join(errs...),
			)
		}
		return apiErr
	}
}

func newAPIError(status int, message string, errs ...error) huma.StatusError {
	for _, err := range errs {
		var domainErr *domainerrors.Error
		if errors.As(err, &domainErr) {
			return &APIError{
				status:  domainErr.HTTPStatus(),
				Code:    string(domainErr.Code),
				Message: domainErr.Message,
				Details: domainErr.Details,
			}
		}
		if errors.Is(err, store.ErrNotFound) {
			return &APIError{status: http.StatusNotFound, Code: string(domainerrors.CodeNotFound), Message: err.Error()}
		}
	}

	// Schema violations found by huma are client errors like any other
	// validation failure.
	if status == http.StatusUnprocessableEntity {
		status = http.StatusBadRequest
	}

	apiErr := &APIError{status: status, Code: statusToCode(status), Message: message}
	if details := fieldDetails(errs); len(details) > 0 {
		apiErr.Details = details
	}
	return apiErr
}

// fieldDetails collects huma's per-location messages.
func fieldDetails(errs []error) map[string]string {
	details := make(map[string]string)
	for _, err := range errs {
		var detail *huma.ErrorDetail
		if errors.As(err, &detail) {
			key := detail.Location
			if key == "" {
				key = "request"
			}
			details[key] = detail.Message
		}
	}
	return details
}

func statusToCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return string(domainerrors.CodeValidation)
	case http.StatusUnauthorized:
		return string(domainerrors.CodeUnauthorized)
	case http.StatusForbidden:
		return string(domainerrors.CodeForbidden)
	case http.StatusNotFound:
		return string(domainerrors.CodeNotFound)
	case http.StatusConflict:
		return string(domainerrors.CodeConflict)
	case http.StatusTooManyRequests:
		return "RATE_LIMITED"
	default:
		return string(domainerrors.CodeInternal)
	}
}
