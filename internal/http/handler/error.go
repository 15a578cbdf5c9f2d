package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"docmanager/internal/http/middleware"
	"docmanager/internal/repository"
	"docmanager/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Details []service.Violation `json:"details,omitempty"`
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "INVALID_ID", "NOT_FOUND", "INTERNAL_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return writeErrorDetails(c, status, code, message, nil)
}

func writeErrorDetails(c *fiber.Ctx, status int, code, message string, details []service.Violation) error {
	res := errorPayload{
		RequestID: middleware.RequestIDFrom(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
	return c.Status(status).JSON(res)
}

// writeServiceError maps a service error onto the response. Store failures and
// anything unexpected become a generic 500 and are returned to the caller so
// the request log records the cause.
func writeServiceError(c *fiber.Ctx, err error) error {
	var verr *service.ValidationError
	var dup *repository.DuplicateCredentialError

	switch {
	case errors.As(err, &verr):
		return writeErrorDetails(c, fiber.StatusBadRequest, "VALIDATION_FAILED", "validation failed", verr.Violations)
	case errors.Is(err, service.ErrInvalidParent):
		return writeError(c, fiber.StatusBadRequest, "INVALID_PARENT", "parent is not one of your directories")
	case errors.Is(err, service.ErrInvalidDestination):
		return writeError(c, fiber.StatusBadRequest, "INVALID_DESTINATION", "destination is not one of your directories")
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "document not found")
	case errors.As(err, &dup):
		return writeError(c, fiber.StatusConflict, "DUPLICATE_CREDENTIAL", dup.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		return writeError(c, fiber.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid mail or password")
	default:
		if wErr := writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error"); wErr != nil {
			return wErr
		}
		return &internalError{cause: err}
	}
}

// internalError marks a failure whose 500 response has already been written.
type internalError struct {
	cause error
}

func (e *internalError) Error() string { return e.cause.Error() }
func (e *internalError) Unwrap() error { return e.cause }

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var written *internalError
		if errors.As(err, &written) {
			return nil
		}

		status := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusUnauthorized:
			return writeError(c, status, "UNAUTHORIZED", "authentication required")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
