package httpapi

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/authvault/internal/common"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// Machine-readable error codes returned in the envelope.
const (
	CodeValidationError    = "VALIDATION_ERROR"
	CodeUserExists         = "USER_EXISTS"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeAccountLocked      = "ACCOUNT_LOCKED"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeNotFound           = "NOT_FOUND"
	CodeInternalError      = "INTERNAL_ERROR"
)

type errorBody struct {
	Message   string `json:"message"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

// errorHandler maps service errors to HTTP statuses and renders the error
// envelope. Anything unrecognized becomes a 500 with a generic message so
// internal details never leak to clients.
func (s *HTTPServer) errorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	code := CodeInternalError
	message := "Internal server error"

	var lockedErr *common.AccountLockedError
	var validationErrs validator.ValidationErrors
	var fiberErr *fiber.Error

	switch {
	case errors.As(err, &validationErrs):
		status = fiber.StatusBadRequest
		code = CodeValidationError
		message = validationMessage(validationErrs)
	case errors.As(err, &lockedErr):
		status = fiber.StatusLocked
		code = CodeAccountLocked
		message = lockedErr.Error()
	case errors.Is(err, common.ErrUserExists):
		status = fiber.StatusConflict
		code = CodeUserExists
		message = "User with this email already exists"
	case errors.Is(err, common.ErrInvalidCredentials):
		status = fiber.StatusUnauthorized
		code = CodeInvalidCredentials
		message = "Invalid email or password"
	case errors.Is(err, common.ErrInvalidResetToken):
		status = fiber.StatusBadRequest
		code = CodeInvalidToken
		message = "Invalid or expired reset token"
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrTokenExpired):
		status = fiber.StatusUnauthorized
		code = CodeInvalidToken
		message = "Invalid or expired token"
	case errors.Is(err, common.ErrorNotFound):
		status = fiber.StatusNotFound
		code = CodeUserNotFound
		message = "User not found"
	case errors.As(err, &fiberErr):
		status = fiberErr.Code
		code = codeForStatus(fiberErr.Code)
		message = fiberErr.Message
	}

	if status == fiber.StatusInternalServerError {
		s.logger.Error(c.UserContext(), "request failed",
			"method", c.Method(), "path", c.Path(), "error", err)
	}

	return c.Status(status).JSON(errorEnvelope{Error: errorBody{
		Message:   message,
		Code:      code,
		RequestID: requestID(c),
	}})
}

func codeForStatus(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return CodeValidationError
	case fiber.StatusUnauthorized:
		return CodeUnauthorized
	case fiber.StatusNotFound:
		return CodeNotFound
	default:
		return CodeInternalError
	}
}

// validationMessage flattens validator output into one human-readable line.
func validationMessage(errs validator.ValidationErrors) string {
	parts := make([]string, 0, len(errs))
	for _, fe := range errs {
		parts = append(parts, fieldMessage(fe))
	}
	return strings.Join(parts, "; ")
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters long", field, fe.Param())
	case "userpwd":
		return fmt.Sprintf("%s must contain an uppercase letter, a lowercase letter and a digit", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
