package errors

import (
	"net/http"

	"github.com/Manuufarina/gestion-zoonosis/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	return e.message
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Predefined error types. User-facing messages are Spanish, matching the UI.
var (
	ErrInvalidCredentials = NewBaseError(
		http.StatusUnauthorized,
		"INVALID_CREDENTIALS",
		"Credenciales inválidas",
		"",
	)

	ErrNotSignedIn = NewBaseError(
		http.StatusUnauthorized,
		"NOT_SIGNED_IN",
		"Debe iniciar sesión",
		"",
	)

	ErrUnknownAction = NewBaseError(
		http.StatusBadRequest,
		"UNKNOWN_ACTION",
		"Acción desconocida",
		"",
	)

	ErrInvalidTransition = NewBaseError(
		http.StatusConflict,
		"INVALID_TRANSITION",
		"La acción no es válida en la pantalla actual",
		"",
	)

	ErrRecordNotFound = NewBaseError(
		http.StatusNotFound,
		"RECORD_NOT_FOUND",
		"No se encontró el registro",
		"",
	)

	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"Hay campos obligatorios sin completar",
		"",
	)

	ErrExportFailed = NewBaseError(
		http.StatusInternalServerError,
		"EXPORT_FAILED",
		"No se pudo generar el documento",
		"",
	)

	ErrArtifactNotFound = NewBaseError(
		http.StatusNotFound,
		"ARTIFACT_NOT_FOUND",
		"No se encontró el archivo exportado",
		"",
	)
)
