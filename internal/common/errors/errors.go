// Package errors provides the error taxonomy shared by the portal actions and the claims API client.
package errors

import (
	goerrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeServerError      ErrorCode = "SERVER_ERROR"
	ErrCodeNetworkError     ErrorCode = "NETWORK_ERROR"
	ErrCodeClaimNotFound    ErrorCode = "CLAIM_NOT_FOUND"

	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeFlashStoreFailed       ErrorCode = "FLASH_STORE_FAILED"
	ErrCodeConfigInvalid          ErrorCode = "CONFIG_INVALID"
	ErrCodeInternal               ErrorCode = "INTERNAL_ERROR"
)

// Default user-facing messages.
const (
	MsgRequiredFields = "Por favor, rellena todos los campos obligatorios."
	MsgServerDefault  = "Error en el servidor"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewValidationError reports a form that cannot be submitted. fields lists the
// offending form fields by their form name.
func NewValidationError(message string, fields ...string) *StandardError {
	if fields == nil {
		fields = []string{}
	}
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   message,
		Details:   strings.Join(fields, ","),
		Retryable: false,
		Metadata:  map[string]interface{}{"fields": fields},
		Timestamp: time.Now().UTC(),
	}
}

// NewServerError wraps a non-2xx answer from the claims API. message is the
// server-provided error text; an empty one falls back to MsgServerDefault.
func NewServerError(status int, message string) *StandardError {
	if strings.TrimSpace(message) == "" {
		message = MsgServerDefault
	}
	return &StandardError{
		Code:      ErrCodeServerError,
		Message:   message,
		Details:   fmt.Sprintf("status: %d", status),
		Retryable: status >= 500,
		Metadata:  map[string]interface{}{"status": status},
		Timestamp: time.Now().UTC(),
	}
}

// NewNetworkError wraps a transport failure. The underlying error text is what
// the user sees.
func NewNetworkError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNetworkError,
		Message:   "Claims API unreachable",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewClaimNotFoundError is returned by lookups that got a non-2xx answer.
func NewClaimNotFoundError(query string, status int) *StandardError {
	return &StandardError{
		Code:      ErrCodeClaimNotFound,
		Message:   "No se encontró ningún expediente con ese ID/DNI.",
		Details:   fmt.Sprintf("search: %s, status: %d", query, status),
		Retryable: false,
		Metadata:  map[string]interface{}{"status": status},
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendFailedError creates a notification delivery error.
func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Notification delivery failed",
		Details:   fmt.Sprintf("channel: %s, error: %s", channel, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewFlashStoreFailedError reports a flash message that could not be stored or read.
func NewFlashStoreFailedError(op string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeFlashStoreFailed,
		Message:   "Flash store unavailable",
		Details:   fmt.Sprintf("op: %s, error: %s", op, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewConfigError creates a configuration error.
func NewConfigError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeConfigInvalid,
		Message:   "Invalid configuration",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// AsStandardError unwraps err into a StandardError. Plain errors are normalized
// to INTERNAL_ERROR so callers always get something displayable.
func AsStandardError(err error) (*StandardError, bool) {
	if err == nil {
		return nil, false
	}
	var stdErr *StandardError
	if goerrors.As(err, &stdErr) {
		return stdErr, true
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Timestamp: time.Now().UTC(),
	}, false
}

// HasCode reports whether err is a StandardError carrying code.
func HasCode(err error, code ErrorCode) bool {
	var stdErr *StandardError
	return goerrors.As(err, &stdErr) && stdErr.Code == code
}

// Fields returns the offending form fields of a validation error.
func Fields(err error) []string {
	var stdErr *StandardError
	if !goerrors.As(err, &stdErr) || stdErr.Metadata == nil {
		return nil
	}
	fields, _ := stdErr.Metadata["fields"].([]string)
	return fields
}

// DisplayMessage is the text shown to the user for err. Network errors show
// the underlying transport error, everything else its message.
func DisplayMessage(err error) string {
	stdErr, _ := AsStandardError(err)
	if stdErr == nil {
		return ""
	}
	if stdErr.Code == ErrCodeNetworkError || stdErr.Code == ErrCodeInternal {
		return stdErr.Details
	}
	return stdErr.Message
}

// GetErrorCategory returns the category of the error code, used as a log and metric label.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	case strings.Contains(codeStr, "SERVER") || strings.Contains(codeStr, "NOT_FOUND"):
		return "CLAIMS_API"
	case strings.Contains(codeStr, "NETWORK"):
		return "NETWORK"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "FLASH") || strings.Contains(codeStr, "CONFIG"):
		return "INFRASTRUCTURE"
	default:
		return "OTHER"
	}
}
