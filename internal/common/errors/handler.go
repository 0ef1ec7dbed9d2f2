// internal/common/errors/handler.go
package errors

import "net/http"

// ErrorHandler handles action failures with standardized logging and status mapping.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// HandleRequestError normalizes err, logs it, and returns the status the
// page should be rendered with.
func (h *ErrorHandler) HandleRequestError(taskType string, err error) (*StandardError, int) {
	stdErr, _ := AsStandardError(err)
	status := HTTPStatus(stdErr.Code)
	h.logError(taskType, stdErr, status)
	return stdErr, status
}

// HTTPStatus maps an error code onto the response status of the portal page.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeValidationFailed:
		return http.StatusUnprocessableEntity
	case ErrCodeClaimNotFound:
		return http.StatusNotFound
	case ErrCodeServerError, ErrCodeNetworkError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *ErrorHandler) logError(taskType string, stdErr *StandardError, status int) {
	fields := map[string]interface{}{
		"taskType":      taskType,
		"errorCode":     string(stdErr.Code),
		"message":       stdErr.Message,
		"details":       stdErr.Details,
		"retryable":     stdErr.Retryable,
		"errorCategory": GetErrorCategory(stdErr.Code),
		"status":        status,
	}
	// Bad input is the user's problem, not ours.
	if status < http.StatusInternalServerError {
		h.logger.Warn("Action rejected", fields)
		return
	}
	h.logger.Error("Action failed", fields)
}
