package errors

import (
	goerrors "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

type testLogger struct {
	warns  []map[string]interface{}
	errors []map[string]interface{}
}

func (l *testLogger) Warn(_ string, fields map[string]interface{}) {
	l.warns = append(l.warns, fields)
}

func (l *testLogger) Error(_ string, fields map[string]interface{}) {
	l.errors = append(l.errors, fields)
}

func TestHTTPStatus(t *testing.T) {
	tests := map[ErrorCode]int{
		ErrCodeValidationFailed: http.StatusUnprocessableEntity,
		ErrCodeClaimNotFound:    http.StatusNotFound,
		ErrCodeServerError:      http.StatusBadGateway,
		ErrCodeNetworkError:     http.StatusBadGateway,
		ErrCodeFlashStoreFailed: http.StatusInternalServerError,
		ErrCodeInternal:         http.StatusInternalServerError,
	}
	for code, want := range tests {
		assert.Equal(t, want, HTTPStatus(code), string(code))
	}
}

func TestHandleRequestError_ValidationLogsWarn(t *testing.T) {
	log := &testLogger{}
	h := NewErrorHandler(log)

	stdErr, status := h.HandleRequestError("submit-claim", NewValidationError(MsgRequiredFields, "dni"))

	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, ErrCodeValidationFailed, stdErr.Code)
	assert.Len(t, log.warns, 1)
	assert.Empty(t, log.errors)
	assert.Equal(t, "VALIDATION", log.warns[0]["errorCategory"])
}

func TestHandleRequestError_PlainErrorIsInternal(t *testing.T) {
	log := &testLogger{}
	h := NewErrorHandler(log)

	stdErr, status := h.HandleRequestError("lookup-claim", goerrors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, ErrCodeInternal, stdErr.Code)
	assert.Equal(t, "boom", stdErr.Details)
	assert.Len(t, log.errors, 1)
	assert.Equal(t, "lookup-claim", log.errors[0]["taskType"])
}
