package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindsAndStatuses(t *testing.T) {
	tests := []struct {
		err    *Error
		kind   Kind
		status int
	}{
		{NewOversizedInput("a.zip", 20, 10), ErrOversizedInput, http.StatusRequestEntityTooLarge},
		{NewUnusableInput(), ErrUnusableInput, http.StatusUnprocessableEntity},
		{NewEncodingFailure(stderrors.New("too long")), ErrEncodingFailure, http.StatusUnprocessableEntity},
		{NewUploadFailure("down", nil), ErrUploadFailure, http.StatusBadGateway},
		{NewUploadInProgress(), ErrUploadInProgress, http.StatusConflict},
		{NewPersistence("save history", nil), ErrPersistence, http.StatusInternalServerError},
		{NewNotFound("history record", "x"), ErrNotFound, http.StatusNotFound},
		{NewInvalidRequest("bad"), ErrInvalidRequest, http.StatusBadRequest},
		{NewInternal(nil), ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			wrapped := fmt.Errorf("context: %w", tt.err)
			assert.True(t, Is(wrapped, tt.kind))
			assert.Equal(t, tt.kind, KindOf(wrapped))
			assert.Equal(t, tt.status, StatusOf(wrapped))
		})
	}
}

func TestUnclassified(t *testing.T) {
	err := stderrors.New("plain")

	assert.False(t, Is(err, ErrNotFound))
	assert.Equal(t, ErrInternal, KindOf(err))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(err))
}

func TestUnwrapAndMessage(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := NewUploadFailure("upload request failed", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "UPLOAD_FAILURE: upload request failed: connection refused", err.Error())
	assert.Equal(t, "NOT_FOUND: history record not found: x", NewNotFound("history record", "x").Error())
	assert.Equal(t, int64(20), NewOversizedInput("a", 20, 10).Details["size"])
}
