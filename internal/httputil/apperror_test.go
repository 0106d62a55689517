package httputil

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRespondAppError_Classified(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	RespondAppError(rec, NotFound("Book with the id abc not found"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Book with the id abc not found")
	assert.Contains(t, rec.Body.String(), CodeNotFound)
}

func TestRespondAppError_Wrapped(t *testing.T) {
	t.Parallel()

	// Classification survives wrapping.
	err := fmt.Errorf("handling request: %w", Unauthorized("Invalid old password"))

	rec := httptest.NewRecorder()
	RespondAppError(rec, err)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid old password")
}

func TestRespondAppError_Unclassified(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	RespondAppError(rec, errors.New("connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), CodeInternalError)
}

func TestAppError_Unwrap(t *testing.T) {
	t.Parallel()

	inner := errors.New("no rows")
	appErr := &AppError{Status: 404, Code: CodeNotFound, Message: "User not found", Err: inner}

	assert.ErrorIs(t, appErr, inner)
	assert.Equal(t, "User not found: no rows", appErr.Error())
}
