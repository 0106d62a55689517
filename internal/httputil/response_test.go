package httputil

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRespondJSON(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	RespondJSON(rec, map[string]string{"message": "ok"}, http.StatusCreated)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"message":"ok"}`, rec.Body.String())
}

func TestRespondJSON_EncodeFailureBecomes500(t *testing.T) {
	t.Parallel()

	// Channels are not JSON-encodable; the failure must not leak out as a 2xx.
	rec := httptest.NewRecorder()
	RespondJSON(rec, make(chan int), http.StatusOK)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, rec.Body.String())
}

func TestRespondErrorWithCode(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	RespondErrorWithCode(rec, "Too many requests", "RATE_LIMITED", http.StatusTooManyRequests)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.JSONEq(t, `{"error":"Too many requests","code":"RATE_LIMITED"}`, rec.Body.String())
}
