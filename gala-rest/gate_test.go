package galarest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tj/assert"
)

type ensurerFunc func(ctx context.Context) error

func (fn ensurerFunc) Ensure(ctx context.Context) error { return fn(ctx) }

func TestGateRejectsWhenUnavailable(t *testing.T) {
	var handled bool
	gate := Gate(ensurerFunc(func(ctx context.Context) error {
		return errors.New("unable to connect to database: connection refused")
	}))
	handler := gate(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		handled = true
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/events", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.False(t, handled)

	var body map[string]string
	assert.Nil(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "unable to connect to database: connection refused", body["error"])
}

func TestGatePassesThroughWhenReady(t *testing.T) {
	gate := Gate(ensurerFunc(func(ctx context.Context) error { return nil }))
	handler := gate(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/events", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
}
