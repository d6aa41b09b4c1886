package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorKinds(t *testing.T) {
	err := fmt.Errorf("service: %w", NotFound("Company not found"))
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrConflict))

	driverErr := errors.New("connection reset")
	serr := StoreError("load company", driverErr)
	assert.True(t, errors.Is(serr, ErrStore))
	assert.True(t, errors.Is(serr, driverErr))
	assert.Nil(t, StoreError("load company", nil))
}

func TestStatusOf(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", NotFound("missing"), http.StatusNotFound, "NOT_FOUND"},
		{"validation", Validation("name", "name is required"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"invalid range", InvalidRange("bad"), http.StatusBadRequest, "INVALID_RANGE"},
		{"conflict", Conflict("exists"), http.StatusBadRequest, "CONFLICT"},
		{"store", StoreError("x", errors.New("boom")), http.StatusInternalServerError, "SERVER_ERROR"},
		{"plain", errors.New("boom"), http.StatusInternalServerError, "SERVER_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code := StatusOf(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, code)
		})
	}
}

func TestSendError_Body(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	require.NoError(t, SendError(c, Validation("advance", "advance is required")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "VALIDATION_ERROR", body.Code)
	assert.Equal(t, "advance is required", body.Message)
	assert.Equal(t, "advance is required", body.Details["advance"])
}

func TestSendError_HidesStoreDetails(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	require.NoError(t, SendError(c, StoreError("load", errors.New("password=secret"))))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secret")
}
