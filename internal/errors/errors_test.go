package errors

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIErrorInterface(t *testing.T) {
	err := New(http.StatusBadRequest, "INVALID_REQUEST", "bad input")

	assert.Equal(t, "bad input", err.Error())
	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, "INVALID_REQUEST", err.ErrorCode)
}

func TestErrValidationCarriesFieldDetails(t *testing.T) {
	err := ErrValidation("min_size", "must be non-negative")

	detail, ok := err.Details.(ValidationError)
	require.True(t, ok)
	assert.Equal(t, "min_size", detail.Field)
	assert.Equal(t, "must be non-negative", detail.Message)
}

func TestHandleErrorRendersAPIError(t *testing.T) {
	handler := NewErrorHandler(slog.Default())
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/price-analysis", nil)

	handler.HandleError(rec, req, ErrNoListingsFound)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "NO_LISTINGS_MATCH")
	assert.Contains(t, rec.Body.String(), `"success":false`)
}

func TestHandleErrorMapsUnknownErrorsTo500(t *testing.T) {
	handler := NewErrorHandler(slog.Default())
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	handler.HandleError(rec, req, stderrors.New("pool exhausted: secret dsn"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secret dsn")
}

func TestHandleErrorMapsContextTimeout(t *testing.T) {
	handler := NewErrorHandler(slog.Default())
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	handler.HandleError(rec, req, context.DeadlineExceeded)

	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
}

func TestHandleErrorIgnoresNil(t *testing.T) {
	handler := NewErrorHandler(slog.Default())
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	handler.HandleError(rec, req, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
}
