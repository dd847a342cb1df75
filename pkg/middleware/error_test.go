package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger/zapadapter"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Ramsey-B/aster/pkg/matching"
)

func invokeErrorHandler(t *testing.T, err error) (int, ErrorResponse) {
	t.Helper()

	zapLogger, zerr := zap.NewDevelopment()
	require.NoError(t, zerr)
	handler := Error(zapadapter.NewZapEctoLogger(zapLogger, nil))

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/match", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler(err, c)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestErrorHandlerValidationError(t *testing.T) {
	code, body := invokeErrorHandler(t, matching.NewValidationError("entity", "entity is required"))

	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, body.Message, "entity is required")
	assert.Equal(t, "entity", body.Meta["field"])
}

func TestErrorHandlerStoreError(t *testing.T) {
	code, body := invokeErrorHandler(t, matching.NewStoreError("fetch active candidates", errors.New("connection refused")))

	assert.Equal(t, http.StatusBadGateway, code)
	// The upstream failure detail stays in the logs, not the response.
	assert.Contains(t, body.Message, "candidate store unavailable")
	assert.NotContains(t, body.Message, "connection refused")
}

func TestErrorHandlerHTTPError(t *testing.T) {
	code, body := invokeErrorHandler(t, httperror.NewHTTPError(http.StatusNotFound, "dataset abc not found"))

	assert.Equal(t, http.StatusNotFound, code)
	assert.Contains(t, body.Message, "dataset abc not found")
}

func TestErrorHandlerEchoHTTPError(t *testing.T) {
	code, body := invokeErrorHandler(t, echo.NewHTTPError(http.StatusMethodNotAllowed, "Method Not Allowed"))

	assert.Equal(t, http.StatusMethodNotAllowed, code)
	assert.Equal(t, "Method Not Allowed", body.Message)
}

func TestErrorHandlerUnknownError(t *testing.T) {
	code, body := invokeErrorHandler(t, errors.New("something unexpected"))

	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "Internal Server Error", body.Message)
}
