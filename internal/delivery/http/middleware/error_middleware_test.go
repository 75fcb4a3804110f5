package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	domainerrors "roam/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func runErrorHandler(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	m := NewErrorMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil)))
	m.HandleHTTPError(err, c)

	return rec
}

func TestErrorMiddleware_AppError(t *testing.T) {
	rec := runErrorHandler(t, errors.Wrap(domainerrors.ErrInvalidCredentials, "password mismatch"))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), domainerrors.ErrInvalidCredentials.ErrorCode())
	// The wrap context stays server-side.
	assert.NotContains(t, rec.Body.String(), "password mismatch")
}

// Expired and invalid access tokens share a status but not a business code.
func TestErrorMiddleware_DistinctTokenFailures(t *testing.T) {
	expiredRec := runErrorHandler(t, errors.Wrap(domainerrors.ErrAccessTokenExpired, "exp in the past"))
	invalidRec := runErrorHandler(t, errors.Wrap(domainerrors.ErrAccessTokenInvalid, "bad signature"))

	assert.Equal(t, http.StatusUnauthorized, expiredRec.Code)
	assert.Equal(t, http.StatusUnauthorized, invalidRec.Code)
	assert.NotEqual(t, expiredRec.Body.String(), invalidRec.Body.String())
}

func TestErrorMiddleware_SuspendedIsForbidden(t *testing.T) {
	rec := runErrorHandler(t, errors.Wrap(domainerrors.ErrAccountSuspended, "flagged by ops"))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestErrorMiddleware_EchoHTTPError(t *testing.T) {
	rec := runErrorHandler(t, echo.NewHTTPError(http.StatusNotFound, "route not found"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "HTTP_ERROR")
}

func TestErrorMiddleware_UnknownErrorIsOpaque500(t *testing.T) {
	rec := runErrorHandler(t, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "INTERNAL_ERROR")
	assert.NotContains(t, rec.Body.String(), "connection refused")
}
