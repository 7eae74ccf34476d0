package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"empresspc/auth"
	"empresspc/repository"
	"empresspc/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("x: %w", services.ErrValidation), http.StatusBadRequest},
		{validate.Struct(services.LoginInput{}), http.StatusBadRequest},
		{fmt.Errorf("%w: expired", auth.ErrInvalidToken), http.StatusUnauthorized},
		{services.ErrInvalidCredentials, http.StatusUnauthorized},
		{services.ErrInactiveAccount, http.StatusForbidden},
		{fmt.Errorf("q: %w", services.ErrForbidden), http.StatusForbidden},
		{fmt.Errorf("find: %w", repository.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("insert: %w", repository.ErrConflict), http.StatusConflict},
		{errors.New("socket closed"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, statusFor(c.err), "%v", c.err)
	}
}

func TestWriteErrorHidesInternalDetails(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/quotations", nil)

	writeError(w, r, zap.NewNop(), errors.New("mongo: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"internal server error"}`, w.Body.String())
}

func TestParseDate(t *testing.T) {
	got, err := parseDate("", false)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = parseDate("2026-10-15", false)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC), *got)

	got, err = parseDate("2026-10-15", true)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 15, 23, 59, 59, 999999999, time.UTC), *got)

	got, err = parseDate("2026-10-15T08:00:00Z", true)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 15, 8, 0, 0, 0, time.UTC), *got)

	_, err = parseDate("15/10/2026", false)
	assert.ErrorIs(t, err, services.ErrValidation)
}

func TestRecoverWrapper(t *testing.T) {
	h := RecoverWrapper(zap.NewNop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
