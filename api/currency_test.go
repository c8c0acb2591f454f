package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Domenick1991/cargoquote/internal/currency"
	"github.com/Domenick1991/cargoquote/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOperatorContext(method, target, body, sessionID string) (*gin.Context, *httptest.ResponseRecorder) {
	c, w := newTestContext(method, target, body)
	c.Set(userKey, &domain.User{FullName: "Operator " + sessionID, SessionID: sessionID})
	return c, w
}

func TestCurrencyHandler_toggleAndSet(t *testing.T) {
	prefs := currency.NewPreferences(7.8, nil, time.Hour)
	handler := NewCurrencyHandler(prefs)

	c, w := newOperatorContext(http.MethodPost, "/currency/toggle", "", "ops-1")
	handler.toggle(c)
	assert.JSONEq(t, `{"currency":"HKD","hkd_per_usd":7.8}`, w.Body.String())

	c, w = newOperatorContext(http.MethodPut, "/currency", `{"currency":"usd"}`, "ops-1")
	handler.set(c)
	assert.Equal(t, http.StatusOK, w.Code)
	sel, err := prefs.Selection(context.Background(), "ops-1")
	require.NoError(t, err)
	assert.Equal(t, currency.USD, sel.Current())

	c, w = newOperatorContext(http.MethodPut, "/currency", `{"currency":"EUR"}`, "ops-1")
	handler.set(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCurrencyHandler_OperatorsDoNotShareSelection(t *testing.T) {
	handler := NewCurrencyHandler(currency.NewPreferences(7.8, nil, time.Hour))

	c, w := newOperatorContext(http.MethodPost, "/currency/toggle", "", "ops-a")
	handler.toggle(c)
	require.Equal(t, http.StatusOK, w.Code)

	c, w = newOperatorContext(http.MethodGet, "/currency/format?amount=100", "", "ops-b")
	handler.format(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"currency":"USD","amount":100,"formatted":"USD $100.00"}`, w.Body.String())

	c, w = newOperatorContext(http.MethodGet, "/currency/format?amount=100", "", "ops-a")
	handler.format(c)
	assert.JSONEq(t, `{"currency":"HKD","amount":100,"formatted":"HKD $780.00"}`, w.Body.String())
}

func TestCurrencyHandler_ClientCookieWithoutSession(t *testing.T) {
	handler := NewCurrencyHandler(currency.NewPreferences(7.8, nil, time.Hour))

	c, w := newTestContext(http.MethodPost, "/currency/toggle", "")
	handler.toggle(c)
	require.Equal(t, http.StatusOK, w.Code)
	cookie := w.Header().Get("Set-Cookie")
	require.True(t, strings.HasPrefix(cookie, clientCookie+"="), cookie)

	c, w = newTestContext(http.MethodGet, "/currency", "")
	c.Request.Header.Set("Cookie", strings.SplitN(cookie, ";", 2)[0])
	handler.current(c)
	assert.JSONEq(t, `{"currency":"HKD","hkd_per_usd":7.8}`, w.Body.String())

	c, w = newTestContext(http.MethodGet, "/currency", "")
	handler.current(c)
	assert.JSONEq(t, `{"currency":"USD","hkd_per_usd":7.8}`, w.Body.String())
}

type failingPreferences struct{}

func (failingPreferences) GetCurrency(context.Context, string) (string, error) {
	return "", errors.New("redis down")
}

func (failingPreferences) SetCurrency(context.Context, string, string, time.Duration) error {
	return errors.New("redis down")
}

func TestCurrencyHandler_StoreUnavailable(t *testing.T) {
	handler := NewCurrencyHandler(currency.NewPreferences(7.8, failingPreferences{}, time.Hour))

	c, w := newOperatorContext(http.MethodPost, "/currency/toggle", "", "ops-1")
	handler.toggle(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "DEPENDENCY_ERROR", decodeError(t, w).Code)
}

func TestCurrencyHandler_format(t *testing.T) {
	handler := NewCurrencyHandler(currency.NewPreferences(7.8, nil, time.Hour))

	c, w := newOperatorContext(http.MethodGet, "/currency/format?amount=1234.5&currency=HKD", "", "ops-1")
	handler.format(c)

	require.Equal(t, http.StatusOK, w.Code)
	var got formatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, currency.HKD, got.Currency)
	assert.Equal(t, "HKD $9,629.10", got.Formatted)
}

func TestCurrencyHandler_format_Invalid(t *testing.T) {
	handler := NewCurrencyHandler(currency.NewPreferences(7.8, nil, time.Hour))

	for _, target := range []string{
		"/currency/format",
		"/currency/format?amount=12&max=9",
		"/currency/format?amount=12&currency=JPY",
	} {
		c, w := newOperatorContext(http.MethodGet, target, "", "ops-1")
		handler.format(c)
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
	}
}
