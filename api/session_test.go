package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Domenick1991/cargoquote/internal/domain"
	"github.com/Domenick1991/cargoquote/internal/logger"
	"github.com/Domenick1991/cargoquote/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestSessionHandler_me(t *testing.T) {
	sessions := &MockSessionManager{}
	handler := NewSessionHandler(sessions)
	c, w := newTestContext(http.MethodGet, "/session/me", "")
	c.Request.Header.Set("Authorization", "Bearer tok-1")

	sessions.On("CurrentUser", c.Request.Context(), "tok-1").
		Return(&domain.User{FullName: "Ada Chan", Email: "ada@example.com"}, nil)

	handler.me(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"full_name":"Ada Chan","email":"ada@example.com"}`, w.Body.String())
}

func TestSessionHandler_me_UsesResolvedUser(t *testing.T) {
	sessions := &MockSessionManager{}
	sessions.On("CurrentUser", mock.Anything, "tok-1").
		Return(&domain.User{FullName: "Ada Chan", Email: "ada@example.com", SessionID: "sid-1"}, nil).Once()
	handler := NewSessionHandler(sessions)

	router := gin.New()
	router.GET("/session/me", RequireSession(sessions, true), handler.me)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/session/me", nil)
	req.Header.Set("Authorization", "Bearer tok-1")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"full_name":"Ada Chan","email":"ada@example.com"}`, w.Body.String())
	sessions.AssertNumberOfCalls(t, "CurrentUser", 1)
}

func TestSessionHandler_logout(t *testing.T) {
	sessions := &MockSessionManager{}
	handler := NewSessionHandler(sessions)
	c, _ := newTestContext(http.MethodPost, "/session/logout", "")
	c.Request.Header.Set("Authorization", "bearer tok-1")

	sessions.On("Logout", c.Request.Context(), "tok-1").Return(nil)

	handler.logout(c)

	assert.Equal(t, http.StatusNoContent, c.Writer.Status())
	sessions.AssertExpectations(t)
}

func newSessionRouter(sessions SessionManager, enabled bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestContext(logger.Nop()))
	router.GET("/orders", RequireSession(sessions, enabled), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func TestRequireSession(t *testing.T) {
	sessions := &MockSessionManager{}
	sessions.On("CurrentUser", mock.Anything, "").Return(nil, session.ErrUnauthenticated)
	sessions.On("CurrentUser", mock.Anything, "good").Return(&domain.User{FullName: "Ada Chan"}, nil)
	router := newSessionRouter(sessions, true)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	req.Header.Set("Authorization", "Bearer good")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))
}

func TestRequireSession_Disabled(t *testing.T) {
	sessions := &MockSessionManager{}
	router := newSessionRouter(sessions, false)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	sessions.AssertNotCalled(t, "CurrentUser")
}

func TestRequestContext_KeepsIncomingID(t *testing.T) {
	router := newSessionRouter(&MockSessionManager{}, false)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	req.Header.Set(requestIDHeader, "req-123")
	router.ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Header().Get(requestIDHeader))
}
