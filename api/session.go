package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	sessions SessionManager
}

func NewSessionHandler(sessions SessionManager) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

func (h *SessionHandler) Register(router *gin.RouterGroup) {
	router.GET("/me", h.me)
	router.POST("/logout", h.logout)
}

func (h *SessionHandler) me(c *gin.Context) {
	if user, ok := sessionUser(c); ok {
		c.JSON(http.StatusOK, user)
		return
	}
	user, err := h.sessions.CurrentUser(c.Request.Context(), bearerToken(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *SessionHandler) logout(c *gin.Context) {
	if err := h.sessions.Logout(c.Request.Context(), bearerToken(c)); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
