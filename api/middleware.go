package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/Domenick1991/cargoquote/internal/domain"
	"github.com/Domenick1991/cargoquote/internal/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"
	userKey         = "user"
	clientCookie    = "cargoquote_client"
)

type SessionManager interface {
	CurrentUser(ctx context.Context, token string) (*domain.User, error)
	Logout(ctx context.Context, token string) error
}

// RequestContext tags each request with an id and exposes the logger to handlers.
func RequestContext(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(requestIDHeader, requestID)
		c.Request = c.Request.WithContext(log.WithRequestID(c.Request.Context(), requestID))
		c.Set(loggerKey, log)

		started := time.Now()
		c.Next()

		log.Info(c.Request.Context(), "http request", map[string]any{
			"method":      c.Request.Method,
			"path":        c.FullPath(),
			"status":      c.Writer.Status(),
			"duration_ms": time.Since(started).Milliseconds(),
		})
	}
}

// RequireSession rejects requests without a valid bearer token. When disabled
// every request passes.
func RequireSession(sessions SessionManager, enabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !enabled {
			c.Next()
			return
		}
		user, err := sessions.CurrentUser(c.Request.Context(), bearerToken(c))
		if err != nil {
			writeError(c, err)
			return
		}
		c.Set(userKey, user)
		c.Next()
	}
}

// sessionUser returns the operator RequireSession resolved for this request.
func sessionUser(c *gin.Context) (*domain.User, bool) {
	value, ok := c.Get(userKey)
	if !ok {
		return nil, false
	}
	user, ok := value.(*domain.User)
	return user, ok && user != nil
}

// consumerID keys per-operator state. Authenticated requests use the session
// id; otherwise a client cookie is minted on first use.
func consumerID(c *gin.Context) string {
	if user, ok := sessionUser(c); ok && user.SessionID != "" {
		return user.SessionID
	}
	if id, err := c.Cookie(clientCookie); err == nil && id != "" {
		return id
	}
	id := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(clientCookie, id, 0, "/", "", false, true)
	return id
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}
