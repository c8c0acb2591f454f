package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Domenick1991/cargoquote/config"
	"github.com/Domenick1991/cargoquote/internal/apperr"
	"github.com/Domenick1991/cargoquote/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrUnauthenticated = apperr.New(apperr.CodeUnauthorized, "authentication required")

	signingMethod = jwt.SigningMethodHS256
)

type Claims struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

type RevocationStore interface {
	RevokeSession(ctx context.Context, tokenID string, ttl time.Duration) error
	IsSessionRevoked(ctx context.Context, tokenID string) (bool, error)
}

type Manager struct {
	cfg     config.AuthConfig
	revoked RevocationStore
	now     func() time.Time
}

type ManagerOption func(*Manager)

func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.now = now
	}
}

func NewManager(cfg config.AuthConfig, revoked RevocationStore, opts ...ManagerOption) *Manager {
	if revoked == nil {
		revoked = NewMemoryRevocations()
	}
	m := &Manager{cfg: cfg, revoked: revoked, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Mint issues a signed session token for user.
func (m *Manager) Mint(user domain.User) (string, error) {
	if m.cfg.Secret == "" {
		return "", fmt.Errorf("jwt secret is required")
	}
	if m.cfg.ExpirationMinutes <= 0 {
		return "", fmt.Errorf("jwt expiration minutes must be positive")
	}
	now := m.now()
	claims := Claims{
		FullName: user.FullName,
		Email:    user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.cfg.Issuer,
			Subject:   user.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(m.cfg.ExpirationMinutes) * time.Minute)),
			ID:        uuid.NewString(),
		},
	}
	signed, err := jwt.NewWithClaims(signingMethod, claims).SignedString([]byte(m.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("signing jwt: %w", err)
	}
	return signed, nil
}

func (m *Manager) parse(ctx context.Context, token string) (*Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrUnauthenticated
	}
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(
		token,
		claims,
		func(t *jwt.Token) (interface{}, error) {
			if t.Method != signingMethod {
				return nil, fmt.Errorf("unexpected signing method %s", t.Header["alg"])
			}
			return []byte(m.cfg.Secret), nil
		},
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithIssuer(m.cfg.Issuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeUnauthorized, err, "invalid session token")
	}
	revoked, err := m.revoked.IsSessionRevoked(ctx, claims.ID)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeDependency, err, "check session revocation")
	}
	if revoked {
		return nil, apperr.New(apperr.CodeUnauthorized, "session has been logged out")
	}
	return claims, nil
}

// CurrentUser resolves the operator behind token.
func (m *Manager) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	claims, err := m.parse(ctx, token)
	if err != nil {
		return nil, err
	}
	return &domain.User{FullName: claims.FullName, Email: claims.Email, SessionID: claims.ID}, nil
}

// Logout revokes token until it would have expired anyway.
func (m *Manager) Logout(ctx context.Context, token string) error {
	claims, err := m.parse(ctx, token)
	if err != nil {
		return err
	}
	ttl := time.Minute
	if claims.ExpiresAt != nil {
		ttl = claims.ExpiresAt.Sub(m.now())
	}
	if err := m.revoked.RevokeSession(ctx, claims.ID, ttl); err != nil {
		return apperr.Wrap(apperr.CodeDependency, err, "revoke session")
	}
	return nil
}

// MemoryRevocations keeps revoked token ids in process when redis is not configured.
type MemoryRevocations struct {
	mu  sync.Mutex
	ids map[string]time.Time
	now func() time.Time
}

func NewMemoryRevocations() *MemoryRevocations {
	return &MemoryRevocations{ids: make(map[string]time.Time), now: time.Now}
}

func (r *MemoryRevocations) RevokeSession(_ context.Context, tokenID string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	for id, until := range r.ids {
		if now.After(until) {
			delete(r.ids, id)
		}
	}
	r.ids[tokenID] = now.Add(ttl)
	return nil
}

func (r *MemoryRevocations) IsSessionRevoked(_ context.Context, tokenID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	until, ok := r.ids[tokenID]
	return ok && !r.now().After(until), nil
}
