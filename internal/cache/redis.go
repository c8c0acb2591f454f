package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/cargoquote/config"
	"github.com/Domenick1991/cargoquote/internal/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client     redis.UniversalClient
	flightsTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, flightsTTL time.Duration) *RedisCache {
	return NewRedisCacheWithClient(
		redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		flightsTTL,
	)
}

func NewRedisCacheWithClient(client redis.UniversalClient, flightsTTL time.Duration) *RedisCache {
	return &RedisCache{client: client, flightsTTL: flightsTTL}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// GetFlights returns nil, nil on a cache miss.
func (c *RedisCache) GetFlights(ctx context.Context) ([]domain.Flight, error) {
	var flights []domain.Flight
	ok, err := c.getJSON(ctx, flightsKey(), &flights)
	if err != nil || !ok {
		return nil, err
	}
	return flights, nil
}

func (c *RedisCache) SetFlights(ctx context.Context, flights []domain.Flight) error {
	return c.setJSON(ctx, flightsKey(), flights, c.flightsTTL)
}

func (c *RedisCache) InvalidateFlights(ctx context.Context) error {
	return c.client.Del(ctx, flightsKey()).Err()
}

// releaseLock deletes a lock only while it still carries the caller's token.
var releaseLock = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// AcquireFlightLock returns the owner token, or "" when the lock is held elsewhere.
func (c *RedisCache) AcquireFlightLock(ctx context.Context, flightID int64, ttl time.Duration) (string, error) {
	token := uuid.NewString()
	ok, err := c.client.SetNX(ctx, flightLockKey(flightID), token, ttl).Result()
	if err != nil || !ok {
		return "", err
	}
	return token, nil
}

func (c *RedisCache) ReleaseFlightLock(ctx context.Context, flightID int64, token string) error {
	return releaseLock.Run(ctx, c.client, []string{flightLockKey(flightID)}, token).Err()
}

// GetAvailability returns the last published board for a route, or nil on a miss.
func (c *RedisCache) GetAvailability(ctx context.Context, origin, destination string) (*domain.AvailabilitySnapshot, error) {
	var snap domain.AvailabilitySnapshot
	ok, err := c.getJSON(ctx, availabilityKey(origin, destination), &snap)
	if err != nil || !ok {
		return nil, err
	}
	return &snap, nil
}

func (c *RedisCache) SetAvailability(ctx context.Context, snap domain.AvailabilitySnapshot, ttl time.Duration) error {
	return c.setJSON(ctx, availabilityKey(snap.Origin, snap.Destination), snap, ttl)
}

// RevokeSession marks a token id as logged out until its natural expiry.
func (c *RedisCache) RevokeSession(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return c.client.Set(ctx, sessionKey(tokenID), "revoked", ttl).Err()
}

func (c *RedisCache) IsSessionRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := c.client.Exists(ctx, sessionKey(tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// GetCurrency returns the session's display currency, or "" when none is stored.
func (c *RedisCache) GetCurrency(ctx context.Context, sessionID string) (string, error) {
	code, err := c.client.Get(ctx, currencyKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return code, err
}

func (c *RedisCache) SetCurrency(ctx context.Context, sessionID, code string, ttl time.Duration) error {
	return c.client.Set(ctx, currencyKey(sessionID), code, ttl).Err()
}

func (c *RedisCache) getJSON(ctx context.Context, key string, dst any) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (c *RedisCache) setJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, ttl).Err()
}

func flightsKey() string {
	return "cache:flights"
}

func flightLockKey(flightID int64) string {
	return fmt.Sprintf("lock:flight:%d:assign", flightID)
}

func availabilityKey(origin, destination string) string {
	return fmt.Sprintf("cache:availability:%s:%s", origin, destination)
}

func sessionKey(tokenID string) string {
	return "session:revoked:" + tokenID
}

func currencyKey(sessionID string) string {
	return "session:currency:" + sessionID
}
