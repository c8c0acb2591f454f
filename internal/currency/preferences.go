package currency

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// PreferenceStore keeps one display currency per session id. GetCurrency
// returns "" when the session has no stored choice.
type PreferenceStore interface {
	GetCurrency(ctx context.Context, sessionID string) (string, error)
	SetCurrency(ctx context.Context, sessionID, code string, ttl time.Duration) error
}

// Preferences hands out a Selection per session.
type Preferences struct {
	store     PreferenceStore
	hkdPerUSD float64
	ttl       time.Duration
}

func NewPreferences(hkdPerUSD float64, store PreferenceStore, ttl time.Duration) *Preferences {
	if store == nil {
		store = NewMemoryPreferences()
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Preferences{store: store, hkdPerUSD: hkdPerUSD, ttl: ttl}
}

// Selection loads the session's choice. Unknown or empty sessions start at USD.
func (p *Preferences) Selection(ctx context.Context, sessionID string) (*Selection, error) {
	sel := NewSelection(p.hkdPerUSD)
	if sessionID == "" {
		return sel, nil
	}
	stored, err := p.store.GetCurrency(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load currency for session: %w", err)
	}
	if stored == "" {
		return sel, nil
	}
	code, err := ParseCode(stored)
	if err != nil {
		return sel, nil
	}
	sel.Set(code)
	return sel, nil
}

func (p *Preferences) Save(ctx context.Context, sessionID string, sel *Selection) error {
	if sessionID == "" {
		return nil
	}
	if err := p.store.SetCurrency(ctx, sessionID, string(sel.Current()), p.ttl); err != nil {
		return fmt.Errorf("save currency for session: %w", err)
	}
	return nil
}

type storedCode struct {
	code  string
	until time.Time
}

// MemoryPreferences is the in-process PreferenceStore used without redis.
type MemoryPreferences struct {
	mu    sync.Mutex
	codes map[string]storedCode
	now   func() time.Time
}

func NewMemoryPreferences() *MemoryPreferences {
	return &MemoryPreferences{codes: make(map[string]storedCode), now: time.Now}
}

func (m *MemoryPreferences) GetCurrency(_ context.Context, sessionID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.codes[sessionID]
	if !ok || m.now().After(stored.until) {
		return "", nil
	}
	return stored.code, nil
}

func (m *MemoryPreferences) SetCurrency(_ context.Context, sessionID, code string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	for id, stored := range m.codes {
		if now.After(stored.until) {
			delete(m.codes, id)
		}
	}
	m.codes[sessionID] = storedCode{code: code, until: now.Add(ttl)}
	return nil
}
