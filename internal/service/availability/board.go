package availability

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/Domenick1991/cargoquote/internal/apperr"
	"github.com/Domenick1991/cargoquote/internal/domain"
	"github.com/Domenick1991/cargoquote/internal/logger"
	"github.com/Domenick1991/cargoquote/internal/metrics"
)

type VendorLister interface {
	ListActive(ctx context.Context) ([]domain.TruckingVendor, error)
}

// SnapshotStore shares boards between processes. GetAvailability returns nil
// when nothing unexpired is published for the route.
type SnapshotStore interface {
	GetAvailability(ctx context.Context, origin, destination string) (*domain.AvailabilitySnapshot, error)
	SetAvailability(ctx context.Context, snap domain.AvailabilitySnapshot, ttl time.Duration) error
}

type Snapshot = domain.AvailabilitySnapshot

// Board holds the selected route and its most recent simulated availability.
type Board struct {
	sim      *Simulator
	vendors  VendorLister
	store    SnapshotStore
	ttl      time.Duration
	metrics  *metrics.Quoting
	log      *logger.Logger
	now      func() time.Time
	refresh  sync.Mutex
	mu       sync.RWMutex
	snapshot Snapshot
}

type BoardOption func(*Board)

func WithSnapshotStore(store SnapshotStore, ttl time.Duration) BoardOption {
	return func(b *Board) {
		b.store = store
		b.ttl = ttl
	}
}

func WithMetrics(m *metrics.Quoting) BoardOption {
	return func(b *Board) {
		b.metrics = m
	}
}

func WithLogger(log *logger.Logger) BoardOption {
	return func(b *Board) {
		b.log = log
	}
}

func WithClock(now func() time.Time) BoardOption {
	return func(b *Board) {
		b.now = now
	}
}

func NewBoard(sim *Simulator, vendors VendorLister, origin, destination string, opts ...BoardOption) *Board {
	b := &Board{
		sim:      sim,
		vendors:  vendors,
		metrics:  metrics.NewQuoting(nil),
		log:      logger.Nop(),
		now:      time.Now,
		snapshot: Snapshot{Origin: origin, Destination: destination},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Current returns the snapshot sorted by the requested column, generating the
// first one on demand. A newer board published by another process for the same
// route replaces the local one.
func (b *Board) Current(ctx context.Context, by SortBy) (Snapshot, error) {
	b.adoptShared(ctx)

	b.mu.RLock()
	empty := b.snapshot.GeneratedAt.IsZero()
	b.mu.RUnlock()
	if empty {
		if err := b.Refresh(ctx); err != nil {
			return Snapshot{}, err
		}
	}

	b.mu.RLock()
	snap := b.snapshot
	snap.Rows = slices.Clone(b.snapshot.Rows)
	b.mu.RUnlock()
	Sort(snap.Rows, by)
	return snap, nil
}

func (b *Board) adoptShared(ctx context.Context) {
	if b.store == nil {
		return
	}
	b.mu.RLock()
	origin, destination := b.snapshot.Origin, b.snapshot.Destination
	b.mu.RUnlock()

	shared, err := b.store.GetAvailability(ctx, origin, destination)
	if err != nil {
		b.log.Warn(ctx, "failed to read shared availability snapshot", err, map[string]any{"origin": origin, "destination": destination})
		return
	}
	if shared == nil || shared.Origin != origin || shared.Destination != destination {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.snapshot.Origin == origin && b.snapshot.Destination == destination && shared.GeneratedAt.After(b.snapshot.GeneratedAt) {
		b.snapshot = *shared
		b.snapshot.Rows = slices.Clone(shared.Rows)
	}
}

// SetRoute switches the board to a new route and regenerates it. A destination
// that is not one of the origin's distribution centers falls back to the first.
func (b *Board) SetRoute(ctx context.Context, origin, destination string) (Snapshot, error) {
	origin = strings.ToUpper(strings.TrimSpace(origin))
	centers := domain.DistributionCenters(origin)
	if len(centers) == 0 {
		return Snapshot{}, apperr.New(apperr.CodeValidation, "validation failed").
			WithDetails(map[string]string{"origin": "unknown airport"})
	}
	if !slices.Contains(centers, destination) {
		destination = centers[0]
	}

	b.mu.Lock()
	b.snapshot.Origin = origin
	b.snapshot.Destination = destination
	b.mu.Unlock()

	if err := b.Refresh(ctx); err != nil {
		return Snapshot{}, err
	}
	return b.Current(ctx, SortByCost)
}

// Refresh regenerates availability for the current route over active vendors.
func (b *Board) Refresh(ctx context.Context) error {
	b.refresh.Lock()
	defer b.refresh.Unlock()
	started := time.Now()

	vendors, err := b.vendors.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("list active vendors: %w", err)
	}

	b.mu.RLock()
	origin, destination := b.snapshot.Origin, b.snapshot.Destination
	b.mu.RUnlock()

	rows := b.sim.Generate(vendors, origin, destination)

	snap := Snapshot{Origin: origin, Destination: destination, GeneratedAt: b.now(), Rows: rows}
	b.mu.Lock()
	b.snapshot = snap
	b.mu.Unlock()

	if b.store != nil {
		if err := b.store.SetAvailability(ctx, snap, b.ttl); err != nil {
			b.log.Warn(ctx, "failed to publish availability snapshot", err, map[string]any{"origin": origin, "destination": destination})
		}
	}
	b.metrics.ObserveAvailabilityRefresh(time.Since(started))
	b.log.Debug(ctx, "availability refreshed", map[string]any{"origin": origin, "destination": destination, "vendors": len(rows)})
	return nil
}

// VendorsChanged is registered as the vendor service change hook.
func (b *Board) VendorsChanged(ctx context.Context) {
	if err := b.Refresh(ctx); err != nil {
		b.log.Warn(ctx, "availability refresh after vendor change failed", err, nil)
	}
}

// Run refreshes the board every interval until ctx is cancelled.
func (b *Board) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if err := b.Refresh(ctx); err != nil {
		b.log.Warn(ctx, "availability refresh failed", err, nil)
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := b.Refresh(ctx); err != nil {
				b.log.Warn(ctx, "availability refresh failed", err, nil)
			}
		}
	}
}
