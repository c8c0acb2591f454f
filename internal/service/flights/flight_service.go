package flights

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/cargoquote/internal/apperr"
	"github.com/Domenick1991/cargoquote/internal/domain"
	"github.com/Domenick1991/cargoquote/internal/kafka"
	"github.com/Domenick1991/cargoquote/internal/logger"
	"github.com/Domenick1991/cargoquote/internal/metrics"
	"github.com/Domenick1991/cargoquote/internal/repository"
)

type FlightUseCase interface {
	List(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	MatchingFlights(ctx context.Context, orderID int64, window domain.DateRange) ([]domain.Flight, error)
	Assign(ctx context.Context, orderID, flightID int64) (*Assignment, error)
	PendingOrders(ctx context.Context) ([]domain.Order, error)
	ConfirmedOrders(ctx context.Context) ([]ConfirmedOrder, error)
}

type FlightCache interface {
	GetFlights(ctx context.Context) ([]domain.Flight, error)
	SetFlights(ctx context.Context, flights []domain.Flight) error
	InvalidateFlights(ctx context.Context) error
	// AcquireFlightLock returns an owner token, empty when another holder has the lock.
	AcquireFlightLock(ctx context.Context, flightID int64, ttl time.Duration) (string, error)
	ReleaseFlightLock(ctx context.Context, flightID int64, token string) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type Assignment struct {
	Order  domain.Order  `json:"order"`
	Flight domain.Flight `json:"flight"`
}

type ConfirmedOrder struct {
	domain.Order
	Flight *domain.Flight `json:"flight,omitempty"`
}

type FlightService struct {
	repo               repository.FlightRepository
	orders             repository.OrderRepository
	cache              FlightCache
	lockTTL            time.Duration
	producer           Producer
	eventsTopic        string
	notificationsTopic string
	metrics            *metrics.Quoting
	log                *logger.Logger
	now                func() time.Time
}

type FlightServiceOption func(*FlightService)

func WithCache(cache FlightCache, lockTTL time.Duration) FlightServiceOption {
	return func(s *FlightService) {
		s.cache = cache
		s.lockTTL = lockTTL
	}
}

func WithProducer(producer Producer, eventsTopic, notificationsTopic string) FlightServiceOption {
	return func(s *FlightService) {
		s.producer = producer
		s.eventsTopic = eventsTopic
		s.notificationsTopic = notificationsTopic
	}
}

func WithMetrics(m *metrics.Quoting) FlightServiceOption {
	return func(s *FlightService) {
		s.metrics = m
	}
}

func WithLogger(log *logger.Logger) FlightServiceOption {
	return func(s *FlightService) {
		s.log = log
	}
}

func NewFlightService(repo repository.FlightRepository, orders repository.OrderRepository, opts ...FlightServiceOption) *FlightService {
	s := &FlightService{
		repo:    repo,
		orders:  orders,
		lockTTL: 30 * time.Second,
		metrics: metrics.NewQuoting(nil),
		log:     logger.Nop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *FlightService) all(ctx context.Context) ([]domain.Flight, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetFlights(ctx); err == nil && cached != nil {
			return cached, nil
		} else if err != nil {
			s.log.Warn(ctx, "flight cache read failed", err, nil)
		}
	}

	flights, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list flights: %w", err)
	}
	if s.cache != nil {
		if err := s.cache.SetFlights(ctx, flights); err != nil {
			s.log.Warn(ctx, "flight cache write failed", err, nil)
		}
	}
	return flights, nil
}

// List returns flights matching the schedule filter. Empty origin or
// destination matches every airport.
func (s *FlightService) List(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, error) {
	flights, err := s.all(ctx)
	if err != nil {
		return nil, err
	}
	origin := strings.ToUpper(filter.Origin)
	destination := strings.ToUpper(filter.Destination)

	out := make([]domain.Flight, 0, len(flights))
	for _, f := range flights {
		if origin != "" && f.OriginAirport != origin {
			continue
		}
		if destination != "" && f.DestinationAirport != destination {
			continue
		}
		if !filter.Departure.Contains(f.DepartureDate) {
			continue
		}
		out = append(out, f)
	}
	return out, nil
}

func (s *FlightService) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *FlightService) MatchingFlights(ctx context.Context, orderID int64, window domain.DateRange) ([]domain.Flight, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	flights, err := s.all(ctx)
	if err != nil {
		return nil, err
	}
	return Match(*order, flights, window), nil
}

// Match keeps scheduled flights on the order's exact route with room for its
// full weight, departing inside window when the window is set.
func Match(order domain.Order, flights []domain.Flight, window domain.DateRange) []domain.Flight {
	out := make([]domain.Flight, 0)
	for _, f := range flights {
		if f.OriginAirport != order.OriginAirport || f.DestinationAirport != order.DestinationAirport {
			continue
		}
		if f.AvailableCapacityKg < order.WeightKg {
			continue
		}
		if f.Status != domain.FlightStatusScheduled {
			continue
		}
		if !window.Contains(f.DepartureDate) {
			continue
		}
		out = append(out, f)
	}
	return out
}

func alreadyAssigned(order *domain.Order) error {
	if order.AssignedFlightID == nil {
		return nil
	}
	return apperr.Newf(apperr.CodeStateConflict, "order %s is already assigned to flight %d", order.OrderNumber, *order.AssignedFlightID)
}

// Assign books an order onto a flight. Capacity is written first; if the
// order write then fails the previous capacity is restored. Remaining capacity
// is not checked here, callers pick flights through Match. The order write only
// succeeds on an unassigned order; losing that race also restores capacity.
func (s *FlightService) Assign(ctx context.Context, orderID, flightID int64) (*Assignment, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := alreadyAssigned(order); err != nil {
		return nil, err
	}

	if s.cache != nil {
		token, err := s.cache.AcquireFlightLock(ctx, flightID, s.lockTTL)
		if err != nil {
			return nil, apperr.Wrap(apperr.CodeDependency, err, "acquire flight lock")
		}
		if token == "" {
			return nil, apperr.Newf(apperr.CodeConflict, "flight %d is being assigned by another operator", flightID)
		}
		defer func() {
			if err := s.cache.ReleaseFlightLock(context.WithoutCancel(ctx), flightID, token); err != nil {
				s.log.Warn(ctx, "failed to release flight lock", err, map[string]any{"flight_id": flightID})
			}
		}()

		// another flight's lock may have booked the order meanwhile
		order, err = s.orders.GetByID(ctx, orderID)
		if err != nil {
			return nil, err
		}
		if err := alreadyAssigned(order); err != nil {
			return nil, err
		}
	}

	flight, err := s.repo.GetByID(ctx, flightID)
	if err != nil {
		return nil, err
	}
	previous := flight.AvailableCapacityKg
	remaining := previous - order.WeightKg

	updatedFlight, err := s.repo.SetAvailableCapacity(ctx, flightID, remaining)
	if err != nil {
		return nil, fmt.Errorf("update flight %d capacity: %w", flightID, err)
	}

	completed := domain.OrderStatusCompleted
	patch := domain.OrderPatch{AssignedFlightID: &flightID}
	if !order.Status.Reaches(completed) {
		patch.Status = &completed
	}
	updatedOrder, err := s.orders.Update(ctx, orderID, patch)
	if err != nil {
		_, compErr := s.repo.SetAvailableCapacity(ctx, flightID, previous)
		s.metrics.Compensation("assign_flight", compErr == nil)
		if compErr != nil {
			s.log.Error(ctx, "failed to restore flight capacity after order update failure", compErr, map[string]any{"flight_id": flightID, "order_id": orderID})
		}
		s.invalidate(ctx)
		return nil, fmt.Errorf("assign order %d: %w", orderID, err)
	}

	s.invalidate(ctx)
	s.metrics.FlightAssigned()
	s.publish(ctx, updatedOrder, updatedFlight)
	s.log.Info(ctx, "order assigned to flight", map[string]any{
		"order_id":      orderID,
		"flight_id":     flightID,
		"available_kg":  updatedFlight.AvailableCapacityKg,
		"flight_number": updatedFlight.FlightNumber,
	})
	return &Assignment{Order: *updatedOrder, Flight: *updatedFlight}, nil
}

// PendingOrders lists quoted or completed orders still waiting for a flight.
func (s *FlightService) PendingOrders(ctx context.Context) ([]domain.Order, error) {
	all, err := s.orders.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	out := make([]domain.Order, 0)
	for _, o := range all {
		if o.AssignedFlightID != nil {
			continue
		}
		if o.Status == domain.OrderStatusQuoted || o.Status == domain.OrderStatusCompleted {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *FlightService) ConfirmedOrders(ctx context.Context) ([]ConfirmedOrder, error) {
	all, err := s.orders.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	flights, err := s.all(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]domain.Flight, len(flights))
	for _, f := range flights {
		byID[f.ID] = f
	}

	out := make([]ConfirmedOrder, 0)
	for _, o := range all {
		if o.AssignedFlightID == nil {
			continue
		}
		c := ConfirmedOrder{Order: o}
		if f, ok := byID[*o.AssignedFlightID]; ok {
			c.Flight = &f
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *FlightService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateFlights(ctx); err != nil {
		s.log.Warn(ctx, "failed to invalidate flight cache", err, nil)
	}
}

func (s *FlightService) publish(ctx context.Context, order *domain.Order, flight *domain.Flight) {
	if s.producer == nil {
		return
	}
	event := kafka.QuotationEvent{
		Type:         kafka.EventFlightAssigned,
		OrderID:      order.ID,
		OrderNumber:  order.OrderNumber,
		FlightID:     flight.ID,
		FlightNumber: flight.FlightNumber,
		OccurredAt:   s.now(),
	}
	if err := s.producer.Publish(ctx, s.eventsTopic, event.Key(), event); err != nil {
		s.log.Warn(ctx, "failed to publish assignment event", err, map[string]any{"order_id": order.ID})
		return
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, event.Key(), event); err != nil {
			s.log.Warn(ctx, "failed to publish notification", err, map[string]any{"order_id": order.ID})
		}
	}
}

var _ FlightUseCase = (*FlightService)(nil)
