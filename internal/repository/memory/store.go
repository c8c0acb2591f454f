package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Domenick1991/cargoquote/internal/apperr"
	"github.com/Domenick1991/cargoquote/internal/domain"
	"github.com/Domenick1991/cargoquote/internal/repository"
)

// Store keeps every entity in process memory. It backs the service when no
// database is configured and gives tests a real entity store.
type Store struct {
	mu         sync.RWMutex
	now        func() time.Time
	seq        int64
	orders     map[int64]domain.Order
	vendors    map[int64]domain.TruckingVendor
	quotations map[int64]domain.Quotation
	flights    map[int64]domain.Flight
}

func NewStore() *Store {
	return NewStoreWithClock(time.Now)
}

func NewStoreWithClock(now func() time.Time) *Store {
	return &Store{
		now:        now,
		orders:     make(map[int64]domain.Order),
		vendors:    make(map[int64]domain.TruckingVendor),
		quotations: make(map[int64]domain.Quotation),
		flights:    make(map[int64]domain.Flight),
	}
}

func (s *Store) Orders() repository.OrderRepository         { return orderRepo{s} }
func (s *Store) Vendors() repository.VendorRepository       { return vendorRepo{s} }
func (s *Store) Quotations() repository.QuotationRepository { return quotationRepo{s} }
func (s *Store) Flights() repository.FlightRepository       { return flightRepo{s} }

func (s *Store) nextID() int64 {
	s.seq++
	return s.seq
}

func notFound(entity string, id int64) error {
	return apperr.Newf(apperr.CodeNotFound, "%s %d not found", entity, id)
}

type orderRepo struct{ s *Store }

func (r orderRepo) List(_ context.Context) ([]domain.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.Order, 0, len(r.s.orders))
	for _, o := range r.s.orders {
		out = append(out, cloneOrder(o))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r orderRepo) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, notFound("order", id)
	}
	c := cloneOrder(o)
	return &c, nil
}

func (r orderRepo) Create(_ context.Context, order *domain.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.orders {
		if existing.OrderNumber == order.OrderNumber {
			return apperr.Newf(apperr.CodeConflict, "order number %s already exists", order.OrderNumber)
		}
	}
	order.ID = r.s.nextID()
	order.CreatedAt = r.s.now()
	order.UpdatedAt = order.CreatedAt
	r.s.orders[order.ID] = cloneOrder(*order)
	return nil
}

func (r orderRepo) Update(_ context.Context, id int64, patch domain.OrderPatch) (*domain.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, notFound("order", id)
	}
	if patch.AssignedFlightID != nil && o.AssignedFlightID != nil {
		return nil, repository.AlreadyAssigned(id)
	}
	if patch.Status != nil {
		o.Status = *patch.Status
	}
	if patch.AssignedFlightID != nil {
		flightID := *patch.AssignedFlightID
		o.AssignedFlightID = &flightID
	}
	o.UpdatedAt = r.s.now()
	r.s.orders[id] = o
	c := cloneOrder(o)
	return &c, nil
}

func (r orderRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.orders[id]; !ok {
		return notFound("order", id)
	}
	delete(r.s.orders, id)
	return nil
}

func cloneOrder(o domain.Order) domain.Order {
	o.DistributionCenters = append([]string(nil), o.DistributionCenters...)
	if o.TruckingVendorID != nil {
		v := *o.TruckingVendorID
		o.TruckingVendorID = &v
	}
	if o.AssignedFlightID != nil {
		f := *o.AssignedFlightID
		o.AssignedFlightID = &f
	}
	return o
}

type vendorRepo struct{ s *Store }

func (r vendorRepo) list(keep func(domain.TruckingVendor) bool) []domain.TruckingVendor {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.TruckingVendor, 0, len(r.s.vendors))
	for _, v := range r.s.vendors {
		if keep(v) {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (r vendorRepo) List(_ context.Context) ([]domain.TruckingVendor, error) {
	return r.list(func(domain.TruckingVendor) bool { return true }), nil
}

func (r vendorRepo) ListActive(_ context.Context) ([]domain.TruckingVendor, error) {
	return r.list(func(v domain.TruckingVendor) bool { return v.IsActive }), nil
}

func (r vendorRepo) GetByID(_ context.Context, id int64) (*domain.TruckingVendor, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	v, ok := r.s.vendors[id]
	if !ok {
		return nil, notFound("vendor", id)
	}
	return &v, nil
}

func (r vendorRepo) Create(_ context.Context, v *domain.TruckingVendor) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v.ID = r.s.nextID()
	v.CreatedAt = r.s.now()
	v.UpdatedAt = v.CreatedAt
	r.s.vendors[v.ID] = *v
	return nil
}

func (r vendorRepo) Update(_ context.Context, v *domain.TruckingVendor) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.vendors[v.ID]
	if !ok {
		return notFound("vendor", v.ID)
	}
	v.CreatedAt = existing.CreatedAt
	v.UpdatedAt = r.s.now()
	r.s.vendors[v.ID] = *v
	return nil
}

type quotationRepo struct{ s *Store }

func (r quotationRepo) list(keep func(domain.Quotation) bool) []domain.Quotation {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.Quotation, 0, len(r.s.quotations))
	for _, q := range r.s.quotations {
		if keep(q) {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (r quotationRepo) List(_ context.Context) ([]domain.Quotation, error) {
	return r.list(func(domain.Quotation) bool { return true }), nil
}

func (r quotationRepo) ListByOrder(_ context.Context, orderID int64) ([]domain.Quotation, error) {
	return r.list(func(q domain.Quotation) bool { return q.OrderID == orderID }), nil
}

func (r quotationRepo) GetByID(_ context.Context, id int64) (*domain.Quotation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	q, ok := r.s.quotations[id]
	if !ok {
		return nil, notFound("quotation", id)
	}
	return &q, nil
}

func (r quotationRepo) Create(_ context.Context, q *domain.Quotation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	q.ID = r.s.nextID()
	q.CreatedAt = r.s.now()
	q.UpdatedAt = q.CreatedAt
	r.s.quotations[q.ID] = *q
	return nil
}

func (r quotationRepo) Update(_ context.Context, id int64, patch domain.QuotationPatch) (*domain.Quotation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	q, ok := r.s.quotations[id]
	if !ok {
		return nil, notFound("quotation", id)
	}
	if patch.ProfitMarginPercent != nil {
		q.ProfitMarginPercent = *patch.ProfitMarginPercent
	}
	if patch.MarkupAmount != nil {
		q.MarkupAmount = *patch.MarkupAmount
	}
	if patch.FinalQuotePrice != nil {
		q.FinalQuotePrice = *patch.FinalQuotePrice
	}
	if patch.ValidityDays != nil {
		q.ValidityDays = *patch.ValidityDays
	}
	if patch.Status != nil {
		q.Status = *patch.Status
	}
	q.UpdatedAt = r.s.now()
	r.s.quotations[id] = q
	return &q, nil
}

func (r quotationRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.quotations[id]; !ok {
		return notFound("quotation", id)
	}
	delete(r.s.quotations, id)
	return nil
}

type flightRepo struct{ s *Store }

func (r flightRepo) List(_ context.Context) ([]domain.Flight, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.Flight, 0, len(r.s.flights))
	for _, f := range r.s.flights {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].DepartureDate.After(out[j].DepartureDate)
	})
	return out, nil
}

func (r flightRepo) GetByID(_ context.Context, id int64) (*domain.Flight, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	f, ok := r.s.flights[id]
	if !ok {
		return nil, notFound("flight", id)
	}
	return &f, nil
}

func (r flightRepo) Create(_ context.Context, f *domain.Flight) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	f.ID = r.s.nextID()
	f.CreatedAt = r.s.now()
	f.UpdatedAt = f.CreatedAt
	r.s.flights[f.ID] = *f
	return nil
}

func (r flightRepo) SetAvailableCapacity(_ context.Context, id int64, availableKg float64) (*domain.Flight, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	f, ok := r.s.flights[id]
	if !ok {
		return nil, notFound("flight", id)
	}
	f.AvailableCapacityKg = availableKg
	f.UpdatedAt = r.s.now()
	r.s.flights[id] = f
	return &f, nil
}

var (
	_ repository.OrderRepository     = orderRepo{}
	_ repository.VendorRepository    = vendorRepo{}
	_ repository.QuotationRepository = quotationRepo{}
	_ repository.FlightRepository    = flightRepo{}
)
