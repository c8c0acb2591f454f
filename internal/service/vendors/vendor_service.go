package vendors

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/Domenick1991/cargoquote/internal/apperr"
	"github.com/Domenick1991/cargoquote/internal/domain"
	"github.com/Domenick1991/cargoquote/internal/logger"
	"github.com/Domenick1991/cargoquote/internal/repository"
	"github.com/Domenick1991/cargoquote/internal/validation"
)

type VendorUseCase interface {
	Create(ctx context.Context, input VendorInput) (*domain.TruckingVendor, error)
	Update(ctx context.Context, id int64, input VendorInput) (*domain.TruckingVendor, error)
	Get(ctx context.Context, id int64) (*domain.TruckingVendor, error)
	List(ctx context.Context, filter Filter) ([]domain.TruckingVendor, error)
	ListActive(ctx context.Context) ([]domain.TruckingVendor, error)
	Regions(ctx context.Context) ([]string, error)
}

type VendorInput struct {
	VendorName        string  `json:"vendor_name" validate:"required"`
	Region            string  `json:"region" validate:"required"`
	RatePer100Kg      float64 `json:"rate_per_100kg" validate:"gte=0"`
	RatePerULD        float64 `json:"rate_per_uld" validate:"gte=0"`
	RatePerTruck      float64 `json:"rate_per_truck" validate:"gte=0"`
	ReliabilityRating int     `json:"reliability_rating" validate:"omitempty,min=1,max=5"`
	ContactEmail      string  `json:"contact_email" validate:"omitempty,email"`
	IsActive          *bool   `json:"is_active"`
}

const (
	StatusAll      = "all"
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Filter narrows the vendor list. Zero values match everything.
type Filter struct {
	Search string
	Region string
	Status string
	Rating int
}

func (f Filter) matches(v domain.TruckingVendor) bool {
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		if !strings.Contains(strings.ToLower(v.VendorName), q) &&
			!strings.Contains(strings.ToLower(v.Region), q) &&
			!strings.Contains(strings.ToLower(v.ContactEmail), q) {
			return false
		}
	}
	if f.Region != "" && f.Region != StatusAll && v.Region != f.Region {
		return false
	}
	switch f.Status {
	case StatusActive:
		if !v.IsActive {
			return false
		}
	case StatusInactive:
		if v.IsActive {
			return false
		}
	}
	if f.Rating != 0 && v.ReliabilityRating != f.Rating {
		return false
	}
	return true
}

type VendorService struct {
	repo     repository.VendorRepository
	log      *logger.Logger
	onChange []func(context.Context)
}

type VendorServiceOption func(*VendorService)

func WithLogger(log *logger.Logger) VendorServiceOption {
	return func(s *VendorService) {
		s.log = log
	}
}

// WithChangeHook registers fn to run after every successful create or update.
func WithChangeHook(fn func(context.Context)) VendorServiceOption {
	return func(s *VendorService) {
		s.onChange = append(s.onChange, fn)
	}
}

func NewVendorService(repo repository.VendorRepository, opts ...VendorServiceOption) *VendorService {
	s := &VendorService{repo: repo, log: logger.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *VendorService) Create(ctx context.Context, input VendorInput) (*domain.TruckingVendor, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	vendor := &domain.TruckingVendor{}
	apply(vendor, input)
	if input.IsActive == nil {
		vendor.IsActive = true
	}
	if err := s.repo.Create(ctx, vendor); err != nil {
		return nil, fmt.Errorf("create vendor: %w", err)
	}
	s.log.Info(ctx, "vendor created", map[string]any{"vendor_id": vendor.ID, "vendor_name": vendor.VendorName})
	s.changed(ctx)
	return vendor, nil
}

func (s *VendorService) Update(ctx context.Context, id int64, input VendorInput) (*domain.TruckingVendor, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	vendor, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	apply(vendor, input)
	if err := s.repo.Update(ctx, vendor); err != nil {
		return nil, fmt.Errorf("update vendor %d: %w", id, err)
	}
	s.log.Info(ctx, "vendor updated", map[string]any{"vendor_id": id})
	s.changed(ctx)
	return vendor, nil
}

func apply(v *domain.TruckingVendor, in VendorInput) {
	v.VendorName = strings.TrimSpace(in.VendorName)
	v.Region = strings.TrimSpace(in.Region)
	v.RatePer100Kg = in.RatePer100Kg
	v.RatePerULD = in.RatePerULD
	v.RatePerTruck = in.RatePerTruck
	v.ReliabilityRating = in.ReliabilityRating
	if v.ReliabilityRating == 0 {
		v.ReliabilityRating = 5
	}
	v.ContactEmail = strings.TrimSpace(in.ContactEmail)
	if in.IsActive != nil {
		v.IsActive = *in.IsActive
	}
}

func (s *VendorService) Get(ctx context.Context, id int64) (*domain.TruckingVendor, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *VendorService) List(ctx context.Context, filter Filter) ([]domain.TruckingVendor, error) {
	switch filter.Status {
	case "", StatusAll, StatusActive, StatusInactive:
	default:
		return nil, apperr.New(apperr.CodeValidation, "validation failed").
			WithDetails(map[string]string{"status": "must be one of [all active inactive]"})
	}
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list vendors: %w", err)
	}
	out := make([]domain.TruckingVendor, 0, len(all))
	for _, v := range all {
		if filter.matches(v) {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *VendorService) ListActive(ctx context.Context) ([]domain.TruckingVendor, error) {
	return s.repo.ListActive(ctx)
}

// Regions returns the distinct non-empty vendor regions in sorted order.
func (s *VendorService) Regions(ctx context.Context) ([]string, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list vendors: %w", err)
	}
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, v := range all {
		if v.Region == "" {
			continue
		}
		if _, ok := seen[v.Region]; ok {
			continue
		}
		seen[v.Region] = struct{}{}
		out = append(out, v.Region)
	}
	sort.Strings(out)
	return out, nil
}

func (s *VendorService) changed(ctx context.Context) {
	for _, fn := range s.onChange {
		fn(ctx)
	}
}

var _ VendorUseCase = (*VendorService)(nil)
