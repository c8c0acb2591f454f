package availability

import (
	"math/rand/v2"
	"sort"
	"sync"

	"github.com/Domenick1991/cargoquote/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	// SampleWeightKg is the notional shipment the cost column is priced for.
	SampleWeightKg     = 1000
	defaultRatePer100  = 40
	defaultReliability = 5
)

// Simulator draws illustrative trucking availability. Output is random and
// never authoritative.
type Simulator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimulator returns a simulator whose draws are fully determined by seed.
func NewSimulator(seed uint64) *Simulator {
	return &Simulator{rng: rand.New(rand.NewPCG(seed, seed))}
}

// Generate draws one row per vendor for the given route.
func (s *Simulator) Generate(vendors []domain.TruckingVendor, origin, destination string) []domain.VendorAvailability {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := make([]domain.VendorAvailability, 0, len(vendors))
	for _, v := range vendors {
		row := domain.VendorAvailability{
			VendorID:    v.ID,
			Vendor:      v.VendorName,
			Origin:      origin,
			Destination: destination,
			Region:      v.Region,
			Reliability: v.ReliabilityRating,
		}
		if row.Reliability == 0 {
			row.Reliability = defaultReliability
		}

		switch r := s.rng.Float64(); {
		case r <= 0.7:
			row.Status = domain.AvailabilityAvailable
			row.Trucks = s.rng.IntN(8) + 2
			row.ETADays = s.rng.IntN(5) + 1
		case r <= 0.9:
			row.Status = domain.AvailabilityLimited
			row.Trucks = s.rng.IntN(3) + 1
			row.ETADays = s.rng.IntN(3) + 3
		default:
			row.Status = domain.AvailabilityUnavailable
		}
		if row.Status != domain.AvailabilityUnavailable {
			row.Cost = sampleCost(v.RatePer100Kg)
		}
		rows = append(rows, row)
	}
	return rows
}

func sampleCost(ratePer100Kg float64) float64 {
	rate := decimal.NewFromFloat(ratePer100Kg)
	if rate.IsZero() {
		rate = decimal.NewFromInt(defaultRatePer100)
	}
	return decimal.NewFromInt(SampleWeightKg / 100).Mul(rate).Round(2).InexactFloat64()
}

type SortBy string

const (
	SortByCost        SortBy = "cost"
	SortByETA         SortBy = "eta"
	SortByReliability SortBy = "reliability"
)

func ParseSortBy(value string) (SortBy, bool) {
	switch SortBy(value) {
	case "", SortByCost:
		return SortByCost, true
	case SortByETA:
		return SortByETA, true
	case SortByReliability:
		return SortByReliability, true
	default:
		return "", false
	}
}

// Sort orders rows in place: cost ascending, eta ascending with unavailable
// vendors last, or reliability descending.
func Sort(rows []domain.VendorAvailability, by SortBy) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		switch by {
		case SortByETA:
			aOut := a.Status == domain.AvailabilityUnavailable
			bOut := b.Status == domain.AvailabilityUnavailable
			if aOut || bOut {
				return !aOut && bOut
			}
			return a.ETADays < b.ETADays
		case SortByReliability:
			return a.Reliability > b.Reliability
		default:
			return a.Cost < b.Cost
		}
	})
}
