package costing

import (
	"github.com/Domenick1991/cargoquote/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	// DefaultRatePer100Kg applies when neither a custom rate nor a vendor is available.
	DefaultRatePer100Kg = 40.0
	// DefaultAirMultiplier is the per-kg air-freight rate for routes missing from the table.
	DefaultAirMultiplier = 3.5
)

var routeMultipliers = map[string]float64{
	"HKG-LAX": 4.5,
	"HKG-JFK": 5.2,
	"HKG-LHR": 4.8,
	"HKG-PVG": 2.1,
	"HKG-NRT": 3.2,
	"HKG-SIN": 2.8,
	"HKG-DXB": 4.0,
	"HKG-FRA": 4.7,
	"HKG-SYD": 4.3,
}

type Costs struct {
	Trucking         float64 `json:"trucking"`
	AirlineOperating float64 `json:"airline_operating"`
	Total            float64 `json:"total"`
}

// RouteMultiplier looks up the per-kg air-freight rate in either direction.
func RouteMultiplier(origin, destination string) float64 {
	if m, ok := routeMultipliers[origin+"-"+destination]; ok {
		return m
	}
	if m, ok := routeMultipliers[destination+"-"+origin]; ok {
		return m
	}
	return DefaultAirMultiplier
}

// Estimate prices an order. vendor may be nil when the order has no resolvable vendor.
//
// Trucking rate precedence: a positive custom rate, then the vendor's rate for the
// order's billing model, then a flat 40 per 100 kg regardless of model.
func Estimate(order domain.Order, vendor *domain.TruckingVendor) Costs {
	weight := decimal.NewFromFloat(order.WeightKg)

	var trucking decimal.Decimal
	switch {
	case order.CustomTruckingRate > 0:
		trucking = decimal.NewFromFloat(order.CustomTruckingRate).Mul(units(order))
	case vendor != nil:
		trucking = decimal.NewFromFloat(vendor.RateFor(order.TruckingCostModel)).Mul(units(order))
	default:
		trucking = decimal.NewFromFloat(DefaultRatePer100Kg).Mul(weight.Div(decimal.NewFromInt(100)))
	}

	air := weight.Mul(decimal.NewFromFloat(RouteMultiplier(order.OriginAirport, order.DestinationAirport)))

	return Costs{
		Trucking:         trucking.Round(2).InexactFloat64(),
		AirlineOperating: air.Round(2).InexactFloat64(),
		Total:            trucking.Add(air).Round(2).InexactFloat64(),
	}
}

func units(order domain.Order) decimal.Decimal {
	switch order.TruckingCostModel {
	case domain.CostModelPerULD:
		return decimal.NewFromInt(int64(order.EffectiveULDCount()))
	case domain.CostModelPerTruck:
		return decimal.NewFromInt(int64(order.EffectiveTruckCount()))
	default:
		return decimal.NewFromFloat(order.WeightKg).Div(decimal.NewFromInt(100))
	}
}
