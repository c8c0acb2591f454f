package domain

import (
	"math"
	"time"
)

type OrderStatus string

const (
	OrderStatusDraft      OrderStatus = "draft"
	OrderStatusCalculated OrderStatus = "calculated"
	OrderStatusQuoted     OrderStatus = "quoted"
	OrderStatusCompleted  OrderStatus = "completed"
)

var orderStatusRank = map[OrderStatus]int{
	OrderStatusDraft:      0,
	OrderStatusCalculated: 1,
	OrderStatusQuoted:     2,
	OrderStatusCompleted:  3,
}

// Reaches reports whether s is at or beyond target in the draft → completed progression.
func (s OrderStatus) Reaches(target OrderStatus) bool {
	return orderStatusRank[s] >= orderStatusRank[target]
}

// Deletable reports whether an order in this status may be removed.
func (s OrderStatus) Deletable() bool {
	return s == OrderStatusDraft || s == OrderStatusCalculated
}

type CargoType string

const (
	CargoGeneral     CargoType = "General"
	CargoPerishable  CargoType = "Perishable"
	CargoHazardous   CargoType = "Hazardous"
	CargoValuable    CargoType = "Valuable"
	CargoLiveAnimals CargoType = "Live Animals"
)

type TruckingCostModel string

const (
	CostModelPer100Kg TruckingCostModel = "per_100kg"
	CostModelPerULD   TruckingCostModel = "per_uld"
	CostModelPerTruck TruckingCostModel = "per_truck"
)

const (
	KgPerULD   = 1500
	KgPerTruck = 10000
)

type Order struct {
	ID                  int64             `json:"id"`
	OrderNumber         string            `json:"order_number"`
	OriginAirport       string            `json:"origin_airport"`
	DestinationAirport  string            `json:"destination_airport"`
	DistributionCenters []string          `json:"distribution_centers"`
	WeightKg            float64           `json:"weight_kg"`
	Dimensions          string            `json:"dimensions,omitempty"`
	CargoType           CargoType         `json:"cargo_type"`
	TruckingVendorID    *int64            `json:"trucking_vendor_id,omitempty"`
	TruckingCostModel   TruckingCostModel `json:"trucking_cost_model"`
	CustomTruckingRate  float64           `json:"custom_trucking_rate"`
	ULDCount            int               `json:"uld_count"`
	TruckCount          int               `json:"truck_count"`
	Status              OrderStatus       `json:"status"`
	AssignedFlightID    *int64            `json:"assigned_flight_id,omitempty"`
	CreatedAt           time.Time         `json:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at"`
}

// EffectiveULDCount falls back to one ULD per started 1500 kg.
func (o Order) EffectiveULDCount() int {
	if o.ULDCount > 0 {
		return o.ULDCount
	}
	return int(math.Ceil(o.WeightKg / KgPerULD))
}

// EffectiveTruckCount falls back to one truck per started 10000 kg.
func (o Order) EffectiveTruckCount() int {
	if o.TruckCount > 0 {
		return o.TruckCount
	}
	return int(math.Ceil(o.WeightKg / KgPerTruck))
}

// OrderPatch carries the partial fields of an order update. Nil fields are left untouched.
type OrderPatch struct {
	Status           *OrderStatus
	AssignedFlightID *int64
}
