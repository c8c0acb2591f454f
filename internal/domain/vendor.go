package domain

import "time"

type TruckingVendor struct {
	ID                int64     `json:"id"`
	VendorName        string    `json:"vendor_name"`
	Region            string    `json:"region"`
	RatePer100Kg      float64   `json:"rate_per_100kg"`
	RatePerULD        float64   `json:"rate_per_uld"`
	RatePerTruck      float64   `json:"rate_per_truck"`
	ReliabilityRating int       `json:"reliability_rating"`
	ContactEmail      string    `json:"contact_email"`
	IsActive          bool      `json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// RateFor returns the vendor rate matching the given billing model.
func (v TruckingVendor) RateFor(model TruckingCostModel) float64 {
	switch model {
	case CostModelPerULD:
		return v.RatePerULD
	case CostModelPerTruck:
		return v.RatePerTruck
	default:
		return v.RatePer100Kg
	}
}
