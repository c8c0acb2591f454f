package domain

import "time"

type AvailabilityStatus string

const (
	AvailabilityAvailable   AvailabilityStatus = "available"
	AvailabilityLimited     AvailabilityStatus = "limited"
	AvailabilityUnavailable AvailabilityStatus = "unavailable"
)

// VendorAvailability is an illustrative capacity row. It is never authoritative.
type VendorAvailability struct {
	VendorID    int64              `json:"vendor_id"`
	Vendor      string             `json:"vendor"`
	Origin      string             `json:"origin"`
	Destination string             `json:"destination"`
	Status      AvailabilityStatus `json:"status"`
	Trucks      int                `json:"trucks"`
	ETADays     int                `json:"eta"`
	Cost        float64            `json:"cost"`
	Region      string             `json:"region"`
	Reliability int                `json:"reliability"`
}

// AvailabilitySnapshot is one generated board for a route.
type AvailabilitySnapshot struct {
	Origin      string               `json:"origin"`
	Destination string               `json:"destination"`
	GeneratedAt time.Time            `json:"generated_at"`
	Rows        []VendorAvailability `json:"rows"`
}
