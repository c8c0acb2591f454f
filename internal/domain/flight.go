package domain

import "time"

type FlightStatus string

const (
	FlightStatusScheduled FlightStatus = "scheduled"
	FlightStatusBoarding  FlightStatus = "boarding"
	FlightStatusInFlight  FlightStatus = "in_flight"
	FlightStatusCompleted FlightStatus = "completed"
	FlightStatusCancelled FlightStatus = "cancelled"
)

type Flight struct {
	ID                  int64        `json:"id"`
	FlightNumber        string       `json:"flight_number"`
	AircraftType        string       `json:"aircraft_type"`
	OriginAirport       string       `json:"origin_airport"`
	DestinationAirport  string       `json:"destination_airport"`
	DepartureDate       time.Time    `json:"departure_date"`
	TotalCapacityKg     float64      `json:"total_capacity_kg"`
	AvailableCapacityKg float64      `json:"available_capacity_kg"`
	Status              FlightStatus `json:"status"`
	CreatedAt           time.Time    `json:"created_at"`
	UpdatedAt           time.Time    `json:"updated_at"`
}

// DateRange is an inclusive departure window. A zero bound on either side disables the filter.
type DateRange struct {
	From time.Time
	To   time.Time
}

func (r DateRange) Active() bool {
	return !r.From.IsZero() && !r.To.IsZero()
}

func (r DateRange) Contains(t time.Time) bool {
	if !r.Active() {
		return true
	}
	return !t.Before(r.From) && !t.After(r.To)
}

type FlightFilter struct {
	Origin      string
	Destination string
	Departure   DateRange
}
