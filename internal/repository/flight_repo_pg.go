package repository

import (
	"context"

	"github.com/Domenick1991/cargoquote/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FlightRepository interface {
	List(ctx context.Context) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	Create(ctx context.Context, flight *domain.Flight) error
	SetAvailableCapacity(ctx context.Context, id int64, availableKg float64) (*domain.Flight, error)
}

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewFlightRepository(db *pgxpool.Pool) FlightRepository {
	return &PGFlightRepository{db: db}
}

const flightColumns = `id, flight_number, aircraft_type, origin_airport, destination_airport, departure_date, total_capacity_kg, available_capacity_kg, status, created_at, updated_at`

func scanFlight(row pgx.Row) (*domain.Flight, error) {
	var f domain.Flight
	if err := row.Scan(&f.ID, &f.FlightNumber, &f.AircraftType, &f.OriginAirport, &f.DestinationAirport, &f.DepartureDate, &f.TotalCapacityKg, &f.AvailableCapacityKg, &f.Status, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return nil, err
	}
	return &f, nil
}

// List returns flights latest departure first.
func (r *PGFlightRepository) List(ctx context.Context) ([]domain.Flight, error) {
	rows, err := r.db.Query(ctx, `SELECT `+flightColumns+` FROM flights ORDER BY departure_date DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		flights = append(flights, *f)
	}
	return flights, rows.Err()
}

func (r *PGFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	f, err := scanFlight(r.db.QueryRow(ctx, `SELECT `+flightColumns+` FROM flights WHERE id=$1`, id))
	if err != nil {
		return nil, mapRowErr(err, "flight", id)
	}
	return f, nil
}

func (r *PGFlightRepository) Create(ctx context.Context, f *domain.Flight) error {
	return r.db.QueryRow(ctx, `INSERT INTO flights (flight_number, aircraft_type, origin_airport, destination_airport, departure_date, total_capacity_kg, available_capacity_kg, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`,
		f.FlightNumber, f.AircraftType, f.OriginAirport, f.DestinationAirport, f.DepartureDate, f.TotalCapacityKg, f.AvailableCapacityKg, f.Status).
		Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt)
}

// SetAvailableCapacity writes the new remaining capacity as given; callers own the arithmetic.
func (r *PGFlightRepository) SetAvailableCapacity(ctx context.Context, id int64, availableKg float64) (*domain.Flight, error) {
	f, err := scanFlight(r.db.QueryRow(ctx, `UPDATE flights SET available_capacity_kg=$2, updated_at=now() WHERE id=$1 RETURNING `+flightColumns, id, availableKg))
	if err != nil {
		return nil, mapRowErr(err, "flight", id)
	}
	return f, nil
}

var _ FlightRepository = (*PGFlightRepository)(nil)
