package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/cargoquote/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OrderRepository interface {
	List(ctx context.Context) ([]domain.Order, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	Create(ctx context.Context, order *domain.Order) error
	Update(ctx context.Context, id int64, patch domain.OrderPatch) (*domain.Order, error)
	Delete(ctx context.Context, id int64) error
}

type PGOrderRepository struct {
	db *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) OrderRepository {
	return &PGOrderRepository{db: db}
}

const orderColumns = `id, order_number, origin_airport, destination_airport, distribution_centers, weight_kg, dimensions, cargo_type,
	trucking_vendor_id, trucking_cost_model, custom_trucking_rate, uld_count, truck_count, status, assigned_flight_id, created_at, updated_at`

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	if err := row.Scan(&o.ID, &o.OrderNumber, &o.OriginAirport, &o.DestinationAirport, &o.DistributionCenters, &o.WeightKg, &o.Dimensions, &o.CargoType,
		&o.TruckingVendorID, &o.TruckingCostModel, &o.CustomTruckingRate, &o.ULDCount, &o.TruckCount, &o.Status, &o.AssignedFlightID, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *PGOrderRepository) List(ctx context.Context) ([]domain.Order, error) {
	rows, err := r.db.Query(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

func (r *PGOrderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	o, err := scanOrder(r.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id=$1`, id))
	if err != nil {
		return nil, mapRowErr(err, "order", id)
	}
	return o, nil
}

func (r *PGOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	err := r.db.QueryRow(ctx, `INSERT INTO orders (order_number, origin_airport, destination_airport, distribution_centers, weight_kg, dimensions, cargo_type,
		trucking_vendor_id, trucking_cost_model, custom_trucking_rate, uld_count, truck_count, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at`,
		order.OrderNumber, order.OriginAirport, order.DestinationAirport, order.DistributionCenters, order.WeightKg, order.Dimensions, order.CargoType,
		order.TruckingVendorID, order.TruckingCostModel, order.CustomTruckingRate, order.ULDCount, order.TruckCount, order.Status).
		Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	return mapInsertErr(err, "order "+order.OrderNumber)
}

// Update applies a partial patch. A patch that sets the flight only matches an
// unassigned order, so an order is booked onto at most one flight.
func (r *PGOrderRepository) Update(ctx context.Context, id int64, patch domain.OrderPatch) (*domain.Order, error) {
	o, err := scanOrder(r.db.QueryRow(ctx, `UPDATE orders SET
		status = COALESCE($2, status),
		assigned_flight_id = COALESCE($3, assigned_flight_id),
		updated_at = now()
		WHERE id=$1 AND ($3::bigint IS NULL OR assigned_flight_id IS NULL)
		RETURNING `+orderColumns, id, patch.Status, patch.AssignedFlightID))
	if err == nil {
		return o, nil
	}
	if errors.Is(err, pgx.ErrNoRows) && patch.AssignedFlightID != nil {
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, AlreadyAssigned(id)
	}
	return nil, mapRowErr(err, "order", id)
}

func (r *PGOrderRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.Exec(ctx, `DELETE FROM orders WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete order %d: %w", id, err)
	}
	if res.RowsAffected() == 0 {
		return notFound("order", id)
	}
	return nil
}

var _ OrderRepository = (*PGOrderRepository)(nil)
