package repository

import (
	"context"

	"github.com/Domenick1991/cargoquote/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type VendorRepository interface {
	List(ctx context.Context) ([]domain.TruckingVendor, error)
	ListActive(ctx context.Context) ([]domain.TruckingVendor, error)
	GetByID(ctx context.Context, id int64) (*domain.TruckingVendor, error)
	Create(ctx context.Context, vendor *domain.TruckingVendor) error
	Update(ctx context.Context, vendor *domain.TruckingVendor) error
}

type PGVendorRepository struct {
	db *pgxpool.Pool
}

func NewVendorRepository(db *pgxpool.Pool) VendorRepository {
	return &PGVendorRepository{db: db}
}

const vendorColumns = `id, vendor_name, region, rate_per_100kg, rate_per_uld, rate_per_truck, reliability_rating, contact_email, is_active, created_at, updated_at`

func scanVendor(row pgx.Row) (*domain.TruckingVendor, error) {
	var v domain.TruckingVendor
	if err := row.Scan(&v.ID, &v.VendorName, &v.Region, &v.RatePer100Kg, &v.RatePerULD, &v.RatePerTruck, &v.ReliabilityRating, &v.ContactEmail, &v.IsActive, &v.CreatedAt, &v.UpdatedAt); err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *PGVendorRepository) query(ctx context.Context, sql string, args ...any) ([]domain.TruckingVendor, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	vendors := make([]domain.TruckingVendor, 0)
	for rows.Next() {
		v, err := scanVendor(rows)
		if err != nil {
			return nil, err
		}
		vendors = append(vendors, *v)
	}
	return vendors, rows.Err()
}

func (r *PGVendorRepository) List(ctx context.Context) ([]domain.TruckingVendor, error) {
	return r.query(ctx, `SELECT `+vendorColumns+` FROM trucking_vendors ORDER BY created_at DESC, id DESC`)
}

func (r *PGVendorRepository) ListActive(ctx context.Context) ([]domain.TruckingVendor, error) {
	return r.query(ctx, `SELECT `+vendorColumns+` FROM trucking_vendors WHERE is_active ORDER BY created_at DESC, id DESC`)
}

func (r *PGVendorRepository) GetByID(ctx context.Context, id int64) (*domain.TruckingVendor, error) {
	v, err := scanVendor(r.db.QueryRow(ctx, `SELECT `+vendorColumns+` FROM trucking_vendors WHERE id=$1`, id))
	if err != nil {
		return nil, mapRowErr(err, "vendor", id)
	}
	return v, nil
}

func (r *PGVendorRepository) Create(ctx context.Context, v *domain.TruckingVendor) error {
	return r.db.QueryRow(ctx, `INSERT INTO trucking_vendors (vendor_name, region, rate_per_100kg, rate_per_uld, rate_per_truck, reliability_rating, contact_email, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`,
		v.VendorName, v.Region, v.RatePer100Kg, v.RatePerULD, v.RatePerTruck, v.ReliabilityRating, v.ContactEmail, v.IsActive).
		Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt)
}

func (r *PGVendorRepository) Update(ctx context.Context, v *domain.TruckingVendor) error {
	err := r.db.QueryRow(ctx, `UPDATE trucking_vendors SET vendor_name=$2, region=$3, rate_per_100kg=$4, rate_per_uld=$5, rate_per_truck=$6,
		reliability_rating=$7, contact_email=$8, is_active=$9, updated_at=now()
		WHERE id=$1 RETURNING created_at, updated_at`,
		v.ID, v.VendorName, v.Region, v.RatePer100Kg, v.RatePerULD, v.RatePerTruck, v.ReliabilityRating, v.ContactEmail, v.IsActive).
		Scan(&v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return mapRowErr(err, "vendor", v.ID)
	}
	return nil
}

var _ VendorRepository = (*PGVendorRepository)(nil)
