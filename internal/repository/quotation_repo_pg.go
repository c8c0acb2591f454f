package repository

import (
	"context"
	"fmt"

	"github.com/Domenick1991/cargoquote/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type QuotationRepository interface {
	List(ctx context.Context) ([]domain.Quotation, error)
	ListByOrder(ctx context.Context, orderID int64) ([]domain.Quotation, error)
	GetByID(ctx context.Context, id int64) (*domain.Quotation, error)
	Create(ctx context.Context, q *domain.Quotation) error
	Update(ctx context.Context, id int64, patch domain.QuotationPatch) (*domain.Quotation, error)
	Delete(ctx context.Context, id int64) error
}

type PGQuotationRepository struct {
	db *pgxpool.Pool
}

func NewQuotationRepository(db *pgxpool.Pool) QuotationRepository {
	return &PGQuotationRepository{db: db}
}

const quotationColumns = `id, order_id, order_number, trucking_cost, air_freight_cost, total_internal_cost, profit_margin_percent,
	markup_amount, final_quote_price, validity_days, status, terms, created_at, updated_at`

func scanQuotation(row pgx.Row) (*domain.Quotation, error) {
	var q domain.Quotation
	if err := row.Scan(&q.ID, &q.OrderID, &q.OrderNumber, &q.TruckingCost, &q.AirFreightCost, &q.TotalInternalCost, &q.ProfitMarginPercent,
		&q.MarkupAmount, &q.FinalQuotePrice, &q.ValidityDays, &q.Status, &q.Terms, &q.CreatedAt, &q.UpdatedAt); err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *PGQuotationRepository) query(ctx context.Context, sql string, args ...any) ([]domain.Quotation, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	quotations := make([]domain.Quotation, 0)
	for rows.Next() {
		q, err := scanQuotation(rows)
		if err != nil {
			return nil, err
		}
		quotations = append(quotations, *q)
	}
	return quotations, rows.Err()
}

func (r *PGQuotationRepository) List(ctx context.Context) ([]domain.Quotation, error) {
	return r.query(ctx, `SELECT `+quotationColumns+` FROM quotations ORDER BY created_at DESC, id DESC`)
}

func (r *PGQuotationRepository) ListByOrder(ctx context.Context, orderID int64) ([]domain.Quotation, error) {
	return r.query(ctx, `SELECT `+quotationColumns+` FROM quotations WHERE order_id=$1 ORDER BY created_at DESC, id DESC`, orderID)
}

func (r *PGQuotationRepository) GetByID(ctx context.Context, id int64) (*domain.Quotation, error) {
	q, err := scanQuotation(r.db.QueryRow(ctx, `SELECT `+quotationColumns+` FROM quotations WHERE id=$1`, id))
	if err != nil {
		return nil, mapRowErr(err, "quotation", id)
	}
	return q, nil
}

func (r *PGQuotationRepository) Create(ctx context.Context, q *domain.Quotation) error {
	return r.db.QueryRow(ctx, `INSERT INTO quotations (order_id, order_number, trucking_cost, air_freight_cost, total_internal_cost,
		profit_margin_percent, markup_amount, final_quote_price, validity_days, status, terms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`,
		q.OrderID, q.OrderNumber, q.TruckingCost, q.AirFreightCost, q.TotalInternalCost,
		q.ProfitMarginPercent, q.MarkupAmount, q.FinalQuotePrice, q.ValidityDays, q.Status, q.Terms).
		Scan(&q.ID, &q.CreatedAt, &q.UpdatedAt)
}

func (r *PGQuotationRepository) Update(ctx context.Context, id int64, patch domain.QuotationPatch) (*domain.Quotation, error) {
	q, err := scanQuotation(r.db.QueryRow(ctx, `UPDATE quotations SET
		profit_margin_percent = COALESCE($2, profit_margin_percent),
		markup_amount = COALESCE($3, markup_amount),
		final_quote_price = COALESCE($4, final_quote_price),
		validity_days = COALESCE($5, validity_days),
		status = COALESCE($6, status),
		updated_at = now()
		WHERE id=$1 RETURNING `+quotationColumns,
		id, patch.ProfitMarginPercent, patch.MarkupAmount, patch.FinalQuotePrice, patch.ValidityDays, patch.Status))
	if err != nil {
		return nil, mapRowErr(err, "quotation", id)
	}
	return q, nil
}

func (r *PGQuotationRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.Exec(ctx, `DELETE FROM quotations WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete quotation %d: %w", id, err)
	}
	if res.RowsAffected() == 0 {
		return notFound("quotation", id)
	}
	return nil
}

var _ QuotationRepository = (*PGQuotationRepository)(nil)
