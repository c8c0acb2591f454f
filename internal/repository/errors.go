package repository

import (
	"errors"
	"fmt"

	"github.com/Domenick1991/cargoquote/internal/apperr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

func notFound(entity string, id int64) error {
	return apperr.Newf(apperr.CodeNotFound, "%s %d not found", entity, id)
}

// AlreadyAssigned is returned when an order write would replace an existing flight assignment.
func AlreadyAssigned(orderID int64) error {
	return apperr.Newf(apperr.CodeStateConflict, "order %d is already assigned to a flight", orderID)
}

// mapRowErr converts pgx's missing-row error into a typed not-found error.
func mapRowErr(err error, entity string, id int64) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return notFound(entity, id)
	}
	return fmt.Errorf("%s %d: %w", entity, id, err)
}

// mapInsertErr turns unique-key violations into conflicts.
func mapInsertErr(err error, entity string) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return apperr.Wrap(apperr.CodeConflict, err, fmt.Sprintf("%s already exists", entity))
	}
	return fmt.Errorf("insert %s: %w", entity, err)
}
