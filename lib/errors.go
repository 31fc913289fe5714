package lib

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Database errors
var (
	ErrConflict = errors.New("conflict")
	ErrNotFound = errors.New("not found")
	// ErrReferenced is returned when a delete is blocked by referencing rows
	// (e.g. removing a category that products still point at).
	ErrReferenced = errors.New("still referenced")
)

// Auth errors
var (
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Order / payment errors
var (
	// ErrAmountMismatch is returned when the client-supplied total does not
	// match the server-side recomputation from the cart snapshot.
	ErrAmountMismatch = errors.New("amount does not match cart contents")
	// ErrPaymentFinalized guards the at-most-once payment paths.
	ErrPaymentFinalized = errors.New("payment already finalized")
	ErrPaymentFailed    = errors.New("payment processing failed")
	// ErrUnknownPaymentMethod: the order row exists but nothing finalizes it.
	ErrUnknownPaymentMethod = errors.New("unsupported payment method")
)

// MapPgError translates low-level driver errors into the package sentinels.
func MapPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code { // SQLSTATE
		case "23505": // unique_violation
			return ErrConflict
		case "23503": // foreign_key_violation
			return ErrReferenced
		case "P0002": // no_data_found
			return ErrNotFound
		}
	}
	return err
}
