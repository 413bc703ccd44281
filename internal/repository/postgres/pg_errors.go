package postgres

import (
	"errors"

	"github.com/dkovalenko/railgo/internal/repository"
	pgconnv1 "github.com/jackc/pgconn"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ticketSeatConstraint is the unique index on (journey_id, cargo, place).
// A 23505 on it means the requested seat was booked by a concurrent order.
const ticketSeatConstraint = "ticket_journey_cargo_place_key"

// IsRetryable reports serialization failures (40001) and deadlocks
// (40P01), the two classes a serializable transaction may hit without
// anything being wrong with the request itself. Errors from both pgconn
// generations are recognized since migration tooling still runs on the
// legacy stack.
func IsRetryable(err error) bool {
	var code string

	var pge *pgconn.PgError
	var pgeV1 *pgconnv1.PgError
	switch {
	case errors.As(err, &pge):
		code = pge.Code
	case errors.As(err, &pgeV1):
		code = pgeV1.Code
	default:
		return false
	}

	switch code {
	case "40001", "40P01":
		return true
	}

	return false
}

func translateDBErr(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}

	var pge *pgconn.PgError
	if errors.As(err, &pge) {
		switch pge.Code {
		// unique_violation
		case "23505":
			if pge.ConstraintName == ticketSeatConstraint {
				return repository.ErrSeatTaken
			}
			return repository.ErrConflict
		// foreign_key_violation
		case "23503":
			return repository.ErrInvalidReference
		}
	}

	return err
}
