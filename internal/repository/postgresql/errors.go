package postgresql

import (
	"errors"
	"fmt"

	"github.com/cmlabs-hris/company-backend-go/internal/domain/resource"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// translateError maps driver errors onto the resource store signals.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return resource.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505", "23503", "23514", "23502": // unique, foreign key, check, not null
			return &resource.IntegrityViolation{Constraint: pgErr.ConstraintName, Err: err}
		case "22P02", "42703", "42601", "22003": // invalid text, undefined column, syntax, out of range
			return fmt.Errorf("%w: %v", resource.ErrMalformedQuery, err)
		}
	}
	return err
}
