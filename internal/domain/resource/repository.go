package resource

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Signals raised by Repository implementations. The resource service turns
// them into NotFound, Conflict and InvalidArgument failures.
var (
	ErrNotFound       = errors.New("resource not found in store")
	ErrMalformedQuery = errors.New("malformed store query")
)

// IntegrityViolation reports a unique, foreign key or check constraint
// rejected by the store.
type IntegrityViolation struct {
	Constraint string
	Err        error
}

func (e *IntegrityViolation) Error() string {
	return fmt.Sprintf("integrity violation on %s: %v", e.Constraint, e.Err)
}

func (e *IntegrityViolation) Unwrap() error { return e.Err }

// Repository is the storage contract of a resource. Lookups return rows
// regardless of the soft-delete flag; List filters them unless asked not to.
type Repository[E Entity] interface {
	GetByID(ctx context.Context, id int64) (E, error)
	GetByPublicID(ctx context.Context, publicID uuid.UUID) (E, error)
	List(ctx context.Context, query ListQuery) ([]E, int64, error)
	Create(ctx context.Context, entity E) (E, error)
	Update(ctx context.Context, entity E) (E, error)
	SetDeleted(ctx context.Context, id int64, deleted bool) (E, error)
	Delete(ctx context.Context, id int64) error
}

// Transactor runs fn inside a store transaction carried by the context.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
