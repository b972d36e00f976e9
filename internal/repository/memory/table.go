// Package memory keeps resources in process memory. It backs the
// DB_DRIVER=memory mode and the service and handler tests.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/cmlabs-hris/company-backend-go/internal/domain/resource"
	"github.com/google/uuid"
)

// table is a resource.Repository over a map. Rows are cloned on the way in
// and out so callers never share memory with the store.
type table[E resource.Entity] struct {
	mu     sync.RWMutex
	rows   map[int64]E
	nextID int64

	clone func(E) E
	// column returns the value a row sorts by for a whitelisted column.
	column func(E, string) (any, bool)
	// unique maps constraint names to the key a row must not share.
	unique map[string]func(E) string
	now    func() time.Time
}

func newTable[E resource.Entity](clone func(E) E, column func(E, string) (any, bool), unique map[string]func(E) string) *table[E] {
	if unique == nil {
		unique = map[string]func(E) string{}
	}
	return &table[E]{
		rows:   make(map[int64]E),
		clone:  clone,
		column: column,
		unique: unique,
		now:    time.Now,
	}
}

func (t *table[E]) GetByID(ctx context.Context, id int64) (E, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	row, ok := t.rows[id]
	if !ok {
		var zero E
		return zero, resource.ErrNotFound
	}
	return t.clone(row), nil
}

func (t *table[E]) GetByPublicID(ctx context.Context, publicID uuid.UUID) (E, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, row := range t.rows {
		if row.Meta().PublicID == publicID {
			return t.clone(row), nil
		}
	}
	var zero E
	return zero, resource.ErrNotFound
}

func (t *table[E]) List(ctx context.Context, query resource.ListQuery) ([]E, int64, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	matched := make([]E, 0, len(t.rows))
	for _, row := range t.rows {
		if row.Meta().Deleted && !query.IncludeDeleted {
			continue
		}
		matched = append(matched, row)
	}

	var sortErr error
	slices.SortFunc(matched, func(a, b E) int {
		c, err := t.compare(a, b, query.SortColumn)
		if err != nil {
			sortErr = err
			return 0
		}
		if query.Descending {
			c = -c
		}
		if c == 0 {
			c = cmp.Compare(a.Meta().ID, b.Meta().ID)
		}
		return c
	})
	if sortErr != nil {
		return nil, 0, sortErr
	}

	total := int64(len(matched))
	if query.Offset >= len(matched) {
		return []E{}, total, nil
	}
	end := min(query.Offset+query.Limit, len(matched))

	page := make([]E, 0, end-query.Offset)
	for _, row := range matched[query.Offset:end] {
		page = append(page, t.clone(row))
	}
	return page, total, nil
}

func (t *table[E]) compare(a, b E, column string) (int, error) {
	av, ok := t.column(a, column)
	if !ok {
		return 0, fmt.Errorf("%w: unknown column %q", resource.ErrMalformedQuery, column)
	}
	bv, _ := t.column(b, column)

	switch x := av.(type) {
	case int64:
		return cmp.Compare(x, bv.(int64)), nil
	case string:
		return cmp.Compare(x, bv.(string)), nil
	case time.Time:
		return x.Compare(bv.(time.Time)), nil
	case uuid.UUID:
		return cmp.Compare(x.String(), bv.(uuid.UUID).String()), nil
	}
	return 0, fmt.Errorf("%w: column %q is not sortable", resource.ErrMalformedQuery, column)
}

// violation returns the first unique constraint row would break.
func (t *table[E]) violation(row E) *resource.IntegrityViolation {
	for name, key := range t.unique {
		want := key(row)
		for id, existing := range t.rows {
			if id != row.Meta().ID && key(existing) == want {
				return &resource.IntegrityViolation{
					Constraint: name,
					Err:        fmt.Errorf("duplicate key value %q", want),
				}
			}
		}
	}
	return nil
}

func (t *table[E]) Create(ctx context.Context, entity E) (E, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var zero E
	row := t.clone(entity)
	meta := row.Meta()
	meta.ID = 0
	if v := t.violation(row); v != nil {
		return zero, v
	}

	t.nextID++
	now := t.now()
	meta.ID = t.nextID
	meta.CreatedAt = now
	meta.UpdatedAt = now
	t.rows[meta.ID] = row
	return t.clone(row), nil
}

func (t *table[E]) Update(ctx context.Context, entity E) (E, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var zero E
	current, ok := t.rows[entity.Meta().ID]
	if !ok {
		return zero, resource.ErrNotFound
	}

	row := t.clone(entity)
	meta := row.Meta()
	// Identity, flag and creation time are never written by an update.
	meta.PublicID = current.Meta().PublicID
	meta.Deleted = current.Meta().Deleted
	meta.CreatedAt = current.Meta().CreatedAt
	if v := t.violation(row); v != nil {
		return zero, v
	}

	meta.UpdatedAt = t.now()
	t.rows[meta.ID] = row
	return t.clone(row), nil
}

func (t *table[E]) SetDeleted(ctx context.Context, id int64, deleted bool) (E, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	row, ok := t.rows[id]
	if !ok {
		var zero E
		return zero, resource.ErrNotFound
	}
	row.Meta().Deleted = deleted
	row.Meta().UpdatedAt = t.now()
	return t.clone(row), nil
}

func (t *table[E]) Delete(ctx context.Context, id int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.rows[id]; !ok {
		return resource.ErrNotFound
	}
	delete(t.rows, id)
	return nil
}

// Transactor runs fn directly; the memory store has no rollback.
type Transactor struct{}

func NewTransactor() *Transactor { return &Transactor{} }

func (Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
