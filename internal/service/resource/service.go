// Package resource implements the lifecycle shared by every CRUD resource:
// dual-key lookup, create, partial update, soft delete, restore, hard delete
// and paginated listing. Resource specifics are plugged in via Definition.
package resource

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/cmlabs-hris/company-backend-go/internal/domain/resource"
	"github.com/cmlabs-hris/company-backend-go/internal/pkg/apperror"
	"github.com/google/uuid"
)

// Finalizer runs once the surrounding transaction is over. persisted reports
// whether the change was committed.
type Finalizer func(ctx context.Context, persisted bool)

// Definition describes one resource type to the generic service.
type Definition[E resource.Entity, C, U, R any] interface {
	// Name is the singular resource name used in error details.
	Name() string
	// SortableFields maps accepted sort_by values to store columns.
	SortableFields() map[string]string
	DefaultSort() string
	// NewEntity builds an entity from a create request. It must obtain its
	// metadata through resource.NewMetadata.
	NewEntity(ctx context.Context, req C) (E, Finalizer, error)
	// ApplyUpdate copies the fields present in req onto entity.
	ApplyUpdate(ctx context.Context, entity E, req U) (Finalizer, error)
	ToResponse(ctx context.Context, entity E) R
	// ConflictDetail describes a violated store constraint to the caller.
	ConflictDetail(constraint string) string
}

// Eraser is implemented by definitions owning data outside the store that
// must go away with a hard delete.
type Eraser[E resource.Entity] interface {
	Erase(ctx context.Context, entity E)
}

type Service[E resource.Entity, C, U, R any] struct {
	repo resource.Repository[E]
	tx   resource.Transactor
	def  Definition[E, C, U, R]
}

func NewService[E resource.Entity, C, U, R any](
	repo resource.Repository[E],
	tx resource.Transactor,
	def Definition[E, C, U, R],
) *Service[E, C, U, R] {
	return &Service[E, C, U, R]{repo: repo, tx: tx, def: def}
}

type validatable interface {
	Validate() error
}

func validate(req any) error {
	if v, ok := req.(validatable); ok {
		if err := v.Validate(); err != nil {
			return apperror.From(err)
		}
	}
	return nil
}

// List returns one page of resources. Sort and paging parameters are checked
// before the store is queried.
func (s *Service[E, C, U, R]) List(ctx context.Context, req resource.PageRequest) (resource.Page[R], error) {
	query, err := s.resolve(req)
	if err != nil {
		return resource.Page[R]{}, err
	}

	entities, total, err := s.repo.List(ctx, query)
	if err != nil {
		return resource.Page[R]{}, s.storeError(err, "page", req.Page)
	}

	content := make([]R, 0, len(entities))
	for _, entity := range entities {
		content = append(content, s.def.ToResponse(ctx, entity))
	}
	return resource.NewPage(content, req.Page, req.Size, total), nil
}

func (s *Service[E, C, U, R]) resolve(req resource.PageRequest) (resource.ListQuery, error) {
	if req.Page < 0 {
		return resource.ListQuery{}, apperror.InvalidArgument("page must not be negative").With("page", req.Page)
	}
	if req.Size <= 0 || req.Size > resource.MaxPageSize {
		return resource.ListQuery{}, apperror.InvalidArgument("size must be between 1 and %d", resource.MaxPageSize).With("size", req.Size)
	}

	sortBy := strings.TrimSpace(req.SortBy)
	if sortBy == "" {
		sortBy = s.def.DefaultSort()
	}
	fields := s.def.SortableFields()
	column, ok := fields[sortBy]
	if !ok {
		allowed := make([]string, 0, len(fields))
		for name := range fields {
			allowed = append(allowed, name)
		}
		slices.Sort(allowed)
		return resource.ListQuery{}, apperror.InvalidArgument("unsupported sort field %q", sortBy).
			With("sort_by", sortBy).
			With("allowed", allowed)
	}

	direction := resource.SortAscending
	if req.SortDirection != "" {
		parsed, ok := resource.ParseSortDirection(req.SortDirection)
		if !ok {
			return resource.ListQuery{}, apperror.InvalidArgument("sort direction must be asc or desc").
				With("sort_direction", req.SortDirection)
		}
		direction = parsed
	}

	return resource.ListQuery{
		Offset:         req.Page * req.Size,
		Limit:          req.Size,
		SortColumn:     column,
		Descending:     direction == resource.SortDescending,
		IncludeDeleted: req.IncludeDeleted,
	}, nil
}

func (s *Service[E, C, U, R]) GetByID(ctx context.Context, id int64) (R, error) {
	return s.Get(ctx, resource.ByID(id))
}

func (s *Service[E, C, U, R]) GetByPublicID(ctx context.Context, publicID uuid.UUID) (R, error) {
	return s.Get(ctx, resource.ByPublicID(publicID))
}

// Get returns the resource addressed by ref. Soft-deleted resources are
// returned too, flagged as deleted.
func (s *Service[E, C, U, R]) Get(ctx context.Context, ref resource.Ref) (R, error) {
	entity, err := s.load(ctx, ref)
	if err != nil {
		var zero R
		return zero, err
	}
	return s.def.ToResponse(ctx, entity), nil
}

func (s *Service[E, C, U, R]) Create(ctx context.Context, req C) (R, error) {
	var zero R
	if err := validate(&req); err != nil {
		return zero, err
	}

	var (
		created  E
		finalize Finalizer
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		entity, fin, err := s.def.NewEntity(ctx, req)
		finalize = fin
		if err != nil {
			return err
		}
		resource.EnsurePublicID(entity.Meta())

		created, err = s.repo.Create(ctx, entity)
		if err != nil {
			key, value := resource.ByPublicID(entity.Meta().PublicID).Key()
			return s.storeError(err, key, value)
		}
		return nil
	})
	if finalize != nil {
		finalize(ctx, err == nil)
	}
	if err != nil {
		return zero, err
	}

	slog.InfoContext(ctx, "Resource created", "resource", s.def.Name(), "id", created.Meta().ID, "public_id", created.Meta().PublicID)
	return s.def.ToResponse(ctx, created), nil
}

func (s *Service[E, C, U, R]) UpdateByID(ctx context.Context, id int64, req U) (R, error) {
	return s.Update(ctx, resource.ByID(id), req)
}

func (s *Service[E, C, U, R]) UpdateByPublicID(ctx context.Context, publicID uuid.UUID, req U) (R, error) {
	return s.Update(ctx, resource.ByPublicID(publicID), req)
}

// Update applies the fields present in req. The public id is never touched.
func (s *Service[E, C, U, R]) Update(ctx context.Context, ref resource.Ref, req U) (R, error) {
	var zero R
	if err := validate(&req); err != nil {
		return zero, err
	}

	var (
		updated  E
		finalize Finalizer
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.load(ctx, ref)
		if err != nil {
			return err
		}
		if current.Meta().Deleted {
			key, value := ref.Key()
			return apperror.Conflict("%s has been deleted", s.def.Name()).With(key, value)
		}

		fin, err := s.def.ApplyUpdate(ctx, current, req)
		finalize = fin
		if err != nil {
			return err
		}

		updated, err = s.repo.Update(ctx, current)
		if err != nil {
			key, value := ref.Key()
			return s.storeError(err, key, value)
		}
		return nil
	})
	if finalize != nil {
		finalize(ctx, err == nil)
	}
	if err != nil {
		return zero, err
	}

	return s.def.ToResponse(ctx, updated), nil
}

func (s *Service[E, C, U, R]) SoftDelete(ctx context.Context, id int64) error {
	return s.SoftDeleteRef(ctx, resource.ByID(id))
}

func (s *Service[E, C, U, R]) SoftDeleteByPublicID(ctx context.Context, publicID uuid.UUID) error {
	return s.SoftDeleteRef(ctx, resource.ByPublicID(publicID))
}

// SoftDeleteRef flags the resource as deleted. Repeating it is a no-op.
func (s *Service[E, C, U, R]) SoftDeleteRef(ctx context.Context, ref resource.Ref) error {
	_, err := s.setDeleted(ctx, ref, true)
	return err
}

func (s *Service[E, C, U, R]) Restore(ctx context.Context, id int64) (R, error) {
	return s.RestoreRef(ctx, resource.ByID(id))
}

func (s *Service[E, C, U, R]) RestoreByPublicID(ctx context.Context, publicID uuid.UUID) (R, error) {
	return s.RestoreRef(ctx, resource.ByPublicID(publicID))
}

// RestoreRef clears the soft-delete flag. Restoring an active resource is a no-op.
func (s *Service[E, C, U, R]) RestoreRef(ctx context.Context, ref resource.Ref) (R, error) {
	entity, err := s.setDeleted(ctx, ref, false)
	if err != nil {
		var zero R
		return zero, err
	}
	return s.def.ToResponse(ctx, entity), nil
}

func (s *Service[E, C, U, R]) setDeleted(ctx context.Context, ref resource.Ref, deleted bool) (E, error) {
	var zero E
	entity, err := s.load(ctx, ref)
	if err != nil {
		return zero, err
	}
	if entity.Meta().Deleted == deleted {
		return entity, nil
	}

	changed, err := s.repo.SetDeleted(ctx, entity.Meta().ID, deleted)
	if err != nil {
		key, value := ref.Key()
		return zero, s.storeError(err, key, value)
	}
	slog.InfoContext(ctx, "Resource soft-delete flag changed", "resource", s.def.Name(), "id", changed.Meta().ID, "deleted", deleted)
	return changed, nil
}

func (s *Service[E, C, U, R]) Delete(ctx context.Context, id int64) error {
	return s.DeleteRef(ctx, resource.ByID(id))
}

func (s *Service[E, C, U, R]) DeleteByPublicID(ctx context.Context, publicID uuid.UUID) error {
	return s.DeleteRef(ctx, resource.ByPublicID(publicID))
}

// DeleteRef removes the resource permanently. A second call fails NotFound.
func (s *Service[E, C, U, R]) DeleteRef(ctx context.Context, ref resource.Ref) error {
	entity, err := s.load(ctx, ref)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, entity.Meta().ID); err != nil {
		key, value := ref.Key()
		return s.storeError(err, key, value)
	}

	if eraser, ok := s.def.(Eraser[E]); ok {
		eraser.Erase(ctx, entity)
	}
	slog.InfoContext(ctx, "Resource deleted", "resource", s.def.Name(), "id", entity.Meta().ID, "public_id", entity.Meta().PublicID)
	return nil
}

func (s *Service[E, C, U, R]) load(ctx context.Context, ref resource.Ref) (E, error) {
	var (
		entity E
		err    error
	)
	if id, ok := ref.ID(); ok {
		entity, err = s.repo.GetByID(ctx, id)
	} else {
		publicID, _ := ref.PublicID()
		entity, err = s.repo.GetByPublicID(ctx, publicID)
	}
	if err != nil {
		var zero E
		key, value := ref.Key()
		return zero, s.storeError(err, key, value)
	}
	return entity, nil
}

// storeError translates repository signals into classified failures.
func (s *Service[E, C, U, R]) storeError(err error, key string, value any) error {
	var violation *resource.IntegrityViolation
	switch {
	case errors.Is(err, resource.ErrNotFound):
		return apperror.NotFound("%s not found", s.def.Name()).With(key, value)
	case errors.As(err, &violation):
		return apperror.Conflict("%s", s.def.ConflictDetail(violation.Constraint)).
			With("constraint", violation.Constraint).
			WithCause(err)
	case errors.Is(err, resource.ErrMalformedQuery):
		return apperror.InvalidArgument("malformed %s query", s.def.Name()).With(key, value).WithCause(err)
	default:
		if appErr := new(apperror.Error); errors.As(err, &appErr) {
			return err
		}
		return apperror.Internal(fmt.Errorf("%s store: %w", s.def.Name(), err))
	}
}
