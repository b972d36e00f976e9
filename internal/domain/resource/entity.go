// Package resource holds the pieces every CRUD resource shares: dual-key
// identity, soft-delete flag, paging and the storage contract.
package resource

import (
	"time"

	"github.com/google/uuid"
)

// Metadata is embedded by every resource entity.
//
// ID is the surrogate key assigned by the store and is only used internally
// and for joins. PublicID is the identifier safe to put in URLs. Both are
// fixed once the entity is created.
type Metadata struct {
	ID        int64
	PublicID  uuid.UUID
	Deleted   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Meta gives generic code access to the embedded metadata.
func (m *Metadata) Meta() *Metadata { return m }

// Entity is implemented by pointers to structs embedding Metadata.
type Entity interface {
	Meta() *Metadata
}

// NewMetadata builds the metadata of a resource about to be created. A
// non-nil publicID supplied internally is kept, otherwise a random one is
// generated.
func NewMetadata(publicID *uuid.UUID) Metadata {
	m := Metadata{}
	if publicID != nil {
		m.PublicID = *publicID
	}
	EnsurePublicID(&m)
	return m
}

// EnsurePublicID assigns a random public id when none is set. It never
// replaces an existing one.
func EnsurePublicID(m *Metadata) {
	if m.PublicID == uuid.Nil {
		m.PublicID = uuid.New()
	}
}

// Ref addresses a resource by either of its keys.
type Ref struct {
	id       int64
	publicID uuid.UUID
	byPublic bool
}

func ByID(id int64) Ref { return Ref{id: id} }

func ByPublicID(publicID uuid.UUID) Ref { return Ref{publicID: publicID, byPublic: true} }

func (r Ref) ID() (int64, bool) { return r.id, !r.byPublic }

func (r Ref) PublicID() (uuid.UUID, bool) { return r.publicID, r.byPublic }

// Key returns the property name and value identifying the ref in error
// documents and logs.
func (r Ref) Key() (string, any) {
	if r.byPublic {
		return "public_id", r.publicID.String()
	}
	return "id", r.id
}
