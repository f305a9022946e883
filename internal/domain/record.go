package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditFields holds the bookkeeping columns shared by every persisted record:
// an opaque public identifier distinct from the internal numeric id, an
// optimistic-locking version counter, a soft-delete marker, and actor and
// timestamp references for each lifecycle event.
//
// Embed it in a record struct to satisfy the Auditable interface:
//
//	type Invoice struct {
//	    ID int64
//	    domain.AuditFields
//	}
type AuditFields struct {
	PublicID  uuid.UUID  `json:"public_id"`
	IsActive  bool       `json:"is_active"`
	Version   int64      `json:"version"`
	CreatedBy *int64     `json:"created_by,omitempty"`
	UpdatedBy *int64     `json:"updated_by,omitempty"`
	DeletedBy *int64     `json:"deleted_by,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// Audit returns the record's audit fields for mutation. The pointer receiver
// means any struct embedding AuditFields implements Auditable for free.
func (f *AuditFields) Audit() *AuditFields {
	return f
}

// Auditable is the capability contract required by the audit component.
// Records expose their audit fields through a narrow accessor instead of
// having arbitrary fields stamped onto them dynamically.
type Auditable interface {
	Audit() *AuditFields
}

// DeleteRestricted is implemented by records that must not be soft-deleted
// while related records still reference them. The returned names identify
// the relations to check for existing rows.
type DeleteRestricted interface {
	RestrictOnDelete() []string
}
