// Package audit stamps lifecycle metadata onto records and enforces
// optimistic-locking and delete-restriction rules.
//
// The Auditor owns every audit timestamp: the storage layer persists the
// stamped values verbatim and never sets created_at/updated_at/deleted_at
// itself. Actor identity is always passed in explicitly; the package reads
// no ambient authentication state.
package audit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/modulith/modulith/internal/domain"
	"github.com/modulith/modulith/internal/pipeline"
)

// RelationGuard answers whether rows exist for a named relation of a record.
// Store implementations provide this for records with delete restrictions.
type RelationGuard interface {
	RelatedExists(ctx context.Context, rec domain.Auditable, relation string) (bool, error)
}

// Auditor mutates a record's audit fields for each lifecycle event.
// The zero value is not usable; call New.
type Auditor struct {
	now   func() time.Time
	newID func() uuid.UUID
}

// New creates an Auditor using the real clock and random UUIDs.
func New() *Auditor {
	return &Auditor{
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.New,
	}
}

// NewWithSources creates an Auditor with injectable time and identifier
// sources for deterministic tests.
func NewWithSources(now func() time.Time, newID func() uuid.UUID) *Auditor {
	return &Auditor{now: now, newID: newID}
}

// PrepareCreate stamps a fresh record: new public identifier, active,
// version 0, creation and update metadata set to now and to the acting
// user (nil for unauthenticated callers).
func (a *Auditor) PrepareCreate(rec domain.Auditable, actor *int64) {
	f := rec.Audit()
	now := a.now()

	f.PublicID = a.newID()
	f.IsActive = true
	f.Version = 0
	f.CreatedBy = actor
	f.UpdatedBy = actor
	f.CreatedAt = now
	f.UpdatedAt = now
}

// PrepareUpdate increments the version counter by exactly one and stamps
// update metadata.
func (a *Auditor) PrepareUpdate(rec domain.Auditable, actor *int64) {
	f := rec.Audit()
	f.Version++
	f.UpdatedBy = actor
	f.UpdatedAt = a.now()
}

// PrepareDelete marks the record soft-deleted and stamps deletion metadata.
// The row is retained; active-record queries exclude it. Soft deletion is a
// versioned write like any other, so the counter advances.
func (a *Auditor) PrepareDelete(rec domain.Auditable, actor *int64) {
	f := rec.Audit()
	now := a.now()

	f.IsActive = false
	f.Version++
	f.DeletedBy = actor
	f.DeletedAt = &now
}

// PrepareRestore clears the soft-delete markers.
func (a *Auditor) PrepareRestore(rec domain.Auditable) {
	f := rec.Audit()
	f.DeletedAt = nil
	f.DeletedBy = nil
}

// ValidateVersion compares the record's stored version with the version the
// caller based its edit on. A mismatch means a concurrent writer won; the
// caller must reload and retry.
func (a *Auditor) ValidateVersion(rec domain.Auditable, expected int64) error {
	if rec.Audit().Version != expected {
		return pipeline.Conflict("Version does not match, please get the latest data and try again")
	}
	return nil
}

// RestrictSoftDeletes fails when any relation the record declares as
// restrict-on-delete still has rows. Records without declared restrictions
// pass trivially.
func (a *Auditor) RestrictSoftDeletes(ctx context.Context, rec domain.Auditable, guard RelationGuard) error {
	restricted, ok := rec.(domain.DeleteRestricted)
	if !ok {
		return nil
	}

	for _, relation := range restricted.RestrictOnDelete() {
		exists, err := guard.RelatedExists(ctx, rec, relation)
		if err != nil {
			return fmt.Errorf("failed to check %s relation: %w", relation, err)
		}
		if exists {
			return pipeline.Unprocessable(fmt.Sprintf(
				"Cannot delete %s: related %s records exist", recordName(rec), relation))
		}
	}

	return nil
}

// recordName derives a short display name from the record's type.
func recordName(rec domain.Auditable) string {
	name := fmt.Sprintf("%T", rec)
	name = strings.TrimPrefix(name, "*")
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return name
}
