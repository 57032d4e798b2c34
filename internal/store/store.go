// Package store defines the narrow persistence interfaces the classification
// core depends on, plus in-memory and PostgreSQL implementations. The core
// never touches global mutable state; cache invalidation is the storage
// collaborator's concern.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/job-tracker/internal/types"
)

// ListingReader provides a read view of an owner's existing listings, used by
// deduplication and behavioral scoring.
type ListingReader interface {
	ListingsForOwner(ctx context.Context, ownerID uuid.UUID) ([]types.Listing, error)
}

// ListingWriter persists listings. InsertListing is called under the owner's
// intake lock so the duplicate check and insert form one atomic unit.
type ListingWriter interface {
	InsertListing(ctx context.Context, listing *types.Listing) error
	UpdateListing(ctx context.Context, listing *types.Listing) error
}

// RuleProvider supplies the owner's rule set and global rule settings.
// Ownerless (legacy/global) rules are included for every owner.
type RuleProvider interface {
	RulesForOwner(ctx context.Context, ownerID uuid.UUID) ([]*types.Rule, error)
	RuleSettings(ctx context.Context, ownerID uuid.UUID) (types.RuleSettings, error)
}

// RuleSink persists rule trigger bookkeeping after an evaluation pass.
type RuleSink interface {
	RecordTrigger(ctx context.Context, ruleID uuid.UUID, at time.Time) error
}

// PreferencesProvider supplies the owner's scoring preferences.
type PreferencesProvider interface {
	ScoringPreferences(ctx context.Context, ownerID uuid.UUID) (*types.ScoringPreferences, error)
}

// ChangeSink receives structured "what changed" records for the external
// audit/history collaborator.
type ChangeSink interface {
	RecordChanges(ctx context.Context, listingID uuid.UUID, changes []types.FieldChange) error
}

// Store is the full persistence surface the pipeline orchestrator consumes.
type Store interface {
	ListingReader
	ListingWriter
	RuleProvider
	RuleSink
	PreferencesProvider
	ChangeSink
}
