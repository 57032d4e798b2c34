package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/job-tracker/internal/types"
)

// Memory is an in-memory Store used by tests and embeddable callers. All
// methods are safe for concurrent use.
type Memory struct {
	mu          sync.RWMutex
	listings    map[uuid.UUID][]types.Listing // keyed by owner
	rules       map[uuid.UUID]*types.Rule
	settings    map[uuid.UUID]types.RuleSettings
	preferences map[uuid.UUID]*types.ScoringPreferences
	changes     map[uuid.UUID][]types.FieldChange // keyed by listing
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		listings:    make(map[uuid.UUID][]types.Listing),
		rules:       make(map[uuid.UUID]*types.Rule),
		settings:    make(map[uuid.UUID]types.RuleSettings),
		preferences: make(map[uuid.UUID]*types.ScoringPreferences),
		changes:     make(map[uuid.UUID][]types.FieldChange),
	}
}

// ListingsForOwner returns copies of the owner's listings.
func (m *Memory) ListingsForOwner(_ context.Context, ownerID uuid.UUID) ([]types.Listing, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]types.Listing, len(m.listings[ownerID]))
	copy(out, m.listings[ownerID])
	return out, nil
}

// InsertListing stores a new listing for its owner.
func (m *Memory) InsertListing(_ context.Context, listing *types.Listing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listings[listing.OwnerID] = append(m.listings[listing.OwnerID], *listing)
	return nil
}

// UpdateListing replaces a stored listing by id.
func (m *Memory) UpdateListing(_ context.Context, listing *types.Listing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	owned := m.listings[listing.OwnerID]
	for i := range owned {
		if owned[i].ID == listing.ID {
			owned[i] = *listing
			return nil
		}
	}
	return nil
}

// AddRule registers a rule. Test helper mirroring the rule-management
// collaborator.
func (m *Memory) AddRule(rule *types.Rule) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules[rule.ID] = rule
}

// RulesForOwner returns copies of the owner's rules plus ownerless legacy
// rules. Copies keep evaluations from racing on shared rules; bookkeeping
// flows back through RecordTrigger.
func (m *Memory) RulesForOwner(_ context.Context, ownerID uuid.UUID) ([]*types.Rule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*types.Rule
	for _, r := range m.rules {
		if r.OwnerID == nil || *r.OwnerID == ownerID {
			c := *r
			out = append(out, &c)
		}
	}
	return out, nil
}

// SetRuleSettings stores the owner's global rule settings.
func (m *Memory) SetRuleSettings(ownerID uuid.UUID, settings types.RuleSettings) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings[ownerID] = settings
}

// RuleSettings returns the owner's global rule settings; rules default to
// enabled when never configured.
func (m *Memory) RuleSettings(_ context.Context, ownerID uuid.UUID) (types.RuleSettings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.settings[ownerID]; ok {
		return s, nil
	}
	return types.RuleSettings{EnableAutoRules: true}, nil
}

// RecordTrigger persists a rule's trigger bookkeeping: count increment plus
// timestamp, under the store mutex.
func (m *Memory) RecordTrigger(_ context.Context, ruleID uuid.UUID, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.rules[ruleID]; ok {
		r.TriggerCount++
		triggeredAt := at
		r.LastTriggered = &triggeredAt
	}
	return nil
}

// SetScoringPreferences stores the owner's preferences.
func (m *Memory) SetScoringPreferences(ownerID uuid.UUID, prefs *types.ScoringPreferences) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.preferences[ownerID] = prefs
}

// ScoringPreferences returns the owner's preferences, or defaults when never
// configured.
func (m *Memory) ScoringPreferences(_ context.Context, ownerID uuid.UUID) (*types.ScoringPreferences, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.preferences[ownerID]; ok {
		return p, nil
	}
	return types.DefaultScoringPreferences(), nil
}

// RecordChanges appends audit records for a listing.
func (m *Memory) RecordChanges(_ context.Context, listingID uuid.UUID, changes []types.FieldChange) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.changes[listingID] = append(m.changes[listingID], changes...)
	return nil
}

// ChangesFor returns the audit records recorded for a listing. Test helper.
func (m *Memory) ChangesFor(listingID uuid.UUID) []types.FieldChange {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]types.FieldChange, len(m.changes[listingID]))
	copy(out, m.changes[listingID])
	return out
}
