package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-tracker/internal/types"
)

func TestMemory_ListingsRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	owner := uuid.New()

	l := types.NewListing(owner)
	l.Title = "Backend Engineer"
	require.NoError(t, m.InsertListing(ctx, l))

	got, err := m.ListingsForOwner(ctx, owner)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Backend Engineer", got[0].Title)

	other, err := m.ListingsForOwner(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestMemory_UpdateListingReplacesByID(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	owner := uuid.New()

	l := types.NewListing(owner)
	l.Title = "Before"
	require.NoError(t, m.InsertListing(ctx, l))

	l.Title = "After"
	l.Interest = types.InterestInterested
	require.NoError(t, m.UpdateListing(ctx, l))

	got, err := m.ListingsForOwner(ctx, owner)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "After", got[0].Title)
	assert.Equal(t, types.InterestInterested, got[0].Interest)
}

func TestMemory_RulesForOwnerIncludesOwnerless(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	owner := uuid.New()
	other := uuid.New()

	mine := &types.Rule{ID: uuid.New(), OwnerID: &owner, Name: "mine", Enabled: true}
	global := &types.Rule{ID: uuid.New(), Name: "global", Enabled: true}
	theirs := &types.Rule{ID: uuid.New(), OwnerID: &other, Name: "theirs", Enabled: true}
	m.AddRule(mine)
	m.AddRule(global)
	m.AddRule(theirs)

	rules, err := m.RulesForOwner(ctx, owner)
	require.NoError(t, err)
	require.Len(t, rules, 2)
	names := []string{rules[0].Name, rules[1].Name}
	assert.ElementsMatch(t, []string{"mine", "global"}, names)
}

func TestMemory_RuleSettingsDefaultEnabled(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	owner := uuid.New()

	settings, err := m.RuleSettings(ctx, owner)
	require.NoError(t, err)
	assert.True(t, settings.EnableAutoRules)
	assert.False(t, settings.StopOnFirstMatch)

	m.SetRuleSettings(owner, types.RuleSettings{EnableAutoRules: false})
	settings, err = m.RuleSettings(ctx, owner)
	require.NoError(t, err)
	assert.False(t, settings.EnableAutoRules)
}

func TestMemory_RecordTrigger(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	r := &types.Rule{ID: uuid.New(), Name: "r", Enabled: true}
	m.AddRule(r)

	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, m.RecordTrigger(ctx, r.ID, at))
	require.NoError(t, m.RecordTrigger(ctx, r.ID, at.Add(time.Hour)))

	assert.Equal(t, 2, r.TriggerCount)
	require.NotNil(t, r.LastTriggered)
	assert.Equal(t, at.Add(time.Hour), *r.LastTriggered)
}

func TestMemory_RulesForOwnerReturnsCopies(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	shared := &types.Rule{ID: uuid.New(), Name: "legacy", Enabled: true}
	m.AddRule(shared)

	rules, err := m.RulesForOwner(ctx, uuid.New())
	require.NoError(t, err)
	require.Len(t, rules, 1)

	// Callers evaluating a shared legacy rule must not be able to race on the
	// stored copy; all bookkeeping goes through RecordTrigger.
	rules[0].TriggerCount = 99
	now := time.Now()
	rules[0].LastTriggered = &now

	assert.Zero(t, shared.TriggerCount)
	assert.Nil(t, shared.LastTriggered)
}

func TestMemory_ScoringPreferencesDefault(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	owner := uuid.New()

	prefs, err := m.ScoringPreferences(ctx, owner)
	require.NoError(t, err)
	assert.True(t, prefs.EnableScoring)

	custom := types.DefaultScoringPreferences()
	custom.EnableScoring = false
	m.SetScoringPreferences(owner, custom)

	prefs, err = m.ScoringPreferences(ctx, owner)
	require.NoError(t, err)
	assert.False(t, prefs.EnableScoring)
}

func TestMemory_RecordChanges(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	listingID := uuid.New()

	first := []types.FieldChange{types.NewFieldChange("interest", "not_rated", "interested", "remote jobs")}
	second := []types.FieldChange{types.NewFieldChange("is_remote", "false", "true", "remote jobs")}
	require.NoError(t, m.RecordChanges(ctx, listingID, first))
	require.NoError(t, m.RecordChanges(ctx, listingID, second))

	got := m.ChangesFor(listingID)
	require.Len(t, got, 2)
	assert.Equal(t, "interest", got[0].Field)
	assert.Equal(t, "is_remote", got[1].Field)
}
