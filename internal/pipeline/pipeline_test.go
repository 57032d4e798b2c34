package pipeline

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-tracker/internal/rules"
	"github.com/jonathan/job-tracker/internal/store"
	"github.com/jonathan/job-tracker/internal/types"
)

func intakeListing(owner uuid.UUID) *types.Listing {
	l := types.NewListing(owner)
	l.Title = "Senior Go Developer"
	l.Company = "Acme Ltd"
	l.Description = "Distributed systems work"
	l.Location = "London"
	l.URL = "https://uk.indeed.com/viewjob?jk=abc123&from=serp"
	l.Source = "indeed"
	return l
}

func interestPtr(i types.Interest) *types.Interest { return &i }

func remoteRule(owner uuid.UUID) *types.Rule {
	return &types.Rule{
		ID:      uuid.New(),
		OwnerID: &owner,
		Name:    "remote jobs",
		Enabled: true,
		Condition: &types.Condition{
			Field:    types.FieldTitle,
			Operator: types.OpContains,
			Value:    "developer",
		},
		SetInterest: interestPtr(types.InterestInterested),
	}
}

func TestClassifyAndScore_FullChain(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	mem := store.NewMemory()
	rule := remoteRule(owner)
	mem.AddRule(rule)

	l := intakeListing(owner)
	l.SalaryText = "£60,000 - £70,000 per annum"

	result, err := New(mem).ClassifyAndScore(ctx, l)
	require.NoError(t, err)
	assert.False(t, result.Duplicate)

	// Salary normalized from free text
	require.NotNil(t, l.SalaryMin)
	assert.Equal(t, "60000", l.SalaryMin.String())
	require.NotNil(t, l.SalaryMax)
	assert.Equal(t, "70000", l.SalaryMax.String())

	// Rule matched and was applied
	assert.Equal(t, []string{"remote jobs"}, result.Evaluation.Matched)
	assert.Equal(t, types.InterestInterested, l.Interest)
	assert.Equal(t, 1, rule.TriggerCount)
	assert.NotNil(t, rule.LastTriggered)

	// Listing persisted with its score
	stored, err := mem.ListingsForOwner(ctx, owner)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, result.Score, stored[0].SuitabilityScore)

	// Audit trail recorded the rule-driven change
	changes := mem.ChangesFor(l.ID)
	require.Len(t, changes, 1)
	assert.Equal(t, "interest", changes[0].Field)
	assert.Contains(t, changes[0].Description, `"remote jobs"`)
}

func TestClassifyAndScore_CleansDoubledFields(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()

	l := intakeListing(owner)
	l.Title = "Senior Go Developer  Senior Go Developer"
	l.Company = "Acme LtdAcme Ltd"

	_, err := New(store.NewMemory()).ClassifyAndScore(ctx, l)
	require.NoError(t, err)
	assert.Equal(t, "Senior Go Developer", l.Title)
	assert.Equal(t, "Acme Ltd", l.Company)
}

func TestClassifyAndScore_RejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	mem := store.NewMemory()
	orch := New(mem)

	first, err := orch.ClassifyAndScore(ctx, intakeListing(owner))
	require.NoError(t, err)
	assert.False(t, first.Duplicate)

	// Same posting id, different tracking query
	dup := intakeListing(owner)
	dup.URL = "https://uk.indeed.com/viewjob?jk=abc123&utm_source=mail"
	second, err := orch.ClassifyAndScore(ctx, dup)
	require.NoError(t, err)
	assert.True(t, second.Duplicate)

	stored, err := mem.ListingsForOwner(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestClassifyAndScore_DuplicateScopedToOwner(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	orch := New(mem)

	_, err := orch.ClassifyAndScore(ctx, intakeListing(uuid.New()))
	require.NoError(t, err)

	other, err := orch.ClassifyAndScore(ctx, intakeListing(uuid.New()))
	require.NoError(t, err)
	assert.False(t, other.Duplicate)
}

func TestClassifyAndScore_OwnerlessListingSkipsClassification(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()

	l := &types.Listing{ID: uuid.New(), Title: "Orphan", Company: "Acme", SalaryText: "$50/hr"}
	result, err := New(mem).ClassifyAndScore(ctx, l)
	require.NoError(t, err)

	// Repair and normalization still ran, classification did not
	require.NotNil(t, l.SalaryMin)
	assert.Equal(t, "92000", l.SalaryMin.String())
	assert.True(t, result.Evaluation.Empty())
	assert.Zero(t, result.Score)

	stored, err := mem.ListingsForOwner(ctx, uuid.Nil)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestClassifyAndScore_PreservesExistingSalaryFigures(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()

	l := intakeListing(owner)
	l.SalaryText = "£40,000"
	structured := decimal.NewFromInt(55000)
	l.SalaryMin = &structured

	_, err := New(store.NewMemory()).ClassifyAndScore(ctx, l)
	require.NoError(t, err)
	assert.Equal(t, &structured, l.SalaryMin, "structured figures win over free text")
}

func TestReevaluate_BulkModePreservesUserValues(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	mem := store.NewMemory()
	mem.AddRule(remoteRule(owner))
	orch := New(mem)

	l := intakeListing(owner)
	l.Interest = types.InterestNotInterested // user already rated it
	require.NoError(t, mem.InsertListing(ctx, l))

	result, err := orch.Reevaluate(ctx, l, rules.ModeBulkReconcile)
	require.NoError(t, err)

	assert.Equal(t, []string{"remote jobs"}, result.Evaluation.Matched)
	assert.Equal(t, types.InterestNotInterested, l.Interest)
	assert.Empty(t, result.Changes)
}

func TestReevaluate_TargetedOverrideReplacesValues(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	mem := store.NewMemory()
	mem.AddRule(remoteRule(owner))
	orch := New(mem)

	l := intakeListing(owner)
	l.Interest = types.InterestNotInterested
	require.NoError(t, mem.InsertListing(ctx, l))

	result, err := orch.Reevaluate(ctx, l, rules.ModeTargetedOverride)
	require.NoError(t, err)

	assert.Equal(t, types.InterestInterested, l.Interest)
	require.Len(t, result.Changes, 1)

	stored, err := mem.ListingsForOwner(ctx, owner)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, types.InterestInterested, stored[0].Interest)
}

func TestReconcile_AllOwners(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	orch := New(mem)

	owners := make([]uuid.UUID, 3)
	for i := range owners {
		owners[i] = uuid.New()
		mem.AddRule(remoteRule(owners[i]))
		l := intakeListing(owners[i])
		require.NoError(t, mem.InsertListing(ctx, l))
	}

	require.NoError(t, orch.Reconcile(ctx, owners, 2))

	for _, owner := range owners {
		stored, err := mem.ListingsForOwner(ctx, owner)
		require.NoError(t, err)
		require.Len(t, stored, 1)
		assert.Equal(t, types.InterestInterested, stored[0].Interest)
	}
}

func TestClassifyAndScore_ConcurrentIntakeSameOwner(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	orch := New(store.NewMemory())

	var wg sync.WaitGroup
	duplicates := make([]bool, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			l := intakeListing(owner)
			l.ID = uuid.New()
			result, err := orch.ClassifyAndScore(ctx, l)
			if assert.NoError(t, err) {
				duplicates[i] = result.Duplicate
			}
		}(i)
	}
	wg.Wait()

	accepted := 0
	for _, d := range duplicates {
		if !d {
			accepted++
		}
	}
	assert.Equal(t, 1, accepted, "exactly one of the identical listings must survive")
}

func TestClassifyAndScore_SharedLegacyRuleAcrossConcurrentOwners(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	legacy := &types.Rule{
		ID:      uuid.New(),
		Name:    "legacy developer rule",
		Enabled: true,
		Condition: &types.Condition{
			Field:    types.FieldTitle,
			Operator: types.OpContains,
			Value:    "developer",
		},
		SetInterest: interestPtr(types.InterestInterested),
	}
	mem.AddRule(legacy)
	orch := New(mem)

	// Two owners intake distinct listings at the same time; only the store may
	// write the shared rule's bookkeeping, so no count is lost.
	const perOwner = 20
	owners := []uuid.UUID{uuid.New(), uuid.New()}

	var wg sync.WaitGroup
	for _, owner := range owners {
		wg.Add(1)
		go func(owner uuid.UUID) {
			defer wg.Done()
			for i := 0; i < perOwner; i++ {
				l := intakeListing(owner)
				l.Title = fmt.Sprintf("Developer %d", i)
				l.URL = fmt.Sprintf("https://example.com/%s/jobs/%d", owner, i)
				_, err := orch.ClassifyAndScore(ctx, l)
				assert.NoError(t, err)
			}
		}(owner)
	}
	wg.Wait()

	assert.Equal(t, len(owners)*perOwner, legacy.TriggerCount)
	assert.NotNil(t, legacy.LastTriggered)
}

func TestClassifyAndScore_DistinctListingsAllAccepted(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	mem := store.NewMemory()
	orch := New(mem)

	for i := 0; i < 3; i++ {
		l := intakeListing(owner)
		l.Title = fmt.Sprintf("Engineer %d", i)
		l.URL = fmt.Sprintf("https://example.com/jobs/%d", i)
		result, err := orch.ClassifyAndScore(ctx, l)
		require.NoError(t, err)
		assert.False(t, result.Duplicate)
	}

	stored, err := mem.ListingsForOwner(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, stored, 3)
}
