// Package pipeline orchestrates the intake decision chain: field repair,
// duplicate detection, salary normalization, rule evaluation, and scoring.
// Intake is serialized per owner so the duplicate check and the insert form
// one atomic unit.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/job-tracker/internal/dedup"
	"github.com/jonathan/job-tracker/internal/rules"
	"github.com/jonathan/job-tracker/internal/salary"
	"github.com/jonathan/job-tracker/internal/scoring"
	"github.com/jonathan/job-tracker/internal/store"
	"github.com/jonathan/job-tracker/internal/types"
)

// IntakeResult is the outcome of one listing passing through the pipeline.
type IntakeResult struct {
	Listing    *types.Listing
	Duplicate  bool
	Evaluation *types.RuleEvaluation
	Changes    []types.FieldChange
	Score      int
	Breakdown  scoring.Breakdown
}

// Orchestrator wires the decision stages over a persistence backend.
type Orchestrator struct {
	store   store.Store
	rules   *rules.Engine
	scoring *scoring.Engine
	verbose bool

	mu     sync.Mutex
	owners map[uuid.UUID]*sync.Mutex
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithVerbose enables per-stage log output.
func WithVerbose(verbose bool) Option {
	return func(o *Orchestrator) {
		o.verbose = verbose
	}
}

// New creates an orchestrator over the given store.
func New(s store.Store, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		store:   s,
		rules:   rules.NewEngine(),
		scoring: scoring.NewEngine(),
		owners:  make(map[uuid.UUID]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// ownerLock returns the mutex serializing intake for one owner, creating it
// on first use. Different owners proceed concurrently.
func (o *Orchestrator) ownerLock(ownerID uuid.UUID) *sync.Mutex {
	o.mu.Lock()
	defer o.mu.Unlock()
	lock, ok := o.owners[ownerID]
	if !ok {
		lock = &sync.Mutex{}
		o.owners[ownerID] = lock
	}
	return lock
}

// ClassifyAndScore runs a freshly ingested listing through the full chain and
// persists it unless it is a duplicate. Listings with no owner are repaired
// and normalized but never classified, scored, or stored.
func (o *Orchestrator) ClassifyAndScore(ctx context.Context, listing *types.Listing) (*IntakeResult, error) {
	result := &IntakeResult{Listing: listing, Evaluation: &types.RuleEvaluation{}}

	listing.Title = dedup.CleanField(listing.Title)
	listing.Company = dedup.CleanField(listing.Company)
	o.normalizeSalary(listing)

	if listing.OwnerID == uuid.Nil {
		log.Printf("Skipping classification for ownerless listing %s", listing.ID)
		return result, nil
	}

	lock := o.ownerLock(listing.OwnerID)
	lock.Lock()
	defer lock.Unlock()

	existing, err := o.store.ListingsForOwner(ctx, listing.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load existing listings: %w", err)
	}

	if dedup.IsDuplicate(listing, existing) {
		result.Duplicate = true
		if o.verbose {
			log.Printf("Duplicate listing rejected: %q at %q", listing.Title, listing.Company)
		}
		return result, nil
	}

	eval, changes, err := o.evaluateRules(ctx, listing, rules.ModeInitialIntake)
	if err != nil {
		return nil, err
	}
	result.Evaluation = eval
	result.Changes = changes

	score, breakdown, err := o.score(ctx, listing, existing)
	if err != nil {
		return nil, err
	}
	result.Score = score
	result.Breakdown = breakdown
	listing.SuitabilityScore = score

	if err := o.store.InsertListing(ctx, listing); err != nil {
		return nil, fmt.Errorf("failed to store listing: %w", err)
	}
	if len(changes) > 0 {
		if err := o.store.RecordChanges(ctx, listing.ID, changes); err != nil {
			return nil, fmt.Errorf("failed to record changes: %w", err)
		}
	}

	if o.verbose {
		log.Printf("Classified %q at %q: interest=%s suitability=%s score=%d",
			listing.Title, listing.Company, listing.Interest, listing.Suitability, score)
	}
	return result, nil
}

// Reevaluate reruns rules and scoring for an already stored listing under the
// given application mode and persists the outcome.
func (o *Orchestrator) Reevaluate(ctx context.Context, listing *types.Listing, mode rules.Mode) (*IntakeResult, error) {
	if listing.OwnerID == uuid.Nil {
		return &IntakeResult{Listing: listing, Evaluation: &types.RuleEvaluation{}}, nil
	}

	lock := o.ownerLock(listing.OwnerID)
	lock.Lock()
	defer lock.Unlock()

	o.normalizeSalary(listing)

	eval, changes, err := o.evaluateRules(ctx, listing, mode)
	if err != nil {
		return nil, err
	}

	existing, err := o.store.ListingsForOwner(ctx, listing.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load existing listings: %w", err)
	}
	score, breakdown, err := o.score(ctx, listing, existing)
	if err != nil {
		return nil, err
	}
	listing.SuitabilityScore = score

	if err := o.store.UpdateListing(ctx, listing); err != nil {
		return nil, fmt.Errorf("failed to update listing: %w", err)
	}
	if len(changes) > 0 {
		if err := o.store.RecordChanges(ctx, listing.ID, changes); err != nil {
			return nil, fmt.Errorf("failed to record changes: %w", err)
		}
	}

	return &IntakeResult{
		Listing:    listing,
		Evaluation: eval,
		Changes:    changes,
		Score:      score,
		Breakdown:  breakdown,
	}, nil
}

// Reconcile reevaluates every listing of every given owner under the
// fill-defaults-only mode. Owners are processed concurrently up to the given
// limit; listings within one owner stay sequential.
func (o *Orchestrator) Reconcile(ctx context.Context, owners []uuid.UUID, concurrency int) error {
	if concurrency < 1 {
		concurrency = 1
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, ownerID := range owners {
		ownerID := ownerID
		g.Go(func() error {
			listings, err := o.store.ListingsForOwner(ctx, ownerID)
			if err != nil {
				return fmt.Errorf("failed to load listings for owner %s: %w", ownerID, err)
			}
			for i := range listings {
				if _, err := o.Reevaluate(ctx, &listings[i], rules.ModeBulkReconcile); err != nil {
					return fmt.Errorf("failed to reconcile listing %s: %w", listings[i].ID, err)
				}
			}
			if o.verbose {
				log.Printf("Reconciled %d listings for owner %s", len(listings), ownerID)
			}
			return nil
		})
	}

	return g.Wait()
}

// normalizeSalary parses the free-text pay string when no structured figures
// are present yet.
func (o *Orchestrator) normalizeSalary(listing *types.Listing) {
	if listing.SalaryText == "" || listing.SalaryMin != nil || listing.SalaryMax != nil {
		return
	}
	min, max := salary.Parse(listing.SalaryText)
	listing.SalaryMin = min
	listing.SalaryMax = max
}

// evaluateRules runs the owner's rule set, applies the outcome under the
// mode, and persists trigger bookkeeping for every matched rule.
func (o *Orchestrator) evaluateRules(ctx context.Context, listing *types.Listing, mode rules.Mode) (*types.RuleEvaluation, []types.FieldChange, error) {
	settings, err := o.store.RuleSettings(ctx, listing.OwnerID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load rule settings: %w", err)
	}
	ruleSet, err := o.store.RulesForOwner(ctx, listing.OwnerID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load rules: %w", err)
	}

	eval := o.rules.Evaluate(listing, ruleSet, settings)
	for _, d := range eval.Diagnostics {
		log.Printf("Rule diagnostic for listing %s: %s", listing.ID, d)
	}

	// The store is the single writer for trigger bookkeeping; the engine only
	// reports which rules fired.
	triggeredAt := time.Now()
	for _, ruleID := range eval.Triggered {
		if err := o.store.RecordTrigger(ctx, ruleID, triggeredAt); err != nil {
			return nil, nil, fmt.Errorf("failed to record trigger for rule %s: %w", ruleID, err)
		}
	}

	changes := rules.Apply(listing, eval, mode)
	return eval, changes, nil
}

// score computes the listing's suitability score against the owner's
// preferences, using the owner's existing listings as behavior history.
func (o *Orchestrator) score(ctx context.Context, listing *types.Listing, history []types.Listing) (int, scoring.Breakdown, error) {
	prefs, err := o.store.ScoringPreferences(ctx, listing.OwnerID)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to load scoring preferences: %w", err)
	}
	score, breakdown := o.scoring.Score(listing, prefs, history)
	return score, breakdown, nil
}
