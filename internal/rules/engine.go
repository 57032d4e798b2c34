// Package rules evaluates a user's ordered classification rules against a
// listing, honoring priority and the global stop-on-first-match policy, and
// resolving at most one value per output field.
package rules

import (
	"fmt"
	"sort"

	"github.com/jonathan/job-tracker/internal/types"
)

// Engine runs rule evaluation passes.
type Engine struct{}

// NewEngine creates a rule engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Evaluate runs the owner's enabled rules against the listing and returns the
// transient evaluation result. Every matching rule lands in Triggered,
// regardless of whether a higher-priority rule already resolved its output
// fields; the caller persists that bookkeeping through the store, which is
// the single writer for shared rule state.
func (e *Engine) Evaluate(listing *types.Listing, ruleSet []*types.Rule, settings types.RuleSettings) *types.RuleEvaluation {
	result := &types.RuleEvaluation{}
	if !settings.EnableAutoRules {
		return result
	}

	applicable := make([]*types.Rule, 0, len(ruleSet))
	for _, r := range ruleSet {
		if !r.Enabled {
			continue
		}
		// Ownerless rules are legacy/global and apply to every owner.
		if r.OwnerID != nil && *r.OwnerID != listing.OwnerID {
			continue
		}
		applicable = append(applicable, r)
	}

	// Higher priority first; name breaks ties so evaluation order is stable.
	sort.SliceStable(applicable, func(i, j int) bool {
		if applicable[i].Priority != applicable[j].Priority {
			return applicable[i].Priority > applicable[j].Priority
		}
		return applicable[i].Name < applicable[j].Name
	})

	for _, r := range applicable {
		matched, diags := e.ruleMatches(listing, r)
		for _, d := range diags {
			result.Diagnostics = append(result.Diagnostics, fmt.Sprintf("rule %q: %s", r.Name, d))
		}
		if !matched {
			continue
		}

		result.Matched = append(result.Matched, r.Name)
		result.Triggered = append(result.Triggered, r.ID)

		// First matching rule per output field wins within one pass.
		if r.SetInterest != nil && result.Interest == nil {
			result.Interest = r.SetInterest
			result.InterestRule = r.Name
		}
		if r.SetSuitability != nil && result.Suitability == nil {
			result.Suitability = r.SetSuitability
			result.SuitabilityRule = r.Name
		}
		if r.SetRemote != nil && result.Remote == nil {
			result.Remote = r.SetRemote
			result.RemoteRule = r.Name
		}

		if settings.StopOnFirstMatch {
			break
		}
	}

	return result
}

// ruleMatches evaluates the rule's condition set against the listing.
func (e *Engine) ruleMatches(listing *types.Listing, r *types.Rule) (bool, []string) {
	var diags []string

	if len(r.Conditions) > 0 {
		logic := r.Logic
		if logic == "" {
			logic = types.LogicAnd
		}
		for _, c := range r.Conditions {
			matched, diag := evalCondition(listing, c)
			if diag != "" {
				diags = append(diags, diag)
			}
			if logic == types.LogicOr && matched {
				return true, diags
			}
			if logic == types.LogicAnd && !matched {
				return false, diags
			}
		}
		return logic == types.LogicAnd, diags
	}

	if r.Condition != nil {
		matched, diag := evalCondition(listing, *r.Condition)
		if diag != "" {
			diags = append(diags, diag)
		}
		return matched, diags
	}

	// A rule with no condition at all never matches.
	return false, diags
}
