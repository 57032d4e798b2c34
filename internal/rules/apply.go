package rules

import (
	"strconv"

	"github.com/jonathan/job-tracker/internal/types"
)

// Mode selects how an evaluation's resolved values are written back to a
// listing. The three call sites (fresh intake, nightly reconciliation,
// re-classification after new data) have deliberately different overwrite
// semantics.
type Mode int

// Application modes
const (
	// ModeInitialIntake decorates a freshly ingested listing; the
	// first-match-per-field resolution already happened during evaluation.
	ModeInitialIntake Mode = iota
	// ModeBulkReconcile only fills fields still at their unset default;
	// values a user or an earlier rule pass set are left alone.
	ModeBulkReconcile
	// ModeTargetedOverride overwrites previously rule-set values because new
	// listing data may change the correct classification.
	ModeTargetedOverride
)

// String implements fmt.Stringer for log output.
func (m Mode) String() string {
	switch m {
	case ModeInitialIntake:
		return "initial_intake"
	case ModeBulkReconcile:
		return "bulk_reconcile"
	case ModeTargetedOverride:
		return "targeted_override"
	default:
		return "unknown"
	}
}

// Apply writes the evaluation's resolved values onto the listing according to
// the mode and returns the structured record of what actually changed, for
// the audit collaborator.
func Apply(listing *types.Listing, eval *types.RuleEvaluation, mode Mode) []types.FieldChange {
	var changes []types.FieldChange

	if eval.Interest != nil && *eval.Interest != listing.Interest &&
		applicable(mode, listing.Interest == types.InterestNotRated) {
		changes = append(changes, types.NewFieldChange("interest",
			string(listing.Interest), string(*eval.Interest), eval.InterestRule))
		listing.Interest = *eval.Interest
	}

	if eval.Suitability != nil && *eval.Suitability != listing.Suitability &&
		applicable(mode, listing.Suitability == types.SuitabilityNotChecked) {
		changes = append(changes, types.NewFieldChange("suitability",
			string(listing.Suitability), string(*eval.Suitability), eval.SuitabilityRule))
		listing.Suitability = *eval.Suitability
	}

	if eval.Remote != nil && *eval.Remote != listing.IsRemote &&
		applicable(mode, !listing.IsRemote) {
		changes = append(changes, types.NewFieldChange("is_remote",
			strconv.FormatBool(listing.IsRemote), strconv.FormatBool(*eval.Remote), eval.RemoteRule))
		listing.IsRemote = *eval.Remote
	}

	return changes
}

// applicable reports whether a resolved value may be written in this mode.
// The remote flag has no distinct unset state, so false counts as its
// default under bulk reconciliation.
func applicable(mode Mode, atDefault bool) bool {
	if mode == ModeBulkReconcile {
		return atDefault
	}
	return true
}
