package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// RuleField identifies the listing attribute a condition reads
type RuleField string

// RuleField values
const (
	FieldTitle            RuleField = "title"
	FieldDescription      RuleField = "description"
	FieldCompany          RuleField = "company"
	FieldLocation         RuleField = "location"
	FieldSalary           RuleField = "salary"
	FieldSource           RuleField = "source"
	FieldSkills           RuleField = "skills"
	FieldIsRemote         RuleField = "is_remote"
	FieldSuitabilityScore RuleField = "suitability_score"
	// FieldAny evaluates the condition against title, description, company,
	// location, salary and source, matching if any of them match.
	FieldAny RuleField = "any"
)

// RuleOperator identifies the comparison a condition applies
type RuleOperator string

// Text operators
const (
	OpContains    RuleOperator = "contains"
	OpNotContains RuleOperator = "not_contains"
	OpEquals      RuleOperator = "equals"
	OpNotEquals   RuleOperator = "not_equals"
	OpStartsWith  RuleOperator = "starts_with"
	OpEndsWith    RuleOperator = "ends_with"
	OpRegex       RuleOperator = "regex"
)

// Boolean operators (is_remote only)
const (
	OpIsTrue  RuleOperator = "is_true"
	OpIsFalse RuleOperator = "is_false"
)

// Numeric operators (suitability_score only)
const (
	OpGreater        RuleOperator = "gt"
	OpGreaterOrEqual RuleOperator = "gte"
	OpLess           RuleOperator = "lt"
	OpLessOrEqual    RuleOperator = "lte"
	OpNumberEqual    RuleOperator = "eq"
	OpNumberNotEqual RuleOperator = "neq"
)

// LogicMode controls how a compound condition set combines its members
type LogicMode string

// LogicMode values
const (
	LogicAnd LogicMode = "and"
	LogicOr  LogicMode = "or"
)

// Condition is a single field/operator/value match test.
// Text comparisons are case-insensitive unless CaseSensitive is set.
type Condition struct {
	Field         RuleField    `json:"field" validate:"required,oneof=title description company location salary source skills is_remote suitability_score any"`
	Operator      RuleOperator `json:"operator" validate:"required,oneof=contains not_contains equals not_equals starts_with ends_with regex is_true is_false gt gte lt lte eq neq"`
	Value         string       `json:"value"`
	CaseSensitive bool         `json:"case_sensitive,omitempty"`
}

// Rule is a user-authored classification directive: a single condition or a
// compound condition set, plus up to three output actions. Rules with a nil
// OwnerID are legacy/global and apply to every owner.
type Rule struct {
	ID      uuid.UUID  `json:"id"`
	OwnerID *uuid.UUID `json:"owner_id,omitempty"`
	Name    string     `json:"name" validate:"required"`

	Enabled  bool `json:"enabled"`
	Priority int  `json:"priority"` // higher runs first

	Condition  *Condition  `json:"condition,omitempty"`
	Conditions []Condition `json:"conditions,omitempty" validate:"dive"`
	Logic      LogicMode   `json:"logic,omitempty" validate:"omitempty,oneof=and or"`

	SetInterest    *Interest    `json:"set_interest,omitempty" validate:"omitempty,oneof=not_rated interested not_interested"`
	SetSuitability *Suitability `json:"set_suitability,omitempty" validate:"omitempty,oneof=not_checked possible unsuitable"`
	SetRemote      *bool        `json:"set_remote,omitempty"`

	// Bookkeeping updated as a side effect of matching
	TriggerCount  int        `json:"trigger_count"`
	LastTriggered *time.Time `json:"last_triggered,omitempty"`
}

// Validate validates the Rule using the validator.
func (r *Rule) Validate() error {
	validate := validator.New()
	if err := validate.Struct(r); err != nil {
		return err
	}
	if r.Condition != nil {
		return validate.Struct(r.Condition)
	}
	return nil
}

// RuleSettings holds the owner's global rule-engine policy
type RuleSettings struct {
	EnableAutoRules  bool `json:"enable_auto_rules"`
	StopOnFirstMatch bool `json:"stop_on_first_match"`
}

// RuleEvaluation is the transient outcome of one rule-engine pass: the rules
// that matched (in evaluation order), at most one resolved value per output
// field, and which rule produced each value. Never persisted. Trigger
// bookkeeping for the rules in Triggered is the caller's job; the engine
// itself never writes to shared rule state.
type RuleEvaluation struct {
	Matched   []string    `json:"matched"`
	Triggered []uuid.UUID `json:"triggered,omitempty"`

	Interest     *Interest `json:"interest,omitempty"`
	InterestRule string    `json:"interest_rule,omitempty"`

	Suitability     *Suitability `json:"suitability,omitempty"`
	SuitabilityRule string       `json:"suitability_rule,omitempty"`

	Remote     *bool  `json:"remote,omitempty"`
	RemoteRule string `json:"remote_rule,omitempty"`

	// Diagnostics carries non-fatal condition failures (bad regex, unparsable
	// numeric threshold) for the caller's observability layer.
	Diagnostics []string `json:"diagnostics,omitempty"`
}

// Empty reports whether the evaluation matched nothing and resolved nothing.
func (e *RuleEvaluation) Empty() bool {
	return len(e.Matched) == 0 && e.Interest == nil && e.Suitability == nil && e.Remote == nil
}
