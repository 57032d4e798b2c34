package types

import (
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// RemotePreference is the owner's tri-state remote-work preference.
// An empty value means no strong preference and disables the remote factor.
type RemotePreference string

// RemotePreference values
const (
	RemoteNoPreference RemotePreference = ""
	RemotePreferRemote RemotePreference = "remote"
	RemotePreferOnsite RemotePreference = "onsite"
)

// ScoringPreferences holds one owner's desirability weights and preference
// lists. A weight of 0 disables its factor entirely; a factor whose
// triggering preference list is empty is likewise skipped so unconfigured
// factors do not dilute the normalized score.
type ScoringPreferences struct {
	EnableScoring bool `json:"enable_scoring"`

	SkillsWeight   float64 `json:"skills_weight" validate:"gte=0"`
	SalaryWeight   float64 `json:"salary_weight" validate:"gte=0"`
	RemoteWeight   float64 `json:"remote_weight" validate:"gte=0"`
	LocationWeight float64 `json:"location_weight" validate:"gte=0"`
	KeywordWeight  float64 `json:"keyword_weight" validate:"gte=0"`
	CompanyWeight  float64 `json:"company_weight" validate:"gte=0"`
	BehaviorWeight float64 `json:"behavior_weight" validate:"gte=0"`

	PreferredSkills    []string `json:"preferred_skills,omitempty"`
	MustHaveKeywords   []string `json:"must_have_keywords,omitempty"`
	AvoidKeywords      []string `json:"avoid_keywords,omitempty"`
	PreferredCompanies []string `json:"preferred_companies,omitempty"`
	AvoidedCompanies   []string `json:"avoided_companies,omitempty"`
	PreferredLocations []string `json:"preferred_locations,omitempty"`

	MinSalary *decimal.Decimal `json:"min_salary,omitempty"`
	MaxSalary *decimal.Decimal `json:"max_salary,omitempty"`

	RemotePreference RemotePreference `json:"remote_preference,omitempty" validate:"omitempty,oneof=remote onsite"`
}

// DefaultScoringPreferences returns preferences with every factor enabled at
// weight 1.0 and no configured lists.
func DefaultScoringPreferences() *ScoringPreferences {
	return &ScoringPreferences{
		EnableScoring:  true,
		SkillsWeight:   1.0,
		SalaryWeight:   1.0,
		RemoteWeight:   1.0,
		LocationWeight: 1.0,
		KeywordWeight:  1.0,
		CompanyWeight:  1.0,
		BehaviorWeight: 1.0,
	}
}

// Validate validates the ScoringPreferences using the validator.
func (p *ScoringPreferences) Validate() error {
	validate := validator.New()
	return validate.Struct(p)
}
