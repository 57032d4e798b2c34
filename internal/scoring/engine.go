// Package scoring computes a normalized 0-100 desirability score for a
// listing from up to seven independently-weighted factors. Disabled or
// unconfigured factors are skipped entirely so they never dilute the
// normalized result.
package scoring

import (
	"math"
	"strings"

	"github.com/jonathan/job-tracker/internal/salary"
	"github.com/jonathan/job-tracker/internal/types"
	"github.com/shopspring/decimal"
)

// Maximum raw points per factor, before the owner's weight multiplier
const (
	maxSkillsPoints   = 25
	maxSalaryPoints   = 20
	maxRemotePoints   = 15
	maxLocationPoints = 10
	maxKeywordPoints  = 15
	maxCompanyPoints  = 10
	maxBehaviorPoints = 15
)

// Breakdown maps factor names to the raw points awarded before weighting,
// for callers that want to explain a score.
type Breakdown map[string]float64

// Engine computes desirability scores.
type Engine struct{}

// NewEngine creates a scoring engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Score computes the listing's desirability in [0, 100] given the owner's
// preferences and listing history. Returns 0 when scoring is disabled or no
// factor is configured.
func (e *Engine) Score(listing *types.Listing, prefs *types.ScoringPreferences, history []types.Listing) (int, Breakdown) {
	if prefs == nil || !prefs.EnableScoring {
		return 0, nil
	}

	total := 0.0
	maxPossible := 0.0
	breakdown := Breakdown{}

	addFactor := func(name string, points, maxPoints, weight float64) {
		total += points * weight
		maxPossible += maxPoints * weight
		breakdown[name] = points
	}

	if prefs.SkillsWeight > 0 && len(prefs.PreferredSkills) > 0 {
		addFactor("skills", skillsPoints(listing, prefs), maxSkillsPoints, prefs.SkillsWeight)
	}
	if prefs.SalaryWeight > 0 && prefs.MinSalary != nil {
		addFactor("salary", salaryPoints(listing, prefs), maxSalaryPoints, prefs.SalaryWeight)
	}
	if prefs.RemoteWeight > 0 && prefs.RemotePreference != types.RemoteNoPreference {
		addFactor("remote", remotePoints(listing, prefs), maxRemotePoints, prefs.RemoteWeight)
	}
	if prefs.LocationWeight > 0 && len(prefs.PreferredLocations) > 0 {
		addFactor("location", locationPoints(listing, prefs), maxLocationPoints, prefs.LocationWeight)
	}
	if prefs.KeywordWeight > 0 && (len(prefs.MustHaveKeywords) > 0 || len(prefs.AvoidKeywords) > 0) {
		addFactor("keywords", keywordPoints(listing, prefs), maxKeywordPoints, prefs.KeywordWeight)
	}
	if prefs.CompanyWeight > 0 && (len(prefs.PreferredCompanies) > 0 || len(prefs.AvoidedCompanies) > 0) {
		addFactor("company", companyPoints(listing, prefs), maxCompanyPoints, prefs.CompanyWeight)
	}
	if prefs.BehaviorWeight > 0 {
		addFactor("behavior", behaviorPoints(listing, history), maxBehaviorPoints, prefs.BehaviorWeight)
	}

	if maxPossible == 0 {
		return 0, breakdown
	}

	score := int(math.Round(total / maxPossible * 100))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score, breakdown
}

// skillsPoints awards the fraction of preferred skills found in the listing's
// skills, title or description.
func skillsPoints(l *types.Listing, prefs *types.ScoringPreferences) float64 {
	haystack := strings.ToLower(strings.Join(l.Skills, " ") + " " + l.Title + " " + l.Description)
	matched := 0
	for _, skill := range prefs.PreferredSkills {
		s := strings.ToLower(strings.TrimSpace(skill))
		if s != "" && strings.Contains(haystack, s) {
			matched++
		}
	}
	return float64(matched) / float64(len(prefs.PreferredSkills)) * maxSkillsPoints
}

// salaryPoints compares the listing's effective salary to the desired range.
// A listing with no salary information at all scores neutral.
func salaryPoints(l *types.Listing, prefs *types.ScoringPreferences) float64 {
	effective := l.EffectiveSalary()
	if effective == nil && l.SalaryText != "" {
		pmin, pmax := salary.Parse(l.SalaryText)
		if pmin != nil {
			effective = pmin
		} else {
			effective = pmax
		}
	}
	if effective == nil {
		return 10 // neutral
	}

	minDesired := *prefs.MinSalary
	if effective.GreaterThanOrEqual(minDesired) {
		if prefs.MaxSalary == nil || effective.LessThanOrEqual(*prefs.MaxSalary) {
			return 20
		}
		return 15
	}

	if minDesired.LessThanOrEqual(decimal.Zero) {
		return 0
	}
	ratio, _ := effective.Div(minDesired).Float64()
	points := ratio * 10
	if points < 0 {
		points = 0
	}
	return points
}

// remotePoints compares the tri-state remote preference to the listing's
// actual remote flag.
func remotePoints(l *types.Listing, prefs *types.ScoringPreferences) float64 {
	prefersRemote := prefs.RemotePreference == types.RemotePreferRemote
	switch {
	case prefersRemote == l.IsRemote:
		return 15
	case prefersRemote && !l.IsRemote:
		return 3 // remote wanted, job is on-site
	default:
		return 10 // on-site wanted, job is remote
	}
}

// locationPoints checks whether any preferred location appears in the
// listing's location.
func locationPoints(l *types.Listing, prefs *types.ScoringPreferences) float64 {
	location := strings.ToLower(strings.TrimSpace(l.Location))
	if location == "" {
		return 5 // neutral
	}
	for _, preferred := range prefs.PreferredLocations {
		p := strings.ToLower(strings.TrimSpace(preferred))
		if p != "" && strings.Contains(location, p) {
			return 10
		}
	}
	return 0
}

// keywordPoints awards must-have keyword coverage and penalizes avoid-keyword
// presence, floored at zero.
func keywordPoints(l *types.Listing, prefs *types.ScoringPreferences) float64 {
	text := strings.ToLower(l.Title + " " + l.Description)
	points := 0.0

	if len(prefs.MustHaveKeywords) > 0 {
		matched := 0
		for _, kw := range prefs.MustHaveKeywords {
			k := strings.ToLower(strings.TrimSpace(kw))
			if k != "" && strings.Contains(text, k) {
				matched++
			}
		}
		points += float64(matched) / float64(len(prefs.MustHaveKeywords)) * 12
	} else {
		points += 6 // neutral when no must-haves configured
	}

	if len(prefs.AvoidKeywords) > 0 {
		found := false
		for _, kw := range prefs.AvoidKeywords {
			k := strings.ToLower(strings.TrimSpace(kw))
			if k != "" && strings.Contains(text, k) {
				found = true
				break
			}
		}
		if found {
			points -= 5
		} else {
			points += 3
		}
	} else {
		points += 3 // neutral when no avoid keywords configured
	}

	if points < 0 {
		points = 0
	}
	return points
}

// companyPoints penalizes avoid-list companies (short-circuiting) and rewards
// preferred ones.
func companyPoints(l *types.Listing, prefs *types.ScoringPreferences) float64 {
	company := strings.ToLower(strings.TrimSpace(l.Company))
	for _, avoided := range prefs.AvoidedCompanies {
		a := strings.ToLower(strings.TrimSpace(avoided))
		if a != "" && company != "" && strings.Contains(company, a) {
			return -5
		}
	}
	for _, preferred := range prefs.PreferredCompanies {
		p := strings.ToLower(strings.TrimSpace(preferred))
		if p != "" && company != "" && strings.Contains(company, p) {
			return 10
		}
	}
	return 5 // neutral
}
