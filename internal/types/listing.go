// Package types provides type definitions for structured data used throughout the job-tracker system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Interest is the user's subjective attraction label for a listing
type Interest string

// Interest values
const (
	InterestNotRated      Interest = "not_rated"
	InterestInterested    Interest = "interested"
	InterestNotInterested Interest = "not_interested"
)

// Suitability is the fit/viability label for a listing
type Suitability string

// Suitability values
const (
	SuitabilityNotChecked Suitability = "not_checked"
	SuitabilityPossible   Suitability = "possible"
	SuitabilityUnsuitable Suitability = "unsuitable"
)

// Listing represents one tracked job posting belonging to one owner.
// Applied/Stage metadata is owned by external collaborators and is read-only
// inside the classification core.
type Listing struct {
	ID      uuid.UUID `json:"id"`
	OwnerID uuid.UUID `json:"owner_id"`

	Title       string `json:"title"`
	Company     string `json:"company"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
	URL         string `json:"url,omitempty"`
	Source      string `json:"source,omitempty"` // site tag, e.g. "indeed", "linkedin"
	JobType     string `json:"job_type,omitempty"`

	SalaryText string           `json:"salary_text,omitempty"`
	SalaryMin  *decimal.Decimal `json:"salary_min,omitempty"`
	SalaryMax  *decimal.Decimal `json:"salary_max,omitempty"`

	IsRemote bool     `json:"is_remote"`
	Skills   []string `json:"skills,omitempty"`

	Interest         Interest    `json:"interest"`
	Suitability      Suitability `json:"suitability"`
	SuitabilityScore int         `json:"suitability_score"`

	// Application metadata (owned by collaborators, never mutated here)
	Applied bool   `json:"applied"`
	Stage   string `json:"stage,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewListing returns a Listing with the unset classification defaults.
func NewListing(ownerID uuid.UUID) *Listing {
	now := time.Now()
	return &Listing{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Interest:    InterestNotRated,
		Suitability: SuitabilityNotChecked,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// EffectiveSalary returns the listing's single representative salary figure:
// parsed minimum if present, otherwise parsed maximum, otherwise nil.
func (l *Listing) EffectiveSalary() *decimal.Decimal {
	if l.SalaryMin != nil {
		return l.SalaryMin
	}
	return l.SalaryMax
}
