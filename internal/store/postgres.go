package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/job-tracker/internal/types"
)

// Postgres is the pgx-backed Store.
type Postgres struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database.
func Connect(ctx context.Context, databaseURL string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Postgres{pool: pool}, nil
}

// Close closes the connection pool.
func (s *Postgres) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// ListingsForOwner returns every listing belonging to the owner.
func (s *Postgres) ListingsForOwner(ctx context.Context, ownerID uuid.UUID) ([]types.Listing, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, owner_id, title, company, description, location, url, source,
		        job_type, salary_text, salary_min, salary_max, is_remote, skills,
		        interest, suitability, suitability_score, applied, stage,
		        created_at, updated_at
		 FROM listings WHERE owner_id = $1
		 ORDER BY created_at`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query listings: %w", err)
	}
	defer rows.Close()

	var listings []types.Listing
	for rows.Next() {
		var l types.Listing
		if err := rows.Scan(&l.ID, &l.OwnerID, &l.Title, &l.Company, &l.Description,
			&l.Location, &l.URL, &l.Source, &l.JobType, &l.SalaryText,
			&l.SalaryMin, &l.SalaryMax, &l.IsRemote, &l.Skills,
			&l.Interest, &l.Suitability, &l.SuitabilityScore, &l.Applied, &l.Stage,
			&l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read listings: %w", err)
	}
	return listings, nil
}

// InsertListing persists a new listing.
func (s *Postgres) InsertListing(ctx context.Context, l *types.Listing) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO listings (id, owner_id, title, company, description, location,
		        url, source, job_type, salary_text, salary_min, salary_max,
		        is_remote, skills, interest, suitability, suitability_score,
		        applied, stage, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
		         $13, $14, $15, $16, $17, $18, $19, NOW(), NOW())`,
		l.ID, l.OwnerID, l.Title, l.Company, l.Description, l.Location,
		l.URL, l.Source, l.JobType, l.SalaryText, l.SalaryMin, l.SalaryMax,
		l.IsRemote, l.Skills, l.Interest, l.Suitability, l.SuitabilityScore,
		l.Applied, l.Stage,
	)
	if err != nil {
		return fmt.Errorf("failed to insert listing: %w", err)
	}
	return nil
}

// UpdateListing persists the classification fields the pipeline decorates.
func (s *Postgres) UpdateListing(ctx context.Context, l *types.Listing) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE listings
		 SET salary_min = $1, salary_max = $2, is_remote = $3, interest = $4,
		     suitability = $5, suitability_score = $6, updated_at = NOW()
		 WHERE id = $7`,
		l.SalaryMin, l.SalaryMax, l.IsRemote, l.Interest,
		l.Suitability, l.SuitabilityScore, l.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update listing: %w", err)
	}
	return nil
}

// RulesForOwner returns the owner's rules plus ownerless legacy rules,
// ordered the way the engine evaluates them.
func (s *Postgres) RulesForOwner(ctx context.Context, ownerID uuid.UUID) ([]*types.Rule, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, owner_id, name, enabled, priority, condition, conditions,
		        logic, set_interest, set_suitability, set_remote,
		        trigger_count, last_triggered
		 FROM rules WHERE owner_id = $1 OR owner_id IS NULL
		 ORDER BY priority DESC, name`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query rules: %w", err)
	}
	defer rows.Close()

	var out []*types.Rule
	for rows.Next() {
		var r types.Rule
		if err := rows.Scan(&r.ID, &r.OwnerID, &r.Name, &r.Enabled, &r.Priority,
			&r.Condition, &r.Conditions, &r.Logic,
			&r.SetInterest, &r.SetSuitability, &r.SetRemote,
			&r.TriggerCount, &r.LastTriggered); err != nil {
			return nil, fmt.Errorf("failed to scan rule: %w", err)
		}
		out = append(out, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rules: %w", err)
	}
	return out, nil
}

// RuleSettings returns the owner's global rule settings; owners with no row
// default to auto rules enabled.
func (s *Postgres) RuleSettings(ctx context.Context, ownerID uuid.UUID) (types.RuleSettings, error) {
	var settings types.RuleSettings
	err := s.pool.QueryRow(ctx,
		`SELECT enable_auto_rules, stop_on_first_match
		 FROM rule_settings WHERE owner_id = $1`,
		ownerID,
	).Scan(&settings.EnableAutoRules, &settings.StopOnFirstMatch)
	if err != nil {
		if err == pgx.ErrNoRows {
			return types.RuleSettings{EnableAutoRules: true}, nil
		}
		return settings, fmt.Errorf("failed to get rule settings: %w", err)
	}
	return settings, nil
}

// RecordTrigger persists one rule trigger: count increment plus timestamp.
// The in-database increment keeps concurrent evaluations from losing counts.
func (s *Postgres) RecordTrigger(ctx context.Context, ruleID uuid.UUID, at time.Time) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE rules SET trigger_count = trigger_count + 1, last_triggered = $1
		 WHERE id = $2`,
		at, ruleID,
	)
	if err != nil {
		return fmt.Errorf("failed to record rule trigger: %w", err)
	}
	return nil
}

// ScoringPreferences returns the owner's scoring preferences; owners with no
// row get the defaults.
func (s *Postgres) ScoringPreferences(ctx context.Context, ownerID uuid.UUID) (*types.ScoringPreferences, error) {
	var p types.ScoringPreferences
	err := s.pool.QueryRow(ctx,
		`SELECT enable_scoring, skills_weight, salary_weight, remote_weight,
		        location_weight, keyword_weight, company_weight, behavior_weight,
		        preferred_skills, must_have_keywords, avoid_keywords,
		        preferred_companies, avoided_companies, preferred_locations,
		        min_salary, max_salary, remote_preference
		 FROM scoring_preferences WHERE owner_id = $1`,
		ownerID,
	).Scan(&p.EnableScoring, &p.SkillsWeight, &p.SalaryWeight, &p.RemoteWeight,
		&p.LocationWeight, &p.KeywordWeight, &p.CompanyWeight, &p.BehaviorWeight,
		&p.PreferredSkills, &p.MustHaveKeywords, &p.AvoidKeywords,
		&p.PreferredCompanies, &p.AvoidedCompanies, &p.PreferredLocations,
		&p.MinSalary, &p.MaxSalary, &p.RemotePreference)
	if err != nil {
		if err == pgx.ErrNoRows {
			return types.DefaultScoringPreferences(), nil
		}
		return nil, fmt.Errorf("failed to get scoring preferences: %w", err)
	}
	return &p, nil
}

// RecordChanges appends audit records for a listing.
func (s *Postgres) RecordChanges(ctx context.Context, listingID uuid.UUID, changes []types.FieldChange) error {
	for _, c := range changes {
		_, err := s.pool.Exec(ctx,
			`INSERT INTO listing_changes (listing_id, field, old_value, new_value, description, recorded_at)
			 VALUES ($1, $2, $3, $4, $5, NOW())`,
			listingID, c.Field, c.Old, c.New, c.Description,
		)
		if err != nil {
			return fmt.Errorf("failed to record change for %s: %w", c.Field, err)
		}
	}
	return nil
}
