package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/job-tracker/internal/config"
	"github.com/jonathan/job-tracker/internal/observability"
	"github.com/jonathan/job-tracker/internal/pipeline"
	"github.com/jonathan/job-tracker/internal/schemas"
	"github.com/jonathan/job-tracker/internal/store"
	"github.com/jonathan/job-tracker/internal/types"
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Run one listing through the intake pipeline",
	Long:  "Clean, deduplicate, classify and score a listing JSON file, persisting it unless it duplicates an existing listing or --dry-run is set.",
	RunE:  runClassify,
}

var (
	classifyListingFile string
	classifyOwnerID     string
	classifyConfigFile  string
	classifyDatabaseURL string
	classifyRulesDir    string
	classifyDryRun      bool
	classifyVerbose     bool
)

func init() {
	classifyCmd.Flags().StringVarP(&classifyListingFile, "listing", "l", "", "Path to listing JSON file (required)")
	classifyCmd.Flags().StringVar(&classifyOwnerID, "owner-id", "", "Owner UUID the listing belongs to")
	classifyCmd.Flags().StringVarP(&classifyConfigFile, "config", "c", "", "Path to JSON config file")
	classifyCmd.Flags().StringVar(&classifyDatabaseURL, "db-url", "", "Database URL (defaults to DATABASE_URL env var)")
	classifyCmd.Flags().StringVar(&classifyRulesDir, "rules-dir", "", "Directory of rule JSON files (dry-run only)")
	classifyCmd.Flags().BoolVar(&classifyDryRun, "dry-run", false, "Classify in memory without persisting")
	classifyCmd.Flags().BoolVarP(&classifyVerbose, "verbose", "v", false, "Print detailed pipeline output")

	rootCmd.AddCommand(classifyCmd)
}

func runClassify(_ *cobra.Command, _ []string) error {
	cfg := config.Config{
		Listing:     classifyListingFile,
		OwnerID:     classifyOwnerID,
		DatabaseURL: classifyDatabaseURL,
		RulesDir:    classifyRulesDir,
		Verbose:     classifyVerbose,
	}
	if classifyConfigFile != "" {
		fileCfg, err := config.LoadConfig(classifyConfigFile)
		if err != nil {
			return err
		}
		cfg = cfg.MergeWithDefaults(*fileCfg)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Listing == "" {
		return fmt.Errorf("--listing is required")
	}

	listing, err := loadListing(cfg.Listing, cfg.OwnerID)
	if err != nil {
		return err
	}

	ctx := context.Background()

	backend, cleanup, err := openStore(ctx, cfg.DatabaseURL, classifyDryRun)
	if err != nil {
		return err
	}
	defer cleanup()

	if cfg.RulesDir != "" {
		mem, ok := backend.(*store.Memory)
		if !ok {
			return fmt.Errorf("--rules-dir requires --dry-run; persistent runs take rules from the database")
		}
		ruleSet, err := loadRules(cfg.RulesDir)
		if err != nil {
			return err
		}
		for _, r := range ruleSet {
			mem.AddRule(r)
		}
		if cfg.Verbose {
			_, _ = fmt.Fprintf(os.Stdout, "Loaded %d rules from %s\n", len(ruleSet), cfg.RulesDir)
		}
	}

	orch := pipeline.New(backend, pipeline.WithVerbose(cfg.Verbose))
	result, err := orch.ClassifyAndScore(ctx, listing)
	if err != nil {
		return fmt.Errorf("classification failed: %w", err)
	}

	if result.Duplicate {
		_, _ = fmt.Fprintf(os.Stdout, "Duplicate: %q at %q already tracked\n", listing.Title, listing.Company)
		return nil
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintListing(listing)
	if cfg.Verbose {
		printer.PrintRuleEvaluation(result.Evaluation)
		printer.PrintFieldChanges(result.Changes)
		printer.PrintScoreBreakdown(result.Score, result.Breakdown)
	}

	return nil
}

// loadListing reads and schema-validates a listing JSON file. The owner flag
// wins over any owner_id embedded in the file.
func loadListing(path, ownerID string) (*types.Listing, error) {
	if err := schemas.ValidateListingFile(path); err != nil {
		var validationErr *schemas.ValidationError
		if errors.As(err, &validationErr) {
			return nil, fmt.Errorf("listing does not validate against schema: %w", err)
		}
		// Schema loading issue; warn and continue with plain JSON decoding
		_, _ = fmt.Fprintf(os.Stderr, "Warning: could not validate listing against schema: %v\n", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read listing file: %w", err)
	}

	listing := types.NewListing(uuid.Nil)
	if err := json.Unmarshal(data, listing); err != nil {
		return nil, fmt.Errorf("failed to parse listing JSON: %w", err)
	}
	if listing.ID == uuid.Nil {
		listing.ID = uuid.New()
	}

	if ownerID != "" {
		owner, err := uuid.Parse(ownerID)
		if err != nil {
			return nil, fmt.Errorf("invalid owner-id: %w", err)
		}
		listing.OwnerID = owner
	}

	return listing, nil
}

// loadRules reads, schema-validates and decodes every rule JSON file in the
// directory, in filename order.
func loadRules(dir string) ([]*types.Rule, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list rules directory: %w", err)
	}
	sort.Strings(paths)

	ruleSet := make([]*types.Rule, 0, len(paths))
	for _, path := range paths {
		if err := schemas.ValidateRuleFile(path); err != nil {
			var validationErr *schemas.ValidationError
			if errors.As(err, &validationErr) {
				return nil, fmt.Errorf("rule %s does not validate against schema: %w", path, err)
			}
			_, _ = fmt.Fprintf(os.Stderr, "Warning: could not validate rule %s against schema: %v\n", path, err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read rule file %s: %w", path, err)
		}

		var rule types.Rule
		if err := json.Unmarshal(data, &rule); err != nil {
			return nil, fmt.Errorf("failed to parse rule JSON %s: %w", path, err)
		}
		if rule.ID == uuid.Nil {
			rule.ID = uuid.New()
		}
		if err := rule.Validate(); err != nil {
			return nil, fmt.Errorf("invalid rule %s: %w", path, err)
		}
		ruleSet = append(ruleSet, &rule)
	}
	return ruleSet, nil
}

// openStore picks the persistence backend: an in-memory store for dry runs,
// PostgreSQL otherwise.
func openStore(ctx context.Context, databaseURL string, dryRun bool) (store.Store, func(), error) {
	if dryRun {
		return store.NewMemory(), func() {}, nil
	}

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		return nil, nil, fmt.Errorf("DATABASE_URL required (or use --dry-run)")
	}

	pg, err := store.Connect(ctx, databaseURL)
	if err != nil {
		return nil, nil, err
	}
	return pg, pg.Close, nil
}
