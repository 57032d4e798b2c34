package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/job-tracker/internal/config"
	"github.com/jonathan/job-tracker/internal/pipeline"
	"github.com/jonathan/job-tracker/internal/store"
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Re-run rules over existing listings",
	Long:  "Re-evaluate rules for every stored listing of the given owners, filling only fields still at their unset default.",
	RunE:  runReconcile,
}

var (
	reconcileOwnerIDs    []string
	reconcileConfigFile  string
	reconcileDatabaseURL string
	reconcileConcurrency int
	reconcileVerbose     bool
)

func init() {
	reconcileCmd.Flags().StringArrayVar(&reconcileOwnerIDs, "owner-id", nil, "Owner UUID to reconcile (repeatable, required)")
	reconcileCmd.Flags().StringVarP(&reconcileConfigFile, "config", "c", "", "Path to JSON config file")
	reconcileCmd.Flags().StringVar(&reconcileDatabaseURL, "db-url", "", "Database URL (defaults to DATABASE_URL env var)")
	reconcileCmd.Flags().IntVar(&reconcileConcurrency, "concurrency", 0, "Parallel owners (default 4)")
	reconcileCmd.Flags().BoolVarP(&reconcileVerbose, "verbose", "v", false, "Print per-owner progress")

	rootCmd.AddCommand(reconcileCmd)
}

func runReconcile(_ *cobra.Command, _ []string) error {
	cfg := config.Config{
		DatabaseURL: reconcileDatabaseURL,
		Concurrency: reconcileConcurrency,
		Verbose:     reconcileVerbose,
	}
	if reconcileConfigFile != "" {
		fileCfg, err := config.LoadConfig(reconcileConfigFile)
		if err != nil {
			return err
		}
		cfg = cfg.MergeWithDefaults(*fileCfg)
	} else {
		cfg = cfg.MergeWithDefaults(config.Config{})
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ownerIDs := reconcileOwnerIDs
	if len(ownerIDs) == 0 && cfg.OwnerID != "" {
		ownerIDs = []string{cfg.OwnerID}
	}
	if len(ownerIDs) == 0 {
		return fmt.Errorf("at least one --owner-id is required")
	}

	owners := make([]uuid.UUID, 0, len(ownerIDs))
	for _, raw := range ownerIDs {
		owner, err := uuid.Parse(raw)
		if err != nil {
			return fmt.Errorf("invalid owner-id %q: %w", raw, err)
		}
		owners = append(owners, owner)
	}

	databaseURL := cfg.DatabaseURL
	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL required")
	}

	ctx := context.Background()
	pg, err := store.Connect(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer pg.Close()

	orch := pipeline.New(pg, pipeline.WithVerbose(cfg.Verbose))
	if err := orch.Reconcile(ctx, owners, cfg.Concurrency); err != nil {
		return fmt.Errorf("reconciliation failed: %w", err)
	}

	_, _ = fmt.Fprintf(os.Stdout, "Reconciled %d owners\n", len(owners))
	return nil
}
