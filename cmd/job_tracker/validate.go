package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-tracker/internal/schemas"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a JSON artifact against its schema",
	Long:  "Validate a listing, rule or scoring preferences JSON file against the repository schemas before loading it.",
	RunE:  runValidate,
}

var (
	validateKind string
	validateFile string
)

func init() {
	validateCmd.Flags().StringVarP(&validateKind, "kind", "k", "", "Artifact kind: listing, rule or preferences (required)")
	validateCmd.Flags().StringVarP(&validateFile, "file", "f", "", "Path to JSON file (required)")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(_ *cobra.Command, _ []string) error {
	if validateKind == "" || validateFile == "" {
		return fmt.Errorf("--kind and --file are required")
	}

	var err error
	switch validateKind {
	case "listing":
		err = schemas.ValidateListingFile(validateFile)
	case "rule":
		err = schemas.ValidateRuleFile(validateFile)
	case "preferences":
		err = schemas.ValidateScoringPreferencesFile(validateFile)
	default:
		return fmt.Errorf("unknown kind %q (expected listing, rule or preferences)", validateKind)
	}

	if err != nil {
		return fmt.Errorf("validation failed for %s: %w", validateFile, err)
	}

	_, _ = fmt.Fprintf(os.Stdout, "%s is a valid %s\n", validateFile, validateKind)
	return nil
}
