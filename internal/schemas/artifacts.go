package schemas

import "fmt"

// Well-known schema locations relative to the repo root.
const (
	ListingSchemaPath            = "schemas/listing.schema.json"
	RuleSchemaPath               = "schemas/rule.schema.json"
	ScoringPreferencesSchemaPath = "schemas/scoring_preferences.schema.json"
)

// ValidateListingFile validates a listing JSON file before intake.
func ValidateListingFile(jsonPath string) error {
	return validateArtifact(ListingSchemaPath, jsonPath)
}

// ValidateRuleFile validates a rule JSON file before it is loaded into the
// rule engine.
func ValidateRuleFile(jsonPath string) error {
	return validateArtifact(RuleSchemaPath, jsonPath)
}

// ValidateScoringPreferencesFile validates a scoring preferences JSON file.
func ValidateScoringPreferencesFile(jsonPath string) error {
	return validateArtifact(ScoringPreferencesSchemaPath, jsonPath)
}

func validateArtifact(schemaRelPath, jsonPath string) error {
	schemaPath := ResolveSchemaPath(schemaRelPath)
	if schemaPath == "" {
		return fmt.Errorf("schema file not found: %s", schemaRelPath)
	}
	return ValidateJSON(schemaPath, jsonPath)
}
