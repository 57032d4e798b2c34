package schemas

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-tracker/internal/schemas"
)

var schemaFiles = []string{
	"listing.schema.json",
	"rule.schema.json",
	"scoring_preferences.schema.json",
}

func TestAllSchemaFiles_ValidJSON(t *testing.T) {
	for _, schemaFile := range schemaFiles {
		t.Run(schemaFile, func(t *testing.T) {
			schemaPath := filepath.Join(".", schemaFile)
			data, err := os.ReadFile(schemaPath)
			require.NoError(t, err, "should be able to read schema file")

			var v interface{}
			err = json.Unmarshal(data, &v)
			assert.NoError(t, err, "schema file should be valid JSON: %s", schemaFile)
		})
	}
}

func TestSchemaFiles_ValidJSONSchema(t *testing.T) {
	for _, schemaFile := range schemaFiles {
		t.Run(schemaFile, func(t *testing.T) {
			schemaPath := filepath.Join(".", schemaFile)
			data, err := os.ReadFile(schemaPath)
			require.NoError(t, err)

			var schemaObj map[string]interface{}
			err = json.Unmarshal(data, &schemaObj)
			require.NoError(t, err)

			// Check for required JSON Schema fields
			_, hasType := schemaObj["type"]
			_, hasSchema := schemaObj["$schema"]
			_, hasProps := schemaObj["properties"]

			assert.True(t, hasType && hasSchema && hasProps,
				"schema should declare type, $schema and properties")
		})
	}
}

func TestRuleSchema_AcceptsWellFormedRule(t *testing.T) {
	rule := `{
		"name": "remote jobs",
		"enabled": true,
		"priority": 10,
		"conditions": [
			{"field": "title", "operator": "contains", "value": "remote"},
			{"field": "description", "operator": "contains", "value": "remote"}
		],
		"logic": "or",
		"set_remote": true
	}`

	schemaData, err := os.ReadFile("rule.schema.json")
	require.NoError(t, err)

	err = schemas.ValidateJSONString(string(schemaData), rule)
	assert.NoError(t, err)
}

func TestRuleSchema_RejectsUnknownOperator(t *testing.T) {
	rule := `{
		"name": "bad rule",
		"condition": {"field": "title", "operator": "sounds_like", "value": "engineer"}
	}`

	schemaData, err := os.ReadFile("rule.schema.json")
	require.NoError(t, err)

	err = schemas.ValidateJSONString(string(schemaData), rule)
	require.Error(t, err)

	validationErr, ok := err.(*schemas.ValidationError)
	require.True(t, ok, "error should be ValidationError type")
	assert.Greater(t, len(validationErr.Errors), 0)
}

func TestListingSchema_RequiresTitleAndCompany(t *testing.T) {
	listing := `{"description": "no title or company here"}`

	schemaData, err := os.ReadFile("listing.schema.json")
	require.NoError(t, err)

	err = schemas.ValidateJSONString(string(schemaData), listing)
	require.Error(t, err)
}

func TestScoringPreferencesSchema_RejectsNegativeWeight(t *testing.T) {
	prefs := `{"enable_scoring": true, "skills_weight": -1}`

	schemaData, err := os.ReadFile("scoring_preferences.schema.json")
	require.NoError(t, err)

	err = schemas.ValidateJSONString(string(schemaData), prefs)
	require.Error(t, err)
}
