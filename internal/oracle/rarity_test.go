package oracle

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kittyscape/lootbot/internal/domain"
)

const testRaritySchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"required": ["entries"],
	"properties": {
		"entries": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["name", "rate"],
				"properties": {
					"name": {"type": "string", "minLength": 1},
					"rate": {"type": "number", "exclusiveMinimum": 0, "maximum": 100}
				}
			}
		}
	}
}`

func writeRarityFiles(t *testing.T, data string) (dataPath, schemaPath string) {
	t.Helper()
	dir := t.TempDir()
	dataPath = filepath.Join(dir, "rates.json")
	schemaPath = filepath.Join(dir, "rates.schema.json")
	require.NoError(t, os.WriteFile(dataPath, []byte(data), 0o644))
	require.NoError(t, os.WriteFile(schemaPath, []byte(testRaritySchema), 0o644))
	return dataPath, schemaPath
}

func TestRarityOracleReloadAndLookup(t *testing.T) {
	dataPath, schemaPath := writeRarityFiles(t, `{"entries": [
		{"name": "Abyssal whip", "rate": 1.9},
		{"name": "Dragon pickaxe", "rate": 12.5},
		{"name": "Rune scimitar", "rate": 78.0}
	]}`)

	o := NewRarityFileOracle(dataPath, schemaPath)
	require.NoError(t, o.Reload(context.Background()))

	rate, err := o.Rate("ABYSSAL WHIP")
	require.NoError(t, err)
	assert.Equal(t, 1.9, rate)

	_, err = o.Rate("Twisted bow")
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestRarityOracleRejectsInvalidData(t *testing.T) {
	dataPath, schemaPath := writeRarityFiles(t, `{"entries": [
		{"name": "Abyssal whip", "rate": -1}
	]}`)

	o := NewRarityFileOracle(dataPath, schemaPath)
	err := o.Reload(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema validation failed")
}

func TestRarityOracleRejectsDuplicates(t *testing.T) {
	dataPath, schemaPath := writeRarityFiles(t, `{"entries": [
		{"name": "Abyssal whip", "rate": 1.9},
		{"name": "abyssal WHIP", "rate": 2.5}
	]}`)

	o := NewRarityFileOracle(dataPath, schemaPath)
	err := o.Reload(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestRarityOracleFailedReloadKeepsSnapshot(t *testing.T) {
	dataPath, schemaPath := writeRarityFiles(t, `{"entries": [{"name": "Abyssal whip", "rate": 1.9}]}`)

	o := NewRarityFileOracle(dataPath, schemaPath)
	require.NoError(t, o.Reload(context.Background()))

	require.NoError(t, os.WriteFile(dataPath, []byte(`{"entries": "broken"}`), 0o644))
	require.Error(t, o.Reload(context.Background()))

	rate, err := o.Rate("Abyssal whip")
	require.NoError(t, err)
	assert.Equal(t, 1.9, rate)
}

func TestRarityOracleSuggest(t *testing.T) {
	dataPath, schemaPath := writeRarityFiles(t, `{"entries": [
		{"name": "Dragon pickaxe", "rate": 12.5},
		{"name": "Dragon warhammer", "rate": 0.67},
		{"name": "Abyssal whip", "rate": 1.9}
	]}`)

	o := NewRarityFileOracle(dataPath, schemaPath)
	require.NoError(t, o.Reload(context.Background()))

	assert.Equal(t, []string{"Dragon pickaxe", "Dragon warhammer"}, o.Suggest("dragon", 5))
	assert.Equal(t, []string{"Dragon pickaxe"}, o.Suggest("dragon", 1))
}
