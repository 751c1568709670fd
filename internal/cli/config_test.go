package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hodq.yaml")
	content := `ontology: ontology/hospital.owl
queries: ./battery
database: ./hodq.db
endpoint: http://localhost:3030/hospital/sparql
limit: 25
timeout_seconds: 60
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "ontology/hospital.owl", cfg.Ontology)
	assert.Equal(t, "./battery", cfg.Queries)
	assert.Equal(t, "./hodq.db", cfg.Database)
	assert.Equal(t, "http://localhost:3030/hospital/sparql", cfg.Endpoint)
	assert.Equal(t, 25, cfg.Limit)
	assert.Equal(t, 60, cfg.TimeoutSeconds)
}

func TestLoadConfigMissingDefaultIsEmpty(t *testing.T) {
	// No hodq.yaml in the package directory: defaults apply silently.
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, &Config{}, cfg)
}

func TestLoadConfigMissingExplicitPathFails(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadConfigRejectsNegativeValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hodq.yaml")
	require.NoError(t, os.WriteFile(path, []byte("limit: -1\n"), 0o644))

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "limit")
}

func TestLoadConfigMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hodq.yaml")
	require.NoError(t, os.WriteFile(path, []byte("limit: [not an int\n"), 0o644))

	_, err := LoadConfig(path)
	require.Error(t, err)
}
