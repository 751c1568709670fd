package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureOntology() string {
	return filepath.Join("..", "ontology", "testdata", "mini-hospital.ttl")
}

func TestStatsText(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewStatsCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{fixtureOntology()})

	err := cmd.Execute()
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "Total Triples: 11")
	assert.Contains(t, output, "Classes: 2")
	assert.Contains(t, output, "Properties: 3")
	assert.Contains(t, output, "Individuals: 2")
}

func TestStatsJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewStatsCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{fixtureOntology()})

	err := cmd.Execute()
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(11), data["triples"])
}

func TestStatsMissingOntology(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewStatsCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"/does/not/exist.owl"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
