package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/codenameuriel/exo-intel/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAssignments(t *testing.T) {
	params, err := parseAssignments([]string{"star_system_id=3", "speed_percentage=12.5", "note=fast"})
	require.NoError(t, err)
	assert.Equal(t, domain.Parameters{"star_system_id": int64(3), "speed_percentage": 12.5, "note": "fast"}, params)

	_, err = parseAssignments([]string{"=3"})
	assert.Error(t, err)
	_, err = parseAssignments([]string{"planet_id"})
	assert.Error(t, err)
}

// run executes the root command against a scratch SQLite database.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCommands_UserCatalogSimulate(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("EXOINTEL_DATABASE_URL", filepath.Join(dir, "cli.db"))
	t.Setenv("EXOINTEL_LOG_LEVEL", "error")

	out, err := run(t, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "Schema is up to date.")

	out, err = run(t, "users", "create", "rosa")
	require.NoError(t, err)
	assert.Contains(t, out, `Created user "rosa" with ID 1.`)

	out, err = run(t, "apikey", "issue", "1", "--name", "laptop")
	require.NoError(t, err)
	assert.Contains(t, out, "Authorization: Api-Key ")

	fixture := filepath.Join("..", "..", "pkg", "fixtures", "testdata", "catalog.yaml")
	out, err = run(t, "catalog", "load", fixture)
	require.NoError(t, err)
	assert.Contains(t, out, "Loaded 2 star systems, 2 stars and 3 planets.")

	out, err = run(t, "simulate", "star-lifetime", "star_id=2", "--user-id", "1")
	require.NoError(t, err)
	assert.Contains(t, out, `"simulation_type": "STAR_LIFETIME"`)
	assert.Contains(t, out, `"status": "SUCCESS"`)

	out, err = run(t, "simulate", "star-lifetime", "star_id=99", "--user-id", "1")
	require.Error(t, err)
	assert.Contains(t, out, `"status": "FAILURE"`)

	_, err = run(t, "users", "deactivate", "1")
	require.NoError(t, err)
	_, err = run(t, "simulate", "star-lifetime", "star_id=1", "--user-id", "1")
	assert.ErrorIs(t, err, domain.ErrUserResolution)

	_, err = run(t, "simulate", "warp", "--user-id", "1")
	assert.ErrorIs(t, err, domain.ErrUnknownSimulationKind)
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "exointel version dev")
}
