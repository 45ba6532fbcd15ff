package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aretw0/eio/pkg/adapters/file"
	"github.com/aretw0/eio/pkg/domain"
)

// SetupTestRepo creates a file repository in a temporary directory, seeded
// with raw artifact text keyed by model and kind. Hand-written artifacts let
// tests start from malformed or legacy files the agents would never write.
// It fails the test immediately on error.
func SetupTestRepo(t *testing.T, models map[string]map[domain.StreamKind]string) (string, *file.Store) {
	t.Helper()

	dir := t.TempDir()
	absPath, err := filepath.Abs(dir)
	require.NoError(t, err, "Failed to get absolute path for temp dir")

	for model, artifacts := range models {
		require.NoError(t, os.MkdirAll(filepath.Join(absPath, model), 0755))
		for kind, text := range artifacts {
			path := filepath.Join(absPath, model, string(kind))
			require.NoError(t, os.WriteFile(path, []byte(text), 0644), "Failed to seed %s", path)
		}
	}

	return absPath, file.New(absPath)
}
