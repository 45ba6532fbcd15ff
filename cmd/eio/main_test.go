package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/eio/internal/config"
	"github.com/aretw0/eio/pkg/domain"
	"github.com/aretw0/eio/pkg/geometry"
)

func TestCommandTree(t *testing.T) {
	for _, path := range [][]string{
		{"version"},
		{"models", "ls"},
		{"models", "rm"},
		{"geometry", "info"},
		{"geometry", "dump"},
		{"geometry", "graph"},
		{"modeldata", "info"},
		{"report"},
		{"validate"},
		{"serve"},
		{"mesher", "ls"},
		{"mesher", "control"},
	} {
		c, _, err := rootCmd.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], c.Name())
	}
	assert.Empty(t, versionCmd.Annotations["workspace"])
	assert.Equal(t, "true", modelsLsCmd.Annotations["workspace"])
}

func TestOpenApp(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, config.DefaultFile)
	require.NoError(t, os.WriteFile(cfgPath, []byte("backend: memory\nmesh:\n  generator: nglib\n"), 0644))

	require.NoError(t, modelsLsCmd.ParseFlags([]string{"--config", cfgPath, "--backend", "file", "--dir", dir}))
	require.NoError(t, openApp(modelsLsCmd))
	t.Cleanup(func() { app.closer.Close() })

	assert.Equal(t, config.BackendFile, app.cfg.Backend)
	assert.Equal(t, dir, app.cfg.Dir)

	ctx := context.Background()
	require.NoError(t, app.ws.Sessions().SaveGeometry(ctx, "beam", &geometry.Snapshot{
		Descriptor: domain.GeometryDescriptor{Vertices: 1},
		Nodes:      []domain.Node{{Tag: 1}},
	}))
	_, err := os.Stat(filepath.Join(dir, "beam", string(domain.KindGeometryNodes)))
	assert.NoError(t, err)

	ctl, err := app.cfg.MeshControl()
	require.NoError(t, err)
	assert.Equal(t, "nglib", string(ctl.Generator))
}
