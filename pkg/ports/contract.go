package ports

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/aretw0/eio/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunRepositoryContract runs a suite of tests to verify that a Repository implementation
// adheres to the defined interface contract.
func RunRepositoryContract(t *testing.T, repo Repository) {
	ctx := context.Background()
	model := "contract-" + time.Now().Format("20060102150405")

	writeArtifact := func(t *testing.T, mgr ModelManager, kind domain.StreamKind, body string) {
		t.Helper()
		s, err := mgr.OpenStream(ctx, kind, domain.ModeWrite)
		require.NoError(t, err)
		_, err = io.WriteString(s, body)
		require.NoError(t, err)
		require.NoError(t, s.Close())
	}

	readArtifact := func(t *testing.T, mgr ModelManager, kind domain.StreamKind) string {
		t.Helper()
		s, err := mgr.OpenStream(ctx, kind, domain.ModeRead)
		require.NoError(t, err)
		defer s.Close()
		data, err := io.ReadAll(s)
		require.NoError(t, err)
		return string(data)
	}

	t.Run("Write and Read", func(t *testing.T) {
		mgr, err := repo.Manager(ctx, model)
		require.NoError(t, err)
		assert.Equal(t, model, mgr.Model())

		writeArtifact(t, mgr, domain.KindGeometryHeader, "1 2 3 4 5 6 7 \n")
		assert.Equal(t, "1 2 3 4 5 6 7 \n", readArtifact(t, mgr, domain.KindGeometryHeader))
	})

	t.Run("Write Truncates", func(t *testing.T) {
		mgr, err := repo.Manager(ctx, model)
		require.NoError(t, err)

		writeArtifact(t, mgr, domain.KindGeometryNodes, "1 0 0 0 0 \n2 0 1 0 0 \n")
		writeArtifact(t, mgr, domain.KindGeometryNodes, "3 0 0 0 1 \n")
		assert.Equal(t, "3 0 0 0 1 \n", readArtifact(t, mgr, domain.KindGeometryNodes))
	})

	t.Run("Write Commits On Close", func(t *testing.T) {
		mgr, err := repo.Manager(ctx, model)
		require.NoError(t, err)

		s, err := mgr.OpenStream(ctx, domain.KindGeometryLoops, domain.ModeWrite)
		require.NoError(t, err)
		_, err = io.WriteString(s, "1 2 1 2 \n")
		require.NoError(t, err)

		_, err = mgr.OpenStream(ctx, domain.KindGeometryLoops, domain.ModeRead)
		assert.ErrorIs(t, err, domain.ErrArtifactNotFound, "uncommitted artifact must not be visible")

		require.NoError(t, s.Close())
		assert.Equal(t, "1 2 1 2 \n", readArtifact(t, mgr, domain.KindGeometryLoops))
	})

	t.Run("Seek Rewinds Read Stream", func(t *testing.T) {
		mgr, err := repo.Manager(ctx, model)
		require.NoError(t, err)
		writeArtifact(t, mgr, domain.KindGeometryBoundaries, "1 1 0\n")

		s, err := mgr.OpenStream(ctx, domain.KindGeometryBoundaries, domain.ModeRead)
		require.NoError(t, err)
		defer s.Close()

		first, err := io.ReadAll(s)
		require.NoError(t, err)
		pos, err := s.Seek(0, io.SeekStart)
		require.NoError(t, err)
		assert.Zero(t, pos)
		second, err := io.ReadAll(s)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("Mode Is Enforced", func(t *testing.T) {
		mgr, err := repo.Manager(ctx, model)
		require.NoError(t, err)

		w, err := mgr.OpenStream(ctx, domain.KindGeometryBodies, domain.ModeWrite)
		require.NoError(t, err)
		_, err = w.Read(make([]byte, 4))
		assert.ErrorIs(t, err, domain.ErrWrongMode)
		require.NoError(t, w.Close())

		r, err := mgr.OpenStream(ctx, domain.KindGeometryBodies, domain.ModeRead)
		require.NoError(t, err)
		_, err = r.Write([]byte("x"))
		assert.ErrorIs(t, err, domain.ErrWrongMode)
		require.NoError(t, r.Close())
	})

	t.Run("Double Close", func(t *testing.T) {
		mgr, err := repo.Manager(ctx, model)
		require.NoError(t, err)

		s, err := mgr.OpenStream(ctx, domain.KindGeometryElements, domain.ModeWrite)
		require.NoError(t, err)
		require.NoError(t, s.Close())
		assert.ErrorIs(t, s.Close(), domain.ErrClosed)
	})

	t.Run("Read Missing Artifact", func(t *testing.T) {
		mgr, err := repo.Manager(ctx, model)
		require.NoError(t, err)

		_, err = mgr.OpenStream(ctx, domain.KindModelParameters, domain.ModeRead)
		assert.ErrorIs(t, err, domain.ErrArtifactNotFound)
	})

	t.Run("Invalid Model Name", func(t *testing.T) {
		_, err := repo.Manager(ctx, "../escape")
		assert.ErrorIs(t, err, domain.ErrInvalidModelName)
	})

	t.Run("List and Delete", func(t *testing.T) {
		other := model + "-other"
		mgr, err := repo.Manager(ctx, other)
		require.NoError(t, err)
		writeArtifact(t, mgr, domain.KindModelDescription, "0 0 0 0 0 0 0 \n")

		models, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, models, model)
		assert.Contains(t, models, other)

		require.NoError(t, repo.Delete(ctx, other))
		models, err = repo.List(ctx)
		require.NoError(t, err)
		assert.NotContains(t, models, other)

		_, err = mgr.OpenStream(ctx, domain.KindModelDescription, domain.ModeRead)
		assert.ErrorIs(t, err, domain.ErrArtifactNotFound)

		assert.ErrorIs(t, repo.Delete(ctx, other), domain.ErrModelNotFound)
	})
}
