package bufstream_test

import (
	"errors"
	"io"
	"testing"

	"github.com/aretw0/eio/pkg/adapters/bufstream"
	"github.com/aretw0/eio/pkg/domain"
	"github.com/aretw0/eio/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ ports.Stream = (*bufstream.Reader)(nil)
	_ ports.Stream = (*bufstream.Writer)(nil)
)

func TestWriter_CommitsOnce(t *testing.T) {
	var committed [][]byte
	w := bufstream.NewWriter(domain.KindGeometryNodes, func(data []byte) error {
		committed = append(committed, append([]byte(nil), data...))
		return nil
	})

	_, err := io.WriteString(w, "1 0 0 0 0 \n")
	require.NoError(t, err)
	assert.Empty(t, committed)

	require.NoError(t, w.Close())
	assert.ErrorIs(t, w.Close(), domain.ErrClosed)
	require.Len(t, committed, 1)
	assert.Equal(t, "1 0 0 0 0 \n", string(committed[0]))

	_, err = w.Write([]byte("x"))
	assert.ErrorIs(t, err, domain.ErrClosed)
}

func TestWriter_CommitFailure(t *testing.T) {
	w := bufstream.NewWriter(domain.KindGeometryNodes, func([]byte) error {
		return errors.New("backend down")
	})
	err := w.Close()
	assert.ErrorContains(t, err, "backend down")
	assert.ErrorIs(t, w.Close(), domain.ErrClosed)
}

func TestReader_ReadSeekClose(t *testing.T) {
	r := bufstream.NewReader(domain.KindGeometryLoops, []byte("abc"))

	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(data))

	_, err = r.Seek(1, io.SeekStart)
	require.NoError(t, err)
	data, err = io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "bc", string(data))

	_, err = r.Write([]byte("x"))
	assert.ErrorIs(t, err, domain.ErrWrongMode)

	require.NoError(t, r.Close())
	_, err = r.Read(make([]byte, 1))
	assert.ErrorIs(t, err, domain.ErrClosed)
}
