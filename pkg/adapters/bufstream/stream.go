// Package bufstream provides in-memory ports.Stream implementations for adapters
// whose backend moves whole artifacts at once.
package bufstream

import (
	"bytes"
	"fmt"
	"io"

	"github.com/aretw0/eio/pkg/domain"
)

// CommitFunc persists the complete content of a write stream.
type CommitFunc func(data []byte) error

// Reader is a read-mode stream over a private copy of an artifact.
type Reader struct {
	kind   domain.StreamKind
	r      *bytes.Reader
	closed bool
}

// NewReader creates a read stream. data is not copied; callers hand over ownership.
func NewReader(kind domain.StreamKind, data []byte) *Reader {
	return &Reader{kind: kind, r: bytes.NewReader(data)}
}

func (s *Reader) Read(p []byte) (int, error) {
	if s.closed {
		return 0, domain.ErrClosed
	}
	return s.r.Read(p)
}

func (s *Reader) Seek(offset int64, whence int) (int64, error) {
	if s.closed {
		return 0, domain.ErrClosed
	}
	return s.r.Seek(offset, whence)
}

func (s *Reader) Write(p []byte) (int, error) {
	return 0, fmt.Errorf("write to %s: %w", s.kind, domain.ErrWrongMode)
}

func (s *Reader) Close() error {
	if s.closed {
		return domain.ErrClosed
	}
	s.closed = true
	return nil
}

// Writer is a write-mode stream that buffers everything and commits on Close.
type Writer struct {
	kind   domain.StreamKind
	buf    bytes.Buffer
	commit CommitFunc
	closed bool
}

// NewWriter creates a write stream committed through commit.
func NewWriter(kind domain.StreamKind, commit CommitFunc) *Writer {
	return &Writer{kind: kind, commit: commit}
}

func (s *Writer) Write(p []byte) (int, error) {
	if s.closed {
		return 0, domain.ErrClosed
	}
	return s.buf.Write(p)
}

func (s *Writer) Read(p []byte) (int, error) {
	return 0, fmt.Errorf("read from %s: %w", s.kind, domain.ErrWrongMode)
}

func (s *Writer) Seek(offset int64, whence int) (int64, error) {
	return 0, fmt.Errorf("seek in %s: %w", s.kind, domain.ErrWrongMode)
}

// Close commits the buffered content. A failed commit still closes the stream.
func (s *Writer) Close() error {
	if s.closed {
		return domain.ErrClosed
	}
	s.closed = true
	if err := s.commit(s.buf.Bytes()); err != nil {
		return fmt.Errorf("commit %s: %w", s.kind, err)
	}
	return nil
}

var (
	_ io.ReadWriteSeeker = (*Reader)(nil)
	_ io.ReadWriteSeeker = (*Writer)(nil)
)
