package record

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/eio/pkg/domain"
	"github.com/aretw0/eio/pkg/observability"
	"github.com/aretw0/eio/pkg/ports"
)

// Set is the stream set of one agent session: every kind opened in the same mode.
type Set struct {
	manager ports.ModelManager
	mode    domain.Mode
	kinds   []domain.StreamKind
	streams map[domain.StreamKind]ports.Stream
	readers map[domain.StreamKind]*Reader
	writers map[domain.StreamKind]*Writer
	metrics *observability.Metrics
	closed  bool
}

// OpenSet opens every kind through mgr. The kinds must be known and unique.
// If any stream fails to open, the streams already opened are closed again.
func OpenSet(ctx context.Context, mgr ports.ModelManager, kinds []domain.StreamKind, mode domain.Mode, metrics *observability.Metrics) (*Set, error) {
	if err := validateKinds(kinds); err != nil {
		return nil, err
	}

	s := &Set{
		manager: mgr,
		mode:    mode,
		kinds:   kinds,
		streams: make(map[domain.StreamKind]ports.Stream, len(kinds)),
		readers: make(map[domain.StreamKind]*Reader, len(kinds)),
		writers: make(map[domain.StreamKind]*Writer, len(kinds)),
		metrics: metrics,
	}

	for _, kind := range kinds {
		stream, err := mgr.OpenStream(ctx, kind, mode)
		if err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("open %s stream %s: %w", mode, kind, err)
		}
		metrics.StreamOpened(kind, mode)
		s.streams[kind] = stream
		if mode == domain.ModeWrite {
			s.writers[kind] = NewWriter(kind, stream)
		} else {
			s.readers[kind] = NewReader(kind, stream)
		}
	}
	return s, nil
}

func validateKinds(kinds []domain.StreamKind) error {
	if len(kinds) == 0 {
		return errors.New("stream set needs at least one kind")
	}
	seen := make(map[domain.StreamKind]bool, len(kinds))
	for _, kind := range kinds {
		if !kind.IsKnown() {
			return fmt.Errorf("unknown stream kind %q", kind)
		}
		if seen[kind] {
			return fmt.Errorf("duplicate stream kind %q", kind)
		}
		seen[kind] = true
	}
	return nil
}

// Mode returns the mode every stream was opened in.
func (s *Set) Mode() domain.Mode {
	return s.mode
}

// Reader returns the reader of kind. Write sessions return domain.ErrWrongMode.
func (s *Set) Reader(kind domain.StreamKind) (*Reader, error) {
	if s == nil || s.closed {
		return nil, domain.ErrNotOpen
	}
	if s.mode != domain.ModeRead {
		return nil, fmt.Errorf("read %s: %w", kind, domain.ErrWrongMode)
	}
	r, ok := s.readers[kind]
	if !ok {
		return nil, fmt.Errorf("stream %s is not part of this set: %w", kind, domain.ErrNotOpen)
	}
	return r, nil
}

// Writer returns the writer of kind. Read sessions return domain.ErrWrongMode.
func (s *Set) Writer(kind domain.StreamKind) (*Writer, error) {
	if s == nil || s.closed {
		return nil, domain.ErrNotOpen
	}
	if s.mode != domain.ModeWrite {
		return nil, fmt.Errorf("write %s: %w", kind, domain.ErrWrongMode)
	}
	w, ok := s.writers[kind]
	if !ok {
		return nil, fmt.Errorf("stream %s is not part of this set: %w", kind, domain.ErrNotOpen)
	}
	return w, nil
}

// Truncate discards everything written to kind so far by committing the
// current stream and opening it again in write mode.
func (s *Set) Truncate(ctx context.Context, kind domain.StreamKind) (*Writer, error) {
	w, err := s.Writer(kind)
	if err != nil {
		return nil, err
	}
	if err := w.Flush(); err != nil {
		return nil, fmt.Errorf("flush %s: %w", kind, err)
	}
	if err := s.streams[kind].Close(); err != nil {
		return nil, fmt.Errorf("close %s: %w", kind, err)
	}
	delete(s.streams, kind)
	delete(s.writers, kind)

	stream, err := s.manager.OpenStream(ctx, kind, domain.ModeWrite)
	if err != nil {
		return nil, fmt.Errorf("reopen %s: %w", kind, err)
	}
	s.metrics.StreamOpened(kind, domain.ModeWrite)
	s.streams[kind] = stream
	w = NewWriter(kind, stream)
	s.writers[kind] = w
	return w, nil
}

// Close flushes pending writes and closes every stream exactly once.
// It returns the first error; closing a closed set returns domain.ErrClosed.
func (s *Set) Close() error {
	if s.closed {
		return domain.ErrClosed
	}
	s.closed = true

	var first error
	for _, kind := range s.kinds {
		stream, ok := s.streams[kind]
		if !ok {
			continue
		}
		if w, ok := s.writers[kind]; ok {
			if err := w.Flush(); err != nil && first == nil {
				first = fmt.Errorf("flush %s: %w", kind, err)
			}
		}
		if err := stream.Close(); err != nil && first == nil {
			first = fmt.Errorf("close %s: %w", kind, err)
		}
	}
	s.streams = nil
	s.readers = nil
	s.writers = nil
	return first
}
