package file

import (
	"fmt"
	"os"

	"github.com/aretw0/eio/pkg/domain"
)

type readStream struct {
	*os.File
	closed bool
}

func (s *readStream) Write(p []byte) (int, error) {
	return 0, domain.ErrWrongMode
}

func (s *readStream) Close() error {
	if s.closed {
		return domain.ErrClosed
	}
	s.closed = true
	return s.File.Close()
}

type writeStream struct {
	tmp    *os.File
	dest   string
	closed bool
}

func (s *writeStream) Write(p []byte) (int, error) {
	if s.closed {
		return 0, domain.ErrClosed
	}
	return s.tmp.Write(p)
}

func (s *writeStream) Read(p []byte) (int, error) {
	return 0, domain.ErrWrongMode
}

func (s *writeStream) Seek(offset int64, whence int) (int64, error) {
	return 0, domain.ErrWrongMode
}

// Close syncs the temp file and renames it over the artifact.
func (s *writeStream) Close() error {
	if s.closed {
		return domain.ErrClosed
	}
	s.closed = true

	tmpPath := s.tmp.Name()
	// No-op once renamed.
	defer func() { _ = os.Remove(tmpPath) }()

	if err := s.tmp.Sync(); err != nil {
		_ = s.tmp.Close()
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	// Windows cannot rename an open file.
	if err := s.tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// os.Rename fails on Windows when the destination exists.
	if _, err := os.Stat(s.dest); err == nil {
		if err := os.Remove(s.dest); err != nil {
			return fmt.Errorf("failed to remove existing artifact for overwrite: %w", err)
		}
	}
	if err := os.Rename(tmpPath, s.dest); err != nil {
		return fmt.Errorf("failed to rename temp file to artifact: %w", err)
	}
	return nil
}
