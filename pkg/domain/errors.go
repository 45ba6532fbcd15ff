package domain

import (
	"errors"
	"fmt"
)

// ErrEndOfSequence is returned by cursor reads once every declared record has been consumed.
// It is a normal terminal condition, not a failure.
var ErrEndOfSequence = errors.New("end of sequence")

// ErrShortRecord is returned when a stream ends before a record is complete.
var ErrShortRecord = errors.New("short record")

// ErrClosed is returned when closing an agent or stream that is already closed.
var ErrClosed = errors.New("already closed")

// ErrNotOpen is returned when a record operation is attempted without an open stream set.
var ErrNotOpen = errors.New("stream set not open")

// ErrWrongMode is returned when writing to a read session or reading from a write session.
var ErrWrongMode = errors.New("operation not allowed in this mode")

// ErrDescriptorMissing is returned when geometry records are written before the header.
var ErrDescriptorMissing = errors.New("geometry descriptor not written")

// ErrFieldCount is returned when field records do not match the count declared by their head record.
var ErrFieldCount = errors.New("field count mismatch")

// ErrArtifactNotFound is returned when a stream is opened for reading but its artifact does not exist.
var ErrArtifactNotFound = errors.New("artifact not found")

// ErrModelNotFound is returned when a model cannot be found in a repository.
var ErrModelNotFound = errors.New("model not found")

// ErrInvalidModelName is returned for empty model names or names that escape the repository.
var ErrInvalidModelName = errors.New("invalid model name")

// ParseError reports a malformed or truncated record.
// Err is ErrShortRecord when the stream ended early, or the conversion error otherwise.
type ParseError struct {
	Kind  StreamKind
	Field string
	Token string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("%s: reading %s: %v", e.Kind, e.Field, e.Err)
	}
	return fmt.Sprintf("%s: reading %s: invalid token %q: %v", e.Kind, e.Field, e.Token, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ErrInvalidRecord is returned when a record cannot be serialized as given.
var ErrInvalidRecord = errors.New("invalid record")

// ErrAlreadyOpen is returned when creating or opening an agent whose stream set is still open.
var ErrAlreadyOpen = errors.New("stream set already open")
