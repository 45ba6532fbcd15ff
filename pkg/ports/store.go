package ports

import (
	"context"
	"io"

	"github.com/aretw0/eio/pkg/domain"
)

// Stream is one open model artifact.
// Read streams support Read and Seek; write streams support Write and are
// committed when closed. Closing twice returns domain.ErrClosed.
type Stream interface {
	io.Reader
	io.Writer
	io.Seeker
	io.Closer
}

// ModelManager owns a named model and opens its streams by kind.
// Agents hold a non-owning reference to it.
type ModelManager interface {
	// Model returns the model name.
	Model() string

	// OpenStream opens the artifact identified by kind.
	// ModeWrite truncates (or creates) the artifact; ModeRead returns
	// domain.ErrArtifactNotFound if it does not exist.
	OpenStream(ctx context.Context, kind domain.StreamKind, mode domain.Mode) (Stream, error)
}

// Repository addresses models by name.
type Repository interface {
	// Manager returns the manager of a model. The model does not need to exist yet.
	Manager(ctx context.Context, model string) (ModelManager, error)

	// List returns the names of all models holding at least one artifact.
	List(ctx context.Context) ([]string, error)

	// Delete removes every artifact of a model.
	// Returns domain.ErrModelNotFound if the model holds no artifact.
	Delete(ctx context.Context, model string) error
}
