package geometry

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/eio/pkg/domain"
)

// Snapshot is a whole geometry model held in memory.
type Snapshot struct {
	Descriptor domain.GeometryDescriptor `json:"descriptor"`
	Nodes      []domain.Node             `json:"nodes"`
	Elements   []domain.Element          `json:"elements"`
	Bodies     []domain.Body             `json:"bodies"`
	Loops      []domain.Loop             `json:"loops"`
	Boundaries []domain.Boundary         `json:"boundaries"`
}

// Save writes s as a new geometry session of the agent's model.
func (a *Agent) Save(ctx context.Context, s *Snapshot) (err error) {
	if err := a.Create(ctx); err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := a.SetDescriptor(ctx, s.Descriptor); err != nil {
		return err
	}
	for _, n := range s.Nodes {
		if err := a.WriteNode(n); err != nil {
			return err
		}
	}
	for _, e := range s.Elements {
		if err := a.WriteElement(e); err != nil {
			return err
		}
	}
	for _, b := range s.Bodies {
		if err := a.WriteBody(b); err != nil {
			return err
		}
	}
	for _, l := range s.Loops {
		if err := a.WriteLoop(l); err != nil {
			return err
		}
	}
	for _, b := range s.Boundaries {
		if err := a.WriteBoundary(b); err != nil {
			return err
		}
	}
	return nil
}

// Load reads every record of the agent's model, bounded by its descriptor.
func (a *Agent) Load(ctx context.Context) (_ *Snapshot, err error) {
	if err := a.Open(ctx); err != nil {
		return nil, err
	}
	defer func() {
		if cerr := a.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	s := &Snapshot{Descriptor: a.Descriptor()}

	if s.Nodes, err = drain(a.NextNode); err != nil {
		return nil, fmt.Errorf("load nodes: %w", err)
	}
	if s.Elements, err = drain(func() (domain.Element, error) {
		return a.NextElement(make([]int, 0, 2))
	}); err != nil {
		return nil, fmt.Errorf("load elements: %w", err)
	}
	if s.Bodies, err = drain(func() (domain.Body, error) {
		return a.NextBody(nil)
	}); err != nil {
		return nil, fmt.Errorf("load bodies: %w", err)
	}
	if s.Loops, err = drain(func() (domain.Loop, error) {
		return a.NextLoop(nil)
	}); err != nil {
		return nil, fmt.Errorf("load loops: %w", err)
	}
	if s.Boundaries, err = drain(a.NextBoundary); err != nil {
		return nil, fmt.Errorf("load boundaries: %w", err)
	}
	return s, nil
}

// drain calls next until the end of the sequence.
func drain[T any](next func() (T, error)) ([]T, error) {
	var out []T
	for {
		v, err := next()
		if errors.Is(err, domain.ErrEndOfSequence) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, v)
	}
}
