package geometry

import (
	"fmt"

	"github.com/aretw0/eio/pkg/domain"
	"github.com/aretw0/eio/pkg/record"
)

// writer returns the writer of kind once the header is in place.
func (a *Agent) writer(kind domain.StreamKind) (*record.Writer, error) {
	w, err := a.set.Writer(kind)
	if err != nil {
		return nil, err
	}
	if !a.headerWritten {
		return nil, fmt.Errorf("write %s: %w", kind, domain.ErrDescriptorMissing)
	}
	return w, nil
}

func (a *Agent) commit(w *record.Writer) error {
	if err := w.Flush(); err != nil {
		a.metrics.Failed(w.Kind(), err)
		return fmt.Errorf("write %s: %w", w.Kind(), err)
	}
	a.metrics.RecordWritten(w.Kind())
	return nil
}

// WriteNode appends one node record.
func (a *Agent) WriteNode(n domain.Node) error {
	w, err := a.writer(domain.KindGeometryNodes)
	if err != nil {
		return err
	}
	w.Int(n.Tag).Int(n.CoordSys).Floats(n.Coord[:]).EOL()
	return a.commit(w)
}

// WriteBody appends one body record. The loop list goes on its own line.
func (a *Agent) WriteBody(b domain.Body) error {
	w, err := a.writer(domain.KindGeometryBodies)
	if err != nil {
		return err
	}
	w.Int(b.Tag).Int(b.MeshControl).Joined(len(b.Loops)).EOL()
	w.Ints(b.Loops).EOL()
	return a.commit(w)
}

// WriteElement appends one element record.
// Two-node edges (type 101) do not persist their node count.
func (a *Agent) WriteElement(e domain.Element) error {
	kind := domain.KindGeometryElements
	if e.NodeCount != 0 && e.NodeCount != len(e.NodeTags) {
		return fmt.Errorf("write %s: element %d declares %d nodes but carries %d: %w",
			kind, e.Tag, e.NodeCount, len(e.NodeTags), domain.ErrInvalidRecord)
	}
	if e.Type == domain.ElementTypeEdge2 && len(e.NodeTags) != 2 {
		return fmt.Errorf("write %s: element %d of type %d needs 2 nodes, got %d: %w",
			kind, e.Tag, e.Type, len(e.NodeTags), domain.ErrInvalidRecord)
	}

	w, err := a.writer(kind)
	if err != nil {
		return err
	}
	w.Int(e.Tag).Int(e.CoordSys).Int(e.MeshControl).Int(e.Type)
	if e.Type != domain.ElementTypeEdge2 {
		w.Int(len(e.NodeTags))
	}
	w.Ints(e.NodeTags).EOL()
	return a.commit(w)
}

// WriteLoop appends one loop record.
func (a *Agent) WriteLoop(l domain.Loop) error {
	w, err := a.writer(domain.KindGeometryLoops)
	if err != nil {
		return err
	}
	w.Int(l.Tag).Int(len(l.Nodes)).Ints(l.Nodes).EOL()
	return a.commit(w)
}

// WriteBoundary appends one boundary record.
func (a *Agent) WriteBoundary(b domain.Boundary) error {
	w, err := a.writer(domain.KindGeometryBoundaries)
	if err != nil {
		return err
	}
	w.Joined(b.Tag, b.Left, b.Right).EOL()
	return a.commit(w)
}
