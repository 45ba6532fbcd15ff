package geometry

import (
	"errors"
	"fmt"

	"github.com/aretw0/eio/pkg/domain"
	"github.com/aretw0/eio/pkg/record"
)

// next prepares a cursor read: it returns domain.ErrEndOfSequence (and wraps
// the cursor) once the declared bound is reached.
func (a *Agent) next(kind domain.StreamKind, c *record.Cursor) (*record.Reader, error) {
	r, err := a.set.Reader(kind)
	if err != nil {
		return nil, err
	}
	if c.Exhausted() {
		a.metrics.CursorWrapped(kind)
		return nil, domain.ErrEndOfSequence
	}
	return r, nil
}

func (a *Agent) done(kind domain.StreamKind, c *record.Cursor, err error) error {
	if err != nil {
		a.metrics.Failed(kind, err)
		return err
	}
	c.Advance()
	a.metrics.RecordRead(kind)
	return nil
}

// NextNode reads the next node record.
func (a *Agent) NextNode() (domain.Node, error) {
	kind := domain.KindGeometryNodes
	r, err := a.next(kind, &a.nodes)
	if err != nil {
		return domain.Node{}, err
	}

	n, err := readNode(r)
	return n, a.done(kind, &a.nodes, err)
}

func readNode(r *record.Reader) (domain.Node, error) {
	var n domain.Node
	var err error
	if n.Tag, err = r.Int("tag"); err != nil {
		return n, err
	}
	if n.CoordSys, err = r.Int("coordinate system"); err != nil {
		return n, err
	}
	for i := range n.Coord {
		if n.Coord[i], err = r.Float("coordinate"); err != nil {
			return n, err
		}
	}
	return n, nil
}

// NextBody reads the next body record. Loop tags are appended to dst[:0].
func (a *Agent) NextBody(dst []int) (domain.Body, error) {
	kind := domain.KindGeometryBodies
	r, err := a.next(kind, &a.bodies)
	if err != nil {
		return domain.Body{}, err
	}

	b, err := readBody(r, dst)
	return b, a.done(kind, &a.bodies, err)
}

func readBody(r *record.Reader, dst []int) (domain.Body, error) {
	var b domain.Body
	var err error
	if b.Tag, err = r.Int("tag"); err != nil {
		return b, err
	}
	if b.MeshControl, err = r.Int("mesh control"); err != nil {
		return b, err
	}
	count, err := readCount(r, "loop count")
	if err != nil {
		return b, err
	}
	b.Loops, err = r.Ints(buffer(dst, count), count, "loop")
	return b, err
}

// NextElement reads the next element record. Node tags are appended to dst[:0].
// With a nil dst the node tags are consumed but not returned, which lets a
// caller probe node counts without allocating.
func (a *Agent) NextElement(dst []int) (domain.Element, error) {
	kind := domain.KindGeometryElements
	r, err := a.next(kind, &a.elements)
	if err != nil {
		return domain.Element{}, err
	}

	e, err := readElement(r, dst)
	return e, a.done(kind, &a.elements, err)
}

func readElement(r *record.Reader, dst []int) (domain.Element, error) {
	var e domain.Element
	var err error
	if e.Tag, err = r.Int("tag"); err != nil {
		return e, err
	}
	if e.CoordSys, err = r.Int("coordinate system"); err != nil {
		return e, err
	}
	if e.MeshControl, err = r.Int("mesh control"); err != nil {
		return e, err
	}
	if e.Type, err = r.Int("type"); err != nil {
		return e, err
	}

	if e.Type == domain.ElementTypeEdge2 {
		e.NodeCount = 2
	} else if e.NodeCount, err = readCount(r, "node count"); err != nil {
		return e, err
	}

	if dst == nil {
		return e, r.Skip(e.NodeCount, "node")
	}
	e.NodeTags, err = r.Ints(dst[:0], e.NodeCount, "node")
	return e, err
}

// NextLoop reads the next loop record. Node tags are appended to dst[:0].
// Reaching the end also rewinds the loop stream for another pass.
// The sequence is bounded by the descriptor's Loops; MaxLoop is informational.
func (a *Agent) NextLoop(dst []int) (domain.Loop, error) {
	kind := domain.KindGeometryLoops
	r, err := a.next(kind, &a.loops)
	if errors.Is(err, domain.ErrEndOfSequence) {
		if rerr := a.rewindLoops(); rerr != nil {
			return domain.Loop{}, rerr
		}
		return domain.Loop{}, err
	}
	if err != nil {
		return domain.Loop{}, err
	}

	l, err := readLoop(r, dst)
	return l, a.done(kind, &a.loops, err)
}

func (a *Agent) rewindLoops() error {
	r, err := a.set.Reader(domain.KindGeometryLoops)
	if err != nil {
		return err
	}
	return r.Rewind()
}

func readLoop(r *record.Reader, dst []int) (domain.Loop, error) {
	var l domain.Loop
	var err error
	if l.Tag, err = r.Int("tag"); err != nil {
		return l, err
	}
	count, err := readCount(r, "field")
	if err != nil {
		return l, err
	}
	l.Nodes, err = r.Ints(buffer(dst, count), count, "node")
	return l, err
}

// NextBoundary reads the next boundary record.
func (a *Agent) NextBoundary() (domain.Boundary, error) {
	kind := domain.KindGeometryBoundaries
	r, err := a.next(kind, &a.boundaries)
	if err != nil {
		return domain.Boundary{}, err
	}

	b, err := readBoundary(r)
	return b, a.done(kind, &a.boundaries, err)
}

func readBoundary(r *record.Reader) (domain.Boundary, error) {
	var b domain.Boundary
	var err error
	if b.Tag, err = r.Int("tag"); err != nil {
		return b, err
	}
	if b.Left, err = r.Int("left region"); err != nil {
		return b, err
	}
	b.Right, err = r.Int("right region")
	return b, err
}

// readCount reads a persisted length and rejects negative values.
func readCount(r *record.Reader, field string) (int, error) {
	n, err := r.Int(field)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, &domain.ParseError{
			Kind:  r.Kind(),
			Field: field,
			Token: fmt.Sprint(n),
			Err:   domain.ErrInvalidRecord,
		}
	}
	return n, nil
}

// maxPrealloc caps the capacity taken from a count read off the stream.
const maxPrealloc = 64

// buffer returns dst emptied, or a fresh slice for up to n values when dst is nil.
func buffer(dst []int, n int) []int {
	if dst == nil {
		return make([]int, 0, min(n, maxPrealloc))
	}
	return dst[:0]
}
