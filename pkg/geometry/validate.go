package geometry

import (
	"errors"
	"fmt"

	"github.com/aretw0/eio/pkg/domain"
)

// Validate checks the snapshot against its descriptor and its own cross
// references: element nodes, body loops, loop elements and boundary bodies.
// Every problem found is reported, each wrapping domain.ErrInvalidRecord.
func (s *Snapshot) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format+": %w", append(args, domain.ErrInvalidRecord)...))
	}

	d := s.Descriptor
	counts := []struct {
		name     string
		got, hdr int
	}{
		{"nodes", len(s.Nodes), d.Vertices},
		{"elements", len(s.Elements), d.Boundaries},
		{"bodies", len(s.Bodies), d.Bodies},
		{"loops", len(s.Loops), d.Loops},
		{"boundaries", len(s.Boundaries), d.Outer + d.Inner},
	}
	for _, c := range counts {
		if c.got != c.hdr {
			bad("%d %s, header declares %d", c.got, c.name, c.hdr)
		}
	}

	nodes := tagSet(s.Nodes, func(n domain.Node) int { return n.Tag })
	elements := tagSet(s.Elements, func(e domain.Element) int { return e.Tag })
	bodies := tagSet(s.Bodies, func(b domain.Body) int { return b.Tag })
	loops := tagSet(s.Loops, func(l domain.Loop) int { return l.Tag })

	for _, e := range s.Elements {
		for _, n := range e.NodeTags {
			if !nodes[n] {
				bad("element %d references missing node %d", e.Tag, n)
			}
		}
	}
	for _, b := range s.Bodies {
		for _, l := range b.Loops {
			if !loops[abs(l)] {
				bad("body %d references missing loop %d", b.Tag, l)
			}
		}
	}
	if len(s.Elements) > 0 {
		for _, l := range s.Loops {
			for _, e := range l.Nodes {
				if !elements[abs(e)] {
					bad("loop %d references missing element %d", l.Tag, e)
				}
			}
		}
	}
	for _, b := range s.Boundaries {
		for _, side := range []int{b.Left, b.Right} {
			if side > 0 && !bodies[side] {
				bad("boundary %d references missing body %d", b.Tag, side)
			}
		}
	}
	return errors.Join(errs...)
}

func tagSet[T any](items []T, tag func(T) int) map[int]bool {
	set := make(map[int]bool, len(items))
	for _, it := range items {
		set[tag(it)] = true
	}
	return set
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
