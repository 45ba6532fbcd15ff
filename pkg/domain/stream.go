package domain

import (
	"fmt"
	"strings"
)

// Mode selects how a stream is opened.
type Mode int

const (
	ModeRead  Mode = iota // Existing artifact, positioned at its start
	ModeWrite             // Truncate-create, committed on close
)

func (m Mode) String() string {
	switch m {
	case ModeRead:
		return "read"
	case ModeWrite:
		return "write"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// StreamKind names one record stream. Its value is the artifact suffix.
type StreamKind string

const (
	KindGeometryHeader     StreamKind = "geometry.header"
	KindGeometryNodes      StreamKind = "geometry.nodes"
	KindGeometryElements   StreamKind = "geometry.elements"
	KindGeometryBodies     StreamKind = "geometry.bodies"
	KindGeometryLoops      StreamKind = "geometry.loops"
	KindGeometryBoundaries StreamKind = "geometry.boundaries"

	KindModelDescription StreamKind = "modeldata.description"
	KindModelBodies      StreamKind = "modeldata.bodies"
	KindModelParameters  StreamKind = "modeldata.parameters"
)

// GeometryKinds returns the streams owned by a geometry agent, in creation order.
func GeometryKinds() []StreamKind {
	return []StreamKind{
		KindGeometryHeader,
		KindGeometryNodes,
		KindGeometryElements,
		KindGeometryBodies,
		KindGeometryLoops,
		KindGeometryBoundaries,
	}
}

// ModelDataKinds returns the streams owned by a model data agent, in creation order.
func ModelDataKinds() []StreamKind {
	return []StreamKind{
		KindModelDescription,
		KindModelBodies,
		KindModelParameters,
	}
}

// IsKnown reports whether k belongs to one of the agent stream sets.
func (k StreamKind) IsKnown() bool {
	for _, kind := range GeometryKinds() {
		if kind == k {
			return true
		}
	}
	for _, kind := range ModelDataKinds() {
		if kind == k {
			return true
		}
	}
	return false
}

// ValidateModelName rejects names that are empty or would escape a repository root.
func ValidateModelName(name string) error {
	switch {
	case name == "", name == ".", name == "..":
		return fmt.Errorf("%w: %q", ErrInvalidModelName, name)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidModelName, name)
	}
	return nil
}
