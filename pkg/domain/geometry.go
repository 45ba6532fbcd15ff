package domain

// ElementTypeEdge2 is the two-node edge. Its node count is implicit and never persisted.
const ElementTypeEdge2 = 101

// GeometryDescriptor holds the header counts of a geometry model.
// Every geometry cursor is bounded by one of these counts.
type GeometryDescriptor struct {
	Bodies     int `json:"bodies"`
	Boundaries int `json:"boundaries"`
	Outer      int `json:"outer"`
	Inner      int `json:"inner"`
	Vertices   int `json:"vertices"`
	Loops      int `json:"loops"`
	MaxLoop    int `json:"max_loop"`
}

// Node is a geometry vertex.
type Node struct {
	Tag      int        `json:"tag"`
	CoordSys int        `json:"coord_sys"`
	Coord    [3]float64 `json:"coord"`
}

// Element is a geometry edge element.
// NodeCount is authoritative; NodeTags is nil when read in probe mode.
type Element struct {
	Tag         int   `json:"tag"`
	CoordSys    int   `json:"coord_sys"`
	MeshControl int   `json:"mesh_control"`
	Type        int   `json:"type"`
	NodeCount   int   `json:"node_count"`
	NodeTags    []int `json:"node_tags,omitempty"`
}

// Body is a geometry region bounded by loops.
type Body struct {
	Tag         int   `json:"tag"`
	MeshControl int   `json:"mesh_control"`
	Loops       []int `json:"loops"`
}

// Loop is an ordered list of node tags.
type Loop struct {
	Tag   int   `json:"tag"`
	Nodes []int `json:"nodes"`
}

// Boundary separates at most two regions.
type Boundary struct {
	Tag   int `json:"tag"`
	Left  int `json:"left"`
	Right int `json:"right"`
}
