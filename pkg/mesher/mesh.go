package mesher

import "github.com/aretw0/eio/pkg/diffop"

// Nature tells bulk elements from boundary elements.
type Nature int

const (
	NatureUndefined Nature = iota
	NatureBulk
	NatureBoundary
)

// Element codes produced by FromRawBuffers.
const (
	CodeEdge        = 202
	CodeTriangle    = diffop.CodeTriangle
	CodeTetrahedron = diffop.CodeTetrahedron
)

// Node is one mesh point.
type Node struct {
	X     [3]float64 `json:"x"`
	Index int        `json:"index"`
}

// Edge is a boundary edge shared by one or more surface elements.
type Edge struct {
	Nature   Nature `json:"nature"`
	Code     int    `json:"code"`
	Nodes    [2]int `json:"nodes"`
	Surfaces []int  `json:"surfaces"`
}

// Surface is a boundary element. Parents lists up to two bulk elements
// sharing the face, -1 where there is none.
type Surface struct {
	Nature  Nature     `json:"nature"`
	Code    int        `json:"code"`
	Index   int        `json:"index"`
	Nodes   []int      `json:"nodes"`
	Edges   []int      `json:"edges"`
	Parents [2]int     `json:"parents"`
	Normal  [3]float64 `json:"normal"`
}

// Element is a bulk element.
type Element struct {
	Nature Nature `json:"nature"`
	Code   int    `json:"code"`
	Index  int    `json:"index"`
	Nodes  []int  `json:"nodes"`
}

// Mesh is a generated mesh. Node indices are zero-based.
type Mesh struct {
	Dim      int       `json:"dim"`
	CDim     int       `json:"cdim"`
	Nodes    []Node    `json:"nodes"`
	Edges    []Edge    `json:"edges"`
	Surfaces []Surface `json:"surfaces"`
	Elements []Element `json:"elements"`
}

// Points returns the node coordinates as xyz triples.
func (m *Mesh) Points() []float64 {
	points := make([]float64, 0, 3*len(m.Nodes))
	for _, n := range m.Nodes {
		points = append(points, n.X[:]...)
	}
	return points
}

// Cells returns the surface and bulk elements in the form diffop expects.
func (m *Mesh) Cells() []diffop.Cell {
	cells := make([]diffop.Cell, 0, len(m.Surfaces)+len(m.Elements))
	for _, s := range m.Surfaces {
		cells = append(cells, diffop.Cell{Code: s.Code, Nodes: s.Nodes})
	}
	for _, e := range m.Elements {
		cells = append(cells, diffop.Cell{Code: e.Code, Nodes: e.Nodes})
	}
	return cells
}

// Operator returns a differential operator over the mesh.
func (m *Mesh) Operator() (*diffop.SimplexOperator, error) {
	return diffop.NewSimplexOperator(m.Points(), m.Cells())
}
