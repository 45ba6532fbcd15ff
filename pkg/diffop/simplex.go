package diffop

import (
	"fmt"
	"math"
)

// Element codes understood by SimplexOperator.
const (
	CodeTriangle    = 303
	CodeTetrahedron = 504
)

// Cell is one mesh element given by its code and zero-based node indices.
type Cell struct {
	Code  int
	Nodes []int
}

// SimplexOperator differentiates piecewise linear fields. Each cell gets the
// exact gradient of the linear interpolant; node values are the average over
// the cells touching the node. Tetrahedra are used when the mesh has any,
// triangles otherwise, in which case gradients are tangential to the surface.
type SimplexOperator struct {
	points []float64
	cells  []Cell
	// touching[i] counts the cells that contribute to node i.
	touching []int
}

// NewSimplexOperator validates the mesh. points holds x, y, z per node.
// Cells with codes other than 303 and 504 are ignored.
func NewSimplexOperator(points []float64, cells []Cell) (*SimplexOperator, error) {
	if len(points)%3 != 0 {
		return nil, fmt.Errorf("%d coordinates are not xyz triples: %w", len(points), ErrShape)
	}
	n := len(points) / 3

	var tets, tris []Cell
	for i, c := range cells {
		want := 0
		switch c.Code {
		case CodeTetrahedron:
			want = 4
		case CodeTriangle:
			want = 3
		default:
			continue
		}
		if len(c.Nodes) != want {
			return nil, fmt.Errorf("cell %d with code %d has %d nodes: %w", i, c.Code, len(c.Nodes), ErrShape)
		}
		for _, node := range c.Nodes {
			if node < 0 || node >= n {
				return nil, fmt.Errorf("cell %d references node %d of %d: %w", i, node, n, ErrShape)
			}
		}
		if c.Code == CodeTetrahedron {
			tets = append(tets, c)
		} else {
			tris = append(tris, c)
		}
	}

	op := &SimplexOperator{points: points, cells: tets, touching: make([]int, n)}
	if len(tets) == 0 {
		op.cells = tris
	}
	for _, c := range op.cells {
		for _, node := range c.Nodes {
			op.touching[node]++
		}
	}
	return op, nil
}

// NodeCount implements Operator.
func (op *SimplexOperator) NodeCount() int {
	return len(op.touching)
}

type vec [3]float64

func (a vec) sub(b vec) vec {
	return vec{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func (a vec) add(b vec) vec {
	return vec{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

func (a vec) scale(s float64) vec {
	return vec{a[0] * s, a[1] * s, a[2] * s}
}

func (a vec) dot(b vec) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func (a vec) cross(b vec) vec {
	return vec{a[1]*b[2] - a[2]*b[1], a[2]*b[0] - a[0]*b[2], a[0]*b[1] - a[1]*b[0]}
}

func (op *SimplexOperator) point(i int) vec {
	return vec{op.points[3*i], op.points[3*i+1], op.points[3*i+2]}
}

// cellGradient returns the gradient of the linear interpolant of f on c.
// Degenerate cells yield ok == false.
func (op *SimplexOperator) cellGradient(c Cell, f func(int) float64) (g vec, ok bool) {
	x0 := op.point(c.Nodes[0])
	f0 := f(c.Nodes[0])

	if c.Code == CodeTetrahedron {
		e1 := op.point(c.Nodes[1]).sub(x0)
		e2 := op.point(c.Nodes[2]).sub(x0)
		e3 := op.point(c.Nodes[3]).sub(x0)
		det := e1.dot(e2.cross(e3))
		if math.Abs(det) < 1e-300 {
			return vec{}, false
		}
		d1 := f(c.Nodes[1]) - f0
		d2 := f(c.Nodes[2]) - f0
		d3 := f(c.Nodes[3]) - f0
		// Solve [e1; e2; e3] g = d by the dual basis.
		g = e2.cross(e3).scale(d1).
			add(e3.cross(e1).scale(d2)).
			add(e1.cross(e2).scale(d3)).
			scale(1 / det)
		return g, true
	}

	e1 := op.point(c.Nodes[1]).sub(x0)
	e2 := op.point(c.Nodes[2]).sub(x0)
	g11, g12, g22 := e1.dot(e1), e1.dot(e2), e2.dot(e2)
	det := g11*g22 - g12*g12
	if math.Abs(det) < 1e-300 {
		return vec{}, false
	}
	d1 := f(c.Nodes[1]) - f0
	d2 := f(c.Nodes[2]) - f0
	// g = a e1 + b e2 with g.e1 = d1 and g.e2 = d2.
	a := (d1*g22 - d2*g12) / det
	b := (d2*g11 - d1*g12) / det
	return e1.scale(a).add(e2.scale(b)), true
}

// nodeGradient averages cell gradients of f onto nodes, component-major.
func (op *SimplexOperator) nodeGradient(f func(int) float64, out []float64) {
	n := op.NodeCount()
	for i := range out[:3*n] {
		out[i] = 0
	}
	for _, c := range op.cells {
		g, ok := op.cellGradient(c, f)
		if !ok {
			continue
		}
		for _, node := range c.Nodes {
			out[node] += g[0]
			out[n+node] += g[1]
			out[2*n+node] += g[2]
		}
	}
	for i, k := range op.touching {
		if k == 0 {
			continue
		}
		out[i] /= float64(k)
		out[n+i] /= float64(k)
		out[2*n+i] /= float64(k)
	}
}

// jacobian returns the gradients of the three components of a vector field.
// grad[c][d*n+i] is the derivative of component c along axis d at node i.
func (op *SimplexOperator) jacobian(in []float64) [3][]float64 {
	n := op.NodeCount()
	var grad [3][]float64
	for c := 0; c < 3; c++ {
		grad[c] = make([]float64, 3*n)
		comp := in[c*n : (c+1)*n]
		op.nodeGradient(func(i int) float64 { return comp[i] }, grad[c])
	}
	return grad
}

// Gradient implements Operator.
func (op *SimplexOperator) Gradient(in, out []float64) error {
	n := op.NodeCount()
	if len(in) != n || len(out) != 3*n {
		return fmt.Errorf("gradient of %d values into %d for %d nodes: %w", len(in), len(out), n, ErrShape)
	}
	op.nodeGradient(func(i int) float64 { return in[i] }, out)
	return nil
}

// Divergence implements Operator.
func (op *SimplexOperator) Divergence(in, out []float64) error {
	n := op.NodeCount()
	if len(in) != 3*n || len(out) != n {
		return fmt.Errorf("divergence of %d values into %d for %d nodes: %w", len(in), len(out), n, ErrShape)
	}
	j := op.jacobian(in)
	for i := 0; i < n; i++ {
		out[i] = j[0][i] + j[1][n+i] + j[2][2*n+i]
	}
	return nil
}

// Curl implements Operator.
func (op *SimplexOperator) Curl(in, out []float64) error {
	n := op.NodeCount()
	if len(in) != 3*n || len(out) != 3*n {
		return fmt.Errorf("curl of %d values into %d for %d nodes: %w", len(in), len(out), n, ErrShape)
	}
	j := op.jacobian(in)
	for i := 0; i < n; i++ {
		x, y, z := i, n+i, 2*n+i
		out[i] = j[2][y] - j[1][z]
		out[n+i] = j[0][z] - j[2][x]
		out[2*n+i] = j[1][x] - j[0][y]
	}
	return nil
}
