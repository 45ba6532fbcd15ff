package diffop

import (
	"errors"
	"fmt"
)

// ErrShape is returned when a buffer length does not fit the node count.
var ErrShape = errors.New("buffer length does not match node count")

// Operator computes single-step derivatives on a fixed mesh.
type Operator interface {
	// NodeCount returns N, the number of mesh nodes.
	NodeCount() int
	// Gradient reads N scalars and writes 3N component-major values.
	Gradient(in, out []float64) error
	// Divergence reads 3N component-major values and writes N scalars.
	Divergence(in, out []float64) error
	// Curl reads and writes 3N component-major values.
	Curl(in, out []float64) error
}

func steps(op Operator, length, rows int) (n, count int, err error) {
	n = op.NodeCount()
	if n <= 0 || length == 0 || length%(rows*n) != 0 {
		return 0, 0, fmt.Errorf("%d values for %d nodes in %d rows: %w", length, n, rows, ErrShape)
	}
	return n, length / (rows * n), nil
}

// gather copies step s of a 3-row matrix with cols columns into a
// component-major vector.
func gather(dst, m []float64, cols, n, s int) {
	for r := 0; r < 3; r++ {
		copy(dst[r*n:(r+1)*n], m[r*cols+s*n:r*cols+(s+1)*n])
	}
}

// scatter is the inverse of gather.
func scatter(m, src []float64, cols, n, s int) {
	for r := 0; r < 3; r++ {
		copy(m[r*cols+s*n:r*cols+(s+1)*n], src[r*n:(r+1)*n])
	}
}

// Grad computes the gradient of every step of a scalar field.
// in holds N*steps values; the result is a 3 x (N*steps) matrix.
func Grad(op Operator, in []float64) ([]float64, error) {
	n, count, err := steps(op, len(in), 1)
	if err != nil {
		return nil, fmt.Errorf("grad: %w", err)
	}
	cols := len(in)
	out := make([]float64, 3*cols)
	step := make([]float64, 3*n)
	for s := 0; s < count; s++ {
		if err := op.Gradient(in[s*n:(s+1)*n], step); err != nil {
			return nil, fmt.Errorf("grad step %d: %w", s, err)
		}
		scatter(out, step, cols, n, s)
	}
	return out, nil
}

// Div computes the divergence of every step of a vector field given as a
// 3 x (N*steps) matrix. The result holds N*steps values.
func Div(op Operator, in []float64) ([]float64, error) {
	n, count, err := steps(op, len(in), 3)
	if err != nil {
		return nil, fmt.Errorf("div: %w", err)
	}
	cols := len(in) / 3
	out := make([]float64, cols)
	step := make([]float64, 3*n)
	for s := 0; s < count; s++ {
		gather(step, in, cols, n, s)
		if err := op.Divergence(step, out[s*n:(s+1)*n]); err != nil {
			return nil, fmt.Errorf("div step %d: %w", s, err)
		}
	}
	return out, nil
}

// Curl computes the curl of every step of a vector field given as a
// 3 x (N*steps) matrix. The result has the same shape.
func Curl(op Operator, in []float64) ([]float64, error) {
	n, count, err := steps(op, len(in), 3)
	if err != nil {
		return nil, fmt.Errorf("curl: %w", err)
	}
	cols := len(in) / 3
	out := make([]float64, len(in))
	src := make([]float64, 3*n)
	dst := make([]float64, 3*n)
	for s := 0; s < count; s++ {
		gather(src, in, cols, n, s)
		if err := op.Curl(src, dst); err != nil {
			return nil, fmt.Errorf("curl step %d: %w", s, err)
		}
		scatter(out, dst, cols, n, s)
	}
	return out, nil
}
