package diffop_test

import (
	"testing"

	"github.com/aretw0/eio/pkg/diffop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-12

var cubePoints = []float64{
	0, 0, 0, // 0
	1, 0, 0, // 1
	1, 1, 0, // 2
	0, 1, 0, // 3
	0, 0, 1, // 4
	1, 0, 1, // 5
	1, 1, 1, // 6
	0, 1, 1, // 7
}

// unitCube splits the unit cube into six tetrahedra sharing the diagonal 0-6.
func unitCube(t *testing.T) *diffop.SimplexOperator {
	t.Helper()
	tet := func(a, b, c, d int) diffop.Cell {
		return diffop.Cell{Code: diffop.CodeTetrahedron, Nodes: []int{a, b, c, d}}
	}
	cells := []diffop.Cell{
		tet(0, 1, 2, 6), tet(0, 2, 3, 6), tet(0, 3, 7, 6),
		tet(0, 7, 4, 6), tet(0, 4, 5, 6), tet(0, 5, 1, 6),
	}
	op, err := diffop.NewSimplexOperator(cubePoints, cells)
	require.NoError(t, err)
	return op
}

func coords(op *diffop.SimplexOperator, points []float64, f func(x, y, z float64) float64) []float64 {
	out := make([]float64, op.NodeCount())
	for i := range out {
		out[i] = f(points[3*i], points[3*i+1], points[3*i+2])
	}
	return out
}


func TestGradient_ConstantFieldIsZero(t *testing.T) {
	op := unitCube(t)
	in := make([]float64, op.NodeCount())
	for i := range in {
		in[i] = 4.2
	}

	out := make([]float64, 3*op.NodeCount())
	require.NoError(t, op.Gradient(in, out))
	for i, v := range out {
		assert.InDelta(t, 0, v, tol, "component %d", i)
	}
}

func TestGradient_LinearFieldIsExact(t *testing.T) {
	op := unitCube(t)
	n := op.NodeCount()
	in := coords(op, cubePoints, func(x, y, z float64) float64 { return 2*x + 3*y - z + 1 })

	out := make([]float64, 3*n)
	require.NoError(t, op.Gradient(in, out))
	for i := 0; i < n; i++ {
		assert.InDelta(t, 2, out[i], tol)
		assert.InDelta(t, 3, out[n+i], tol)
		assert.InDelta(t, -1, out[2*n+i], tol)
	}
}

func vectorField(op *diffop.SimplexOperator, fx, fy, fz func(x, y, z float64) float64) []float64 {
	var in []float64
	in = append(in, coords(op, cubePoints, fx)...)
	in = append(in, coords(op, cubePoints, fy)...)
	in = append(in, coords(op, cubePoints, fz)...)
	return in
}

func TestDivergence_Radial(t *testing.T) {
	op := unitCube(t)
	in := vectorField(op,
		func(x, y, z float64) float64 { return x },
		func(x, y, z float64) float64 { return 2 * y },
		func(x, y, z float64) float64 { return -0.5 * z },
	)

	out := make([]float64, op.NodeCount())
	require.NoError(t, op.Divergence(in, out))
	for _, v := range out {
		assert.InDelta(t, 2.5, v, tol)
	}
}

func TestCurl_Rotation(t *testing.T) {
	op := unitCube(t)
	n := op.NodeCount()
	// v = (-y, x, 0) + (0, 0, x): curl = (0, -1, 2)
	in := vectorField(op,
		func(x, y, z float64) float64 { return -y },
		func(x, y, z float64) float64 { return x },
		func(x, y, z float64) float64 { return x },
	)

	out := make([]float64, 3*n)
	require.NoError(t, op.Curl(in, out))
	for i := 0; i < n; i++ {
		assert.InDelta(t, 0, out[i], tol)
		assert.InDelta(t, -1, out[n+i], tol)
		assert.InDelta(t, 2, out[2*n+i], tol)
	}
}

func TestSurfaceGradientIsTangential(t *testing.T) {
	points := []float64{0, 0, 0, 1, 0, 0, 0, 1, 0}
	op, err := diffop.NewSimplexOperator(points, []diffop.Cell{
		{Code: diffop.CodeTriangle, Nodes: []int{0, 1, 2}},
	})
	require.NoError(t, err)

	// f = x + z: the z part is invisible on the z = 0 plane
	out := make([]float64, 9)
	require.NoError(t, op.Gradient([]float64{0, 1, 0}, out))
	for i := 0; i < 3; i++ {
		assert.InDelta(t, 1, out[i], tol)
		assert.InDelta(t, 0, out[3+i], tol)
		assert.InDelta(t, 0, out[6+i], tol)
	}
}

func TestVolumeCellsArePreferred(t *testing.T) {
	points := []float64{0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 1}
	op, err := diffop.NewSimplexOperator(points, []diffop.Cell{
		{Code: diffop.CodeTriangle, Nodes: []int{0, 1, 2}},
		{Code: diffop.CodeTetrahedron, Nodes: []int{0, 1, 2, 3}},
		{Code: 202, Nodes: []int{0, 1}},
	})
	require.NoError(t, err)

	// f = z
	out := make([]float64, 12)
	require.NoError(t, op.Gradient([]float64{0, 0, 0, 1}, out))
	for i := 0; i < 4; i++ {
		assert.InDelta(t, 1, out[8+i], tol, "node %d sees the volume gradient", i)
	}
}

func TestNewSimplexOperator_Validation(t *testing.T) {
	_, err := diffop.NewSimplexOperator([]float64{0, 0}, nil)
	assert.ErrorIs(t, err, diffop.ErrShape)

	_, err = diffop.NewSimplexOperator([]float64{0, 0, 0}, []diffop.Cell{
		{Code: diffop.CodeTriangle, Nodes: []int{0, 0}},
	})
	assert.ErrorIs(t, err, diffop.ErrShape)

	_, err = diffop.NewSimplexOperator([]float64{0, 0, 0}, []diffop.Cell{
		{Code: diffop.CodeTriangle, Nodes: []int{0, 0, 5}},
	})
	assert.ErrorIs(t, err, diffop.ErrShape)
}

func TestGrad_MultiStep(t *testing.T) {
	op := unitCube(t)
	n := op.NodeCount()

	step0 := coords(op, cubePoints, func(x, y, z float64) float64 { return x })
	step1 := coords(op, cubePoints, func(x, y, z float64) float64 { return 5 * y })
	in := append(append([]float64{}, step0...), step1...)

	out, err := diffop.Grad(op, in)
	require.NoError(t, err)
	require.Len(t, out, 3*2*n)

	cols := 2 * n
	for i := 0; i < n; i++ {
		// step 0 columns
		assert.InDelta(t, 1, out[0*cols+i], tol)
		assert.InDelta(t, 0, out[1*cols+i], tol)
		// step 1 columns
		assert.InDelta(t, 0, out[0*cols+n+i], tol)
		assert.InDelta(t, 5, out[1*cols+n+i], tol)
		assert.InDelta(t, 0, out[2*cols+n+i], tol)
	}
}

func TestDivCurl_MultiStep(t *testing.T) {
	op := unitCube(t)
	n := op.NodeCount()
	cols := 2 * n

	// step s is the field (s+1) * (x, y, z)
	in := make([]float64, 3*cols)
	for s := 0; s < 2; s++ {
		for r := 0; r < 3; r++ {
			for i := 0; i < n; i++ {
				in[r*cols+s*n+i] = float64(s+1) * cubePoints[3*i+r]
			}
		}
	}

	div, err := diffop.Div(op, in)
	require.NoError(t, err)
	require.Len(t, div, cols)
	for i := 0; i < n; i++ {
		assert.InDelta(t, 3, div[i], tol)
		assert.InDelta(t, 6, div[n+i], tol)
	}

	curl, err := diffop.Curl(op, in)
	require.NoError(t, err)
	require.Len(t, curl, 3*cols)
	for _, v := range curl {
		assert.InDelta(t, 0, v, tol)
	}
}

func TestMultiStep_ShapeErrors(t *testing.T) {
	op := unitCube(t)
	n := op.NodeCount()

	_, err := diffop.Grad(op, make([]float64, n+1))
	assert.ErrorIs(t, err, diffop.ErrShape)
	_, err = diffop.Grad(op, nil)
	assert.ErrorIs(t, err, diffop.ErrShape)
	_, err = diffop.Div(op, make([]float64, 2*n))
	assert.ErrorIs(t, err, diffop.ErrShape)
	_, err = diffop.Curl(op, make([]float64, 3*n+3))
	assert.ErrorIs(t, err, diffop.ErrShape)

	assert.ErrorIs(t, op.Gradient(make([]float64, n), make([]float64, n)), diffop.ErrShape)
	assert.ErrorIs(t, op.Divergence(make([]float64, n), make([]float64, n)), diffop.ErrShape)
	assert.ErrorIs(t, op.Curl(make([]float64, 3*n), make([]float64, n)), diffop.ErrShape)
}
