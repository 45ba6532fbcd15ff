package mesher

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrBuffer is returned for raw buffers that do not describe a mesh.
var ErrBuffer = errors.New("invalid raw mesh buffer")

// FromRawBuffers builds a Mesh from generator output: xyz triples in points,
// 1-based node triples in surfaces and 1-based node quadruples in volumes.
// Surface triangles are reoriented by swapping their second and third node.
// Surface parents, edges and normals are resolved before returning.
func FromRawBuffers(points []float64, surfaces, volumes []int) (*Mesh, error) {
	if len(points)%3 != 0 {
		return nil, fmt.Errorf("%d coordinates: %w", len(points), ErrBuffer)
	}
	if len(surfaces)%3 != 0 {
		return nil, fmt.Errorf("%d surface indices: %w", len(surfaces), ErrBuffer)
	}
	if len(volumes)%4 != 0 {
		return nil, fmt.Errorf("%d volume indices: %w", len(volumes), ErrBuffer)
	}
	n := len(points) / 3

	mesh := &Mesh{
		Dim:      3,
		CDim:     3,
		Nodes:    make([]Node, n),
		Surfaces: make([]Surface, len(surfaces)/3),
		Elements: make([]Element, len(volumes)/4),
	}

	for i := range mesh.Nodes {
		copy(mesh.Nodes[i].X[:], points[3*i:3*i+3])
		mesh.Nodes[i].Index = -1
	}

	toZeroBased := func(raw []int) ([]int, error) {
		out := make([]int, len(raw))
		for k, v := range raw {
			if v < 1 || v > n {
				return nil, fmt.Errorf("node %d outside 1..%d: %w", v, n, ErrBuffer)
			}
			out[k] = v - 1
		}
		return out, nil
	}

	for i := range mesh.Surfaces {
		nodes, err := toZeroBased(surfaces[3*i : 3*i+3])
		if err != nil {
			return nil, fmt.Errorf("surface %d: %w", i, err)
		}
		nodes[1], nodes[2] = nodes[2], nodes[1]
		mesh.Surfaces[i] = Surface{
			Nature:  NatureBoundary,
			Code:    CodeTriangle,
			Index:   1,
			Nodes:   nodes,
			Edges:   []int{-1, -1, -1},
			Parents: [2]int{-1, -1},
		}
	}

	for i := range mesh.Elements {
		nodes, err := toZeroBased(volumes[4*i : 4*i+4])
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		mesh.Elements[i] = Element{
			Nature: NatureBulk,
			Code:   CodeTetrahedron,
			Index:  1,
			Nodes:  nodes,
		}
	}

	findSurfaceParents(mesh)
	findSurfaceEdges(mesh)
	findSurfaceNormals(mesh)
	return mesh, nil
}

type faceKey [3]int

func newFaceKey(a, b, c int) faceKey {
	k := []int{a, b, c}
	sort.Ints(k)
	return faceKey{k[0], k[1], k[2]}
}

// tetFaces lists the local node triples of the four faces of a tetrahedron.
var tetFaces = [4][3]int{{0, 1, 2}, {0, 1, 3}, {0, 2, 3}, {1, 2, 3}}

func findSurfaceParents(mesh *Mesh) {
	owners := make(map[faceKey][]int)
	for e, el := range mesh.Elements {
		for _, f := range tetFaces {
			key := newFaceKey(el.Nodes[f[0]], el.Nodes[f[1]], el.Nodes[f[2]])
			owners[key] = append(owners[key], e)
		}
	}
	for i := range mesh.Surfaces {
		s := &mesh.Surfaces[i]
		for k, e := range owners[newFaceKey(s.Nodes[0], s.Nodes[1], s.Nodes[2])] {
			if k == len(s.Parents) {
				break
			}
			s.Parents[k] = e
		}
	}
}

func findSurfaceEdges(mesh *Mesh) {
	index := make(map[[2]int]int)
	for i := range mesh.Surfaces {
		s := &mesh.Surfaces[i]
		for k := 0; k < 3; k++ {
			a, b := s.Nodes[k], s.Nodes[(k+1)%3]
			if a > b {
				a, b = b, a
			}
			key := [2]int{a, b}
			e, ok := index[key]
			if !ok {
				e = len(mesh.Edges)
				index[key] = e
				mesh.Edges = append(mesh.Edges, Edge{
					Nature: NatureBoundary,
					Code:   CodeEdge,
					Nodes:  key,
				})
			}
			mesh.Edges[e].Surfaces = append(mesh.Edges[e].Surfaces, i)
			s.Edges[k] = e
		}
	}
}

// findSurfaceNormals sets unit normals. A surface with a parent gets the
// normal pointing away from it.
func findSurfaceNormals(mesh *Mesh) {
	for i := range mesh.Surfaces {
		s := &mesh.Surfaces[i]
		p0 := mesh.Nodes[s.Nodes[0]].X
		p1 := mesh.Nodes[s.Nodes[1]].X
		p2 := mesh.Nodes[s.Nodes[2]].X
		u := [3]float64{p1[0] - p0[0], p1[1] - p0[1], p1[2] - p0[2]}
		v := [3]float64{p2[0] - p0[0], p2[1] - p0[1], p2[2] - p0[2]}
		nrm := [3]float64{
			u[1]*v[2] - u[2]*v[1],
			u[2]*v[0] - u[0]*v[2],
			u[0]*v[1] - u[1]*v[0],
		}
		length := math.Sqrt(nrm[0]*nrm[0] + nrm[1]*nrm[1] + nrm[2]*nrm[2])
		if length == 0 {
			continue
		}
		for k := range nrm {
			nrm[k] /= length
		}

		if parent := s.Parents[0]; parent >= 0 {
			var inner [3]float64
			for _, node := range mesh.Elements[parent].Nodes {
				for k := range inner {
					inner[k] += mesh.Nodes[node].X[k] / 4
				}
			}
			out := 0.0
			for k := range nrm {
				out += nrm[k] * (p0[k] - inner[k])
			}
			if out < 0 {
				for k := range nrm {
					nrm[k] = -nrm[k]
				}
			}
		}
		s.Normal = nrm
	}
}
