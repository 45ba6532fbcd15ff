// Package diffop computes gradient, divergence and curl of fields sampled at
// the nodes of a mesh.
//
// Scalar fields are flat slices of N values. Vector fields are component-major:
// all x components, then all y, then all z. Grad, Div and Curl accept several
// time steps at once as 3-row matrices stored row-major with N*steps columns,
// where step i occupies columns [i*N, (i+1)*N).
package diffop
