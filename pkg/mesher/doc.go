// Package mesher is the boundary to external mesh generators.
//
// Generators are plugins behind the Mesher interface. Each one reports
// whether it can run on this host, so callers pick a working generator
// through a Registry instead of failing at generation time. Whatever the
// generator, its output crosses the boundary as raw buffers (xyz points,
// 1-based triangle and tetrahedron connectivity) and is turned into a Mesh
// by FromRawBuffers.
package mesher
