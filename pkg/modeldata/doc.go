// Package modeldata persists the non-geometric description of a model.
//
// Three streams make up a session:
//
//	modeldata.description  description line, constants, coordinates
//	modeldata.bodies       one body record per line
//	modeldata.parameters   head/field record pairs of every category
//
// A head record declares how many field records follow it. The Agent tracks
// that count on both sides and reports domain.ErrFieldCount as soon as a
// caller strays from it, since the format itself has no terminator.
package modeldata
