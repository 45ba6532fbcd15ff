/*
Package geometry implements the geometry agent: durable, ordered, record-oriented
storage of one model's geometry across six parallel streams.

A write session (Create) stores the descriptor header first and then any number
of node, element, body, loop and boundary records in caller order. A read
session (Open) loads the header and hands the records back one per call; each
record kind has its own cursor bounded by a descriptor count:

	nodes       Vertices
	bodies      Bodies
	elements    Boundaries
	boundaries  Outer + Inner
	loops       Loops

When a cursor reaches its bound the call returns domain.ErrEndOfSequence and the
cursor starts over. Loop reads also rewind the loop stream, so a second pass
needs no reopen.
*/
package geometry
