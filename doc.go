/*
Package eio persists finite-element models as plain text record streams.

A model is a named set of artifacts. Geometry lives in six streams (header,
nodes, elements, bodies, loops, boundaries); the model description lives in
three (description, bodies, parameters). Agents in pkg/geometry and
pkg/modeldata read and write those streams one record at a time, bounded by
the counts declared in each model's header.

# Usage

	ws := eio.New("./models")

	g, err := ws.Geometry(ctx, "beam")
	if err != nil {
		log.Fatal(err)
	}
	if err := g.Open(ctx); err != nil {
		log.Fatal(err)
	}
	defer g.Close()

	for {
		n, err := g.NextNode()
		if errors.Is(err, domain.ErrEndOfSequence) {
			break
		}
		...
	}

Storage is pluggable through ports.Repository: the filesystem (default),
memory and Redis adapters ship with the module, and middlewares add at-rest
encryption and metrics. Session management in pkg/session serializes access
to a model, across processes when a Redis locker is configured.
*/
package eio
