package middleware

import "github.com/aretw0/eio/pkg/ports"

// Middleware allows wrapping a Repository to add behavior.
type Middleware func(ports.Repository) ports.Repository

// Chain wraps repo with mws; the first middleware is the outermost.
func Chain(repo ports.Repository, mws ...Middleware) ports.Repository {
	for i := len(mws) - 1; i >= 0; i-- {
		repo = mws[i](repo)
	}
	return repo
}
