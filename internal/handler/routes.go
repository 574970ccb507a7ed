package handler

import "github.com/gin-gonic/gin"

// Guards are the route-level middlewares the router hands to resource
// handlers. Authenticate is always set; Identify and RateLimit may be nil.
type Guards struct {
	Authenticate gin.HandlerFunc
	Identify     gin.HandlerFunc
	RateLimit    gin.HandlerFunc
}

// Admin returns the chain for an admin-only route. It panics on a missing
// Authenticate guard.
func (g Guards) Admin(h gin.HandlerFunc) []gin.HandlerFunc {
	if g.Authenticate == nil {
		panic("handler: admin route without an Authenticate guard")
	}
	return []gin.HandlerFunc{g.Authenticate, h}
}

// Chain drops nil handlers so optional guards can be listed inline.
func Chain(handlers ...gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(handlers))
	for _, h := range handlers {
		if h != nil {
			out = append(out, h)
		}
	}
	return out
}
