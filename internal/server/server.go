// package server contains routing and middleware for local HTTP backends
package server

import "net/http"

// Middleware decorates a handler, e.g. to log or count requests.
type Middleware func(http.Handler) http.Handler

// Router registers method-scoped routes behind a shared middleware stack.
type Router interface {
	http.Handler
	Use(middleware ...Middleware)
	Handle(method, path string, handler http.Handler)
	HandleFunc(method, path string, fn http.HandlerFunc)
}
