// Package server provides HTTP routing and middleware used to stand up local backends.
//
// It is test scaffolding: nothing in the shipped binary imports it.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] added first is the outermost wrapper and only routes registered after [BasicRouter.Use] are wrapped.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Current Usage
//
// The only caller outside this package's own tests is the fake generation backend in internal/testing. It registers
// /chords, /generate and the artifact route on a [BasicRouter] behind [RequestLogger] and [CountRequests], so tests can
// assert how many calls reached it.
package server
