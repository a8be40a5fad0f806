// Package services defines the [Backend] interface for the chord generation backend and implements it over HTTP.
//
// # Backend Interface
//
// The client only ever talks to the backend through [Backend], so the progression controller and the download
// dispatcher can be driven by a test double or by the in-process fake in internal/testing.
//
// # HTTP Implementation
//
// [APIService] performs the raw requests. Every request waits on a shared [rate.Limiter] and carries an
// X-Request-ID header. [BackendService] layers the two JSON endpoints on top of it:
//   - GET /chords returns {"all_chords": [...]}
//   - POST /generate takes length, temperature, repetitiveness, window_size and selected_chords,
//     and returns {"chord_progression": [...], "midi_url": "..."}
//
// selected_chords is encoded as a list of labels by default. The "options" seed format sends
// {"label", "value"} objects instead, for backends that read the value field of each selection.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrAPIRequest] : transport failure or non-2xx status
//   - [shared.ErrMalformedResponse] : body missing a required field, or a progression longer than requested
//   - [shared.ErrNoDownload] : empty download reference
//
// No request is ever retried automatically.
package services
