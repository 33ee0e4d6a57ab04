// Package client talks to the pengaduan REST backend.
//
// # Overview
//
// The package provides:
//  1. An API contract (see the Client interface) covering the auth,
//     profile, complaint and generic GET endpoints used by the app.
//  2. A concrete JSON-over-HTTP implementation (see HTTPClient) sharing one
//     http.Client. The bearer token is read from a TokenSource on every
//     request; WithToken overrides it for a single call.
//  3. Error mapping from HTTP status codes and transport failures to
//     sentinel errors.
//
// # Error Handling
//
// Non-2xx responses are returned as *APIError, which carries the server
// message and per-field validation errors. A 401 APIError matches
// ErrUnauthorized under errors.Is. Transport failures and timeouts match
// ErrUnavailable. Context cancellation is returned unchanged.
//
// Every request carries a fresh X-Request-ID that is also logged, so client
// and server logs can be correlated.
package client
