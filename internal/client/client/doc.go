// Package client is the Remote Service Facade of the Launchpad backend.
//
// # Overview
//
// The package provides:
//  1. The transport contract (see the Client interface): connection
//     requests, connections, team search, conversations, messages and the
//     user's own profile.
//  2. A JSON-over-HTTP implementation (see HTTPClient) that injects the
//     bearer token of the current session, tags every request with an
//     X-Request-ID, and reports 401 responses to the session so that the
//     global sign-out happens in exactly one place.
//
// # Error Handling
//
// Non-2xx responses become *APIError values carrying the status code and
// the server's detail text. APIError unwraps to one of the sentinel errors
// ErrConflict, ErrUnauthorized, ErrForbidden, ErrNotFound or ErrServer, and
// transport failures unwrap to ErrUnavailable, so callers match with
// errors.Is. Classify maps any error onto the error taxonomy and
// ConflictOf recognises the "already sent" / "already connected" details.
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. All operations accept
// context.Context; a per-request timeout is applied on top of it.
package client
