// Package cli provides the interactive Launchpad command-line client.
//
// It wires configuration, local storage, the HTTP facade, the session and
// the client services, and drives them from a REPL. A session saved by a
// previous run is restored on start.
//
// Key features:
//   - Login with a pasted token, or sign in with email and password
//   - Profile view and editing
//   - Team search with connection status per result
//   - Connection requests: connect, inbox, accept/reject, disconnect
//   - One-to-one chat with connected users (send, poll, history)
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
