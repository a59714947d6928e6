// Package services holds the client-side state of the Launchpad client:
// the connection state machine, the team search presenter, the request
// inbox, chat sessions and the viewer's own profile.
//
// Services are safe for concurrent use. Each mutating action is guarded by
// an in-flight marker keyed by the entity it acts on, so unrelated actions
// run concurrently while a repeat of the same one is refused with
// ErrInFlight. State changes apply in completion order, last write wins per
// key. Failures leave prior state intact.
package services
