// Package devbackend is an in-memory implementation of the platform's HTTP
// API for local development and end-to-end tests.
//
// Routes (all JSON, errors as {"detail": "..."}):
//
//	POST   /auth/login
//	GET    /profile, POST /profile, PUT /profile
//	POST   /api/connection-requests
//	GET    /api/connection-requests/received
//	POST   /api/connection-requests/{id}/respond
//	GET    /api/connections
//	DELETE /api/connections/{id}
//	POST   /api/team-search
//	POST   /api/conversations
//	GET    /api/messages/{conversation_id}?skip=&limit=
//	POST   /api/messages
//
// Everything except /auth/login requires "Authorization: Bearer <token>"
// where the token is an HS256 JWT whose subject is the user id.
package devbackend
