// Package models defines the client-side data model of the Launchpad
// platform: profiles, the viewer-relative connection status, connection
// requests, conversations and messages, plus the team-search DTOs.
//
// JSON tags follow the backend's snake_case wire names.
package models
