// Package google holds the OAuth2 configuration for the dashboard's
// Google login.
//
// Only the read-only calendar scope is ever requested; the backend never
// writes to a user's calendar. Credentials obtained here live in process
// memory only.
package google
