// Package auth issues and verifies the dashboard's bearer tokens.
//
// A token is minted once per Google login and carries only the ephemeral
// principal id; it says nothing durable about the user. Tokens are HS256
// JWTs with a 24 hour lifetime, matching the session length of the web
// frontend.
package auth
