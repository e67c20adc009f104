// Package meetings decides which calendar events count as meetings and
// aggregates their duration statistics.
//
// Classification is a pure, scored heuristic: calendar events carry no
// explicit "is a meeting" field, so the classifier fuses weak independent
// signals (conferencing metadata, naming conventions, attendee counts,
// recurrence, scheduling patterns) into a single weighted score. Events
// matching a hard-exclusion vocabulary (social, travel, personal time,
// out-of-office) are rejected outright before any scoring happens.
//
// The vocabularies and weights live in vocab.go as plain data so they can
// be tuned and tested without touching control flow.
package meetings
