// Package calendar adapts the Google Calendar API into the event records
// the classifier consumes.
//
// The adapter issues exactly one read-only query per fetch: the
// principal's primary calendar over the stats-year window, with recurring
// series expanded into single events and results ordered by start time.
// No writes are ever issued to the upstream calendar.
package calendar
