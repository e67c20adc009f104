package meetings

import (
	"strings"
	"time"
)

// marathonDuration is the length at or beyond which an event is penalized
// as unlikely to be a single meeting.
const marathonDuration = 4 * time.Hour

// Classify scores a single calendar event and decides whether it counts
// as a meeting. It is deterministic and performs no I/O.
//
// Events matching the exclusion vocabulary are rejected with score 0
// before any signal is evaluated. Otherwise the weighted signals are
// summed, penalties subtracted, and the event is included iff the final
// score reaches the threshold (a score of exactly 5 is included).
func Classify(ev EventRecord) Classification {
	title := strings.ToLower(ev.Title)
	desc := strings.ToLower(ev.Description)

	if containsAny(title, exclusionTerms) || containsAny(desc, exclusionTerms) {
		return Classification{Event: ev}
	}

	score := 0

	if ev.HasConferenceData || containsAny(desc, conferencingDomains) {
		score += weightConference
	}
	if containsAny(title, meetingKeywords) {
		score += weightTitleKeyword
	}
	if ev.AttendeeCount > 1 && ev.AttendeeCount < 100 {
		score += weightGroupSize
	}
	if ev.Recurring {
		score += weightRecurring
	}
	if ev.AnyAttendeeAccepted {
		score += weightAccepted
	}
	if containsAny(strings.ToLower(ev.Location), roomKeywords) {
		score += weightRoomLocation
	}
	if ev.OrganizerIsSelf {
		score += weightOrganizerSelf
	}
	if duringWorkHours(ev) {
		score += weightWorkHours
	}

	if ev.AllDay {
		score -= penaltyAllDay
	}
	if d, ok := timedDuration(ev); ok && d >= marathonDuration {
		score -= penaltyMarathon
	}
	if ev.AttendeeCount > 30 {
		score -= penaltyCrowd
	}

	return Classification{
		Event:    ev,
		Included: score >= includeThreshold,
		Score:    score,
	}
}

// ClassifyAll classifies events in order, preserving the input ordering.
func ClassifyAll(events []EventRecord) []Classification {
	classified := make([]Classification, len(events))
	for i, ev := range events {
		classified[i] = Classify(ev)
	}
	return classified
}

// duringWorkHours reports whether the event starts Mon-Fri between 09:00
// and 18:00 in the event's own timezone. All-day events and events with
// no usable start instant never match.
func duringWorkHours(ev EventRecord) bool {
	if ev.AllDay || ev.Start.IsZero() {
		return false
	}
	switch ev.Start.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	hour := ev.Start.Hour()
	return hour >= 9 && hour < 18
}

// timedDuration returns the event length when both boundaries carry a
// time of day. All-day and partially-timed events report no duration so
// duration-based logic degrades instead of failing.
func timedDuration(ev EventRecord) (time.Duration, bool) {
	if ev.AllDay || ev.Start.IsZero() || ev.End.IsZero() {
		return 0, false
	}
	return ev.End.Sub(ev.Start), true
}

func containsAny(s string, terms []string) bool {
	if s == "" {
		return false
	}
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}
