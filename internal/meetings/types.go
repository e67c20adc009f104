package meetings

import "time"

// EventRecord is one calendar entry as returned by the provider, reduced
// to the fields classification needs. A zero Start or End means the
// provider did not supply a usable instant for that boundary; such events
// can still be classified from their remaining signals.
type EventRecord struct {
	Title       string
	Description string
	Location    string

	Start time.Time
	End   time.Time

	// AllDay is true when the provider reported a date without a time
	// of day.
	AllDay bool

	AttendeeCount int

	// AnyAttendeeAccepted is true when at least one attendee responded
	// accepted or tentative.
	AnyAttendeeAccepted bool

	HasConferenceData bool
	Recurring         bool
	OrganizerIsSelf   bool
}

// Classification is the classifier's verdict for a single event.
type Classification struct {
	Event    EventRecord
	Included bool
	Score    int
}

// MeetingEntry is the simplified event shape returned to the dashboard.
type MeetingEntry struct {
	Summary   string    `json:"summary"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Attendees int       `json:"attendees"`
}

// StatsSummary aggregates the classified meetings for one principal.
type StatsSummary struct {
	TotalMeetings int `json:"totalMeetings"`
	TotalHours    int `json:"totalHours"`
	// TotalMinutes is the remainder after whole hours, not the grand
	// total. The field name mirrors the dashboard's wire format.
	TotalMinutes int            `json:"totalMinutes"`
	Meetings     []MeetingEntry `json:"meetings"`
}
