package calendar

import (
	"time"

	calendar "google.golang.org/api/calendar/v3"

	"github.com/clockedin/clockedin/internal/meetings"
)

// ToEventRecord converts a Google Calendar event into the classifier's
// event record. Missing or malformed fields degrade to zero values; they
// never fail the conversion.
func ToEventRecord(event *calendar.Event) meetings.EventRecord {
	record := meetings.EventRecord{
		Title:             event.Summary,
		Description:       event.Description,
		Location:          event.Location,
		AttendeeCount:     len(event.Attendees),
		HasConferenceData: event.ConferenceData != nil,
		Recurring:         event.RecurringEventId != "" || len(event.Recurrence) > 0,
	}

	record.Start, record.AllDay = parseBoundary(event.Start)
	if end, _ := parseBoundary(event.End); !end.IsZero() {
		record.End = end
	}

	for _, att := range event.Attendees {
		if att.ResponseStatus == "accepted" || att.ResponseStatus == "tentative" {
			record.AnyAttendeeAccepted = true
			break
		}
	}

	if event.Organizer != nil {
		record.OrganizerIsSelf = event.Organizer.Self
	}

	return record
}

// parseBoundary extracts the instant from an event boundary. A Date
// without a DateTime marks an all-day event; an unparseable or absent
// boundary yields the zero time.
func parseBoundary(boundary *calendar.EventDateTime) (instant time.Time, allDay bool) {
	if boundary == nil {
		return time.Time{}, false
	}
	if boundary.DateTime != "" {
		if t, err := time.Parse(time.RFC3339, boundary.DateTime); err == nil {
			return t, false
		}
		return time.Time{}, false
	}
	if boundary.Date != "" {
		if t, err := time.Parse("2006-01-02", boundary.Date); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
