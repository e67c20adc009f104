package meetings

import "math"

// untitledMeeting is the display title for events the organizer left blank.
const untitledMeeting = "Untitled Meeting"

// Aggregate reduces a sequence of classified events into the dashboard
// summary. The meeting list preserves the input order, which the event
// source already sorted by start time.
//
// Durations are summed as floating-point minutes across all included
// events that carry both timed boundaries; floor and round are applied
// exactly once over the final sum so per-event fractions cannot
// accumulate rounding drift. Included events without usable timestamps
// still count toward TotalMeetings but contribute no duration.
func Aggregate(classified []Classification) StatsSummary {
	summary := StatsSummary{Meetings: []MeetingEntry{}}

	var totalMinutes float64
	for _, c := range classified {
		if !c.Included {
			continue
		}
		ev := c.Event

		summary.TotalMeetings++
		summary.Meetings = append(summary.Meetings, MeetingEntry{
			Summary:   displayTitle(ev.Title),
			Start:     ev.Start,
			End:       ev.End,
			Attendees: ev.AttendeeCount,
		})

		if d, ok := timedDuration(ev); ok {
			totalMinutes += d.Minutes()
		}
	}

	summary.TotalHours = int(math.Floor(totalMinutes / 60))
	summary.TotalMinutes = int(math.Round(math.Mod(totalMinutes, 60)))
	return summary
}

func displayTitle(title string) string {
	if title == "" {
		return untitledMeeting
	}
	return title
}
