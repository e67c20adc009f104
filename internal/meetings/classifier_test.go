package meetings

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// tuesdayMorning is a weekday instant inside working hours.
var tuesdayMorning = time.Date(2025, time.March, 4, 10, 0, 0, 0, time.UTC)

func TestClassifyScoring(t *testing.T) {
	tests := []struct {
		name         string
		event        EventRecord
		wantScore    int
		wantIncluded bool
	}{
		{
			name: "recurring video sync",
			event: EventRecord{
				Title:             "Sync with Bob",
				AttendeeCount:     2,
				HasConferenceData: true,
				Recurring:         true,
			},
			// conference + title keyword + group size + recurring
			wantScore:    10 + 8 + 6 + 5,
			wantIncluded: true,
		},
		{
			name: "all-day offsite with no other signals",
			event: EventRecord{
				Title:  "Company Offsite",
				Start:  time.Date(2025, time.March, 4, 0, 0, 0, 0, time.UTC),
				End:    time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC),
				AllDay: true,
			},
			wantScore:    -5,
			wantIncluded: false,
		},
		{
			name: "score exactly at threshold is included",
			event: EventRecord{
				Title:     "Untitled",
				Recurring: true,
			},
			wantScore:    5,
			wantIncluded: true,
		},
		{
			name: "score one below threshold is excluded",
			event: EventRecord{
				Title:               "Untitled",
				AnyAttendeeAccepted: true,
			},
			wantScore:    4,
			wantIncluded: false,
		},
		{
			name: "video link in description counts as conferencing",
			event: EventRecord{
				Title:       "Untitled",
				Description: "Join at https://zoom.us/j/123456",
			},
			wantScore:    10,
			wantIncluded: true,
		},
		{
			name: "weekday working-hours start adds two",
			event: EventRecord{
				Title: "Untitled",
				Start: tuesdayMorning,
				End:   tuesdayMorning.Add(30 * time.Minute),
			},
			wantScore:    2,
			wantIncluded: false,
		},
		{
			name: "room location and self organizer",
			event: EventRecord{
				Title:           "Untitled",
				Location:        "Conference Room 4B",
				OrganizerIsSelf: true,
			},
			wantScore:    3 + 2,
			wantIncluded: true,
		},
		{
			name: "marathon duration is penalized",
			event: EventRecord{
				Title:             "Untitled",
				Start:             tuesdayMorning,
				End:               tuesdayMorning.Add(5 * time.Hour),
				HasConferenceData: true,
			},
			// conference + working hours - marathon
			wantScore:    10 + 2 - 3,
			wantIncluded: true,
		},
		{
			name: "huge invite list is penalized past the group-size cap",
			event: EventRecord{
				Title:         "Untitled",
				AttendeeCount: 150,
				Recurring:     true,
			},
			// no group-size bonus at 150, crowd penalty applies
			wantScore:    5 - 3,
			wantIncluded: false,
		},
		{
			name: "single attendee gets no group-size bonus",
			event: EventRecord{
				Title:         "Untitled",
				AttendeeCount: 1,
			},
			wantScore:    0,
			wantIncluded: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.event)
			assert.Equal(t, tt.wantScore, got.Score)
			assert.Equal(t, tt.wantIncluded, got.Included)
			assert.Equal(t, tt.event, got.Event)
		})
	}
}

func TestClassifyHardExclusion(t *testing.T) {
	// Every other signal fires, yet the exclusion vocabulary wins.
	ev := EventRecord{
		Title:               "Team Happy Hour",
		AttendeeCount:       12,
		HasConferenceData:   true,
		Recurring:           true,
		AnyAttendeeAccepted: true,
		Location:            "Conference Room 1",
		OrganizerIsSelf:     true,
		Start:               tuesdayMorning,
		End:                 tuesdayMorning.Add(time.Hour),
	}

	got := Classify(ev)
	assert.False(t, got.Included)
	assert.Equal(t, 0, got.Score)

	// Exclusion terms in the description are just as fatal.
	got = Classify(EventRecord{
		Title:             "Thursday get-together",
		Description:       "Celebrating Ana's birthday!",
		HasConferenceData: true,
	})
	assert.False(t, got.Included)
	assert.Equal(t, 0, got.Score)
}

func TestClassifyIsDeterministic(t *testing.T) {
	ev := EventRecord{
		Title:         "Quarterly review",
		AttendeeCount: 8,
		Recurring:     true,
		Start:         tuesdayMorning,
		End:           tuesdayMorning.Add(time.Hour),
	}

	first := Classify(ev)
	second := Classify(ev)
	assert.Equal(t, first, second)
}

func TestClassifyMissingTimestampsDegrade(t *testing.T) {
	// No timestamps at all: time-based signals and penalties are
	// skipped, the rest still score.
	got := Classify(EventRecord{
		Title:             "Platform sync",
		HasConferenceData: true,
		AttendeeCount:     3,
	})
	assert.True(t, got.Included)
	assert.Equal(t, 10+8+6, got.Score)
}

func TestClassifyWorkHoursBoundaries(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		want  bool
	}{
		{"nine sharp", time.Date(2025, time.March, 4, 9, 0, 0, 0, time.UTC), true},
		{"just before six pm", time.Date(2025, time.March, 4, 17, 59, 0, 0, time.UTC), true},
		{"six pm", time.Date(2025, time.March, 4, 18, 0, 0, 0, time.UTC), false},
		{"before nine", time.Date(2025, time.March, 4, 8, 59, 0, 0, time.UTC), false},
		{"saturday", time.Date(2025, time.March, 8, 10, 0, 0, 0, time.UTC), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := duringWorkHours(EventRecord{Start: tt.start})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifyAllPreservesOrder(t *testing.T) {
	events := []EventRecord{
		{Title: "Standup", Recurring: true},
		{Title: "Vacation"},
		{Title: "Design review", HasConferenceData: true},
	}

	classified := ClassifyAll(events)
	assert.Len(t, classified, 3)
	for i := range events {
		assert.Equal(t, events[i], classified[i].Event)
	}
	assert.True(t, classified[0].Included)
	assert.False(t, classified[1].Included)
	assert.True(t, classified[2].Included)
}
