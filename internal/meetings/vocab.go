package meetings

// Scoring weights and the decision threshold. The values are empirical
// and product-tunable; keep them here rather than inline so the heuristic
// can be adjusted as a data change.
const (
	includeThreshold = 5

	weightConference    = 10
	weightTitleKeyword  = 8
	weightGroupSize     = 6
	weightRecurring     = 5
	weightAccepted      = 4
	weightRoomLocation  = 3
	weightOrganizerSelf = 2
	weightWorkHours     = 2

	penaltyAllDay   = 5
	penaltyMarathon = 3
	penaltyCrowd    = 3
)

// exclusionTerms hard-exclude social, entertainment, travel, personal-time
// and out-of-office entries regardless of any other signal. Matched
// case-insensitively against title and description.
var exclusionTerms = []string{
	"vacation", "holiday", "day off", "out of office", "ooo", "pto",
	"sick leave",
	"lunch", "dinner", "breakfast", "happy hour", "party", "birthday",
	"anniversary", "celebration",
	"flight", "travel day", "commute",
	"gym", "workout", "doctor", "dentist", "errand",
	"focus time", "no meetings",
	"movie", "concert",
}

// meetingKeywords are title fragments that strongly suggest a meeting.
var meetingKeywords = []string{
	"meeting", "sync", "1:1", "1on1", "one-on-one",
	"standup", "stand-up", "catch-up", "catch up", "check-in",
	"review", "retro", "planning", "demo", "interview", "kickoff",
	"discussion", "call", "huddle", "all hands", "all-hands",
	"town hall", "office hours", "workshop", "briefing", "debrief",
}

// conferencingDomains are video-call hosts looked for in the event
// description when the provider attached no native conference data.
var conferencingDomains = []string{
	"zoom.us", "zoom.com", "meet.google", "teams.microsoft",
	"webex.com", "whereby.com", "gotomeeting.com",
}

// roomKeywords suggest the event location is a physical meeting space.
var roomKeywords = []string{
	"room", "conference", "office", "boardroom",
}
