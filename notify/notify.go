// Package notify polls the meeting list and announces meetings that
// cross fixed time-to-start thresholds.
package notify

import (
	"fmt"
	"time"

	"github.com/braynkanth/assistant-tui/api"
)

// Kind is which threshold a meeting crossed.
type Kind int

const (
	KindTomorrow Kind = iota // ~24 hours out
	KindTwoHours
	KindStartingNow
)

func (k Kind) String() string {
	switch k {
	case KindTomorrow:
		return "tomorrow"
	case KindTwoHours:
		return "2 hours"
	case KindStartingNow:
		return "starting now"
	default:
		return "unknown"
	}
}

// Notification is one transient announcement for a meeting.
type Notification struct {
	Kind    Kind
	Meeting api.Meeting
}

// Message is the user-facing toast text.
func (n Notification) Message() string {
	switch n.Kind {
	case KindTomorrow:
		return fmt.Sprintf("Upcoming meeting tomorrow: %s at %s",
			n.Meeting.Title, n.Meeting.StartTime.Local().Format("15:04"))
	case KindTwoHours:
		return fmt.Sprintf("Meeting in 2 hours: %s", n.Meeting.Title)
	case KindStartingNow:
		return fmt.Sprintf("Meeting starting now: %s", n.Meeting.Title)
	default:
		return n.Meeting.Title
	}
}

// Announcement windows in minutes-to-start. The ~2 minute tolerance is
// what keeps a meeting from being re-announced on the next 60s tick;
// there is no persisted already-notified set, so an unluckily timed
// poll can still double-fire or miss a window.
const (
	tomorrowLo, tomorrowHi = 1439, 1441
	twoHoursLo, twoHoursHi = 119, 121
	startingLo, startingHi = 0, 2
)

// Due returns the notifications warranted at the given instant, at
// most one per meeting per window.
func Due(meetings []api.Meeting, now time.Time) []Notification {
	var due []Notification
	for _, m := range meetings {
		mins := m.StartTime.Sub(now).Minutes()
		if mins >= tomorrowLo && mins <= tomorrowHi {
			due = append(due, Notification{Kind: KindTomorrow, Meeting: m})
		}
		if mins >= twoHoursLo && mins <= twoHoursHi {
			due = append(due, Notification{Kind: KindTwoHours, Meeting: m})
		}
		if mins >= startingLo && mins <= startingHi {
			due = append(due, Notification{Kind: KindStartingNow, Meeting: m})
		}
	}
	return due
}
