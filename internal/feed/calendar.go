// Package feed maps checkins onto iCalendar events and assembles them into
// a calendar document.
package feed

import (
	"fmt"
	"os"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/nikdoof/foursquare-feeds/internal/foursquare"
	applog "github.com/nikdoof/foursquare-feeds/internal/log"
)

// Checkins have no native end time; events get a fixed synthetic duration.
const eventDuration = 15 * time.Minute

const mayorNote = "At this time, you were the mayor of this venue!"

// Builder assembles an iCalendar document from checkins, linking each event
// back to the owning user's profile.
type Builder struct {
	user foursquare.User
}

func NewBuilder(user foursquare.User) *Builder {
	return &Builder{user: user}
}

// Build maps every checkin with venue data onto a VEVENT. Checkins without
// a venue are skipped; duplicate checkin ids collapse to a single event so
// UIDs stay unique within the calendar.
func (b *Builder) Build(checkins []foursquare.Checkin) *ical.Calendar {
	cal := ical.NewCalendar()

	seen := make(map[string]struct{}, len(checkins))
	for _, c := range checkins {
		if !c.HasVenue() {
			applog.Debug("skipping checkin without venue", "id", c.ID)
			continue
		}
		if _, dup := seen[c.ID]; dup {
			continue
		}
		seen[c.ID] = struct{}{}
		b.addEvent(cal, c)
	}

	return cal
}

func (b *Builder) addEvent(cal *ical.Calendar, c foursquare.Checkin) {
	start := c.CreatedTime()
	end := start.Add(eventDuration)

	ev := cal.AddEvent(c.ID)
	ev.SetSummary("@ " + c.Venue.Name)
	ev.SetLocation(EventLocation(c))
	ev.SetURL(b.user.CanonicalURL + "/checkin/" + c.ID)
	ev.SetStartAt(start)
	ev.SetEndAt(end)
	ev.SetCreatedTime(end)
	ev.SetModifiedAt(end)

	if d := EventDescription(c, start); d != "" {
		ev.SetDescription(d)
	}
}

// EventDescription assembles the multi-line event description from the
// shout, the days-since-last-visit note and the mayor note. Returns ""
// when none apply.
func EventDescription(c foursquare.Checkin, start time.Time) string {
	var lines []string
	if c.Shout != "" {
		lines = append(lines, c.Shout)
	}
	if c.BeenHere != nil && c.BeenHere.LastCheckinExpiredAt > 0 {
		expired := time.Unix(c.BeenHere.LastCheckinExpiredAt, 0)
		days := int(start.Sub(expired).Hours() / 24)
		lines = append(lines, fmt.Sprintf("It has been %d days since you last checked in here.", days))
	}
	if c.IsMayor {
		lines = append(lines, mayorNote)
	}
	return strings.Join(lines, "\n")
}

// EventLocation is the venue name, followed by the comma-joined formatted
// address when one exists.
func EventLocation(c foursquare.Checkin) string {
	location := c.Venue.Name
	if c.Venue.Location != nil && len(c.Venue.Location.FormattedAddress) > 0 {
		location += ", " + strings.Join(c.Venue.Location.FormattedAddress, ", ")
	}
	return location
}

// WriteFile serializes the calendar and writes it whole to path, returning
// the path written.
func WriteFile(cal *ical.Calendar, path string) (string, error) {
	if err := os.WriteFile(path, []byte(cal.Serialize()), 0o644); err != nil {
		return "", fmt.Errorf("writing calendar file: %w", err)
	}
	return path, nil
}
