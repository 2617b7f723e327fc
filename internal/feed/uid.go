package feed

import (
	"strings"

	ical "github.com/arran4/golang-ical"
)

// uidDomain suffixes derived identifiers so they form globally-unique,
// repeatable UIDs across runs.
const uidDomain = "foursquare.com"

// EnsureUID returns the event's UID, deriving and setting a deterministic
// one when it is missing. Remote sync relies on the derivation being stable
// so that re-syncing the same checkin never duplicates the event.
func EnsureUID(ev *ical.VEvent) string {
	if p := ev.GetProperty(ical.ComponentPropertyUniqueId); p != nil && p.Value != "" {
		return p.Value
	}

	uid := deriveCheckinID(ev) + "@" + uidDomain
	ev.SetProperty(ical.ComponentPropertyUniqueId, uid)
	return uid
}

// deriveCheckinID recovers a checkin identifier from the event itself: the
// URL path segment after "checkin", else the UID portion before "@", else
// the summary.
func deriveCheckinID(ev *ical.VEvent) string {
	if p := ev.GetProperty(ical.ComponentPropertyUrl); p != nil && p.Value != "" {
		parts := strings.Split(strings.TrimRight(p.Value, "/"), "/")
		for i, part := range parts {
			if part == "checkin" && i+1 < len(parts) {
				return parts[i+1]
			}
		}
	}
	if p := ev.GetProperty(ical.ComponentPropertyUniqueId); p != nil && p.Value != "" {
		if i := strings.Index(p.Value, "@"); i > 0 {
			return p.Value[:i]
		}
	}
	if p := ev.GetProperty(ical.ComponentPropertySummary); p != nil {
		return p.Value
	}
	return ""
}
