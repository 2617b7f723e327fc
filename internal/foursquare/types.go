package foursquare

import (
	"strings"
	"time"
)

// User is the authenticated user's profile, as returned by the
// /users/self endpoint. Only the fields the feeds need are decoded.
type User struct {
	ID           string `json:"id"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	CanonicalURL string `json:"canonicalUrl"`
}

// FullName joins the user's first and last names.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// VenueLocation carries a venue's coordinates and optional address lines.
type VenueLocation struct {
	Lat              float64  `json:"lat"`
	Lng              float64  `json:"lng"`
	FormattedAddress []string `json:"formattedAddress"`
}

// Venue is a named place attached to a checkin.
type Venue struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Location *VenueLocation `json:"location"`
}

// BeenHere describes prior visits to the checkin's venue.
type BeenHere struct {
	LastCheckinExpiredAt int64 `json:"lastCheckinExpiredAt"`
}

// Checkin is a single checkin record. Optional API fields are pointers or
// zero-value-detectable; some checkins carry nothing beyond id, createdAt
// and source, and those cannot be mapped to events.
type Checkin struct {
	ID        string `json:"id"`
	CreatedAt int64  `json:"createdAt"`
	// TimeZoneOffset is minutes from UTC at the venue.
	TimeZoneOffset int       `json:"timeZoneOffset"`
	Shout          string    `json:"shout"`
	Private        bool      `json:"private"`
	IsMayor        bool      `json:"isMayor"`
	BeenHere       *BeenHere `json:"beenHere"`
	Venue          *Venue    `json:"venue"`
}

// HasVenue reports whether the checkin carries enough venue data to map.
func (c Checkin) HasVenue() bool {
	return c.Venue != nil && c.Venue.Name != ""
}

// Zone returns the fixed-offset location of the checkin's venue.
func (c Checkin) Zone() *time.Location {
	return time.FixedZone("", c.TimeZoneOffset*60)
}

// CreatedTime is the checkin's creation instant rendered in the venue's
// own UTC offset rather than the caller's local zone.
func (c Checkin) CreatedTime() time.Time {
	return time.Unix(c.CreatedAt, 0).In(c.Zone())
}
