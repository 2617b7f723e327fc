package feed

import (
	"os"
	"testing"

	ical "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/require"
)

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func eventWithoutUID() *ical.VEvent {
	return ical.NewCalendar().AddEvent("")
}

func TestEnsureUIDKeepsExisting(t *testing.T) {
	ev := ical.NewCalendar().AddEvent("abc123")
	require.Equal(t, "abc123", EnsureUID(ev))
}

func TestEnsureUIDFromURL(t *testing.T) {
	ev := eventWithoutUID()
	ev.SetURL("https://foursquare.com/philgyford/checkin/abc123/")

	uid := EnsureUID(ev)
	require.Equal(t, "abc123@foursquare.com", uid)

	// Repeated derivation must be stable for safe re-sync.
	require.Equal(t, uid, EnsureUID(ev))

	again := eventWithoutUID()
	again.SetURL("https://foursquare.com/philgyford/checkin/abc123/")
	require.Equal(t, uid, EnsureUID(again))
}

func TestEnsureUIDFromSummary(t *testing.T) {
	ev := eventWithoutUID()
	ev.SetSummary("@ The Plough")
	require.Equal(t, "@ The Plough@foursquare.com", EnsureUID(ev))
}

func TestDeriveCheckinIDFromUIDPrefix(t *testing.T) {
	ev := ical.NewCalendar().AddEvent("abc123@somewhere.example")
	require.Equal(t, "abc123", deriveCheckinID(ev))
}
