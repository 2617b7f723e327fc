// Package caldav syncs mapped checkin events to a remote CalDAV calendar.
package caldav

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	ical "github.com/arran4/golang-ical"
	"github.com/emersion/go-webdav"
	"github.com/emersion/go-webdav/caldav"

	"github.com/nikdoof/foursquare-feeds/internal/config"
	"github.com/nikdoof/foursquare-feeds/internal/feed"
	applog "github.com/nikdoof/foursquare-feeds/internal/log"
)

// The client library covers discovery, listing and object upload; calendar
// creation goes through a raw MKCALENDAR on the same authenticated client.
const mkcalendarBody = `<?xml version="1.0" encoding="utf-8"?>
<C:mkcalendar xmlns:D="DAV:" xmlns:C="urn:ietf:params:xml:ns:caldav">
  <D:set>
    <D:prop>
      <D:displayname>%s</D:displayname>
    </D:prop>
  </D:set>
</C:mkcalendar>`

// Syncer uploads calendar events to a CalDAV server, one PUT per event.
type Syncer struct {
	base         *url.URL
	calendarName string
	httpClient   webdav.HTTPClient
	client       *caldav.Client
}

// NewSyncer builds a Syncer from CalDAV configuration. The credentials are
// used as HTTP Basic Auth for every request.
func NewSyncer(cfg config.CalDAVConfig) (*Syncer, error) {
	base, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing caldav url: %w", err)
	}

	httpClient := webdav.HTTPClientWithBasicAuth(nil, cfg.Username, cfg.Password)
	client, err := caldav.NewClient(httpClient, cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("creating caldav client: %w", err)
	}

	return &Syncer{
		base:         base,
		calendarName: cfg.CalendarName,
		httpClient:   httpClient,
		client:       client,
	}, nil
}

// Sync resolves the target calendar (creating it if absent) and uploads
// every event in cal. Uploads are sequential; the first failure aborts and
// previously-uploaded events stay committed.
func (s *Syncer) Sync(ctx context.Context, cal *ical.Calendar) error {
	calendarPath, err := s.findOrCreateCalendar(ctx)
	if err != nil {
		return err
	}

	events := cal.Events()
	applog.Debug("calendar has events", "count", len(events))

	for _, ev := range events {
		// Each event must have a unique, repeatable UID so that re-syncing
		// overwrites instead of duplicating.
		uid := feed.EnsureUID(ev)
		applog.Debug("uploading event", "uid", uid)
		if err := s.putEvent(ctx, calendarPath, uid, ev); err != nil {
			return fmt.Errorf("uploading event %s: %w", uid, err)
		}
	}

	return nil
}

func (s *Syncer) findOrCreateCalendar(ctx context.Context) (string, error) {
	principal, err := s.client.FindCurrentUserPrincipal(ctx)
	if err != nil {
		return "", fmt.Errorf("finding principal: %w", err)
	}
	homeSet, err := s.client.FindCalendarHomeSet(ctx, principal)
	if err != nil {
		return "", fmt.Errorf("finding calendar home set: %w", err)
	}

	calendars, err := s.client.FindCalendars(ctx, homeSet)
	if err != nil {
		return "", fmt.Errorf("listing calendars: %w", err)
	}
	applog.Debug("found calendars on the server", "count", len(calendars))

	for _, c := range calendars {
		if strings.TrimSpace(c.Name) == s.calendarName {
			applog.Info("found existing calendar", "name", c.Name, "path", c.Path)
			return c.Path, nil
		}
	}

	applog.Info("creating new calendar", "name", s.calendarName)
	return s.createCalendar(ctx, homeSet)
}

func (s *Syncer) createCalendar(ctx context.Context, homeSet string) (string, error) {
	path := strings.TrimSuffix(homeSet, "/") + "/" + slugify(s.calendarName) + "/"
	body := fmt.Sprintf(mkcalendarBody, xmlEscape(s.calendarName))

	resp, err := s.do(ctx, "MKCALENDAR", path, "application/xml; charset=utf-8", body)
	if err != nil {
		return "", fmt.Errorf("creating calendar: %w", err)
	}
	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("creating calendar: server returned %s", resp.Status)
	}
	return path, nil
}

func (s *Syncer) putEvent(ctx context.Context, calendarPath, uid string, ev *ical.VEvent) error {
	doc := ical.NewCalendar()
	doc.AddVEvent(ev)

	path := strings.TrimSuffix(calendarPath, "/") + "/" + url.PathEscape(uid) + ".ics"
	resp, err := s.do(ctx, http.MethodPut, path, "text/calendar; charset=utf-8", doc.Serialize())
	if err != nil {
		return err
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("server returned %s", resp.Status)
	}
	return nil
}

// do issues a request against a server-absolute path, draining and closing
// the response body so the returned response only carries status.
func (s *Syncer) do(ctx context.Context, method, path, contentType, body string) (*http.Response, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return nil, err
	}
	target := s.base.ResolveReference(ref).String()

	req, err := http.NewRequestWithContext(ctx, method, target, strings.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return resp, nil
}

// slugify turns a calendar display name into a collection path segment.
func slugify(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteByte('-')
		}
	}
	if b.Len() == 0 {
		return "calendar"
	}
	return b.String()
}

func xmlEscape(s string) string {
	r := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		"\"", "&quot;",
		"'", "&apos;",
	)
	return r.Replace(s)
}
