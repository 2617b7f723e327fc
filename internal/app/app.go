// Package app wires the fetch mode, the calendar builder and the selected
// output sink into a single run.
package app

import (
	"context"
	"fmt"

	"github.com/nikdoof/foursquare-feeds/internal/caldav"
	"github.com/nikdoof/foursquare-feeds/internal/config"
	"github.com/nikdoof/foursquare-feeds/internal/feed"
	"github.com/nikdoof/foursquare-feeds/internal/foursquare"
	"github.com/nikdoof/foursquare-feeds/internal/kml"
	applog "github.com/nikdoof/foursquare-feeds/internal/log"
)

// The kinds of feed we can generate.
const (
	KindICS    = "ics"
	KindKML    = "kml"
	KindCalDAV = "caldav"
)

// ValidKinds lists the accepted values for the kind selector.
var ValidKinds = []string{KindICS, KindKML, KindCalDAV}

// Options selects what a run fetches and where it goes.
type Options struct {
	Config *config.Config
	// FetchAll pages through the entire history instead of the most
	// recent page.
	FetchAll bool
	Kind     string
}

// ValidateKind checks the output selector and the config keys that kind
// requires, before any network call.
func ValidateKind(cfg *config.Config, kind string) error {
	switch kind {
	case KindICS:
		return cfg.ValidateICS()
	case KindKML:
		return cfg.ValidateKML()
	case KindCalDAV:
		return cfg.ValidateCalDAV()
	default:
		return fmt.Errorf("kind should be one of ics, kml, caldav; got %q", kind)
	}
}

// Run fetches checkins and routes them to the selected sink. Any error is
// returned to the caller, which owns process termination.
func Run(ctx context.Context, opts Options) error {
	cfg := opts.Config

	if err := ValidateKind(cfg, opts.Kind); err != nil {
		return err
	}

	client := foursquare.NewClient(cfg.Foursquare.AccessToken)

	var (
		checkins []foursquare.Checkin
		err      error
	)
	if opts.FetchAll {
		checkins, err = client.CheckinsAll(ctx)
	} else {
		checkins, err = client.CheckinsRecent(ctx)
	}
	if err != nil {
		return err
	}
	applog.Info("fetched checkins from the API", "count", len(checkins))

	// Current-user lookup happens once per run; the canonical URL feeds the
	// per-event deep links.
	user, err := client.CurrentUser(ctx)
	if err != nil {
		return err
	}

	switch opts.Kind {
	case KindICS:
		cal := feed.NewBuilder(user).Build(checkins)
		path, err := feed.WriteFile(cal, cfg.Local.IcsFilepath)
		if err != nil {
			return err
		}
		applog.Info("generated file", "path", path)

	case KindKML:
		doc := kml.Build(checkins, user)
		path, err := kml.WriteFile(doc, cfg.Local.KmlFilepath)
		if err != nil {
			return err
		}
		applog.Info("generated file", "path", path)

	case KindCalDAV:
		cal := feed.NewBuilder(user).Build(checkins)
		syncer, err := caldav.NewSyncer(cfg.CalDAV)
		if err != nil {
			return err
		}
		if err := syncer.Sync(ctx, cal); err != nil {
			return err
		}
		applog.Info("synced calendar", "name", cfg.CalDAV.CalendarName)
	}

	return nil
}
