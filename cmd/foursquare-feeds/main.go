package main

import (
	"context"
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/nikdoof/foursquare-feeds/internal/app"
	"github.com/nikdoof/foursquare-feeds/internal/config"
	applog "github.com/nikdoof/foursquare-feeds/internal/log"
)

// verbosity counts repeated -v flags.
var verbosity int

func run(ctx context.Context, cmd *cli.Command) error {
	switch {
	case verbosity >= 2:
		applog.Init(applog.LevelDebug, true)
	case verbosity == 1:
		applog.Init(applog.LevelDebug, false)
	default:
		applog.Init(applog.LevelInfo, false)
	}
	defer applog.Sync()

	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	return app.Run(ctx, app.Options{
		Config:   cfg,
		FetchAll: cmd.Bool("all"),
		Kind:     cmd.String("kind"),
	})
}

func main() {
	cmd := &cli.Command{
		Name:   "foursquare-feeds",
		Usage:  "Makes an .ics file, a .kml file or a CalDAV sync from your Foursquare/Swarm checkins",
		Action: run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file",
				Value:   "config.yaml",
				Sources: cli.EnvVars("FOURSQUARE_FEEDS_CONFIG"),
			},
			&cli.BoolFlag{
				Name:  "all",
				Usage: "Fetch all checkins, not only the most recent",
			},
			&cli.StringFlag{
				Name:    "kind",
				Aliases: []string{"k"},
				Usage:   "Either ics, kml, or caldav",
				Value:   app.KindICS,
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "-v for debug output; -vv for prettier debug output",
				Config:  cli.BoolConfig{Count: &verbosity},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		applog.Error("run failed", err)
		applog.Sync()
		os.Exit(1)
	}
}
