package app

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nikdoof/foursquare-feeds/internal/config"
)

func TestValidateKind(t *testing.T) {
	cfg := &config.Config{
		Foursquare: config.FoursquareConfig{AccessToken: "tok"},
		Local: config.LocalConfig{
			IcsFilepath: "feed.ics",
			KmlFilepath: "feed.kml",
		},
	}
	cfg.Normalize()

	require.NoError(t, ValidateKind(cfg, KindICS))
	require.NoError(t, ValidateKind(cfg, KindKML))

	// CalDAV settings are absent, so that kind must fail early.
	require.Error(t, ValidateKind(cfg, KindCalDAV))

	err := ValidateKind(cfg, "pdf")
	require.ErrorContains(t, err, "kind should be one of")
}

func TestValidateKindMissingPaths(t *testing.T) {
	cfg := &config.Config{Foursquare: config.FoursquareConfig{AccessToken: "tok"}}
	cfg.Normalize()

	require.Error(t, ValidateKind(cfg, KindICS))
	require.Error(t, ValidateKind(cfg, KindKML))
}
