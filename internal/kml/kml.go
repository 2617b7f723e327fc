// Package kml renders checkin history as a KML document, one point feature
// per checkin, in the shape of Foursquare's original KML feeds.
package kml

import (
	"fmt"
	"os"
	"strings"

	kml "github.com/twpayne/go-kml/v2"

	"github.com/nikdoof/foursquare-feeds/internal/foursquare"
	applog "github.com/nikdoof/foursquare-feeds/internal/log"
)

// Build returns the KML document. Checkins without venue data yield no
// placemark.
func Build(checkins []foursquare.Checkin, user foursquare.User) *kml.CompoundElement {
	// The original Foursquare files had a Folder with name and description
	// like this.
	title := "foursquare checkin history for " + user.FullName()
	folder := kml.Folder(
		kml.Name(title),
		kml.Description(title),
	)

	for _, c := range checkins {
		if !c.HasVenue() {
			applog.Debug("skipping checkin without venue", "id", c.ID)
			continue
		}
		folder.Add(placemark(c))
	}

	return kml.KML(folder)
}

func placemark(c foursquare.Checkin) kml.Element {
	children := []kml.Element{
		kml.Name(c.Venue.Name),
		kml.Visibility(!c.Private),
		kml.Description(pointDescription(c)),
		kml.TimeStamp(kml.When(c.CreatedTime())),
	}

	if loc := c.Venue.Location; loc != nil {
		// The serializer escapes character data itself, ampersands in
		// addresses included, so the address goes through raw.
		if len(loc.FormattedAddress) > 0 {
			children = append(children, kml.Address(strings.Join(loc.FormattedAddress, ", ")))
		}
		// relativeToGround and extrude were set like this in Foursquare's
		// original KML.
		children = append(children, kml.Point(
			kml.Extrude(true),
			kml.AltitudeMode(kml.AltitudeModeRelativeToGround),
			kml.Coordinates(kml.Coordinate{Lon: loc.Lng, Lat: loc.Lat}),
		))
	}

	return kml.Placemark(children...)
}

func pointDescription(c foursquare.Checkin) string {
	venueURL := "https://foursquare.com/v/" + c.Venue.ID
	lines := []string{
		fmt.Sprintf("@<a href=\"%s\">%s</a>", venueURL, c.Venue.Name),
	}
	if c.Shout != "" {
		lines = append(lines, "\""+c.Shout+"\"")
	}
	lines = append(lines, "Timezone offset: "+c.CreatedTime().Format("-07:00"))
	return strings.Join(lines, "\n")
}

// WriteFile writes the document whole to path, returning the path written.
func WriteFile(doc *kml.CompoundElement, path string) (string, error) {
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating kml file: %w", err)
	}

	if err := doc.WriteIndent(f, "", "  "); err != nil {
		f.Close()
		return "", fmt.Errorf("writing kml file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return path, nil
}
