package config

import (
	"errors"
	"fmt"
	"os"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"gopkg.in/yaml.v3"
)

// DefaultCalendarName is used when caldav.calendar_name is not set.
const DefaultCalendarName = "Foursquare"

// accessTokenEnv overrides foursquare.access_token when set.
const accessTokenEnv = "FOURSQUARE_ACCESS_TOKEN"

// FoursquareConfig holds the Foursquare API credentials.
type FoursquareConfig struct {
	// AccessToken is an OAuth token for the Foursquare v2 API.
	AccessToken string `yaml:"access_token"`
}

// LocalConfig holds output paths for the file-based feeds.
type LocalConfig struct {
	IcsFilepath string `yaml:"ics_filepath"`
	KmlFilepath string `yaml:"kml_filepath"`
}

// CalDAVConfig holds connection settings for the remote calendar sync.
type CalDAVConfig struct {
	URL      string `yaml:"url"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	// CalendarName is the display name of the target calendar on the
	// server. It is created if no calendar matches.
	CalendarName string `yaml:"calendar_name"`
}

// Config is the top-level application configuration.
type Config struct {
	Foursquare FoursquareConfig `yaml:"foursquare"`
	Local      LocalConfig      `yaml:"local"`
	CalDAV     CalDAVConfig     `yaml:"caldav"`
}

// Normalize fills in missing values with defaults so that partially-filled
// configs still behave correctly.
func (c *Config) Normalize() {
	if c.CalDAV.CalendarName == "" {
		c.CalDAV.CalendarName = DefaultCalendarName
	}
	if tok := os.Getenv(accessTokenEnv); tok != "" {
		c.Foursquare.AccessToken = tok
	}
}

// Validate checks the settings every run needs regardless of output kind.
func (c *Config) Validate() error {
	return validation.ValidateStruct(&c.Foursquare,
		validation.Field(&c.Foursquare.AccessToken, validation.Required),
	)
}

// ValidateICS checks the settings the calendar-file sink needs.
func (c *Config) ValidateICS() error {
	return validation.ValidateStruct(&c.Local,
		validation.Field(&c.Local.IcsFilepath, validation.Required),
	)
}

// ValidateKML checks the settings the geo-markup sink needs.
func (c *Config) ValidateKML() error {
	return validation.ValidateStruct(&c.Local,
		validation.Field(&c.Local.KmlFilepath, validation.Required),
	)
}

// ValidateCalDAV checks the settings the remote sync sink needs.
func (c *Config) ValidateCalDAV() error {
	return validation.ValidateStruct(&c.CalDAV,
		validation.Field(&c.CalDAV.URL, validation.Required, is.URL),
		validation.Field(&c.CalDAV.Username, validation.Required),
		validation.Field(&c.CalDAV.Password, validation.Required),
		validation.Field(&c.CalDAV.CalendarName, validation.Required),
	)
}

// Load reads configuration from the given YAML path. A missing or unreadable
// file is an error; this tool has no sensible first-run defaults to write.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	cfg.Normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}
