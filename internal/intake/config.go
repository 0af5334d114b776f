package intake

import (
	"fmt"
	"time"

	_ "time/tzdata"
)

// Config controls how notifications look.
type Config struct {
	Timezone   string `env:"NOTIFY_TIMEZONE" envDefault:"Asia/Kolkata"`
	TimeLayout string `env:"NOTIFY_TIME_LAYOUT" envDefault:"2/1/2006, 3:04:05 pm"`
	Brand      string `env:"NOTIFY_BRAND" envDefault:"Form Relay"`
	Tag        string `env:"NOTIFY_TAG" envDefault:"form-submission"`
}

// Location loads the configured time zone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: timezone %q: %w", ErrInvalidConfig, c.Timezone, err)
	}
	return loc, nil
}
