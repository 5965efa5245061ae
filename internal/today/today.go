// Package today supplies the reference date the command layer passes into
// every date-sensitive calculation.
package today

import (
	"fmt"
	"os"
	"time"

	"github.com/zzpboek/zzpbtw/internal/period"
)

// EnvVar overrides the system date when set to YYYY-MM-DD.
const EnvVar = "ZZPBTW_CURRENT_DATE"

// Provider returns the current calendar date.
type Provider interface {
	Today() time.Time
}

// System reads the wall clock in the local time zone.
type System struct{}

func (System) Today() time.Time {
	now := time.Now()
	return period.Date(now.Year(), now.Month(), now.Day())
}

// Fixed always returns the same date.
type Fixed time.Time

func (f Fixed) Today() time.Time {
	return period.Day(time.Time(f))
}

// FromEnv returns a Fixed provider when EnvVar is set and System otherwise.
func FromEnv() (Provider, error) {
	p, err := FromValue(os.Getenv(EnvVar))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", EnvVar, err)
	}
	return p, nil
}

// FromValue parses an override date; empty means the system clock.
func FromValue(v string) (Provider, error) {
	if v == "" {
		return System{}, nil
	}
	d, err := period.ParseDate(v)
	if err != nil {
		return nil, err
	}
	return Fixed(d), nil
}
