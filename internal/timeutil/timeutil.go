// Package timeutil handles the timezone arithmetic of visit scheduling:
// offset-qualified timestamps come in over the wire, get rebased into a
// doctor's canonical IANA zone, and are rendered back with whatever offset
// that zone has at the instant in question.
package timeutil

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidTimestamp means the input could not be parsed as an
	// ISO-8601 timestamp with a UTC offset.
	ErrInvalidTimestamp = errors.New("invalid timestamp")

	// ErrUnknownTimezone means the zone identifier is not a recognized
	// IANA timezone.
	ErrUnknownTimezone = errors.New("unknown timezone")
)

// LoadZone resolves an IANA zone identifier.
func LoadZone(name string) (*time.Location, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTimezone, name)
	}
	return loc, nil
}

// ParseInZone parses an RFC3339 timestamp carrying a UTC offset and rebases
// it into loc. The offset only affects parsing; the returned value is the
// same absolute instant expressed in loc.
func ParseInZone(raw string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, raw)
	}
	return t.In(loc), nil
}

// FormatInZone renders an absolute instant as RFC3339 in the named zone,
// using the numeric offset the zone has at that instant. The same instant
// renders with different offsets across DST transitions.
func FormatInZone(t time.Time, zone string) (string, error) {
	loc, err := LoadZone(zone)
	if err != nil {
		return "", err
	}
	return t.In(loc).Format(time.RFC3339), nil
}
