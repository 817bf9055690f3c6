// Package catalog holds the station and source records the visibility engine
// computes over, plus a swap-in-place store for the active catalog.
//
// Records are immutable once loaded. The engine never parses catalog text
// formats; records arrive either from JSON files or from the API, already
// structured, and are validated here before any trigonometry runs.
package catalog

import (
	"errors"
	"fmt"

	"github.com/M-AKIMOTOO/uptimeplot/internal/transform"
)

// ErrInvalidCoordinate reports a station or source field outside its valid
// domain. It wraps enough context (record id, field, value) for a user-facing
// message.
var ErrInvalidCoordinate = errors.New("invalid coordinate")

// Station is a ground antenna station in geodetic coordinates.
// Longitude is east-positive in [-180, 180]; values in (180, 360] are
// accepted on input and normalized.
type Station struct {
	ID     string  `json:"id"`
	LatDeg float64 `json:"lat_deg"`
	LonDeg float64 `json:"lon_deg"`
	AltM   float64 `json:"alt_m"`
}

// Source is a fixed celestial radio source in equatorial coordinates.
// Right ascension is kept internally in decimal degrees [0, 360).
type Source struct {
	ID     string  `json:"id"`
	RADeg  float64 `json:"ra_deg"`
	DecDeg float64 `json:"dec_deg"`
}

// StationFromECEF builds a Station from a geocentric XYZ position in meters.
// VLBI station catalogs list antenna positions in this frame; the conversion
// to geodetic happens once here, not per sample.
func StationFromECEF(id string, x, y, z float64) Station {
	geo := transform.ECEFToGeodetic(x, y, z)
	return Station{
		ID:     id,
		LatDeg: geo.LatDeg,
		LonDeg: geo.LonDeg,
		AltM:   geo.AltM,
	}
}

// Validate checks the station fields against their valid domains.
func (s Station) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("station with empty id: %w", ErrInvalidCoordinate)
	}
	if s.LatDeg < -90 || s.LatDeg > 90 {
		return fmt.Errorf("station %s: latitude %.6f outside [-90, 90]: %w", s.ID, s.LatDeg, ErrInvalidCoordinate)
	}
	if s.LonDeg < -180 || s.LonDeg > 360 {
		return fmt.Errorf("station %s: longitude %.6f outside [-180, 360]: %w", s.ID, s.LonDeg, ErrInvalidCoordinate)
	}
	return nil
}

// Canonical returns the station with its longitude normalized into
// (-180, 180].
func (s Station) Canonical() Station {
	if s.LonDeg > 180 {
		s.LonDeg -= 360
	}
	return s
}

// Validate checks the source fields against their valid domains.
func (s Source) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("source with empty id: %w", ErrInvalidCoordinate)
	}
	if s.RADeg < 0 || s.RADeg >= 360 {
		return fmt.Errorf("source %s: right ascension %.6f outside [0, 360): %w", s.ID, s.RADeg, ErrInvalidCoordinate)
	}
	if s.DecDeg < -90 || s.DecDeg > 90 {
		return fmt.Errorf("source %s: declination %.6f outside [-90, 90]: %w", s.ID, s.DecDeg, ErrInvalidCoordinate)
	}
	return nil
}
