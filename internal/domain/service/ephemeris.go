package service

import (
	"context"
	"errors"

	"AstroChart/internal/domain/astro"
)

// ErrEphemerisUnavailable is returned when the ephemeris data is not loaded.
var ErrEphemerisUnavailable = errors.New("ephemeris: data unavailable")

// ErrOutOfRange is returned when a body's theory does not cover the date.
var ErrOutOfRange = errors.New("ephemeris: date outside theory range")

// Angles are the house cusps and chart angles for a moment and place.
type Angles struct {
	Cusps     astro.Cusps
	Ascendant float64
	Midheaven float64
	// System is the house system actually used, which may differ from the
	// requested one when the requested system is undefined at the latitude.
	System astro.HouseSystem
}

// Ephemeris computes positions for a Julian day (UT).
type Ephemeris interface {
	// Name returns the provider name for logging.
	Name() string

	// Houses computes cusps and angles for geographic latitude/longitude in degrees (east positive).
	Houses(ctx context.Context, jdUT, lat, lon float64, system astro.HouseSystem) (Angles, error)

	// Longitude returns the apparent geocentric ecliptic longitude of body in [0,360).
	// ErrOutOfRange means the body cannot be placed at that date.
	Longitude(ctx context.Context, jdUT float64, body astro.Body) (float64, error)

	// Supports reports whether the provider can compute body.
	Supports(body astro.Body) bool
}
