package chart

import (
	"errors"
	"fmt"

	"AstroChart/internal/domain/astro"
)

// ErrNoHouse is returned when no cusp interval contains a longitude,
// which only happens with malformed cusp data.
var ErrNoHouse = errors.New("chart: no house contains degree")

// FallbackHouse is reported by FindHouse when the cusps do not cover a degree.
const FallbackHouse = 12

// SignOf returns the zodiac sign containing deg, which must be in [0,360).
func SignOf(deg float64) (astro.Sign, error) {
	if deg < 0 || deg >= 360 {
		return 0, fmt.Errorf("%w: %v", astro.ErrDegreeOutOfRange, deg)
	}
	return astro.Sign(int(deg / astro.SignWidth)), nil
}

// LocateHouse returns the 1-based house whose interval contains deg.
// A house whose cusp is greater than the next cusp wraps across 0°.
func LocateHouse(deg float64, cusps astro.Cusps) (int, error) {
	for i := 0; i < astro.HouseCount; i++ {
		cusp := cusps[i]
		next := cusps[(i+1)%astro.HouseCount]
		if cusp <= deg && deg < next {
			return i + 1, nil
		}
		if cusp > next && (deg >= cusp || deg < next) {
			return i + 1, nil
		}
	}
	return 0, fmt.Errorf("%w: %v", ErrNoHouse, deg)
}

// FindHouse is LocateHouse with the house-12 default for unmatched degrees.
func FindHouse(deg float64, cusps astro.Cusps) int {
	h, err := LocateHouse(deg, cusps)
	if err != nil {
		return FallbackHouse
	}
	return h
}
