package ephemeris

import "github.com/soniakeys/meeus/v3/deltat"

const (
	j2000             = 2451545.0
	daysPerJulianYear = 365.25
	secondsPerDay     = 86400.0
)

// deltaT returns TT-UT in seconds at the Julian day jd. Table 10.A covers
// 1620-2010; the era polynomials cover the rest.
func deltaT(jd float64) float64 {
	y := decimalYear(jd)
	switch {
	case y < 948:
		return deltat.PolyBefore948(y).Sec()
	case y < 1620:
		return deltat.Poly948to1600(y).Sec()
	case y < 2010:
		return deltat.Interp10A(jd).Sec()
	default:
		return deltat.PolyAfter2000(y).Sec()
	}
}

func decimalYear(jd float64) float64 {
	return 2000 + (jd-j2000)/daysPerJulianYear
}

// toTT converts a UT Julian day to a Julian Ephemeris Day.
func toTT(jdUT float64) float64 {
	return jdUT + deltaT(jdUT)/secondsPerDay
}
