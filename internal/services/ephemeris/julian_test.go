package ephemeris

import (
	"testing"
	"time"

	"github.com/soniakeys/meeus/v3/deltat"
	"github.com/stretchr/testify/assert"
)

func TestBirthMomentJulianDay(t *testing.T) {
	tests := []struct {
		name string
		in   BirthMoment
		want float64
	}{
		{"j2000 at utc", BirthMoment{Year: 2000, Month: 1, Day: 1, Hour: 12, TZOffsetHours: 0}, 2451545.0},
		{"j2000 in utc+8", BirthMoment{Year: 2000, Month: 1, Day: 1, Hour: 20, TZOffsetHours: 8}, 2451545.0},
		{"underflows into previous day", BirthMoment{Year: 2000, Month: 1, Day: 1, Hour: 3, TZOffsetHours: 8}, 2451544.5 - 5.0/24},
		{"minutes", BirthMoment{Year: 2000, Month: 1, Day: 1, Hour: 12, Minute: 30}, 2451545.0 + 0.5/24},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.in.JulianDayUT(), 1e-9)
		})
	}
}

func TestBirthMomentUTC(t *testing.T) {
	b := BirthMoment{Year: 2000, Month: 1, Day: 1, Hour: 3, Minute: 15, TZOffsetHours: 8}
	assert.Equal(t, time.Date(1999, 12, 31, 19, 15, 0, 0, time.UTC), b.UTC())
}

func TestDeltaT(t *testing.T) {
	jd := func(year float64) float64 { return j2000 + (year-2000)*daysPerJulianYear }

	cases := []struct {
		year float64
		want float64
	}{
		{500, deltat.PolyBefore948(500).Sec()},
		{1200, deltat.Poly948to1600(1200).Sec()},
		{1650, deltat.Interp10A(jd(1650)).Sec()},
		{1800, deltat.Interp10A(jd(1800)).Sec()},
		{1990, deltat.Interp10A(jd(1990)).Sec()},
		{2005, deltat.Interp10A(jd(2005)).Sec()},
		{2020, deltat.PolyAfter2000(2020).Sec()},
	}
	for _, tc := range cases {
		assert.InDelta(t, tc.want, deltaT(jd(tc.year)), 1e-6, "year %v", tc.year)
	}

	// tabulated 1990 value is 56.86s
	assert.InDelta(t, 56.9, deltaT(jd(1990)), 0.5)
	assert.InDelta(t, jd(1990)+deltaT(jd(1990))/secondsPerDay, toTT(jd(1990)), 1e-12)
}
