package ephemeris

import (
	"fmt"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

// BirthMoment is a civil birth date and clock time in a fixed-offset zone.
type BirthMoment struct {
	Year, Month, Day int
	Hour, Minute     int
	// TZOffsetHours is the zone's offset east of Greenwich.
	TZOffsetHours float64
}

// JulianDayUT returns the Julian day (UT) of the moment. The hour may underflow
// into the previous day after the zone offset is removed, which the Julian
// day arithmetic absorbs.
func (b BirthMoment) JulianDayUT() float64 {
	hourUT := float64(b.Hour) - b.TZOffsetHours + float64(b.Minute)/60
	return julian.CalendarGregorianToJD(b.Year, b.Month, float64(b.Day)+hourUT/24)
}

// UTC returns the moment as a UTC time.
func (b BirthMoment) UTC() time.Time {
	zone := time.FixedZone(fmt.Sprintf("UTC%+g", b.TZOffsetHours), int(b.TZOffsetHours*3600))
	return time.Date(b.Year, time.Month(b.Month), b.Day, b.Hour, b.Minute, 0, 0, zone).UTC()
}
