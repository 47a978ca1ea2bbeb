package astro

import (
	"errors"
	"fmt"
	"math"
)

// ErrDegreeOutOfRange is returned when a longitude is outside [0,360).
var ErrDegreeOutOfRange = errors.New("astro: degree out of range [0,360)")

// Sign is one of the twelve tropical zodiac signs, ordered from 0° Aries.
type Sign int

const (
	Aries Sign = iota
	Taurus
	Gemini
	Cancer
	Leo
	Virgo
	Libra
	Scorpio
	Sagittarius
	Capricorn
	Aquarius
	Pisces
)

// SignCount is the number of zodiac signs.
const SignCount = 12

// SignWidth is the arc covered by each sign, in degrees.
const SignWidth = 30.0

// Locale selects the label set used in responses.
type Locale string

const (
	LocaleZhTW Locale = "zh-TW"
	LocaleEN   Locale = "en"
)

var signLabels = map[Locale][SignCount]string{
	LocaleZhTW: {"牡羊座", "金牛座", "雙子座", "巨蟹座", "獅子座", "處女座", "天秤座", "天蠍座", "射手座", "摩羯座", "水瓶座", "雙魚座"},
	LocaleEN:   {"Aries", "Taurus", "Gemini", "Cancer", "Leo", "Virgo", "Libra", "Scorpio", "Sagittarius", "Capricorn", "Aquarius", "Pisces"},
}

var unknownLabels = map[Locale]string{
	LocaleZhTW: "未知",
	LocaleEN:   "unknown",
}

// Signs returns all signs in zodiac order.
func Signs() []Sign {
	out := make([]Sign, SignCount)
	for i := range out {
		out[i] = Sign(i)
	}
	return out
}

// Valid reports whether s is one of the twelve signs.
func (s Sign) Valid() bool { return s >= Aries && s <= Pisces }

// Label returns the display name of s in locale l. Unknown locales fall back to zh-TW.
func (s Sign) Label(l Locale) string {
	if !s.Valid() {
		return UnknownLabel(l)
	}
	labels, ok := signLabels[l]
	if !ok {
		labels = signLabels[LocaleZhTW]
	}
	return labels[s]
}

func (s Sign) String() string { return s.Label(LocaleEN) }

// StartDegree is the ecliptic longitude at which s begins.
func (s Sign) StartDegree() float64 { return float64(s) * SignWidth }

// SignFromLabel resolves a sign from its label in any supported locale.
func SignFromLabel(label string) (Sign, error) {
	for _, labels := range signLabels {
		for i, l := range labels {
			if l == label {
				return Sign(i), nil
			}
		}
	}
	return 0, fmt.Errorf("astro: unknown sign label %q", label)
}

// UnknownLabel is the sentinel reported when a placement cannot be resolved.
func UnknownLabel(l Locale) string {
	if v, ok := unknownLabels[l]; ok {
		return v
	}
	return unknownLabels[LocaleZhTW]
}

// ValidLocale reports whether l has a label set.
func ValidLocale(l Locale) bool {
	_, ok := signLabels[l]
	return ok
}

// Normalize maps any finite longitude into [0,360).
func Normalize(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	// math.Mod(-1e-15, 360)+360 rounds to 360
	if d >= 360 {
		d = 0
	}
	return d
}
