package astro

// HouseCount is the number of houses in a chart.
const HouseCount = 12

// Cusps holds the twelve house cusp longitudes. Cusps[i] starts house i+1.
// The sequence wraps at 360°, so it is not monotonic in general.
type Cusps [HouseCount]float64

// HouseSystem selects how cusps are divided.
type HouseSystem string

const (
	HousePlacidus  HouseSystem = "placidus"
	HousePorphyry  HouseSystem = "porphyry"
	HouseEqual     HouseSystem = "equal"
	HouseWholeSign HouseSystem = "whole_sign"
)

// Valid reports whether h is a supported house system.
func (h HouseSystem) Valid() bool {
	switch h {
	case HousePlacidus, HousePorphyry, HouseEqual, HouseWholeSign:
		return true
	default:
		return false
	}
}
