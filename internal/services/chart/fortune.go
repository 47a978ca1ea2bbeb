package chart

import "AstroChart/internal/domain/astro"

// PartOfFortune returns (ascendant + moon - sun) mod 360.
func PartOfFortune(asc, moon, sun float64) float64 {
	return astro.Normalize(asc + moon - sun)
}
