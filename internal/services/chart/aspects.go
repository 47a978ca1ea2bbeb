package chart

import (
	"math"

	"AstroChart/internal/domain/astro"
)

// Position is a body's longitude. Known is false when the body could not be resolved.
type Position struct {
	Body      astro.Body
	Longitude float64
	Known     bool
}

// AspectMatch is a detected aspect between A and B.
// Separation is the shortest arc between the bodies, in [0,180].
type AspectMatch struct {
	A, B       astro.Body
	Kind       astro.AspectKind
	Separation float64
}

// Separation returns the shortest arc between two longitudes.
func Separation(a, b float64) float64 {
	d := math.Abs(a - b)
	if d > 180 {
		d = 360 - d
	}
	return d
}

// DetectAspects returns every pair within orb of a canonical aspect angle.
// Pairs follow the order of positions. Each angle is tested on its own, so a
// pair could match twice if orb reached half the gap between two angles.
func DetectAspects(positions []Position, orb float64) []AspectMatch {
	var out []AspectMatch
	for i := 0; i < len(positions); i++ {
		a := positions[i]
		if !a.Known {
			continue
		}
		for j := i + 1; j < len(positions); j++ {
			b := positions[j]
			if !b.Known || a.Body == b.Body {
				continue
			}
			sep := Separation(a.Longitude, b.Longitude)
			for _, kind := range astro.AspectKinds() {
				if math.Abs(sep-kind.Angle()) <= orb {
					out = append(out, AspectMatch{A: a.Body, B: b.Body, Kind: kind, Separation: sep})
				}
			}
		}
	}
	return out
}
