package chart

import (
	"AstroChart/internal/domain/astro"
)

// RulerPlacement is the ruler lookup for one house.
// RulerSign and RulerHouse are meaningful only when Known is true.
type RulerPlacement struct {
	House      int
	CuspSign   astro.Sign
	Ruler      astro.Body
	RulerSign  astro.Sign
	RulerHouse int
	Known      bool
}

// ResolveHouseRulers maps each house cusp to its ruling body and that body's own placement.
// Rulers missing from positions are reported with Known set to false.
func ResolveHouseRulers(cusps astro.Cusps, positions []Position, scheme astro.RulerScheme) ([]RulerPlacement, error) {
	index := make(map[astro.Body]Position, len(positions))
	for _, p := range positions {
		index[p.Body] = p
	}

	out := make([]RulerPlacement, 0, astro.HouseCount)
	for i, cusp := range cusps {
		sign, err := SignOf(astro.Normalize(cusp))
		if err != nil {
			return nil, err
		}
		rp := RulerPlacement{
			House:    i + 1,
			CuspSign: sign,
			Ruler:    scheme.Ruler(sign),
		}
		if pos, ok := index[rp.Ruler]; ok && pos.Known {
			rs, err := SignOf(pos.Longitude)
			if err != nil {
				return nil, err
			}
			rp.RulerSign = rs
			rp.RulerHouse = FindHouse(pos.Longitude, cusps)
			rp.Known = true
		}
		out = append(out, rp)
	}
	return out, nil
}
