package chart

import (
	"math"
	"strconv"

	"AstroChart/internal/domain/astro"
	"AstroChart/internal/domain/models"
	domsvc "AstroChart/internal/domain/service"
)

// Classified is a position with its sign and house.
// Fallback is set when the house came from FindHouse's default rather than a cusp match.
type Classified struct {
	Position
	Sign     astro.Sign
	House    int
	Fallback bool
}

// Classify assigns a sign and house to every known position.
func Classify(positions []Position, cusps astro.Cusps) ([]Classified, error) {
	out := make([]Classified, 0, len(positions))
	for _, p := range positions {
		c := Classified{Position: p}
		if p.Known {
			sign, err := SignOf(p.Longitude)
			if err != nil {
				return nil, err
			}
			c.Sign = sign
			h, err := LocateHouse(p.Longitude, cusps)
			if err != nil {
				h = FallbackHouse
				c.Fallback = true
			}
			c.House = h
		}
		out = append(out, c)
	}
	return out, nil
}

// Result is the raw output of one chart computation.
type Result struct {
	JulianDay float64
	Angles    domsvc.Angles
	Bodies    []Classified
	Aspects   []AspectMatch
	Rulers    []RulerPlacement
}

// Assemble converts a Result into the response shape, labelling signs in locale.
func Assemble(id string, r Result, locale astro.Locale) *models.Chart {
	unknown := astro.UnknownLabel(locale)

	c := &models.Chart{
		ID:          id,
		JulianDay:   r.JulianDay,
		HouseSystem: string(r.Angles.System),
		Ascendant:   Round2(r.Angles.Ascendant),
		Midheaven:   Round2(r.Angles.Midheaven),
		Cusps:       make([]float64, 0, astro.HouseCount),
		Planets:     make(map[string]models.Placement, len(r.Bodies)),
		Aspects:     make([]models.Aspect, 0, len(r.Aspects)),
		HouseRulers: make(map[string]models.HouseRuler, len(r.Rulers)),
	}
	for _, cusp := range r.Angles.Cusps {
		c.Cusps = append(c.Cusps, Round2(cusp))
	}

	for _, b := range r.Bodies {
		if !b.Known {
			c.Planets[b.Body.String()] = models.Placement{
				Sign:  unknown,
				House: models.UnknownHouse(unknown),
			}
			continue
		}
		deg := Round2(b.Longitude)
		c.Planets[b.Body.String()] = models.Placement{
			Degree: &deg,
			Sign:   b.Sign.Label(locale),
			House:  models.KnownHouse(b.House),
		}
	}

	for _, a := range r.Aspects {
		c.Aspects = append(c.Aspects, models.Aspect{
			Between: [2]string{a.A.String(), a.B.String()},
			Aspect:  a.Kind.String(),
			Angle:   Round2(a.Separation),
		})
	}

	for _, rp := range r.Rulers {
		hr := models.HouseRuler{
			Sign:       rp.CuspSign.Label(locale),
			Ruler:      rp.Ruler.String(),
			RulerSign:  unknown,
			RulerHouse: models.UnknownHouse(unknown),
		}
		if rp.Known {
			hr.RulerSign = rp.RulerSign.Label(locale)
			hr.RulerHouse = models.KnownHouse(rp.RulerHouse)
		}
		c.HouseRulers[strconv.Itoa(rp.House)] = hr
	}
	return c
}

// Round2 rounds to two decimals.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
