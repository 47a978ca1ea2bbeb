package ephemeris

import (
	"math"

	"AstroChart/internal/domain/astro"
	domsvc "AstroChart/internal/domain/service"
)

const (
	// placidus iteration stops when successive estimates differ by less than this (radians)
	placidusEpsilon = 1e-10
	placidusMaxIter = 100
)

// computeHouses builds cusps from RAMC, true obliquity and geographic latitude (all radians).
// Placidus falls back to Porphyry where semi-arcs are undefined (inside the polar circles).
func computeHouses(ramc, eps, phi float64, system astro.HouseSystem) domsvc.Angles {
	mc := ascMC(ramc, eps)
	asc := ascendant(ramc, eps, phi)

	out := domsvc.Angles{
		Ascendant: asc,
		Midheaven: mc,
		System:    system,
	}

	switch system {
	case astro.HouseEqual:
		for i := range out.Cusps {
			out.Cusps[i] = astro.Normalize(asc + float64(i)*30)
		}
	case astro.HouseWholeSign:
		start := math.Floor(asc/astro.SignWidth) * astro.SignWidth
		for i := range out.Cusps {
			out.Cusps[i] = astro.Normalize(start + float64(i)*30)
		}
	case astro.HousePlacidus:
		if cusps, ok := placidus(ramc, eps, phi, asc, mc); ok {
			out.Cusps = cusps
			return out
		}
		out.System = astro.HousePorphyry
		out.Cusps = porphyry(asc, mc)
	default:
		out.System = astro.HousePorphyry
		out.Cusps = porphyry(asc, mc)
	}
	return out
}

// ascMC returns the ecliptic longitude culminating at RAMC, in degrees.
func ascMC(ramc, eps float64) float64 {
	return astro.Normalize(rad2deg(raToLon(ramc, eps)))
}

// ascendant returns the ecliptic longitude rising on the eastern horizon, in degrees.
func ascendant(ramc, eps, phi float64) float64 {
	y := math.Cos(ramc)
	x := -(math.Sin(ramc)*math.Cos(eps) + math.Tan(phi)*math.Sin(eps))
	return astro.Normalize(rad2deg(math.Atan2(y, x)))
}

// raToLon converts the right ascension of an ecliptic point to its longitude.
func raToLon(ra, eps float64) float64 {
	return math.Atan2(math.Sin(ra), math.Cos(ra)*math.Cos(eps))
}

func porphyry(asc, mc float64) astro.Cusps {
	var c astro.Cusps
	ic := astro.Normalize(mc + 180)

	lower := astro.Normalize(ic-asc) / 3 // asc -> ic
	upper := astro.Normalize(asc-mc) / 3 // mc -> asc

	c[0] = asc
	c[1] = astro.Normalize(asc + lower)
	c[2] = astro.Normalize(asc + 2*lower)
	c[9] = mc
	c[10] = astro.Normalize(mc + upper)
	c[11] = astro.Normalize(mc + 2*upper)
	fillOpposites(&c)
	return c
}

func placidus(ramc, eps, phi, asc, mc float64) (astro.Cusps, bool) {
	var c astro.Cusps
	c[0] = asc
	c[9] = mc

	intermediate := []struct {
		idx   int
		frac  float64
		above bool
	}{
		{10, 1.0 / 3, true},  // 11th
		{11, 2.0 / 3, true},  // 12th
		{1, 2.0 / 3, false},  // 2nd
		{2, 1.0 / 3, false},  // 3rd
	}
	for _, h := range intermediate {
		lon, ok := placidusCusp(ramc, eps, phi, h.frac, h.above)
		if !ok {
			return c, false
		}
		c[h.idx] = lon
	}
	fillOpposites(&c)
	return c, true
}

// placidusCusp finds the ecliptic point whose hour angle is frac of its semi-arc.
// Above the horizon the point sits east of the meridian on the diurnal arc;
// below it sits west of the lower meridian on the nocturnal arc.
func placidusCusp(ramc, eps, phi, frac float64, above bool) (float64, bool) {
	ra := ramc + frac*math.Pi/2
	if !above {
		ra = ramc + math.Pi - frac*math.Pi/2
	}
	lon := raToLon(ra, eps)

	for i := 0; i < placidusMaxIter; i++ {
		decl := math.Asin(math.Sin(eps) * math.Sin(lon))
		x := -math.Tan(phi) * math.Tan(decl)
		if x < -1 || x > 1 {
			return 0, false
		}
		dsa := math.Acos(x)
		if above {
			ra = ramc + frac*dsa
		} else {
			ra = ramc + math.Pi - frac*(math.Pi-dsa)
		}
		next := raToLon(ra, eps)
		delta := math.Abs(math.Remainder(next-lon, 2*math.Pi))
		lon = next
		if delta < placidusEpsilon {
			return astro.Normalize(rad2deg(lon)), true
		}
	}
	return 0, false
}

func fillOpposites(c *astro.Cusps) {
	for i := 0; i < 3; i++ {
		c[i+3] = astro.Normalize(c[i+9] + 180)
		c[i+6] = astro.Normalize(c[i] + 180)
	}
}

func deg2rad(d float64) float64 { return d * math.Pi / 180 }

func rad2deg(r float64) float64 { return r * 180 / math.Pi }
