package ephemeris

import (
	"context"
	"fmt"
	"math"
	"sync"

	"AstroChart/internal/domain/astro"
	domsvc "AstroChart/internal/domain/service"

	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/coord"
	"github.com/soniakeys/meeus/v3/elliptic"
	"github.com/soniakeys/meeus/v3/moonposition"
	"github.com/soniakeys/meeus/v3/nutation"
	pp "github.com/soniakeys/meeus/v3/planetposition"
	"github.com/soniakeys/meeus/v3/pluto"
	"github.com/soniakeys/meeus/v3/precess"
	"github.com/soniakeys/meeus/v3/sidereal"
	"github.com/soniakeys/meeus/v3/solar"
	"github.com/soniakeys/unit"
)

// vsopBodies maps chart bodies to VSOP87 planet indices.
var vsopBodies = map[astro.Body]int{
	astro.Mercury: pp.Mercury,
	astro.Venus:   pp.Venus,
	astro.Mars:    pp.Mars,
	astro.Jupiter: pp.Jupiter,
	astro.Saturn:  pp.Saturn,
	astro.Uranus:  pp.Uranus,
	astro.Neptune: pp.Neptune,
}

// lightTimeDays is the light travel time per astronomical unit, in days.
const lightTimeDays = 0.0057755183

// Meeus computes positions from the VSOP87 series and the analytic
// lunar, nodal and Pluto theories in Meeus' Astronomical Algorithms.
type Meeus struct {
	dir string

	mu      sync.Mutex
	planets map[int]*pp.V87Planet
}

// NewMeeus returns a provider reading VSOP87B files from dir. Files load on first use.
func NewMeeus(dir string) *Meeus {
	return &Meeus{dir: dir, planets: make(map[int]*pp.V87Planet)}
}

// Name returns the provider name.
func (m *Meeus) Name() string { return "meeus-vsop87" }

// Dir returns the data directory.
func (m *Meeus) Dir() string { return m.dir }

// Load reads every VSOP87 series the provider needs.
func (m *Meeus) Load() error {
	for _, ibody := range vsopIndices() {
		if _, err := m.planet(ibody); err != nil {
			return err
		}
	}
	return nil
}

// Supports reports whether body can be computed. Derived points are not.
func (m *Meeus) Supports(body astro.Body) bool {
	switch body {
	case astro.Sun, astro.Moon, astro.Pluto, astro.Rahu, astro.Ketu, astro.Lilith:
		return true
	}
	_, ok := vsopBodies[body]
	return ok
}

// Houses computes cusps for the Julian day (UT) at lat/lon degrees.
func (m *Meeus) Houses(ctx context.Context, jdUT, lat, lon float64, system astro.HouseSystem) (domsvc.Angles, error) {
	if err := ctx.Err(); err != nil {
		return domsvc.Angles{}, err
	}
	if lat < -90 || lat > 90 {
		return domsvc.Angles{}, fmt.Errorf("houses: latitude %v out of range", lat)
	}
	jde := toTT(jdUT)
	eps := trueObliquity(jde)
	ramc := (sidereal.Apparent(jdUT).Angle() + unit.AngleFromDeg(lon)).Mod1()
	return computeHouses(ramc.Rad(), eps, deg2rad(lat), system), nil
}

// Longitude returns the apparent geocentric ecliptic longitude of body in degrees.
func (m *Meeus) Longitude(ctx context.Context, jdUT float64, body astro.Body) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	jde := toTT(jdUT)

	switch body {
	case astro.Sun:
		earth, err := m.planet(pp.Earth)
		if err != nil {
			return 0, err
		}
		λ, _, _ := solar.ApparentVSOP87(earth, jde)
		return astro.Normalize(λ.Deg()), nil

	case astro.Moon:
		λ, _, _ := moonposition.Position(jde)
		Δψ, _ := nutation.Nutation(jde)
		return astro.Normalize(λ.Deg() + Δψ.Deg()), nil

	case astro.Rahu:
		return astro.Normalize(moonposition.Node(jde).Deg()), nil

	case astro.Ketu:
		return astro.Normalize(moonposition.Node(jde).Deg() + 180), nil

	case astro.Lilith:
		return meanLunarApogee(jde), nil

	case astro.Pluto:
		return m.pluto(jde)
	}

	ibody, ok := vsopBodies[body]
	if !ok {
		return 0, fmt.Errorf("%w: %s", astro.ErrUnknownBody, body)
	}
	p, err := m.planet(ibody)
	if err != nil {
		return 0, err
	}
	earth, err := m.planet(pp.Earth)
	if err != nil {
		return 0, err
	}
	α, δ := elliptic.Position(p, earth, jde)
	ε := trueObliquity(jde)
	λ, _ := coord.EqToEcl(α, δ, math.Sin(ε), math.Cos(ε))
	return astro.Normalize(λ.Deg()), nil
}

// Pluto's theory is only valid from 1885-01-01 up to 2100-01-01.
const (
	plutoFirstJDE = 2409542.5
	plutoEndJDE   = 2488069.5
)

// pluto converts the J2000 heliocentric theory to an apparent longitude of date.
func (m *Meeus) pluto(jde float64) (float64, error) {
	if jde < plutoFirstJDE || jde >= plutoEndJDE {
		return 0, fmt.Errorf("%w: pluto theory covers 1885-2099, got JDE %.1f", domsvc.ErrOutOfRange, jde)
	}
	earth, err := m.planet(pp.Earth)
	if err != nil {
		return 0, err
	}
	L0, B0, R0 := earth.Position2000(jde)
	x0 := R0 * B0.Cos() * L0.Cos()
	y0 := R0 * B0.Cos() * L0.Sin()
	z0 := R0 * B0.Sin()

	var λ, β float64
	τ := 0.0
	for i := 0; i < 2; i++ {
		l, b, r := pluto.Heliocentric(jde - τ)
		x := r*b.Cos()*l.Cos() - x0
		y := r*b.Cos()*l.Sin() - y0
		z := r*b.Sin() - z0
		Δ := math.Sqrt(x*x + y*y + z*z)
		τ = lightTimeDays * Δ
		λ = math.Atan2(y, x)
		β = math.Atan2(z, math.Hypot(x, y))
	}

	ecl := &coord.Ecliptic{Lon: unit.Angle(λ), Lat: unit.Angle(β)}
	precess.EclipticPosition(ecl, ecl, 2000, base.JDEToJulianYear(jde), 0, 0)
	Δψ, _ := nutation.Nutation(jde)
	return astro.Normalize(ecl.Lon.Deg() + Δψ.Deg()), nil
}

func (m *Meeus) planet(ibody int) (*pp.V87Planet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if p, ok := m.planets[ibody]; ok {
		return p, nil
	}
	p, err := pp.LoadPlanetPath(ibody, m.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: load vsop87 planet %d from %s: %v", domsvc.ErrEphemerisUnavailable, ibody, m.dir, err)
	}
	m.planets[ibody] = p
	return p, nil
}

// trueObliquity returns the obliquity of the ecliptic including nutation, in radians.
func trueObliquity(jde float64) float64 {
	_, Δε := nutation.Nutation(jde)
	return nutation.MeanObliquity(jde).Rad() + Δε.Rad()
}

// meanLunarApogee is the mean perigee turned by 180°.
func meanLunarApogee(jde float64) float64 {
	return astro.Normalize(moonposition.Perigee(jde).Deg() + 180)
}

func vsopIndices() []int {
	return []int{pp.Mercury, pp.Venus, pp.Earth, pp.Mars, pp.Jupiter, pp.Saturn, pp.Uranus, pp.Neptune}
}

var _ domsvc.Ephemeris = (*Meeus)(nil)
