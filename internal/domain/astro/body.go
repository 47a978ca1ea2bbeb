package astro

import (
	"errors"
	"fmt"
)

// ErrUnknownBody is returned for body names outside the registry.
var ErrUnknownBody = errors.New("astro: unknown body")

// Body identifies a chart point by its response name.
type Body string

const (
	Sun     Body = "Sun"
	Moon    Body = "Moon"
	Mercury Body = "Mercury"
	Venus   Body = "Venus"
	Mars    Body = "Mars"
	Jupiter Body = "Jupiter"
	Saturn  Body = "Saturn"
	Uranus  Body = "Uranus"
	Neptune Body = "Neptune"
	Pluto   Body = "Pluto"

	// Rahu is the mean north lunar node, Ketu the point opposite it.
	Rahu Body = "Rahu"
	Ketu Body = "Ketu"
	// Lilith is the mean lunar apogee (Black Moon).
	Lilith Body = "Lilith"
	// PartOfFortune is derived from the ascendant, Moon and Sun.
	PartOfFortune Body = "Part of Fortune"
)

var coreBodies = []Body{Sun, Moon, Mercury, Venus, Mars, Jupiter, Saturn, Uranus, Neptune, Pluto}

var extendedBodies = []Body{Rahu, Ketu, Lilith, PartOfFortune}

// CoreBodies returns the ten classical and modern planets in response order.
func CoreBodies() []Body {
	return append([]Body(nil), coreBodies...)
}

// ExtendedBodies returns the core set followed by nodes, Lilith and the Part of Fortune.
func ExtendedBodies() []Body {
	out := CoreBodies()
	return append(out, extendedBodies...)
}

// Valid reports whether b is a registered body.
func (b Body) Valid() bool {
	for _, k := range coreBodies {
		if k == b {
			return true
		}
	}
	for _, k := range extendedBodies {
		if k == b {
			return true
		}
	}
	return false
}

// Derived reports whether b is computed from other chart points instead of the ephemeris.
func (b Body) Derived() bool { return b == PartOfFortune }

func (b Body) String() string { return string(b) }

// ParseBody resolves a configured body name.
func ParseBody(name string) (Body, error) {
	b := Body(name)
	if !b.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownBody, name)
	}
	return b, nil
}

// ParseBodies resolves a list of names, rejecting unknown and duplicate entries.
func ParseBodies(names []string) ([]Body, error) {
	out := make([]Body, 0, len(names))
	seen := make(map[Body]struct{}, len(names))
	for _, n := range names {
		b, err := ParseBody(n)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[b]; dup {
			return nil, fmt.Errorf("astro: duplicate body %q", n)
		}
		seen[b] = struct{}{}
		out = append(out, b)
	}
	return out, nil
}
