package astro

// RulerScheme selects the sign rulership table.
type RulerScheme string

const (
	// RulersTraditional uses the seven visible planets only.
	RulersTraditional RulerScheme = "traditional"
	// RulersModern assigns Scorpio, Aquarius and Pisces to the outer planets.
	RulersModern RulerScheme = "modern"
)

// Valid reports whether s names a known table.
func (s RulerScheme) Valid() bool {
	return s == RulersTraditional || s == RulersModern
}

// Ruler returns the planet ruling sign under scheme s.
func (s RulerScheme) Ruler(sign Sign) Body {
	switch sign {
	case Aries:
		return Mars
	case Taurus:
		return Venus
	case Gemini:
		return Mercury
	case Cancer:
		return Moon
	case Leo:
		return Sun
	case Virgo:
		return Mercury
	case Libra:
		return Venus
	case Scorpio:
		if s == RulersModern {
			return Pluto
		}
		return Mars
	case Sagittarius:
		return Jupiter
	case Capricorn:
		return Saturn
	case Aquarius:
		if s == RulersModern {
			return Uranus
		}
		return Saturn
	case Pisces:
		if s == RulersModern {
			return Neptune
		}
		return Jupiter
	default:
		return ""
	}
}
