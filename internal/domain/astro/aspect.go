package astro

// AspectKind is one of the five canonical (Ptolemaic) aspects.
type AspectKind int

const (
	Conjunction AspectKind = iota
	Sextile
	Square
	Trine
	Opposition
)

// DefaultOrb is the tolerance, in degrees, around each canonical angle.
const DefaultOrb = 3.0

// AspectKinds returns the canonical aspects in ascending angle order.
func AspectKinds() []AspectKind {
	return []AspectKind{Conjunction, Sextile, Square, Trine, Opposition}
}

// Angle is the exact separation that defines the aspect.
func (a AspectKind) Angle() float64 {
	switch a {
	case Conjunction:
		return 0
	case Sextile:
		return 60
	case Square:
		return 90
	case Trine:
		return 120
	case Opposition:
		return 180
	default:
		return -1
	}
}

func (a AspectKind) String() string {
	switch a {
	case Conjunction:
		return "Conjunction"
	case Sextile:
		return "Sextile"
	case Square:
		return "Square"
	case Trine:
		return "Trine"
	case Opposition:
		return "Opposition"
	default:
		return "Unknown"
	}
}
