package chart

import (
	"testing"

	"AstroChart/internal/domain/astro"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pos(b astro.Body, deg float64) Position {
	return Position{Body: b, Longitude: deg, Known: true}
}

func TestDetectAspects(t *testing.T) {
	tests := []struct {
		name  string
		a, b  float64
		kinds []astro.AspectKind
		angle float64
	}{
		{"opposition", 0, 180, []astro.AspectKind{astro.Opposition}, 180},
		{"sextile within orb", 0, 61, []astro.AspectKind{astro.Sextile}, 61},
		{"no aspect", 0, 45, nil, 0},
		{"conjunction across zero", 359, 1, []astro.AspectKind{astro.Conjunction}, 2},
		{"trine by shortest arc", 300, 60, []astro.AspectKind{astro.Trine}, 120},
		{"square at orb edge", 10, 103, []astro.AspectKind{astro.Square}, 93},
		{"just outside orb", 10, 103.5, nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectAspects([]Position{pos(astro.Sun, tt.a), pos(astro.Moon, tt.b)}, astro.DefaultOrb)
			require.Len(t, got, len(tt.kinds))
			for i, k := range tt.kinds {
				assert.Equal(t, k, got[i].Kind)
				assert.Equal(t, astro.Sun, got[i].A)
				assert.Equal(t, astro.Moon, got[i].B)
				assert.InDelta(t, tt.angle, got[i].Separation, 1e-9)
			}
		})
	}
}

func TestDetectAspectsSeparationIsOrderIndependent(t *testing.T) {
	ab := DetectAspects([]Position{pos(astro.Sun, 10), pos(astro.Moon, 250)}, astro.DefaultOrb)
	ba := DetectAspects([]Position{pos(astro.Sun, 250), pos(astro.Moon, 10)}, astro.DefaultOrb)
	require.Len(t, ab, 1)
	require.Len(t, ba, 1)
	assert.Equal(t, ab[0].Separation, ba[0].Separation)
	assert.LessOrEqual(t, ab[0].Separation, 180.0)
}

func TestDetectAspectsSkipsUnknownBodies(t *testing.T) {
	positions := []Position{
		pos(astro.Sun, 0),
		{Body: astro.Rahu},
		pos(astro.Moon, 180),
	}
	got := DetectAspects(positions, astro.DefaultOrb)
	require.Len(t, got, 1)
	assert.Equal(t, astro.Opposition, got[0].Kind)
}

func TestDetectAspectsWideOrbMatchesTwice(t *testing.T) {
	got := DetectAspects([]Position{pos(astro.Sun, 0), pos(astro.Moon, 75)}, 15)
	require.Len(t, got, 2)
	assert.Equal(t, astro.Sextile, got[0].Kind)
	assert.Equal(t, astro.Square, got[1].Kind)
}
