package ephemeris

import (
	"context"
	"errors"
	"os"
	"testing"

	"AstroChart/internal/domain/astro"
	domsvc "AstroChart/internal/domain/service"

	"github.com/soniakeys/meeus/v3/moonposition"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeeusMoonWithoutDataFiles(t *testing.T) {
	m := NewMeeus(t.TempDir())
	ctx := context.Background()

	// Meeus example 47.a: apparent longitude 133.167° at 1992-04-12 0h TD, ~58s of ΔT later here
	moon, err := m.Longitude(ctx, 2448724.5, astro.Moon)
	require.NoError(t, err)
	assert.InDelta(t, 133.176, moon, 0.01)

	rahu, err := m.Longitude(ctx, 2448724.5, astro.Rahu)
	require.NoError(t, err)
	ketu, err := m.Longitude(ctx, 2448724.5, astro.Ketu)
	require.NoError(t, err)
	assert.InDelta(t, 180.0, astro.Normalize(ketu-rahu), 1e-9)
}

func TestMeanLunarApogee(t *testing.T) {
	for _, jde := range []float64{j2000, 2448724.5, 2415020.5} {
		want := astro.Normalize(moonposition.Perigee(jde).Deg() + 180)
		assert.InDelta(t, want, meanLunarApogee(jde), 1e-9)
	}
	assert.InDelta(t, 263.3532465, meanLunarApogee(j2000), 1e-6)

	lilith, err := NewMeeus("").Longitude(context.Background(), j2000, astro.Lilith)
	require.NoError(t, err)
	assert.InDelta(t, 263.35, lilith, 0.01)
}

func TestMeeusPlutoOutsideTheoryRange(t *testing.T) {
	m := NewMeeus(t.TempDir())
	for _, jd := range []float64{
		1721057.5, // year 0
		2378496.5, // 1800-01-01
		2488069.5, // 2100-01-01
	} {
		_, err := m.Longitude(context.Background(), jd, astro.Pluto)
		assert.ErrorIs(t, err, domsvc.ErrOutOfRange, "jd %v", jd)
		assert.False(t, errors.Is(err, domsvc.ErrEphemerisUnavailable))
	}

	// inside the range the missing VSOP87 files are the problem
	_, err := m.Longitude(context.Background(), j2000, astro.Pluto)
	assert.ErrorIs(t, err, domsvc.ErrEphemerisUnavailable)
}

func TestMeeusMissingDataIsUnavailable(t *testing.T) {
	m := NewMeeus(t.TempDir())
	_, err := m.Longitude(context.Background(), j2000, astro.Sun)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domsvc.ErrEphemerisUnavailable))
}

func TestMeeusSupports(t *testing.T) {
	m := NewMeeus("")
	for _, b := range astro.CoreBodies() {
		assert.True(t, m.Supports(b), b)
	}
	assert.True(t, m.Supports(astro.Lilith))
	assert.False(t, m.Supports(astro.PartOfFortune))

	_, err := m.Longitude(context.Background(), j2000, astro.PartOfFortune)
	assert.ErrorIs(t, err, astro.ErrUnknownBody)
}

func TestMeeusHousesRejectsBadLatitude(t *testing.T) {
	m := NewMeeus("")
	_, err := m.Houses(context.Background(), j2000, 91, 0, astro.HousePlacidus)
	assert.Error(t, err)
}

// Runs only when VSOP87B files are available, e.g. ASTRO_EPHEMERIS_DIR=./data/ephe.
func TestMeeusSunWithDataFiles(t *testing.T) {
	dir := os.Getenv("ASTRO_EPHEMERIS_DIR")
	if dir == "" {
		t.Skip("ASTRO_EPHEMERIS_DIR not set")
	}
	m := NewMeeus(dir)
	require.NoError(t, m.Load())

	// Meeus example 25.b: 1992-10-13 0h TD, apparent longitude 199.906°
	sun, err := m.Longitude(context.Background(), 2448908.5, astro.Sun)
	require.NoError(t, err)
	assert.InDelta(t, 199.906, sun, 0.01)
}
