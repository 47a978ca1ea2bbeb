package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"AstroChart/internal/domain/astro"
	models "AstroChart/internal/domain/models"
	domsvc "AstroChart/internal/domain/service"
	"AstroChart/internal/usecase"
	applogger "AstroChart/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedEphemeris places the ascendant at 10° with equal houses and serves
// fixed longitudes.
type fixedEphemeris struct {
	lon map[astro.Body]float64
}

func (fixedEphemeris) Name() string { return "fixed" }

func (fixedEphemeris) Houses(_ context.Context, _, _, _ float64, system astro.HouseSystem) (domsvc.Angles, error) {
	var cusps astro.Cusps
	for i := range cusps {
		cusps[i] = astro.Normalize(10 + float64(i)*30)
	}
	return domsvc.Angles{Cusps: cusps, Ascendant: 10, Midheaven: 280, System: system}, nil
}

func (e fixedEphemeris) Longitude(_ context.Context, _ float64, b astro.Body) (float64, error) {
	return e.lon[b], nil
}

func (e fixedEphemeris) Supports(b astro.Body) bool {
	_, ok := e.lon[b]
	return ok
}

func TestChartPipelineThroughHandler(t *testing.T) {
	eph := fixedEphemeris{lon: map[astro.Body]float64{astro.Sun: 0, astro.Moon: 90, astro.Mars: 180}}
	uc := usecase.NewChartCalculator(eph, usecase.ChartSettings{
		Bodies:      []astro.Body{astro.Sun, astro.Moon, astro.Mars, astro.PartOfFortune},
		HouseSystem: astro.HouseEqual,
		Locale:      astro.LocaleZhTW,
	}, applogger.Nop())
	e := newTestEcho(uc)

	body := `{"birth_date":"1988-08-08","birth_time":"08:08","latitude":25,"longitude":121.5}`
	rec := do(e, http.MethodPost, "/api/astro", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var c models.Chart
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &c))
	assert.Equal(t, 10.0, c.Ascendant)
	assert.Equal(t, "equal", c.HouseSystem)

	// (10 + 90 - 0) mod 360
	pof := c.Planets["Part of Fortune"]
	require.NotNil(t, pof.Degree)
	assert.Equal(t, 100.0, *pof.Degree)

	// Sun at 0° sits before the first cusp at 10°, so it falls in house 12.
	assert.Equal(t, "牡羊座", c.Planets["Sun"].Sign)
	assert.Equal(t, models.KnownHouse(12), c.Planets["Sun"].House)

	var opposition bool
	for _, a := range c.Aspects {
		if a.Between == [2]string{"Sun", "Mars"} {
			assert.Equal(t, "Opposition", a.Aspect)
			assert.Equal(t, 180.0, a.Angle)
			opposition = true
		}
	}
	assert.True(t, opposition)

	// Leo is on the fifth cusp (130°) and ruled by the Sun.
	leo := c.HouseRulers["5"]
	assert.Equal(t, "獅子座", leo.Sign)
	assert.Equal(t, "Sun", leo.Ruler)
	assert.Equal(t, "牡羊座", leo.RulerSign)

	// Jupiter is not computed, so Sagittarius' ruler has no placement.
	sag := c.HouseRulers["9"]
	assert.Equal(t, "Jupiter", sag.Ruler)
	assert.Equal(t, "未知", sag.RulerSign)
	assert.Equal(t, models.UnknownHouse("未知"), sag.RulerHouse)

	again := do(e, http.MethodPost, "/api/astro", body)
	assert.JSONEq(t, rec.Body.String(), again.Body.String())

	bad := do(e, http.MethodPost, "/api/astro", `{"birth_date":"1988-02-30","birth_time":"08:08","latitude":25,"longitude":121.5}`)
	assert.Equal(t, http.StatusBadRequest, bad.Code)
}
