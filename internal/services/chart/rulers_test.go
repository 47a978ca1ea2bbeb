package chart

import (
	"encoding/json"
	"testing"

	"AstroChart/internal/domain/astro"
	domsvc "AstroChart/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveHouseRulersLeoCusp(t *testing.T) {
	cusps := evenCusps(120) // house 1 on Leo
	positions := []Position{pos(astro.Sun, 200), pos(astro.Moon, 10)}

	rulers, err := ResolveHouseRulers(cusps, positions, astro.RulersTraditional)
	require.NoError(t, err)
	require.Len(t, rulers, 12)

	first := rulers[0]
	assert.Equal(t, 1, first.House)
	assert.Equal(t, astro.Leo, first.CuspSign)
	assert.Equal(t, astro.Sun, first.Ruler)
	assert.True(t, first.Known)
	assert.Equal(t, astro.Libra, first.RulerSign)
	assert.Equal(t, 3, first.RulerHouse)
}

func TestResolveHouseRulersMissingRuler(t *testing.T) {
	cusps := evenCusps(120)
	rulers, err := ResolveHouseRulers(cusps, []Position{pos(astro.Moon, 10)}, astro.RulersTraditional)
	require.NoError(t, err)

	assert.Equal(t, astro.Sun, rulers[0].Ruler)
	assert.False(t, rulers[0].Known)

	chart := Assemble("c1", Result{Angles: domsvc.Angles{Cusps: cusps}, Rulers: rulers}, astro.LocaleZhTW)
	hr := chart.HouseRulers["1"]
	assert.Equal(t, "獅子座", hr.Sign)
	assert.Equal(t, "Sun", hr.Ruler)
	assert.Equal(t, "未知", hr.RulerSign)

	b, err := json.Marshal(hr)
	require.NoError(t, err)
	assert.JSONEq(t, `{"sign":"獅子座","ruler":"Sun","ruler_sign":"未知","ruler_house":"未知"}`, string(b))

	en := Assemble("c1", Result{Angles: domsvc.Angles{Cusps: cusps}, Rulers: rulers}, astro.LocaleEN)
	assert.Equal(t, "unknown", en.HouseRulers["1"].RulerSign)
}

func TestResolveHouseRulersModernScheme(t *testing.T) {
	cusps := evenCusps(210) // house 1 on Scorpio
	rulers, err := ResolveHouseRulers(cusps, []Position{pos(astro.Pluto, 215)}, astro.RulersModern)
	require.NoError(t, err)
	assert.Equal(t, astro.Pluto, rulers[0].Ruler)
	assert.Equal(t, 1, rulers[0].RulerHouse)
}
