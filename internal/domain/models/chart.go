package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Placement is a body's position as reported to clients.
// Degree is nil when the body could not be resolved.
type Placement struct {
	Degree *float64 `json:"degree"`
	Sign   string   `json:"sign"`
	House  HouseRef `json:"house"`
}

// Aspect is one matched angular relationship between two bodies.
type Aspect struct {
	Between [2]string `json:"between"`
	Aspect  string    `json:"aspect"`
	Angle   float64   `json:"angle"`
}

// HouseRuler describes the sign on a house cusp and where its ruler sits.
type HouseRuler struct {
	Sign       string   `json:"sign"`
	Ruler      string   `json:"ruler"`
	RulerSign  string   `json:"ruler_sign"`
	RulerHouse HouseRef `json:"ruler_house"`
}

// Chart is the full natal chart response.
type Chart struct {
	ID          string                `json:"id"`
	JulianDay   float64               `json:"julian_day"`
	HouseSystem string                `json:"house_system"`
	Ascendant   float64               `json:"ascendant"`
	Midheaven   float64               `json:"midheaven"`
	Cusps       []float64             `json:"cusps"`
	Planets     map[string]Placement  `json:"planets"`
	Aspects     []Aspect              `json:"aspects"`
	HouseRulers map[string]HouseRuler `json:"house_rulers"`
}

// HouseRef is a house number, or a sentinel label when the house is unknown.
// It encodes as a JSON number or a JSON string accordingly.
type HouseRef struct {
	Number  int
	Unknown string
}

// KnownHouse returns a reference to house n.
func KnownHouse(n int) HouseRef { return HouseRef{Number: n} }

// UnknownHouse returns a sentinel reference.
func UnknownHouse(label string) HouseRef { return HouseRef{Unknown: label} }

// Known reports whether r points at a real house.
func (r HouseRef) Known() bool { return r.Number > 0 }

func (r HouseRef) MarshalJSON() ([]byte, error) {
	if r.Known() {
		return json.Marshal(r.Number)
	}
	return json.Marshal(r.Unknown)
}

func (r *HouseRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		r.Number = 0
		return json.Unmarshal(b, &r.Unknown)
	}
	if err := json.Unmarshal(b, &r.Number); err != nil {
		return fmt.Errorf("house ref: %w", err)
	}
	r.Unknown = ""
	return nil
}

// ChartRecord is the archived summary of a computed chart.
type ChartRecord struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	BirthDate   string    `json:"birth_date"`
	BirthTime   string    `json:"birth_time"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	HouseSystem string    `json:"house_system"`
	Ascendant   float64   `json:"ascendant"`
	Midheaven   float64   `json:"midheaven"`
	SunSign     string    `json:"sun_sign"`
	MoonSign    string    `json:"moon_sign"`
	RisingSign  string    `json:"rising_sign"`
	AspectCount int       `json:"aspect_count"`
}

// ChartEvent is published after a chart has been computed.
type ChartEvent struct {
	Type      string      `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Record    ChartRecord `json:"record"`
}
