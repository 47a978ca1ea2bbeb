package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Requests for chart HTTP endpoints.

// ChartRequest is the birth data submitted to POST /api/astro.
type ChartRequest struct {
	BirthDate string     `json:"birth_date" validate:"required,datetime=2006-01-02"`
	BirthTime string     `json:"birth_time" validate:"required,datetime=15:04"`
	Latitude  *FlexFloat `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude *FlexFloat `json:"longitude" validate:"required,gte=-180,lte=180"`
}

type RecentChartsRequest struct {
	Limit int    `query:"limit" json:"limit" default:"20" validate:"gte=1,lte=500"`
	Since string `query:"since" json:"since"` // RFC3339 or unix seconds
}

// FlexFloat accepts a JSON number or a numeric string.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if strings.HasPrefix(s, `"`) {
		var raw string
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
		s = strings.TrimSpace(raw)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid number %q", s)
	}
	*f = FlexFloat(v)
	return nil
}

// Float returns the value or 0 for a nil pointer.
func (f *FlexFloat) Float() float64 {
	if f == nil {
		return 0
	}
	return float64(*f)
}
