package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Unit is the temperature unit requested from the weather provider.
type Unit string

const (
	UnitCelsius    Unit = "celsius"
	UnitFahrenheit Unit = "fahrenheit"
)

// Units lists the accepted unit values in declaration order.
var Units = []Unit{UnitCelsius, UnitFahrenheit}

// ParseUnit accepts "celsius" or "fahrenheit" in any case. Empty input yields celsius.
func ParseUnit(s string) (Unit, error) {
	switch Unit(strings.ToLower(strings.TrimSpace(s))) {
	case "", UnitCelsius:
		return UnitCelsius, nil
	case UnitFahrenheit:
		return UnitFahrenheit, nil
	}
	return "", fmt.Errorf("unknown unit %q", s)
}

// APIUnits maps the unit to the OpenWeatherMap "units" query value.
func (u Unit) APIUnits() string {
	if u == UnitFahrenheit {
		return "imperial"
	}
	return "metric"
}

// WeatherResult is the normalized outcome of one weather lookup. When Err is set the
// remaining fields are meaningless and the result is the error variant.
type WeatherResult struct {
	Location    string
	Temperature float64
	Unit        Unit
	Conditions  string
	Humidity    float64
	WindSpeed   float64
	Timestamp   time.Time

	Err *UpstreamError
}

// NewWeatherError builds the error variant.
func NewWeatherError(err *UpstreamError) WeatherResult {
	return WeatherResult{Err: err}
}

// Failed reports whether r is the error variant.
func (r WeatherResult) Failed() bool {
	return r.Err != nil
}

type weatherJSON struct {
	Location    string  `json:"location"`
	Temperature float64 `json:"temperature"`
	Unit        Unit    `json:"unit"`
	Conditions  string  `json:"conditions"`
	Humidity    float64 `json:"humidity"`
	WindSpeed   float64 `json:"wind_speed"`
	Timestamp   string  `json:"timestamp"`
}

type weatherErrorJSON struct {
	Error string `json:"error"`
}

// MarshalJSON renders the shape handed to the language model: the full reading, or
// {"error": "..."} for the error variant.
func (r WeatherResult) MarshalJSON() ([]byte, error) {
	if r.Err != nil {
		return json.Marshal(weatherErrorJSON{Error: r.Err.Error()})
	}
	return json.Marshal(weatherJSON{
		Location:    r.Location,
		Temperature: r.Temperature,
		Unit:        r.Unit,
		Conditions:  r.Conditions,
		Humidity:    r.Humidity,
		WindSpeed:   r.WindSpeed,
		Timestamp:   r.Timestamp.Format(time.RFC3339),
	})
}
