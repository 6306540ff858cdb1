package models

import (
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"
)

func TestParseUnit(t *testing.T) {
	tests := []struct {
		in      string
		want    Unit
		wantErr bool
	}{
		{"", UnitCelsius, false},
		{"celsius", UnitCelsius, false},
		{" Fahrenheit ", UnitFahrenheit, false},
		{"kelvin", "", true},
	}
	for _, tt := range tests {
		got, err := ParseUnit(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseUnit(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseUnit(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestUnit_APIUnits(t *testing.T) {
	if got := UnitCelsius.APIUnits(); got != "metric" {
		t.Errorf("celsius APIUnits() = %q, want metric", got)
	}
	if got := UnitFahrenheit.APIUnits(); got != "imperial" {
		t.Errorf("fahrenheit APIUnits() = %q, want imperial", got)
	}
	if got := Unit("").APIUnits(); got != "metric" {
		t.Errorf("zero Unit APIUnits() = %q, want metric", got)
	}
}

func TestWeatherResult_MarshalJSON_Success(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	r := WeatherResult{
		Location:    "Paris",
		Temperature: 15.0,
		Unit:        UnitCelsius,
		Conditions:  "clear sky",
		Humidity:    60,
		WindSpeed:   3.1,
		Timestamp:   ts,
	}

	raw, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var got map[string]interface{}
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	want := map[string]interface{}{
		"location":    "Paris",
		"temperature": 15.0,
		"unit":        "celsius",
		"conditions":  "clear sky",
		"humidity":    60.0,
		"wind_speed":  3.1,
		"timestamp":   "2024-05-01T12:30:00Z",
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %v, want %v", k, got[k], v)
		}
	}
	if _, ok := got["error"]; ok {
		t.Error("success result should not carry an error key")
	}
}

func TestWeatherResult_MarshalJSON_ErrorVariant(t *testing.T) {
	r := NewWeatherError(&UpstreamError{StatusCode: 404, Message: "city not found"})
	if !r.Failed() {
		t.Fatal("Failed() = false for error variant")
	}

	raw, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(raw) != `{"error":"Weather API error: city not found"}` {
		t.Errorf("Marshal() = %s", raw)
	}
}

func TestUpstreamError_Error(t *testing.T) {
	withStatus := &UpstreamError{StatusCode: 401, Message: "Invalid API key"}
	if got := withStatus.Error(); got != "Weather API error: Invalid API key" {
		t.Errorf("Error() = %q", got)
	}

	fault := &UpstreamError{Message: "unexpected EOF", Cause: io.ErrUnexpectedEOF}
	if got := fault.Error(); got != "Failed to get weather: unexpected EOF" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(fault, io.ErrUnexpectedEOF) {
		t.Error("errors.Is should see the cause through Unwrap")
	}
}

func TestGenerationError_Error(t *testing.T) {
	err := &GenerationError{Stage: StageExtract, StatusCode: 429, Code: "RESOURCE_EXHAUSTED", Message: "quota exceeded"}
	got := err.Error()
	if !strings.HasPrefix(got, "extract: ") || !strings.Contains(got, "quota exceeded") || !strings.Contains(got, "HTTP 429") {
		t.Errorf("Error() = %q", got)
	}

	var target *GenerationError
	wrapped := errors.Join(errors.New("outer"), err)
	if !errors.As(wrapped, &target) || target.Code != "RESOURCE_EXHAUSTED" {
		t.Error("errors.As should find the GenerationError")
	}

	bare := &GenerationError{Message: "no choices"}
	if bare.Error() != "no choices" {
		t.Errorf("Error() = %q, want bare message", bare.Error())
	}
}
