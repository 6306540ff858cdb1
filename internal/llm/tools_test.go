package llm

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/kjstillabower/weather-assistant/internal/models"
)

func TestWeatherTool_Schema(t *testing.T) {
	tool := WeatherTool()
	if tool.Function == nil || tool.Function.Name != WeatherFunctionName {
		t.Fatalf("Function = %+v, want %s", tool.Function, WeatherFunctionName)
	}

	raw, err := json.Marshal(tool.Function.Parameters)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var schema struct {
		Type       string `json:"type"`
		Properties map[string]struct {
			Type string   `json:"type"`
			Enum []string `json:"enum"`
		} `json:"properties"`
		Required []string `json:"required"`
	}
	if err := json.Unmarshal(raw, &schema); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if schema.Type != "object" {
		t.Errorf("type = %q, want object", schema.Type)
	}
	if len(schema.Required) != 1 || schema.Required[0] != "location" {
		t.Errorf("required = %v, want [location]", schema.Required)
	}
	enum := schema.Properties["unit"].Enum
	if strings.Join(enum, ",") != "celsius,fahrenheit" {
		t.Errorf("unit enum = %v", enum)
	}
}

func TestParseWeatherArgs(t *testing.T) {
	args, err := ParseWeatherArgs(`{"location":"  Tokyo ","unit":"fahrenheit"}`)
	if err != nil {
		t.Fatalf("ParseWeatherArgs() error = %v", err)
	}
	if args.Location != "Tokyo" {
		t.Errorf("Location = %q, want Tokyo", args.Location)
	}
	if got := args.UnitOrDefault(models.UnitCelsius); got != models.UnitFahrenheit {
		t.Errorf("UnitOrDefault() = %q, want fahrenheit", got)
	}

	_, err = ParseWeatherArgs(`{"location":`)
	var genErr *models.GenerationError
	if !errors.As(err, &genErr) {
		t.Errorf("ParseWeatherArgs(bad json) error = %v, want GenerationError", err)
	}
}

func TestWeatherArgs_UnitOrDefault(t *testing.T) {
	tests := []struct {
		unit string
		want models.Unit
	}{
		{"", models.UnitCelsius},
		{"celsius", models.UnitCelsius},
		{"Fahrenheit", models.UnitFahrenheit},
		{"kelvin", models.UnitCelsius},
	}
	for _, tt := range tests {
		if got := (WeatherArgs{Unit: tt.unit}).UnitOrDefault(models.UnitCelsius); got != tt.want {
			t.Errorf("UnitOrDefault(%q) = %q, want %q", tt.unit, got, tt.want)
		}
	}
}
