package llm

import (
	"encoding/json"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/kjstillabower/weather-assistant/internal/models"
)

// WeatherFunctionName is the declared name of the weather lookup function.
const WeatherFunctionName = "get_weather"

// WeatherArgs are the arguments the model supplies to get_weather.
type WeatherArgs struct {
	Location string `json:"location"`
	Unit     string `json:"unit,omitempty"`
}

// WeatherTool declares get_weather: a required location and an optional unit
// restricted to the supported units.
func WeatherTool() openai.Tool {
	units := make([]string, 0, len(models.Units))
	for _, u := range models.Units {
		units = append(units, string(u))
	}

	return openai.Tool{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        WeatherFunctionName,
			Description: "Get current weather information for a location",
			Parameters: jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"location": {
						Type:        jsonschema.String,
						Description: "City name or location",
					},
					"unit": {
						Type:        jsonschema.String,
						Enum:        units,
						Description: "Temperature unit (default celsius)",
					},
				},
				Required: []string{"location"},
			},
		},
	}
}

// ParseWeatherArgs decodes the arguments JSON of a get_weather call.
func ParseWeatherArgs(raw string) (WeatherArgs, error) {
	var args WeatherArgs
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return WeatherArgs{}, &models.GenerationError{Message: "invalid " + WeatherFunctionName + " arguments: " + err.Error(), Cause: err}
	}
	args.Location = strings.TrimSpace(args.Location)
	return args, nil
}

// UnitOrDefault returns the requested unit, falling back to fallback when the
// model omitted it or named an unsupported one.
func (a WeatherArgs) UnitOrDefault(fallback models.Unit) models.Unit {
	if strings.TrimSpace(a.Unit) == "" {
		return fallback
	}
	u, err := models.ParseUnit(a.Unit)
	if err != nil {
		return fallback
	}
	return u
}
