package service

import (
	"encoding/json"
	"fmt"

	"github.com/kjstillabower/weather-assistant/internal/models"
)

func extractionPrompt(query string) string {
	return "Extract the city or country name from this query: " + query
}

// composePrompt embeds the weather result as indented JSON, error variant included.
func composePrompt(query string, result models.WeatherResult) (string, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode weather data: %w", err)
	}
	return fmt.Sprintf("Given the query '%s' and weather data: %s, provide a natural language response.", query, data), nil
}
