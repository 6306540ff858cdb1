package service

import (
	"strings"

	"github.com/kjstillabower/weather-assistant/internal/models"
)

var fahrenheitMarkers = []string{"fahrenheit", "°f", "imperial"}

// DetectUnit picks the unit a query asks for. Anything that does not mention
// fahrenheit is celsius.
func DetectUnit(query string) models.Unit {
	q := strings.ToLower(query)
	for _, m := range fahrenheitMarkers {
		if strings.Contains(q, m) {
			return models.UnitFahrenheit
		}
	}
	return models.UnitCelsius
}
