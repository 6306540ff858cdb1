//go:build integration
// +build integration

package testhelpers

import (
	"os"
	"testing"
)

// IntegrationTestConfig holds configuration for integration tests.
type IntegrationTestConfig struct {
	WeatherAPIKey string
	WeatherAPIURL string
	LLMAPIKey     string
	LLMBaseURL    string
	LLMModel      string
}

// GetIntegrationConfig loads integration test configuration from environment.
// Skips test if WEATHER_API_KEY is not set. LLM fields are empty when
// GOOGLE_API_KEY is not set; use RequireLLM for tests that need the model.
func GetIntegrationConfig(t *testing.T) IntegrationTestConfig {
	t.Helper()
	apiKey := os.Getenv("WEATHER_API_KEY")
	if apiKey == "" {
		t.Skip("WEATHER_API_KEY not set, skipping integration test")
	}

	return IntegrationTestConfig{
		WeatherAPIKey: apiKey,
		WeatherAPIURL: envOr("WEATHER_API_URL", "https://api.openweathermap.org/data/2.5/weather"),
		LLMAPIKey:     os.Getenv("GOOGLE_API_KEY"),
		LLMBaseURL:    envOr("LLM_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/openai"),
		LLMModel:      envOr("LLM_MODEL", "gemini-2.0-flash"),
	}
}

// RequireLLM skips the test when no language model key is configured.
func RequireLLM(t *testing.T, cfg IntegrationTestConfig) {
	t.Helper()
	if cfg.LLMAPIKey == "" {
		t.Skip("GOOGLE_API_KEY not set, skipping integration test")
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
