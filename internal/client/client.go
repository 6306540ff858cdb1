package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/kjstillabower/weather-assistant/internal/models"
	"github.com/kjstillabower/weather-assistant/internal/observability"
	"github.com/kjstillabower/weather-assistant/internal/validation"
)

// DefaultAPIURL is the OpenWeatherMap current-weather endpoint.
const DefaultAPIURL = "https://api.openweathermap.org/data/2.5/weather"

// DefaultMaxLocationLength bounds the location sent upstream, in runes.
const DefaultMaxLocationLength = 100

// WeatherClient fetches current conditions. Failures are reported through the
// error variant of the result, never as a Go error.
type WeatherClient interface {
	Fetch(ctx context.Context, location string, unit models.Unit) models.WeatherResult
}

var (
	ErrInvalidAPIKey = errors.New("invalid API key")
	// ErrMalformedResponse marks a 200 response whose body lacks an expected field.
	ErrMalformedResponse = errors.New("malformed response")
)

type OpenWeatherClient struct {
	apiKey            string
	apiURL            string
	client            *http.Client
	maxLocationLength int
}

// Option customizes an OpenWeatherClient.
type Option func(*OpenWeatherClient)

// WithMaxLocationLength overrides DefaultMaxLocationLength. n <= 0 disables the bound.
func WithMaxLocationLength(n int) Option {
	return func(c *OpenWeatherClient) { c.maxLocationLength = n }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *OpenWeatherClient) { c.client = hc }
}

// NewOpenWeatherClient returns a client for apiURL. A zero timeout leaves the
// transport defaults in place.
func NewOpenWeatherClient(apiKey, apiURL string, timeout time.Duration, opts ...Option) (*OpenWeatherClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: API key is required", ErrInvalidAPIKey)
	}
	if len(apiKey) < 10 {
		return nil, fmt.Errorf("%w: API key appears invalid (too short)", ErrInvalidAPIKey)
	}
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	if _, err := url.Parse(apiURL); err != nil {
		return nil, fmt.Errorf("invalid API URL: %w", err)
	}

	c := &OpenWeatherClient{
		apiKey:            apiKey,
		apiURL:            apiURL,
		client:            &http.Client{Timeout: timeout},
		maxLocationLength: DefaultMaxLocationLength,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type openWeatherMain struct {
	Temp     *float64 `json:"temp"`
	Humidity *float64 `json:"humidity"`
}

type openWeatherCondition struct {
	Main        string  `json:"main"`
	Description *string `json:"description"`
}

type openWeatherWind struct {
	Speed *float64 `json:"speed"`
}

type openWeatherResponse struct {
	Main    *openWeatherMain       `json:"main"`
	Weather []openWeatherCondition `json:"weather"`
	Wind    *openWeatherWind       `json:"wind"`
	Name    string                 `json:"name"`
}

type openWeatherError struct {
	Message string `json:"message"`
}

// Fetch performs one GET for location in the given unit (celsius when empty).
func (c *OpenWeatherClient) Fetch(ctx context.Context, location string, unit models.Unit) models.WeatherResult {
	if unit == "" {
		unit = models.UnitCelsius
	}
	logger := observability.LoggerFrom(ctx)

	result, err := c.fetch(ctx, location, unit)
	if err != nil {
		var upErr *models.UpstreamError
		if !errors.As(err, &upErr) {
			upErr = &models.UpstreamError{Message: err.Error(), Cause: err}
		}
		category := CategorizeError(upErr)
		observability.WeatherAPIErrorsTotal.WithLabelValues(string(category)).Inc()
		logger.Warn("weather lookup failed",
			zap.String("location", location),
			zap.String("category", string(category)),
			zap.Int("status", upErr.StatusCode),
			zap.String("error", upErr.Error()))
		return models.NewWeatherError(upErr)
	}

	logger.Debug("weather lookup",
		zap.String("location", result.Location),
		zap.String("unit", string(result.Unit)),
		zap.Float64("temperature", result.Temperature))
	return result
}

func (c *OpenWeatherClient) fetch(ctx context.Context, location string, unit models.Unit) (models.WeatherResult, error) {
	loc, err := validation.ValidateLocation(location, c.maxLocationLength)
	if err != nil {
		return models.WeatherResult{}, &models.UpstreamError{Message: err.Error(), Cause: err}
	}

	req, err := c.buildRequest(ctx, loc, unit)
	if err != nil {
		return models.WeatherResult{}, &models.UpstreamError{Message: err.Error(), Cause: err}
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		observability.WeatherAPICallsTotal.WithLabelValues("error").Inc()
		observability.WeatherAPIDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		return models.WeatherResult{}, &models.UpstreamError{Message: transportMessage(err), Cause: err}
	}
	defer resp.Body.Close()

	status := observability.StatusLabel(resp.StatusCode)
	observability.WeatherAPICallsTotal.WithLabelValues(status).Inc()
	observability.WeatherAPIDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.WeatherResult{}, &models.UpstreamError{Message: "read response body: " + err.Error(), Cause: err}
	}

	if resp.StatusCode != http.StatusOK {
		return models.WeatherResult{}, providerError(resp.StatusCode, body)
	}

	var apiResp openWeatherResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return models.WeatherResult{}, &models.UpstreamError{Message: "parse response: " + err.Error(), Cause: err}
	}
	return mapResponse(apiResp, loc, unit)
}

func (c *OpenWeatherClient) buildRequest(ctx context.Context, location string, unit models.Unit) (*http.Request, error) {
	baseURL, err := url.Parse(c.apiURL)
	if err != nil {
		return nil, fmt.Errorf("invalid API URL: %w", err)
	}

	params := baseURL.Query()
	params.Set("q", location)
	params.Set("appid", c.apiKey)
	params.Set("units", unit.APIUnits())
	baseURL.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if id := observability.QueryID(ctx); id != "" {
		req.Header.Set("X-Correlation-ID", id)
	}
	return req, nil
}

// providerError builds the error variant for a non-200 response, preferring the
// provider's own message.
func providerError(statusCode int, body []byte) *models.UpstreamError {
	var apiErr openWeatherError
	msg := "Unknown error"
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Message != "" {
		msg = apiErr.Message
	}
	return &models.UpstreamError{StatusCode: statusCode, Message: msg}
}

// transportMessage describes a client.Do failure without the request URL, which
// carries the API key.
func transportMessage(err error) string {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return "request failed: " + urlErr.Err.Error()
	}
	return "request failed: " + err.Error()
}

func mapResponse(apiResp openWeatherResponse, location string, unit models.Unit) (models.WeatherResult, error) {
	missing := func(field string) error {
		err := fmt.Errorf("%w: missing field %s", ErrMalformedResponse, field)
		return &models.UpstreamError{Message: err.Error(), Cause: err}
	}
	switch {
	case apiResp.Main == nil || apiResp.Main.Temp == nil:
		return models.WeatherResult{}, missing("main.temp")
	case apiResp.Main.Humidity == nil:
		return models.WeatherResult{}, missing("main.humidity")
	case len(apiResp.Weather) == 0 || apiResp.Weather[0].Description == nil:
		return models.WeatherResult{}, missing("weather[0].description")
	case apiResp.Wind == nil || apiResp.Wind.Speed == nil:
		return models.WeatherResult{}, missing("wind.speed")
	}

	return models.WeatherResult{
		Location:    location,
		Temperature: *apiResp.Main.Temp,
		Unit:        unit,
		Conditions:  *apiResp.Weather[0].Description,
		Humidity:    *apiResp.Main.Humidity,
		WindSpeed:   *apiResp.Wind.Speed,
		Timestamp:   time.Now(),
	}, nil
}
