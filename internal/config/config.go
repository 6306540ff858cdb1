package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds assistant configuration loaded from .env, YAML and env.
type Config struct {
	LLMAPIKey  string
	LLMBaseURL string
	LLMModel   string
	LLMTimeout time.Duration // 0 = transport default

	WeatherAPIKey     string
	WeatherAPIURL     string
	WeatherAPITimeout time.Duration // 0 = transport default
	LocationMaxLength int

	ExtractionMode string // "prompt" or "function"
	DetectUnit     bool

	MetricsAddr     string // empty disables the ops server
	ShutdownTimeout time.Duration

	DegradedWindow     time.Duration
	DegradedFailurePct int
}

const (
	defaultLLMBaseURL        = "https://generativelanguage.googleapis.com/v1beta/openai"
	defaultLLMModel          = "gemini-2.0-flash"
	defaultWeatherAPIURL     = "https://api.openweathermap.org/data/2.5/weather"
	defaultLocationMaxLength = 100
	defaultExtractionMode    = "prompt"
	defaultShutdownTimeout   = 5 * time.Second
	defaultDegradedWindow    = 5 * time.Minute
	defaultDegradedPct       = 50
)

type fileConfig struct {
	LLM struct {
		BaseURL string `yaml:"base_url"`
		Model   string `yaml:"model"`
		Timeout string `yaml:"timeout"`
	} `yaml:"llm"`

	WeatherAPI struct {
		URL               string `yaml:"url"`
		Timeout           string `yaml:"timeout"`
		LocationMaxLength int    `yaml:"location_max_length"`
	} `yaml:"weather_api"`

	Pipeline struct {
		ExtractionMode string `yaml:"extraction_mode"`
		DetectUnit     *bool  `yaml:"detect_unit"`
	} `yaml:"pipeline"`

	Metrics struct {
		Addr string `yaml:"addr"`
	} `yaml:"metrics"`

	Health struct {
		DegradedWindow     string `yaml:"degraded_window"`
		DegradedFailurePct *int   `yaml:"degraded_failure_pct"`
	} `yaml:"health"`

	Shutdown struct {
		Timeout string `yaml:"timeout"`
	} `yaml:"shutdown"`
}

type secretsFile struct {
	GoogleAPIKey  string `yaml:"google_api_key"`
	WeatherAPIKey string `yaml:"weather_api_key"`
}

// Load reads .env, then config/{ENV_NAME}.yaml (default dev) and config/secrets.yaml,
// both optional. Env vars win over files. Call from project root.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	env := os.Getenv("ENV_NAME")
	if env == "" {
		env = "dev"
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("config: get working directory: %w", err)
	}

	var fc fileConfig
	if err := readYAML(filepath.Join(cwd, "config", env+".yaml"), &fc); err != nil {
		return nil, fmt.Errorf("config file: %w", err)
	}
	var sec secretsFile
	if err := readYAML(filepath.Join(cwd, "config", "secrets.yaml"), &sec); err != nil {
		return nil, fmt.Errorf("secrets file: %w", err)
	}

	cfg := &Config{
		LLMAPIKey:     firstNonEmpty(os.Getenv("GOOGLE_API_KEY"), sec.GoogleAPIKey),
		WeatherAPIKey: firstNonEmpty(os.Getenv("WEATHER_API_KEY"), sec.WeatherAPIKey),
	}
	var missing []string
	if cfg.LLMAPIKey == "" {
		missing = append(missing, "GOOGLE_API_KEY")
	}
	if cfg.WeatherAPIKey == "" {
		missing = append(missing, "WEATHER_API_KEY")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%s required (set env, .env or config/secrets.yaml)", strings.Join(missing, " and "))
	}

	cfg.LLMBaseURL = firstNonEmpty(os.Getenv("LLM_BASE_URL"), fc.LLM.BaseURL, defaultLLMBaseURL)
	cfg.LLMModel = firstNonEmpty(os.Getenv("LLM_MODEL"), fc.LLM.Model, defaultLLMModel)
	cfg.LLMTimeout = parseDurationOrZero(fc.LLM.Timeout, 0)

	cfg.WeatherAPIURL = firstNonEmpty(os.Getenv("WEATHER_API_URL"), fc.WeatherAPI.URL, defaultWeatherAPIURL)
	cfg.WeatherAPITimeout = parseDurationOrZero(fc.WeatherAPI.Timeout, 0)
	cfg.LocationMaxLength = fc.WeatherAPI.LocationMaxLength
	if cfg.LocationMaxLength <= 0 {
		cfg.LocationMaxLength = defaultLocationMaxLength
	}

	cfg.ExtractionMode = strings.ToLower(firstNonEmpty(os.Getenv("EXTRACTION_MODE"), fc.Pipeline.ExtractionMode, defaultExtractionMode))
	cfg.DetectUnit = true
	if fc.Pipeline.DetectUnit != nil {
		cfg.DetectUnit = *fc.Pipeline.DetectUnit
	}

	cfg.MetricsAddr = firstNonEmpty(os.Getenv("METRICS_ADDR"), fc.Metrics.Addr)
	cfg.ShutdownTimeout = parseDuration(fc.Shutdown.Timeout, defaultShutdownTimeout)
	cfg.DegradedWindow = parseDuration(fc.Health.DegradedWindow, defaultDegradedWindow)
	cfg.DegradedFailurePct = defaultDegradedPct
	if fc.Health.DegradedFailurePct != nil {
		cfg.DegradedFailurePct = *fc.Health.DegradedFailurePct
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// readYAML decodes path into v. A missing file leaves v untouched.
func readYAML(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// parseDuration parses a duration string and returns defaultVal if parsing fails or result is <= 0.
func parseDuration(s string, defaultVal time.Duration) time.Duration {
	d := parseDurationOrZero(s, defaultVal)
	if d <= 0 {
		return defaultVal
	}
	return d
}

// parseDurationOrZero parses a duration string, returning defaultVal on empty string or parse error.
// Zero and negative durations are returned as-is; validate rejects negatives.
func parseDurationOrZero(s string, defaultVal time.Duration) time.Duration {
	s = strings.TrimSpace(s)
	if s == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return defaultVal
	}
	return d
}

// validate performs post-load validation of configuration values.
func validate(cfg *Config) error {
	if cfg.LLMTimeout < 0 {
		return fmt.Errorf("llm.timeout must not be negative")
	}
	if cfg.WeatherAPITimeout < 0 {
		return fmt.Errorf("weather_api.timeout must not be negative")
	}
	if cfg.DegradedFailurePct < 0 || cfg.DegradedFailurePct > 100 {
		return fmt.Errorf("health.degraded_failure_pct must be between 0 and 100, got %d", cfg.DegradedFailurePct)
	}
	switch cfg.ExtractionMode {
	case "prompt", "function":
		// valid
	default:
		return fmt.Errorf("pipeline.extraction_mode must be prompt or function, got %q", cfg.ExtractionMode)
	}
	for name, raw := range map[string]string{"llm.base_url": cfg.LLMBaseURL, "weather_api.url": cfg.WeatherAPIURL} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%s must be an absolute URL, got %q", name, raw)
		}
	}
	return nil
}
