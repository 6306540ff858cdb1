package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kjstillabower/weather-assistant/internal/client"
	"github.com/kjstillabower/weather-assistant/internal/llm"
	"github.com/kjstillabower/weather-assistant/internal/models"
	"github.com/kjstillabower/weather-assistant/internal/observability"
	"github.com/kjstillabower/weather-assistant/internal/traffic"
)

// ExtractionMode selects how the location is pulled out of a query.
type ExtractionMode string

const (
	// ExtractionPrompt asks the model for the place name as free text.
	ExtractionPrompt ExtractionMode = "prompt"
	// ExtractionFunction forces a get_weather call and reads its arguments.
	ExtractionFunction ExtractionMode = "function"
)

// ParseExtractionMode accepts "prompt" or "function". Empty input yields prompt.
func ParseExtractionMode(s string) (ExtractionMode, error) {
	switch ExtractionMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ExtractionPrompt:
		return ExtractionPrompt, nil
	case ExtractionFunction:
		return ExtractionFunction, nil
	}
	return "", fmt.Errorf("unknown extraction mode %q", s)
}

// Pipeline answers one weather query at a time: extract the location, fetch the
// weather, compose the reply. It holds no per-query state.
type Pipeline struct {
	gen        llm.Client
	caller     llm.FunctionCaller
	weather    client.WeatherClient
	mode       ExtractionMode
	detectUnit bool
	logger     *zap.Logger
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithExtractionMode sets the extraction mode. Function mode needs a FunctionCaller,
// either via WithFunctionCaller or by the generator implementing it.
func WithExtractionMode(m ExtractionMode) Option {
	return func(p *Pipeline) { p.mode = m }
}

// WithFunctionCaller sets the client used in function extraction mode.
func WithFunctionCaller(fc llm.FunctionCaller) Option {
	return func(p *Pipeline) { p.caller = fc }
}

// WithUnitDetection toggles reading the unit from the query text. When off every
// lookup is celsius.
func WithUnitDetection(on bool) Option {
	return func(p *Pipeline) { p.detectUnit = on }
}

// WithLogger sets the base logger; each query gets a child carrying its query_id.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// NewPipeline wires gen and weather. Defaults: prompt extraction, unit detection on,
// no-op logger.
func NewPipeline(gen llm.Client, weather client.WeatherClient, opts ...Option) (*Pipeline, error) {
	if gen == nil {
		return nil, errors.New("pipeline: language model client is required")
	}
	if weather == nil {
		return nil, errors.New("pipeline: weather client is required")
	}

	p := &Pipeline{
		gen:        gen,
		weather:    weather,
		mode:       ExtractionPrompt,
		detectUnit: true,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}

	switch p.mode {
	case ExtractionPrompt:
	case ExtractionFunction:
		if p.caller == nil {
			fc, ok := gen.(llm.FunctionCaller)
			if !ok {
				return nil, errors.New("pipeline: function extraction requires a function-calling client")
			}
			p.caller = fc
		}
	default:
		return nil, fmt.Errorf("pipeline: unknown extraction mode %q", p.mode)
	}
	return p, nil
}

// Answer runs the full sequence for query and always returns printable text.
// Model failures come back as "Error: <message>"; weather failures are handed to
// the model so it can explain them.
func (p *Pipeline) Answer(ctx context.Context, query string) (answer string) {
	start := time.Now()
	queryID := uuid.NewString()
	logger := p.logger.With(zap.String("query_id", queryID))
	ctx = observability.WithQueryID(ctx, queryID)
	ctx = observability.WithLogger(ctx, logger)

	outcome := observability.OutcomeFailed
	defer func() {
		if r := recover(); r != nil {
			logger.Error("query panicked", zap.Any("panic", r), zap.Stack("stack"))
			outcome = observability.OutcomeFailed
			answer = fmt.Sprintf("Error: %v", r)
		}
		observability.RecordQuery(outcome, time.Since(start))
		traffic.Record(outcome)
		logger.Info("query handled",
			zap.String("outcome", outcome),
			zap.Duration("duration", time.Since(start)))
	}()

	text, result, err := p.run(ctx, query)
	if err != nil {
		logger.Warn("query failed", zap.Error(err))
		return "Error: " + err.Error()
	}

	outcome = observability.OutcomeAnswered
	if result.Failed() {
		outcome = observability.OutcomeAnsweredWeatherError
	}
	return text
}

func (p *Pipeline) run(ctx context.Context, query string) (string, models.WeatherResult, error) {
	location, unit, err := p.extract(ctx, query)
	if err != nil {
		return "", models.WeatherResult{}, withStage(err, models.StageExtract)
	}

	result := p.weather.Fetch(ctx, location, unit)

	prompt, err := composePrompt(query, result)
	if err != nil {
		return "", result, err
	}
	text, err := p.gen.Generate(ctx, prompt)
	if err != nil {
		return "", result, withStage(err, models.StageCompose)
	}
	return strings.TrimSpace(text), result, nil
}

func (p *Pipeline) extract(ctx context.Context, query string) (string, models.Unit, error) {
	unit := models.UnitCelsius
	if p.detectUnit {
		unit = DetectUnit(query)
	}
	logger := observability.LoggerFrom(ctx)

	if p.mode == ExtractionFunction {
		raw, err := p.caller.CallFunction(ctx, query, llm.WeatherTool())
		if err != nil {
			return "", "", err
		}
		args, err := llm.ParseWeatherArgs(raw)
		if err != nil {
			return "", "", err
		}
		unit = args.UnitOrDefault(unit)
		logger.Debug("extracted location", zap.String("location", args.Location), zap.String("unit", string(unit)))
		return args.Location, unit, nil
	}

	text, err := p.gen.Generate(ctx, extractionPrompt(query))
	if err != nil {
		return "", "", err
	}
	location := strings.TrimSpace(text)
	logger.Debug("extracted location", zap.String("location", location), zap.String("unit", string(unit)))
	return location, unit, nil
}

// withStage tags a GenerationError with the step that produced it, leaving the
// caller's error untouched.
func withStage(err error, stage models.Stage) error {
	var genErr *models.GenerationError
	if !errors.As(err, &genErr) {
		return err
	}
	tagged := *genErr
	tagged.Stage = stage
	return &tagged
}
