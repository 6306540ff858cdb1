package models

import "fmt"

// UpstreamError is a weather provider failure. StatusCode is zero when the call failed
// before a response status was received (transport fault, bad input).
type UpstreamError struct {
	StatusCode int
	Message    string
	Cause      error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return "Weather API error: " + e.Message
	}
	return "Failed to get weather: " + e.Message
}

func (e *UpstreamError) Unwrap() error { return e.Cause }

// Stage names the pipeline step that called the language model.
type Stage string

const (
	StageExtract Stage = "extract"
	StageCompose Stage = "compose"
)

// GenerationError is a language model failure: unreachable service, rejected prompt,
// quota, unknown model or an empty completion.
type GenerationError struct {
	Stage      Stage
	StatusCode int
	Code       string
	Message    string
	Cause      error
}

func (e *GenerationError) Error() string {
	msg := e.Message
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.StatusCode)
	}
	if e.Stage != "" {
		return fmt.Sprintf("%s: %s", e.Stage, msg)
	}
	return msg
}

func (e *GenerationError) Unwrap() error { return e.Cause }
