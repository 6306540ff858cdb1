package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kjstillabower/weather-assistant/internal/models"
	"github.com/kjstillabower/weather-assistant/internal/observability"
)

const (
	// DefaultBaseURL is Gemini's OpenAI-compatible endpoint.
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai"
	DefaultModel   = "gemini-2.0-flash"
)

const (
	opGenerate     = "generate"
	opCallFunction = "call_function"
)

// Client produces text for a single-turn prompt. Errors are *models.GenerationError.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// FunctionCaller asks the model to call tool and returns the raw JSON arguments.
type FunctionCaller interface {
	CallFunction(ctx context.Context, prompt string, tool openai.Tool) (string, error)
}

// OpenAIClient talks to any OpenAI-compatible chat completions endpoint.
type OpenAIClient struct {
	api     *openai.Client
	model   string
	timeout time.Duration
}

// New builds a client for baseURL (DefaultBaseURL when empty) and model
// (DefaultModel when empty). A zero timeout leaves the transport defaults in place.
func New(apiKey, baseURL, model string, timeout time.Duration) (*OpenAIClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("llm: API key is required")
	}
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = DefaultBaseURL
	if base := strings.TrimSpace(baseURL); base != "" {
		cfg.BaseURL = strings.TrimRight(base, "/")
	}

	if model = strings.TrimSpace(model); model == "" {
		model = DefaultModel
	}

	return &OpenAIClient{
		api:     openai.NewClientWithConfig(cfg),
		model:   model,
		timeout: timeout,
	}, nil
}

// Model returns the configured model name.
func (c *OpenAIClient) Model() string { return c.model }

// Generate sends prompt as a single user message and returns the first choice's text.
func (c *OpenAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	logger := observability.LoggerFrom(ctx)
	logger.Debug("llm prompt", zap.String("prompt", prompt))

	resp, err := c.complete(ctx, opGenerate, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", &models.GenerationError{Message: "no completion choices"}
	}

	text := resp.Choices[0].Message.Content
	logger.Debug("llm response", zap.String("response", text))
	return text, nil
}

// CallFunction forces a call to tool and returns its arguments JSON.
func (c *OpenAIClient) CallFunction(ctx context.Context, prompt string, tool openai.Tool) (string, error) {
	if tool.Function == nil {
		return "", &models.GenerationError{Message: "tool has no function definition"}
	}
	name := tool.Function.Name
	logger := observability.LoggerFrom(ctx)
	logger.Debug("llm function prompt", zap.String("prompt", prompt), zap.String("function", name))

	resp, err := c.complete(ctx, opCallFunction, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Tools: []openai.Tool{tool},
		ToolChoice: openai.ToolChoice{
			Type:     openai.ToolTypeFunction,
			Function: openai.ToolFunction{Name: name},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", &models.GenerationError{Message: "no completion choices"}
	}

	for _, call := range resp.Choices[0].Message.ToolCalls {
		if call.Function.Name == name {
			logger.Debug("llm function call", zap.String("function", name), zap.String("arguments", call.Function.Arguments))
			return call.Function.Arguments, nil
		}
	}
	return "", &models.GenerationError{Message: fmt.Sprintf("model did not call %s", name)}
}

func (c *OpenAIClient) complete(ctx context.Context, op string, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := c.api.CreateChatCompletion(ctx, req)
	observability.LLMDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		observability.LLMCallsTotal.WithLabelValues(op, "error").Inc()
		return resp, toGenerationError(err)
	}
	observability.LLMCallsTotal.WithLabelValues(op, "success").Inc()
	return resp, nil
}

// toGenerationError keeps the provider's status and code when the SDK exposes them.
func toGenerationError(err error) *models.GenerationError {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		code := ""
		if apiErr.Code != nil {
			code = fmt.Sprint(apiErr.Code)
		}
		msg := apiErr.Message
		if msg == "" {
			msg = "request rejected"
		}
		return &models.GenerationError{StatusCode: apiErr.HTTPStatusCode, Code: code, Message: msg, Cause: err}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		msg := "request failed"
		if reqErr.Err != nil {
			msg = reqErr.Err.Error()
		}
		return &models.GenerationError{StatusCode: reqErr.HTTPStatusCode, Message: msg, Cause: err}
	}

	return &models.GenerationError{Message: err.Error(), Cause: err}
}
