package client

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/kjstillabower/weather-assistant/internal/models"
	"github.com/kjstillabower/weather-assistant/internal/validation"
)

// ErrorCategory is a stable label for error classification in metrics.
type ErrorCategory string

// Error category constants used as the weatherApiErrorsTotal label.
const (
	ErrorCategoryTimeout          ErrorCategory = "timeout"
	ErrorCategoryNetwork          ErrorCategory = "network"
	ErrorCategoryInvalidAPIKey    ErrorCategory = "invalid_api_key"
	ErrorCategoryLocationNotFound ErrorCategory = "location_not_found"
	ErrorCategoryRateLimited      ErrorCategory = "rate_limited"
	ErrorCategoryUpstream5xx      ErrorCategory = "upstream_5xx"
	ErrorCategoryParsing          ErrorCategory = "parsing"
	ErrorCategoryValidation       ErrorCategory = "validation"
	ErrorCategoryUnknown          ErrorCategory = "unknown"
)

// CategorizeError maps an error to a stable ErrorCategory for metrics.
// Status codes on an UpstreamError take precedence over its cause.
func CategorizeError(err error) ErrorCategory {
	if err == nil {
		return ""
	}

	var upErr *models.UpstreamError
	if errors.As(err, &upErr) && upErr.StatusCode != 0 {
		switch {
		case upErr.StatusCode == http.StatusUnauthorized:
			return ErrorCategoryInvalidAPIKey
		case upErr.StatusCode == http.StatusNotFound:
			return ErrorCategoryLocationNotFound
		case upErr.StatusCode == http.StatusTooManyRequests:
			return ErrorCategoryRateLimited
		case upErr.StatusCode >= 500:
			return ErrorCategoryUpstream5xx
		}
		return ErrorCategoryUnknown
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return ErrorCategoryTimeout
	}

	if errors.Is(err, validation.ErrLocationEmpty) || errors.Is(err, validation.ErrLocationTooLong) {
		return ErrorCategoryValidation
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.Is(err, ErrMalformedResponse) || errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return ErrorCategoryParsing
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return ErrorCategoryTimeout
		}
		return ErrorCategoryNetwork
	}

	errStr := err.Error()
	if strings.Contains(errStr, "connection") || strings.Contains(errStr, "no such host") {
		return ErrorCategoryNetwork
	}
	if strings.Contains(errStr, "timeout") {
		return ErrorCategoryTimeout
	}

	return ErrorCategoryUnknown
}
