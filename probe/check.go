// Package probe checks the OpenAI API rate-limit state without consuming
// billable tokens, either one-shot or through a polling watcher.
package probe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL is the OpenAI API root.
const DefaultBaseURL = "https://api.openai.com/v1"

// Probe states.
const (
	StatusOK           = "ok"
	StatusRateLimited  = "rate_limited"
	StatusError        = "error"
	StatusNetworkError = "network_error"
)

// RateLimit carries the x-ratelimit response headers, empty when absent.
type RateLimit struct {
	LimitRequests     string
	RemainingRequests string
	ResetRequests     string
	LimitTokens       string
	RemainingTokens   string
	ResetTokens       string
}

// Result is one probe outcome. Transport failures land here as
// StatusNetworkError rather than as errors, so a watcher can keep polling
// through them.
type Result struct {
	Status       string
	HTTPCode     int
	Message      string
	RetryAfter   string
	ErrorType    string
	ErrorMessage string
	RateLimit    RateLimit
	CheckedAt    time.Time
}

// Summary renders the result the way the watcher logs and posts it.
func (r Result) Summary() string {
	now := r.CheckedAt.UTC().Format("2006-01-02 15:04:05 UTC")
	switch r.Status {
	case StatusOK:
		return fmt.Sprintf(
			"✅ OpenAI API accessible (%s)\n  Requests: %s/%s remaining\n  Tokens: %s/%s remaining",
			now,
			valueOr(r.RateLimit.RemainingRequests, "?"),
			valueOr(r.RateLimit.LimitRequests, "?"),
			valueOr(r.RateLimit.RemainingTokens, "?"),
			valueOr(r.RateLimit.LimitTokens, "?"),
		)
	case StatusRateLimited:
		message := r.ErrorMessage
		if message == "" {
			message = "Rate limited"
		}
		return fmt.Sprintf(
			"🔴 Rate limited (%s)\n  %s\n  Retry-After: %s\n  Reset-Requests: %s",
			now,
			message,
			valueOr(r.RetryAfter, "unknown"),
			valueOr(r.RateLimit.ResetRequests, "unknown"),
		)
	case StatusError:
		message := r.ErrorMessage
		if message == "" {
			message = valueOr(r.Message, "Unknown error")
		}
		return fmt.Sprintf("⚠️ API error %d (%s): %s", r.HTTPCode, now, message)
	default:
		return fmt.Sprintf("❓ %s (%s): %s", r.Status, now, r.Message)
	}
}

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type CheckerConfig struct {
	// BaseURL defaults to DefaultBaseURL.
	BaseURL    string
	APIKey     string
	HTTPClient httpDoer
}

type HTTPChecker struct {
	baseURL    string
	apiKey     string
	httpClient httpDoer
}

func NewChecker(cfg CheckerConfig) (*HTTPChecker, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("api key is required")
	}

	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	doer := cfg.HTTPClient
	if doer == nil {
		doer = &http.Client{Timeout: 15 * time.Second}
	}

	return &HTTPChecker{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: doer,
	}, nil
}

// Check lists models, a call that consumes no billable tokens, and reads the
// rate-limit state off the response headers.
func (c *HTTPChecker) Check(ctx context.Context) (Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/models", nil)
	if err != nil {
		return Result{}, fmt.Errorf("create models request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	result := Result{CheckedAt: time.Now()}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		result.Status = StatusNetworkError
		result.Message = err.Error()
		return result, nil
	}
	defer resp.Body.Close()

	result.HTTPCode = resp.StatusCode
	result.RateLimit = rateLimitFromHeaders(resp.Header)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		result.Status = StatusOK
		return result, nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	result.Message = truncate(strings.TrimSpace(string(body)), 500)
	result.RetryAfter = resp.Header.Get("Retry-After")
	if resp.StatusCode == http.StatusTooManyRequests {
		result.Status = StatusRateLimited
	} else {
		result.Status = StatusError
	}

	var apiErr struct {
		Error struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &apiErr); err == nil {
		result.ErrorType = apiErr.Error.Type
		result.ErrorMessage = apiErr.Error.Message
	}

	return result, nil
}

func rateLimitFromHeaders(header http.Header) RateLimit {
	return RateLimit{
		LimitRequests:     header.Get("x-ratelimit-limit-requests"),
		RemainingRequests: header.Get("x-ratelimit-remaining-requests"),
		ResetRequests:     header.Get("x-ratelimit-reset-requests"),
		LimitTokens:       header.Get("x-ratelimit-limit-tokens"),
		RemainingTokens:   header.Get("x-ratelimit-remaining-tokens"),
		ResetTokens:       header.Get("x-ratelimit-reset-tokens"),
	}
}

func valueOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func truncate(value string, limit int) string {
	if len(value) <= limit {
		return value
	}
	return value[:limit]
}
