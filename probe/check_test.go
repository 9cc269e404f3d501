package probe

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"
)

type fakeDoer struct {
	fn func(*http.Request) (*http.Response, error)
}

func (f fakeDoer) Do(req *http.Request) (*http.Response, error) {
	return f.fn(req)
}

func TestNewChecker_RequiresKey(t *testing.T) {
	t.Parallel()

	if _, err := NewChecker(CheckerConfig{APIKey: "  "}); err == nil {
		t.Fatalf("expected error for blank api key")
	}
}

func TestCheck_OKReadsRateLimitHeaders(t *testing.T) {
	t.Parallel()

	doer := fakeDoer{fn: func(r *http.Request) (*http.Response, error) {
		if r.Method != http.MethodGet || r.URL.Path != "/v1/models" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Fatalf("unexpected authorization header: %q", got)
		}
		header := make(http.Header)
		header.Set("x-ratelimit-limit-requests", "5000")
		header.Set("x-ratelimit-remaining-requests", "4999")
		header.Set("x-ratelimit-reset-requests", "12ms")
		header.Set("x-ratelimit-limit-tokens", "2000000")
		header.Set("x-ratelimit-remaining-tokens", "1999000")
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(`{"data":[]}`)),
			Header:     header,
		}, nil
	}}

	checker, err := NewChecker(CheckerConfig{APIKey: "sk-test", HTTPClient: doer})
	if err != nil {
		t.Fatalf("new checker: %v", err)
	}

	result, err := checker.Check(context.Background())
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if result.Status != StatusOK || result.HTTPCode != http.StatusOK {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.RateLimit.RemainingRequests != "4999" || result.RateLimit.LimitTokens != "2000000" {
		t.Fatalf("rate limit headers not captured: %+v", result.RateLimit)
	}
	if result.CheckedAt.IsZero() {
		t.Fatalf("expected CheckedAt to be stamped")
	}
}

func TestCheck_RateLimited(t *testing.T) {
	t.Parallel()

	doer := fakeDoer{fn: func(r *http.Request) (*http.Response, error) {
		header := make(http.Header)
		header.Set("Retry-After", "17")
		header.Set("x-ratelimit-reset-requests", "2h13m")
		return &http.Response{
			StatusCode: http.StatusTooManyRequests,
			Body: io.NopCloser(strings.NewReader(
				`{"error":{"type":"tokens","message":"Rate limit reached for gpt-4o"}}`,
			)),
			Header: header,
		}, nil
	}}

	checker, err := NewChecker(CheckerConfig{APIKey: "sk-test", HTTPClient: doer})
	if err != nil {
		t.Fatalf("new checker: %v", err)
	}

	result, err := checker.Check(context.Background())
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if result.Status != StatusRateLimited {
		t.Fatalf("expected rate_limited, got %q", result.Status)
	}
	if result.RetryAfter != "17" {
		t.Fatalf("expected retry-after 17, got %q", result.RetryAfter)
	}
	if result.ErrorType != "tokens" || !strings.Contains(result.ErrorMessage, "Rate limit reached") {
		t.Fatalf("error body not parsed: %+v", result)
	}
}

func TestCheck_AuthErrorIsError(t *testing.T) {
	t.Parallel()

	doer := fakeDoer{fn: func(r *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusUnauthorized,
			Body:       io.NopCloser(strings.NewReader(`{"error":{"type":"invalid_request_error","message":"Incorrect API key"}}`)),
			Header:     make(http.Header),
		}, nil
	}}

	checker, err := NewChecker(CheckerConfig{APIKey: "sk-test", HTTPClient: doer})
	if err != nil {
		t.Fatalf("new checker: %v", err)
	}

	result, err := checker.Check(context.Background())
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if result.Status != StatusError || result.HTTPCode != http.StatusUnauthorized {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.ErrorMessage != "Incorrect API key" {
		t.Fatalf("error message not parsed: %+v", result)
	}
}

func TestCheck_TransportFailureIsNetworkError(t *testing.T) {
	t.Parallel()

	doer := fakeDoer{fn: func(r *http.Request) (*http.Response, error) {
		return nil, errors.New("dial tcp: connection refused")
	}}

	checker, err := NewChecker(CheckerConfig{APIKey: "sk-test", HTTPClient: doer})
	if err != nil {
		t.Fatalf("new checker: %v", err)
	}

	result, err := checker.Check(context.Background())
	if err != nil {
		t.Fatalf("transport failures should classify, not error: %v", err)
	}
	if result.Status != StatusNetworkError || !strings.Contains(result.Message, "connection refused") {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestSummary(t *testing.T) {
	t.Parallel()

	checkedAt := time.Date(2026, 2, 26, 9, 30, 0, 0, time.UTC)

	ok := Result{
		Status:    StatusOK,
		CheckedAt: checkedAt,
		RateLimit: RateLimit{
			LimitRequests:     "5000",
			RemainingRequests: "4999",
			LimitTokens:       "2000000",
			RemainingTokens:   "1999000",
		},
	}
	wantOK := "✅ OpenAI API accessible (2026-02-26 09:30:00 UTC)\n" +
		"  Requests: 4999/5000 remaining\n" +
		"  Tokens: 1999000/2000000 remaining"
	if got := ok.Summary(); got != wantOK {
		t.Fatalf("ok summary mismatch:\n got %q\nwant %q", got, wantOK)
	}

	limited := Result{
		Status:       StatusRateLimited,
		CheckedAt:    checkedAt,
		RetryAfter:   "17",
		ErrorMessage: "Rate limit reached for gpt-4o",
		RateLimit:    RateLimit{ResetRequests: "2h13m"},
	}
	wantLimited := "🔴 Rate limited (2026-02-26 09:30:00 UTC)\n" +
		"  Rate limit reached for gpt-4o\n" +
		"  Retry-After: 17\n" +
		"  Reset-Requests: 2h13m"
	if got := limited.Summary(); got != wantLimited {
		t.Fatalf("rate limited summary mismatch:\n got %q\nwant %q", got, wantLimited)
	}

	failed := Result{Status: StatusError, HTTPCode: 401, CheckedAt: checkedAt, Message: "bad key"}
	if got := failed.Summary(); !strings.Contains(got, "API error 401") || !strings.Contains(got, "bad key") {
		t.Fatalf("error summary mismatch: %q", got)
	}

	network := Result{Status: StatusNetworkError, CheckedAt: checkedAt, Message: "dial tcp: refused"}
	if got := network.Summary(); !strings.Contains(got, "network_error") {
		t.Fatalf("network summary mismatch: %q", got)
	}
}
