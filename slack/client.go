// Package slack is a minimal Slack Web API client for the bridge commands:
// plain channel messages and the two-button approval card.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL is the Slack Web API root.
const DefaultBaseURL = "https://slack.com/api"

// Approval card action IDs, matched by the bot that turns button clicks into
// queue tasks.
const (
	ActionApprove = "claw_approve"
	ActionReject  = "claw_reject"
)

// Client defines the Slack operations the bridge and the probe use.
type Client interface {
	PostMessage(ctx context.Context, channel, text string) error
	RequestApproval(ctx context.Context, channel, task string) error
}

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type ClientConfig struct {
	// BaseURL defaults to DefaultBaseURL; tests point it elsewhere.
	BaseURL    string
	Token      string
	HTTPClient httpDoer
}

type HTTPClient struct {
	baseURL    string
	token      string
	httpClient httpDoer
}

func NewClient(cfg ClientConfig) (*HTTPClient, error) {
	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		return nil, errors.New("slack bot token is required")
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

	return &HTTPClient{
		baseURL:    baseURL,
		token:      token,
		httpClient: doer,
	}, nil
}

type apiResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// Post calls one Web API method. Slack reports failures inside a 200
// response through ok=false, so API errors surface here alongside transport
// ones.
func (c *HTTPClient) Post(ctx context.Context, method string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", method, err)
	}

	url := c.baseURL + "/" + method
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request %s: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s failed: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		responseBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf(
			"request %s failed with status %d: %s",
			method,
			resp.StatusCode,
			strings.TrimSpace(string(responseBody)),
		)
	}

	var out apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("decode %s response: %w", method, err)
	}
	if !out.OK {
		code := out.Error
		if code == "" {
			code = "unknown"
		}
		return fmt.Errorf("slack api %s: %s", method, code)
	}
	return nil
}

// PostMessage sends a plain text message to a channel.
func (c *HTTPClient) PostMessage(ctx context.Context, channel, text string) error {
	return c.Post(ctx, "chat.postMessage", map[string]any{
		"channel": channel,
		"text":    text,
	})
}

// RequestApproval posts the approval card the bot understands: the task line
// plus Approve and Reject buttons wired to the bot's action IDs.
func (c *HTTPClient) RequestApproval(ctx context.Context, channel, task string) error {
	blocks := []map[string]any{
		{
			"type": "section",
			"text": map[string]any{"type": "mrkdwn", "text": "*Approval requested*\nTask: " + task},
		},
		{
			"type":     "context",
			"elements": []map[string]any{{"type": "mrkdwn", "text": "Requested by hoursync"}},
		},
		{
			"type": "actions",
			"elements": []map[string]any{
				{
					"type":      "button",
					"text":      map[string]any{"type": "plain_text", "text": "Approve"},
					"style":     "primary",
					"action_id": ActionApprove,
					"value":     "approve",
				},
				{
					"type":      "button",
					"text":      map[string]any{"type": "plain_text", "text": "Reject"},
					"style":     "danger",
					"action_id": ActionReject,
					"value":     "reject",
				},
			},
		},
	}
	return c.Post(ctx, "chat.postMessage", map[string]any{
		"channel": channel,
		"text":    "Approval requested: " + task,
		"blocks":  blocks,
	})
}
