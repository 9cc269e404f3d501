// Package prodapi talks to the production timekeeping service: health
// checks, per-week entry listings, admin entry imports and entry deletion.
package prodapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client defines the production API operations the toolkit uses.
type Client interface {
	Health(ctx context.Context) (map[string]any, error)
	ListEntries(ctx context.Context, employeeID, weekStart string) ([]TimeEntry, error)
	ImportEntries(ctx context.Context, entries []ImportEntry, defaultStatus string) (ImportResult, error)
	DeleteEntry(ctx context.Context, id string, force bool) error
}

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type ClientConfig struct {
	BaseURL     string
	AdminSecret string
	HTTPClient  httpDoer
}

type HTTPClient struct {
	baseURL     string
	adminSecret string
	httpClient  httpDoer
}

func NewClient(cfg ClientConfig) (*HTTPClient, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		return nil, errors.New("base URL is required")
	}
	baseURL = strings.TrimRight(baseURL, "/")

	parsedBase, err := url.Parse(baseURL)
	if err != nil || parsedBase.Scheme == "" || parsedBase.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", cfg.BaseURL)
	}

	doer := cfg.HTTPClient
	if doer == nil {
		doer = &http.Client{Timeout: 15 * time.Second}
	}

	return &HTTPClient{
		baseURL:     baseURL,
		adminSecret: strings.TrimSpace(cfg.AdminSecret),
		httpClient:  doer,
	}, nil
}

// ImportEntry is the wire form of one time entry for the admin import.
type ImportEntry struct {
	Employee string  `json:"employee"`
	Customer string  `json:"customer"`
	WorkDate string  `json:"work_date"`
	Hours    float64 `json:"hours"`
	Notes    string  `json:"notes"`
}

type importEntriesRequest struct {
	Entries       []ImportEntry `json:"entries"`
	DefaultStatus string        `json:"default_status"`
}

// ImportResult reports what the admin import accepted.
type ImportResult struct {
	Imported int    `json:"imported"`
	Skipped  int    `json:"skipped"`
	Message  string `json:"message"`
}

// TimeEntry is one stored entry as the listing endpoint returns it.
type TimeEntry struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employee_id"`
	EmployeeName string  `json:"employee_name"`
	CustomerName string  `json:"customer_name"`
	WorkDate     string  `json:"work_date"`
	Hours        float64 `json:"hours"`
	Status       string  `json:"status"`
	Notes        string  `json:"notes"`
}

type listEntriesResponse struct {
	Entries []TimeEntry `json:"entries"`
}

func (c *HTTPClient) Health(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	if err := c.doJSON(ctx, http.MethodGet, "/api/health", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) ListEntries(ctx context.Context, employeeID, weekStart string) ([]TimeEntry, error) {
	query := url.Values{}
	if employeeID != "" {
		query.Set("employee_id", employeeID)
	}
	if weekStart != "" {
		query.Set("week_start", weekStart)
	}
	path := "/api/time-entries"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var out listEntriesResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Entries, nil
}

func (c *HTTPClient) ImportEntries(ctx context.Context, entries []ImportEntry, defaultStatus string) (ImportResult, error) {
	if len(entries) == 0 {
		return ImportResult{}, errors.New("import entries payload must not be empty")
	}

	var out ImportResult
	body := importEntriesRequest{Entries: entries, DefaultStatus: defaultStatus}
	if err := c.doJSON(ctx, http.MethodPost, "/api/admin/import-entries", body, &out); err != nil {
		return ImportResult{}, err
	}
	return out, nil
}

func (c *HTTPClient) DeleteEntry(ctx context.Context, id string, force bool) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return errors.New("entry id is required")
	}

	path := "/api/time-entries/" + url.PathEscape(id)
	if force {
		path += "?force=true"
	}
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil)
}

func (c *HTTPClient) doJSON(ctx context.Context, method, endpointPath string, body any, out any) error {
	var bodyReader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	url := c.baseURL + endpointPath
	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("create request %s %s: %w", method, endpointPath, err)
	}

	req.Header.Set("Accept", "application/json")
	if c.adminSecret != "" {
		req.Header.Set("X-Admin-Secret", c.adminSecret)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s failed: %w", method, endpointPath, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		responseBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf(
			"request %s %s failed with status %d: %s",
			method,
			endpointPath,
			resp.StatusCode,
			strings.TrimSpace(string(responseBody)),
		)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode response %s %s: %w", method, endpointPath, err)
	}
	return nil
}
