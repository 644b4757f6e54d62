package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"fabric-sync/core/inventory"

	"go.uber.org/zap"
)

// NewClient creates a registry client from the configuration.
func NewClient(cfg Config, logger *zap.Logger) Client {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 15
	}
	timeoutDuration := time.Duration(timeout) * time.Second

	// Same strict transport timeouts as the storage client: never hang on
	// connection setup or a stalled response.
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeoutDuration,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeoutDuration,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: timeoutDuration,
	}

	return &httpClient{
		baseURL:    sanitizeBaseURL(cfg.URL),
		token:      cfg.Token,
		maxRetries: cfg.MaxRetries,
		http: &http.Client{
			Timeout:   timeoutDuration,
			Transport: transport,
		},
		logger: logger,
	}
}

type httpClient struct {
	baseURL    string
	token      string
	maxRetries int
	http       *http.Client
	logger     *zap.Logger
}

// sanitizeBaseURL ensures the base URL carries a scheme and no trailing slash.
func sanitizeBaseURL(raw string) string {
	raw = strings.TrimRight(strings.TrimSpace(raw), "/")
	if raw == "" {
		return raw
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "http://" + raw
	}
	return raw
}

// endpoint builds the URL for a category, with an optional path suffix
// (an object ID or "bulk").
func (c *httpClient) endpoint(category inventory.Category, suffix string) string {
	u := c.baseURL + "/api/" + string(category) + "/"
	if suffix != "" {
		u += suffix + "/"
	}
	return u
}

// scopeQuery encodes the scope as list query parameters.
func scopeQuery(scope Scope) string {
	q := url.Values{}
	if scope.Device != "" {
		q.Set("device", strings.ToLower(strings.TrimSpace(scope.Device)))
	}
	if scope.Site != "" {
		q.Set("site", inventory.Slugify(scope.Site))
	}
	if scope.Tenant != "" {
		q.Set("tenant", inventory.Slugify(scope.Tenant))
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

func (c *httpClient) List(ctx context.Context, category inventory.Category, scope Scope) ([]Item, error) {
	body, err := c.do(ctx, http.MethodGet, c.endpoint(category, "")+scopeQuery(scope), nil)
	if err != nil {
		return nil, err
	}
	return decodeItems(category, body)
}

func (c *httpClient) Create(ctx context.Context, entity inventory.Entity) (Item, error) {
	body, err := c.do(ctx, http.MethodPost, c.endpoint(entity.Category(), ""), entity)
	if err != nil {
		return Item{}, err
	}

	var w wireItem
	if err := json.Unmarshal(body, &w); err != nil {
		return Item{}, fmt.Errorf("failed to decode create response: %w", err)
	}
	return decodeItem(entity.Category(), w)
}

func (c *httpClient) CreateMany(ctx context.Context, category inventory.Category, entities []inventory.Entity) ([]Item, error) {
	if len(entities) == 0 {
		return nil, nil
	}
	body, err := c.do(ctx, http.MethodPost, c.endpoint(category, "bulk"), entities)
	if err != nil {
		return nil, err
	}
	return decodeItems(category, body)
}

func (c *httpClient) Update(ctx context.Context, update Update) error {
	_, err := c.do(ctx, http.MethodPatch, c.endpoint(update.Entity.Category(), strconv.Itoa(update.ID)), update.Entity)
	return err
}

func (c *httpClient) UpdateMany(ctx context.Context, category inventory.Category, updates []Update) error {
	if len(updates) == 0 {
		return nil
	}
	payload := make([]wireUpdate, 0, len(updates))
	for _, u := range updates {
		payload = append(payload, wireUpdate{ID: u.ID, Data: u.Entity})
	}
	_, err := c.do(ctx, http.MethodPatch, c.endpoint(category, "bulk"), payload)
	return err
}

func (c *httpClient) Delete(ctx context.Context, category inventory.Category, id int) error {
	_, err := c.do(ctx, http.MethodDelete, c.endpoint(category, strconv.Itoa(id)), nil)
	return err
}

func (c *httpClient) DeleteMany(ctx context.Context, category inventory.Category, ids []int) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := c.do(ctx, http.MethodDelete, c.endpoint(category, "bulk"), wireIDs{IDs: ids})
	return err
}

func (c *httpClient) LookupDevice(ctx context.Context, hostname string) (*Item, error) {
	items, err := c.List(ctx, inventory.CategoryDevices, Scope{Device: hostname})
	if err != nil {
		return nil, err
	}

	want := strings.ToLower(strings.TrimSpace(hostname))
	for _, item := range items {
		if item.Key() == want {
			return &item, nil
		}
	}
	return nil, nil
}

func (c *httpClient) LookupSite(ctx context.Context, slug string) (bool, error) {
	u := c.baseURL + "/api/sites/?site=" + url.QueryEscape(inventory.Slugify(slug))
	body, err := c.do(ctx, http.MethodGet, u, nil)
	if err != nil {
		return false, err
	}

	var list wireList
	if err := json.Unmarshal(body, &list); err != nil {
		return false, fmt.Errorf("failed to decode site lookup: %w", err)
	}
	return list.Count > 0, nil
}

// do executes a single API request, retrying rate-limited attempts with
// exponential backoff. The Retry-After header takes precedence over the
// computed backoff when the server provides one.
func (c *httpClient) do(ctx context.Context, method, requestURL string, payload any) ([]byte, error) {
	var reqBody []byte
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = b
	}

	for attempt := 0; ; attempt++ {
		req, err := http.NewRequestWithContext(ctx, method, requestURL, bytes.NewReader(reqBody))
		if err != nil {
			return nil, fmt.Errorf("failed to build request: %w", err)
		}
		req.Header.Set("Authorization", "Token "+c.token)
		req.Header.Set("Accept", "application/json")
		if reqBody != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("registry request failed: %w", err)
		}

		respBody, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests {
			if attempt >= c.maxRetries {
				return nil, fmt.Errorf("registry rate limit: gave up after %d attempts", attempt+1)
			}
			wait := retryAfter(resp, attempt)
			c.logger.Warn("Registry rate limited, backing off",
				zap.Duration("wait", wait),
				zap.Int("attempt", attempt+1),
			)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
			continue
		}

		if resp.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, requestURL)
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, fmt.Errorf("registry returned %d: %s", resp.StatusCode, snippet(respBody))
		}
		if readErr != nil {
			return nil, fmt.Errorf("failed to read response: %w", readErr)
		}
		return respBody, nil
	}
}

// retryAfter returns the wait before the next attempt. Server-supplied
// Retry-After seconds win; otherwise backoff doubles per attempt.
func retryAfter(resp *http.Response, attempt int) time.Duration {
	if s := resp.Header.Get("Retry-After"); s != "" {
		if secs, err := strconv.Atoi(s); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return time.Duration(1<<attempt) * 500 * time.Millisecond
}

// snippet trims a response body for inclusion in error messages.
func snippet(body []byte) string {
	const max = 200
	s := strings.TrimSpace(string(body))
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
