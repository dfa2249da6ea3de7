package notion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"golang.org/x/time/rate"

	"timemachine/internal/logging"
	"timemachine/internal/services"
)

const (
	defaultBaseURL           = "https://api.notion.com/v1"
	defaultVersion           = "2022-06-28"
	defaultTimeout           = 15 * time.Second
	defaultMaxRetries        = 5
	defaultInitialBackoff    = time.Second
	defaultMaxBackoff        = 30 * time.Second
	defaultRequestsPerSecond = 3.0
	maxPageSize              = 100
)

// Config describes the Notion client configuration.
type Config struct {
	APIKey            string
	BaseURL           string
	Version           string
	Timeout           time.Duration
	MaxRetries        int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	RequestsPerSecond float64
	Logger            *slog.Logger
	HTTPClient        *http.Client
}

// Client wraps the Notion REST API.
type Client struct {
	http           *resty.Client
	limiter        *rate.Limiter
	logger         *slog.Logger
	maxRetries     int
	initialBackoff time.Duration
	maxBackoff     time.Duration
}

// New creates a Client from the supplied configuration.
func New(cfg Config) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, services.Wrap(services.ErrConfiguration, "notion", "new client", "api key is required", nil)
	}
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = defaultBaseURL
	}
	if parsed, err := url.Parse(base); err != nil || !parsed.IsAbs() {
		return nil, services.Wrap(services.ErrConfiguration, "notion", "new client", fmt.Sprintf("invalid base url %q", base), err)
	}
	version := strings.TrimSpace(cfg.Version)
	if version == "" {
		version = defaultVersion
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = defaultMaxRetries
	}
	initial := cfg.InitialBackoff
	if initial <= 0 {
		initial = defaultInitialBackoff
	}
	maxBackoff := cfg.MaxBackoff
	if maxBackoff < initial {
		maxBackoff = max(initial, defaultMaxBackoff)
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = defaultRequestsPerSecond
	}

	var httpClient *resty.Client
	if cfg.HTTPClient != nil {
		httpClient = resty.NewWithClient(cfg.HTTPClient)
	} else {
		httpClient = resty.New()
	}
	httpClient.
		SetBaseURL(base).
		SetTimeout(timeout).
		SetAuthToken(apiKey).
		SetHeader("Notion-Version", version).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	limiter := rate.NewLimiter(rate.Limit(rps), 1)
	httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return limiter.Wait(req.Context())
	})

	return &Client{
		http:           httpClient,
		limiter:        limiter,
		logger:         logging.NewComponentLogger(cfg.Logger, "notion"),
		maxRetries:     maxRetries,
		initialBackoff: initial,
		maxBackoff:     maxBackoff,
	}, nil
}

// Search lists objects shared with the integration. Without a filter only
// databases are returned.
func (c *Client) Search(ctx context.Context, req SearchRequest) (SearchResponse, error) {
	if req.Filter == nil {
		req.Filter = &SearchFilter{Property: "object", Value: "database"}
	}
	var out SearchResponse
	err := c.do(ctx, http.MethodPost, "/search", nil, req, &out)
	return out, err
}

// SearchAll follows pagination and returns every database matching query.
func (c *Client) SearchAll(ctx context.Context, query string) ([]Database, error) {
	req := SearchRequest{Query: query, PageSize: maxPageSize}
	var all []Database
	for {
		resp, err := c.Search(ctx, req)
		if err != nil {
			return nil, err
		}
		all = append(all, resp.Results...)
		if !resp.HasMore || resp.NextCursor == "" {
			return all, nil
		}
		req.StartCursor = resp.NextCursor
	}
}

// FirstDatabase returns the id of the first database shared with the integration.
func (c *Client) FirstDatabase(ctx context.Context) (string, error) {
	resp, err := c.Search(ctx, SearchRequest{PageSize: 1})
	if err != nil {
		return "", err
	}
	if len(resp.Results) == 0 {
		return "", services.Wrap(services.ErrNotFound, "notion", "search", "no database is shared with the integration", nil)
	}
	return resp.Results[0].ID, nil
}

// GetDatabase retrieves one database including its property layout.
func (c *Client) GetDatabase(ctx context.Context, id string) (Database, error) {
	var out Database
	err := c.do(ctx, http.MethodGet, "/databases/{id}", map[string]string{"id": id}, nil, &out)
	return out, err
}

// Query runs one page of a database query.
func (c *Client) Query(ctx context.Context, databaseID string, req QueryRequest) (QueryResponse, error) {
	var out QueryResponse
	err := c.do(ctx, http.MethodPost, "/databases/{id}/query", map[string]string{"id": databaseID}, req, &out)
	return out, err
}

// QueryAll follows next_cursor until the query is exhausted. limit caps the
// number of pages returned; zero means no cap.
func (c *Client) QueryAll(ctx context.Context, databaseID string, req QueryRequest, limit int) ([]Page, error) {
	if req.PageSize <= 0 {
		req.PageSize = maxPageSize
	}
	var all []Page
	for {
		resp, err := c.Query(ctx, databaseID, req)
		if err != nil {
			return nil, err
		}
		all = append(all, resp.Results...)
		if limit > 0 && len(all) >= limit {
			return all[:limit], nil
		}
		if !resp.HasMore || resp.NextCursor == "" {
			return all, nil
		}
		req.StartCursor = resp.NextCursor
	}
}

// CreatePage creates a page. The request must carry a parent.
func (c *Client) CreatePage(ctx context.Context, req PageRequest) (Page, error) {
	if req.Parent == nil || req.Parent.DatabaseID == "" {
		return Page{}, services.Wrap(services.ErrValidation, "notion", "create page", "parent database is required", nil)
	}
	var out Page
	err := c.do(ctx, http.MethodPost, "/pages", nil, req, &out)
	return out, err
}

// UpdatePage patches the properties of an existing page.
func (c *Client) UpdatePage(ctx context.Context, pageID string, req PageRequest) (Page, error) {
	req.Parent = nil
	var out Page
	err := c.do(ctx, http.MethodPatch, "/pages/{id}", map[string]string{"id": pageID}, req, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, params map[string]string, body, out any) error {
	if c == nil {
		return errors.New("notion: client is nil")
	}
	if _, ok := services.RequestIDFromContext(ctx); !ok {
		ctx = services.WithRequestID(ctx, uuid.NewString())
	}
	logger := logging.WithContext(ctx, c.logger)

	var (
		hint    time.Duration
		lastErr error
		attempt int
	)
	base := retry.WithCappedDuration(c.maxBackoff, retry.NewExponential(c.initialBackoff))
	retries := uint64(c.maxRetries) // #nosec G115 -- non-negative, checked in New
	backoff := retry.WithMaxRetries(retries, retry.BackoffFunc(func() (time.Duration, bool) {
		next, stop := base.Next()
		if stop {
			return 0, true
		}
		if hint > 0 {
			next = hint
			hint = 0
		}
		logging.WarnWithContext(logger, "notion request throttled, retrying", "notion_rate_limited",
			logging.String("method", method),
			logging.String("path", path),
			logging.Int("attempt", attempt),
			logging.Int("max_attempts", c.maxRetries),
			logging.Duration("backoff", next),
			logging.Error(lastErr),
			logging.String(logging.FieldErrorHint, "wait for rate limits or check network connectivity"),
			logging.String(logging.FieldImpact, "request delayed"),
		)
		return next, false
	}))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		err := c.once(ctx, method, path, params, body, out)
		if err == nil {
			return nil
		}
		lastErr = err
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.RetryAfter > 0 {
			hint = apiErr.RetryAfter
		}
		if services.IsRetriable(err) && ctx.Err() == nil {
			return retry.RetryableError(err)
		}
		return err
	})
}

func (c *Client) once(ctx context.Context, method, path string, params map[string]string, body, out any) error {
	apiErr := &APIError{}
	req := c.http.R().SetContext(ctx).SetError(apiErr)
	if out != nil {
		req.SetResult(out)
	}
	if body != nil {
		req.SetBody(body)
	}
	if len(params) > 0 {
		req.SetPathParams(params)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return classifyTransportError(ctx, method, path, err)
	}
	c.logger.Debug("notion request",
		logging.String("method", method),
		logging.String("path", path),
		logging.Int("status", resp.StatusCode()),
		logging.Duration("elapsed", resp.Time()),
	)
	if !resp.IsError() {
		return nil
	}
	apiErr.Status = resp.StatusCode()
	apiErr.RequestID = resp.Header().Get("X-Request-Id")
	apiErr.RetryAfter = parseRetryAfter(resp.Header().Get("Retry-After"), time.Now())
	return apiErr
}

func classifyTransportError(ctx context.Context, method, path string, err error) error {
	op := method + " " + path
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("notion: %s: %w", op, ctxErr)
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return services.Wrap(services.ErrTimeout, "notion", op, "request timed out", err)
	}
	return services.Wrap(services.ErrTransient, "notion", op, "request failed", err)
}

// parseRetryAfter accepts delta-seconds or an HTTP date.
func parseRetryAfter(value string, now time.Time) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	if secs, err := strconv.Atoi(value); err == nil {
		if secs <= 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(value); err == nil {
		if d := at.Sub(now); d > 0 {
			return d
		}
	}
	return 0
}
