// Package source fetches projects from the remote ERP backend and normalizes
// them into the local project model.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/rpggio/sealboard/internal/domain/project"
	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/errgroup"
)

// ErrNotConfigured is returned when no base URL is set.
var ErrNotConfigured = errors.New("source base url not configured")

// ErrBodyTooLarge is returned when a response exceeds the body limit.
var ErrBodyTooLarge = errors.New("source response body too large")

const maxBodyBytes = 32 << 20

// StatusError reports a non-2xx response.
type StatusError struct {
	Path       string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.Path, e.StatusCode)
}

func (e *StatusError) retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// Client talks to the ERP backend.
type Client struct {
	baseURL    string
	token      string
	http       *http.Client
	maxRetries int
	backoff    time.Duration
	maxBody    int64
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithToken sets the bearer token sent with every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithMaxRetries bounds the retries of a transient failure.
func WithMaxRetries(n int) Option {
	return func(c *Client) { c.maxRetries = n }
}

// WithBackoff sets the initial exponential backoff delay.
func WithBackoff(d time.Duration) Option {
	return func(c *Client) { c.backoff = d }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a client for the backend rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		http:       &http.Client{Timeout: 10 * time.Second},
		maxRetries: 3,
		backoff:    200 * time.Millisecond,
		maxBody:    maxBodyBytes,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Close releases idle connections.
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}

// FetchProjects loads projects and master data concurrently and returns the
// normalized projects. Missing master-data endpoints are tolerated.
func (c *Client) FetchProjects(ctx context.Context) ([]project.Project, error) {
	if c.baseURL == "" {
		return nil, ErrNotConfigured
	}

	var (
		projectsBody []byte
		lookups      Lookups
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		body, err := c.get(gctx, "/projects")
		if err != nil {
			return fmt.Errorf("fetch projects: %w", err)
		}
		projectsBody = body
		return nil
	})
	lookupTargets := []struct {
		path string
		dst  *map[string]string
	}{
		{"/companies", &lookups.Companies},
		{"/brands", &lookups.Brands},
		{"/categories", &lookups.Categories},
	}
	for _, target := range lookupTargets {
		g.Go(func() error {
			body, err := c.get(gctx, target.path)
			var statusErr *StatusError
			if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
				c.logger.Debug("master data endpoint missing", "path", target.path)
				*target.dst = map[string]string{}
				return nil
			}
			if err != nil {
				return fmt.Errorf("fetch %s: %w", strings.TrimPrefix(target.path, "/"), err)
			}
			*target.dst = ParseLookup(body)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	projects := NormalizeProjects(projectsBody, lookups)
	c.logger.Info("fetched projects from source", "count", len(projects))
	return projects, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	b := retry.NewExponential(c.backoff)
	b = retry.WithCappedDuration(5*time.Second, b)
	b = retry.WithMaxRetries(uint64(max(c.maxRetries, 0)), b)

	var body []byte
	attempt := 0
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		attempt++
		data, err := c.getOnce(ctx, path)
		if err == nil {
			body = data
			return nil
		}

		var statusErr *StatusError
		if errors.As(err, &statusErr) && !statusErr.retryable() {
			return err
		}
		if errors.Is(err, ErrBodyTooLarge) {
			return err
		}
		if ctx.Err() != nil {
			return err
		}
		c.logger.Warn("source request failed, retrying", "path", path, "attempt", attempt, "error", err)
		return retry.RetryableError(err)
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

func (c *Client) getOnce(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{Path: path, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > c.maxBody {
		return nil, fmt.Errorf("GET %s: %w (limit %d bytes)", path, ErrBodyTooLarge, c.maxBody)
	}
	return body, nil
}
