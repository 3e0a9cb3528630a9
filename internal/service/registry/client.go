package registry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/oshokin/tag-sync/internal/config"
	"github.com/oshokin/tag-sync/internal/domain/tag"
	"github.com/oshokin/tag-sync/internal/logger"
	"github.com/oshokin/tag-sync/internal/version"
)

// maxBodySize caps how much of the listing page is read.
const maxBodySize = 16 << 20

var (
	// ErrNoTag is returned when the page holds no version tag.
	ErrNoTag = errors.New("no version tag found")
	// ErrUnexpectedStatus is returned for non-2xx responses.
	ErrUnexpectedStatus = errors.New("unexpected http status")
	// errURLRequired is returned when no listing URL is given.
	errURLRequired = errors.New("registry url must be provided")
)

// Client fetches the registry listing page.
type Client struct {
	// url is the listing page address.
	url string
	// httpClient performs the request.
	httpClient *http.Client
	// userAgent is sent with every request.
	userAgent string
}

// Option configures client behaviour.
type Option func(*Client)

// WithTimeout sets the overall request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		if userAgent != "" {
			c.userAgent = userAgent
		}
	}
}

// NewClient creates a client for the listing page at url.
func NewClient(url string, opts ...Option) (*Client, error) {
	if url == "" {
		return nil, errURLRequired
	}

	client := &Client{
		url:        url,
		httpClient: &http.Client{Timeout: config.DefaultTimeout},
		userAgent:  version.UserAgent(),
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// FetchLatestTag downloads the listing page and returns its highest tag.
// Every failure is logged here with its cause before being returned.
func (c *Client) FetchLatestTag(ctx context.Context) (tag.Tag, error) {
	ctx = logger.WithKV(ctx, "url", c.url)

	logger.Info(ctx, "Fetching registry listing")

	body, err := c.fetch(ctx)
	if err != nil {
		logger.ErrorKV(ctx, "Failed to fetch registry listing", "error", err)

		return tag.Tag{}, err
	}

	candidates := tag.Scan(string(body))

	latest, ok := tag.Latest(candidates)
	if !ok {
		logger.WarnKV(ctx, "No version tag found in registry listing", "bytes", len(body))

		return tag.Tag{}, ErrNoTag
	}

	logger.InfoKV(ctx, "Found latest tag", "tag", latest.String(), "candidates", len(candidates))

	return latest, nil
}

// fetch performs the GET and returns the body of a 2xx response.
func (c *Client) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)

	response, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", c.url, err)
	}

	defer func() {
		_ = response.Body.Close()
	}()

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%s, %s: %w", c.url, response.Status, ErrUnexpectedStatus)
	}

	body, err := io.ReadAll(io.LimitReader(response.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	return body, nil
}
