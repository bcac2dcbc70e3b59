package research

import (
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/Vanshikanainn/Company-Research-Agent/internal/httpx"
)

// Config holds connection settings for the research backend.
type Config struct {
	// BaseURL is the backend root, e.g. "http://localhost:8000".
	BaseURL string

	Headers    map[string]string
	HTTPClient *http.Client

	MaxRetries int
	MinBackoff time.Duration
	MaxBackoff time.Duration
}

// Client talks to one research backend. The zero-config client targets a
// local development backend.
type Client struct {
	cfg Config
}

func NewClient(cfg Config) *Client {
	return &Client{cfg: normalizeConfig(cfg)}
}

func (c *Client) Config() Config { return c.cfg }

var defaultClient atomic.Pointer[Client]

func init() {
	defaultClient.Store(NewClient(Config{}))
}

// Configure replaces the package-level default client used by Ask,
// SpeechToText, and ExtractDetails.
func Configure(cfg Config) {
	defaultClient.Store(NewClient(cfg))
}

func normalizeConfig(cfg Config) Config {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8000"
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 2
	}
	if cfg.MinBackoff == 0 {
		cfg.MinBackoff = 250 * time.Millisecond
	}
	if cfg.MaxBackoff == 0 {
		cfg.MaxBackoff = 5 * time.Second
	}
	return cfg
}

func (c *Client) endpoint(path string) (string, error) {
	base := strings.TrimRight(c.cfg.BaseURL, "/")
	u, err := url.Parse(base + path)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

func (c *Client) headers() http.Header {
	h := make(http.Header)
	for k, v := range c.cfg.Headers {
		h.Set(k, v)
	}
	return h
}

func (c *Client) retryPolicy(maxRetries *int) httpx.RetryPolicy {
	p := httpx.RetryPolicy{
		MaxRetries: c.cfg.MaxRetries,
		MinBackoff: c.cfg.MinBackoff,
		MaxBackoff: c.cfg.MaxBackoff,
	}
	if maxRetries != nil {
		p.MaxRetries = *maxRetries
	}
	return p
}
