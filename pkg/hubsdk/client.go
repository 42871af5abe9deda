package hubsdk

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/campus/pkg/initdata"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

const tracerName = "github.com/aussiebroadwan/campus/pkg/hubsdk"

// Client is the single path every call to the campus API takes. It attaches
// the launch credential, encodes and decodes JSON and normalises failures to
// *Error. It holds no per-user state; the credential is fetched from
// Credentials on every call.
type Client struct {
	BaseURL     string
	HTTPClient  *http.Client
	Credentials initdata.Retriever
	Logger      *slog.Logger

	metrics *Metrics
	tracer  trace.Tracer
	limiter *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. The gateway never sets a
// timeout of its own; give this client one, or bound the context.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.HTTPClient = hc
		}
	}
}

// WithCredentials sets where the launch payload comes from.
func WithCredentials(r initdata.Retriever) Option {
	return func(c *Client) {
		if r != nil {
			c.Credentials = r
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.Logger = l
		}
	}
}

// WithMetrics records request counts and latencies into m.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithTracerProvider creates one client span per call from tp. The global
// provider is used otherwise.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Client) {
		if tp != nil {
			c.tracer = tp.Tracer(tracerName)
		}
	}
}

// WithRateLimiter paces outgoing calls through l. Calls wait for a token; they
// are never dropped or retried.
func WithRateLimiter(l *rate.Limiter) Option {
	return func(c *Client) {
		c.limiter = l
	}
}

// New creates a client for the API at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		BaseURL:     strings.TrimSuffix(baseURL, "/"),
		HTTPClient:  &http.Client{},
		Credentials: initdata.None,
		Logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.tracer == nil {
		c.tracer = otel.Tracer(tracerName)
	}
	return c
}

func (c *Client) url(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.BaseURL + path
}
