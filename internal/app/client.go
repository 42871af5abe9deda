package app

import (
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/campus/pkg/hubsdk"
	"github.com/aussiebroadwan/campus/pkg/initdata"
	"github.com/aussiebroadwan/campus/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"
)

// Client bundles what a command needs to talk to the API as the configured
// user.
type Client struct {
	API         *hubsdk.Client
	Session     *session.Session
	Credentials initdata.Retriever

	logger  *slog.Logger
	watcher *initdata.Watcher
}

// NewClient wires the credential sources, the API client and the session.
// Metrics are registered with reg; pass nil to skip them.
func NewClient(cfg Config, logger *slog.Logger, reg prometheus.Registerer) (*Client, error) {
	c := &Client{logger: logger}

	creds, err := c.credentials(cfg)
	if err != nil {
		return nil, err
	}
	c.Credentials = creds

	opts := []hubsdk.Option{
		hubsdk.WithCredentials(creds),
		hubsdk.WithLogger(logger),
	}
	if reg != nil {
		opts = append(opts, hubsdk.WithMetrics(hubsdk.NewMetrics(reg)))
	}
	if cfg.RateLimit > 0 {
		opts = append(opts, hubsdk.WithRateLimiter(rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)))
	}

	c.API = hubsdk.New(cfg.APIURL, opts...)
	c.Session = session.New(c.API, creds, session.WithLogger(logger))

	logger.Debug("api client ready",
		"api_url", cfg.APIURL,
		"init_data_file", cfg.InitDataFile,
		"watch", c.watcher != nil,
		"rate_limit", cfg.RateLimit,
	)
	return c, nil
}

// credentials orders the sources: an explicit payload wins over the file.
func (c *Client) credentials(cfg Config) (initdata.Retriever, error) {
	sources := []initdata.Retriever{initdata.Static(cfg.InitData)}

	switch {
	case cfg.InitDataFile == "":
	case cfg.WatchInitData:
		w, err := initdata.NewWatcher(cfg.InitDataFile, c.logger, initdata.WithOnChange(func(present bool) {
			c.logger.Info("init data file changed", "present", present)
		}))
		if err != nil {
			return nil, fmt.Errorf("watch init data file: %w", err)
		}
		c.watcher = w
		sources = append(sources, w)
	default:
		sources = append(sources, initdata.File(cfg.InitDataFile))
	}

	return initdata.Chain(sources...), nil
}

// Close stops the file watcher, if any.
func (c *Client) Close() error {
	if c.watcher == nil {
		return nil
	}
	return c.watcher.Close()
}
