package httpclient

import (
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Options configures the download client
type Options struct {
	DialTimeout           time.Duration
	TLSHandshakeTimeout   time.Duration
	ResponseHeaderTimeout time.Duration
	IdleConnTimeout       time.Duration
	// Timeout bounds the whole exchange including the body. Zero means none;
	// large media bodies can stream for a long time.
	Timeout time.Duration
}

// DefaultOptions returns the timeouts used when none are configured
func DefaultOptions() Options {
	return Options{
		DialTimeout:           30 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
		IdleConnTimeout:       90 * time.Second,
	}
}

// New creates an HTTP client for streaming downloads
func New(opts Options, logger *zap.Logger) *http.Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   opts.DialTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   opts.TLSHandshakeTimeout,
		ResponseHeaderTimeout: opts.ResponseHeaderTimeout,

		// Connection pooling
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     opts.IdleConnTimeout,

		ForceAttemptHTTP2: true,

		// Media is already compressed; keep Content-Length meaningful
		DisableCompression: true,
	}

	return &http.Client{
		Transport: &loggingTransport{base: transport, logger: logger},
		Timeout:   opts.Timeout,
	}
}

// loggingTransport logs each round trip at debug level
type loggingTransport struct {
	base   http.RoundTripper
	logger *zap.Logger
}

// RoundTrip implements http.RoundTripper
func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		t.logger.Debug("HTTP request failed",
			zap.String("method", req.Method),
			zap.String("url", req.URL.Redacted()),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return nil, err
	}

	t.logger.Debug("HTTP response headers received",
		zap.String("method", req.Method),
		zap.String("url", req.URL.Redacted()),
		zap.Int("status", resp.StatusCode),
		zap.Int64("content_length", resp.ContentLength),
		zap.Duration("elapsed", time.Since(start)))
	return resp, nil
}
