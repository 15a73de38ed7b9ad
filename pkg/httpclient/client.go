package httpclient

import (
	"crypto/tls"
	"log/slog"
	"net"
	"net/http"
	"time"
)

// New creates a new HTTP client with the given configuration.
// Returns an error if the configuration is invalid.
func New(cfg Config) (*http.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	baseTransport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},

		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     90 * time.Second,

		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: cfg.Timeout,
		ExpectContinueTimeout: 1 * time.Second,
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &http.Client{
		Transport: newLoggingTransport(baseTransport, cfg.UserAgent, logger),
		Timeout:   cfg.Timeout,
	}, nil
}
