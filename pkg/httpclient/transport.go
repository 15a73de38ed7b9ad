package httpclient

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// loggingTransport sets the User-Agent and logs each request with a
// sanitized URL.
type loggingTransport struct {
	base      http.RoundTripper
	userAgent string
	logger    *slog.Logger
}

func newLoggingTransport(base http.RoundTripper, userAgent string, logger *slog.Logger) *loggingTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &loggingTransport{
		base:      base,
		userAgent: userAgent,
		logger:    logger,
	}
}

// RoundTrip implements http.RoundTripper.
func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	// RoundTrippers must not modify the caller's request.
	if req.Header.Get("User-Agent") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", t.userAgent)
	}

	resp, err := t.base.RoundTrip(req)
	duration := time.Since(start).Milliseconds()
	logURL := sanitizeURL(req.URL)

	if err != nil {
		t.logger.Warn("http request failed",
			"method", req.Method,
			"url", logURL,
			"duration_ms", duration,
			"error", err.Error(),
		)
		return nil, err
	}

	level := slog.LevelDebug
	if resp.StatusCode >= 400 {
		level = slog.LevelWarn
	}
	t.logger.Log(req.Context(), level, "http request",
		"method", req.Method,
		"url", logURL,
		"status", resp.StatusCode,
		"duration_ms", duration,
	)

	return resp, nil
}

// sensitiveParams lists query parameter substrings whose values are redacted
// from logs. Matching is case-insensitive.
var sensitiveParams = []string{
	"api_key",
	"apikey",
	"token",
	"password",
	"auth",
	"secret",
	"key",
	"credential",
}

// sanitizeURL returns u as a string with sensitive query values replaced by
// [REDACTED] and any userinfo dropped.
func sanitizeURL(u *url.URL) string {
	if u == nil {
		return ""
	}

	q := u.Query()
	for param := range q {
		if isSensitiveParam(param) {
			q.Set(param, "[REDACTED]")
		}
	}

	safe := *u
	safe.User = nil
	safe.RawQuery = q.Encode()
	return safe.String()
}

func isSensitiveParam(param string) bool {
	lower := strings.ToLower(param)
	for _, sensitive := range sensitiveParams {
		if strings.Contains(lower, sensitive) {
			return true
		}
	}
	return false
}
