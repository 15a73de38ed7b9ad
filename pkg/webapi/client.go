// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package webapi is a thin JSON client for a collection's REST surface.
//
// Commands obtain a Client through their connection; the client handles
// authentication, session tagging and error decoding so callers only deal in
// paths and typed values.
package webapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/tombee/tfx/pkg/httpclient"
)

// SessionHeader carries a per-client id so server logs can group the requests
// of one invocation.
const SessionHeader = "X-TFS-Session"

// Authenticator wraps a transport with credentials.
type Authenticator interface {
	Wrap(base http.RoundTripper) http.RoundTripper
}

// Client talks to one collection.
type Client struct {
	httpClient *http.Client
	baseURL    string
	sessionID  string
}

// Option configures a Client.
type Option func(*Client) error

// WithHTTPClient replaces the underlying HTTP client. The authenticator still
// wraps its transport.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) error {
		c.httpClient = client
		return nil
	}
}

// WithSessionID fixes the session id instead of generating one.
func WithSessionID(id string) Option {
	return func(c *Client) error {
		if _, err := uuid.Parse(id); err != nil {
			return fmt.Errorf("invalid session id: %w", err)
		}
		c.sessionID = id
		return nil
	}
}

// New creates a client for collectionURL. auth may be nil for anonymous access.
func New(collectionURL string, auth Authenticator, opts ...Option) (*Client, error) {
	if collectionURL == "" {
		return nil, fmt.Errorf("collection url is required")
	}

	c := &Client{
		baseURL:   strings.TrimRight(collectionURL, "/"),
		sessionID: uuid.NewString(),
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if c.httpClient == nil {
		hc, err := httpclient.New(httpclient.DefaultConfig())
		if err != nil {
			return nil, fmt.Errorf("failed to create http client: %w", err)
		}
		c.httpClient = hc
	}

	if auth != nil {
		wrapped := *c.httpClient
		wrapped.Transport = auth.Wrap(c.httpClient.Transport)
		c.httpClient = &wrapped
	}

	return c, nil
}

// BaseURL returns the collection URL requests are resolved against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SessionID returns the id sent in SessionHeader.
func (c *Client) SessionID() string {
	return c.sessionID
}

// NewRequest builds a request for path relative to the collection. A non-nil
// body is encoded as JSON.
func (c *Client) NewRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/"+strings.TrimLeft(path, "/"), bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(SessionHeader, c.sessionID)
	if bodyReader != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

// Do sends req and decodes a JSON response into out when out is non-nil.
// Non-2xx responses return *APIError.
func (c *Client) Do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// Get is shorthand for a GET of path decoded into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	req, err := c.NewRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return c.Do(req, out)
}
