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

package connection

import (
	"net/http"

	"golang.org/x/oauth2"
)

// AuthHandler decorates outgoing requests with credentials.
type AuthHandler interface {
	// Name identifies the scheme ("pat", "basic" or "bearer").
	Name() string

	// Wrap returns a RoundTripper that authenticates requests sent through base.
	Wrap(base http.RoundTripper) http.RoundTripper
}

// BasicHandler sends HTTP basic credentials.
type BasicHandler struct {
	scheme   string
	Username string
	Password string
}

// NewBasicHandler returns a handler for username/password basic auth.
func NewBasicHandler(username, password string) *BasicHandler {
	return &BasicHandler{scheme: "basic", Username: username, Password: password}
}

// NewPATHandler returns a handler for a personal access token. PATs travel as
// the password of a basic credential with an empty username.
func NewPATHandler(token string) *BasicHandler {
	return &BasicHandler{scheme: "pat", Password: token}
}

// Name implements AuthHandler.
func (h *BasicHandler) Name() string {
	return h.scheme
}

// Wrap implements AuthHandler.
func (h *BasicHandler) Wrap(base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		req = req.Clone(req.Context())
		req.SetBasicAuth(h.Username, h.Password)
		return base.RoundTrip(req)
	})
}

// BearerHandler sends an OAuth bearer token.
type BearerHandler struct {
	source oauth2.TokenSource
}

// NewBearerHandler returns a handler for a fixed access token.
func NewBearerHandler(token string) *BearerHandler {
	return &BearerHandler{
		source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}),
	}
}

// Name implements AuthHandler.
func (h *BearerHandler) Name() string {
	return "bearer"
}

// Wrap implements AuthHandler.
func (h *BearerHandler) Wrap(base http.RoundTripper) http.RoundTripper {
	return &oauth2.Transport{Source: h.source, Base: base}
}

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}
