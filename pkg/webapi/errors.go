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

package webapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// maxErrorBody bounds how much of an error response is kept.
const maxErrorBody = 64 << 10

// APIError is returned for non-2xx responses.
type APIError struct {
	StatusCode int
	Message    string
	TypeKey    string
	Body       string
}

// Error implements error.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("service returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("service returned %d", e.StatusCode)
}

// IsUserVisible implements errors.UserVisibleError.
func (e *APIError) IsUserVisible() bool {
	return true
}

// UserMessage implements errors.UserVisibleError.
func (e *APIError) UserMessage() string {
	return e.Error()
}

// Suggestion implements errors.UserVisibleError.
func (e *APIError) Suggestion() string {
	switch e.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return "Check your credentials with 'tfx login'"
	case http.StatusNotFound:
		return "Check the collection url and resource path"
	default:
		return ""
	}
}

func newAPIError(resp *http.Response) *APIError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	apiErr := &APIError{StatusCode: resp.StatusCode, Body: string(body)}

	var payload struct {
		Message string `json:"message"`
		TypeKey string `json:"typeKey"`
	}
	if json.Unmarshal(body, &payload) == nil {
		apiErr.Message = payload.Message
		apiErr.TypeKey = payload.TypeKey
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}

	return apiErr
}
