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

// Package output renders command results as JSON envelopes.
package output

import (
	"encoding/json"
	"io"

	tfxerrors "github.com/tombee/tfx/pkg/errors"
)

// EnvelopeVersion is the @version of every envelope.
const EnvelopeVersion = "1.0"

// JSONResponse is the common envelope header.
type JSONResponse struct {
	Version string `json:"@version"`
	Command string `json:"command"`
	Success bool   `json:"success"`
}

// JSONError is one error entry in a failed envelope.
type JSONError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Path       string `json:"path,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// Envelope wraps a command result or its errors.
type Envelope struct {
	JSONResponse
	Data   any         `json:"data,omitempty"`
	Errors []JSONError `json:"errors,omitempty"`
}

// Success returns the envelope for a successful command.
func Success(command string, data any) Envelope {
	return Envelope{
		JSONResponse: JSONResponse{Version: EnvelopeVersion, Command: command, Success: true},
		Data:         data,
	}
}

// Failure returns the envelope for a failed command.
func Failure(command string, errs []JSONError) Envelope {
	return Envelope{
		JSONResponse: JSONResponse{Version: EnvelopeVersion, Command: command, Success: false},
		Errors:       errs,
	}
}

// EmitJSON writes v to w as indented JSON.
func EmitJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// ErrorFrom converts err into a JSONError, taking the message and suggestion
// from a UserVisibleError in the chain when there is one.
func ErrorFrom(code string, err error) JSONError {
	jsonErr := JSONError{Code: code, Message: err.Error()}

	if userErr, ok := tfxerrors.AsUserVisible(err); ok {
		jsonErr.Message = userErr.UserMessage()
		jsonErr.Suggestion = userErr.Suggestion()
	}
	jsonErr.Path = tfxerrors.PathOf(err)

	return jsonErr
}
