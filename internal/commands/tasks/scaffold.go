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

package tasks

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/tombee/tfx/pkg/taskjson"
)

// Files written into a new task directory.
const (
	TaskFile     = "task.json"
	SampleScript = "sample.js"
)

// sampleScriptSource is the body of sample.js.
const sampleScriptSource = `var path = require("path");

var msg = process.env["INPUT_MSG"] || "Hello World";
console.log(msg);
console.log("running " + path.basename(__filename));
`

// ScaffoldRequest holds the values a new task is created from.
type ScaffoldRequest struct {
	Name         string
	FriendlyName string
	Description  string
	Author       string
}

// Descriptor builds the task.json content for req with a fresh id.
func (req ScaffoldRequest) Descriptor() taskjson.TaskDescriptor {
	return taskjson.TaskDescriptor{
		"id":                  uuid.NewString(),
		"name":                req.Name,
		"friendlyName":        req.FriendlyName,
		"description":         req.Description,
		"author":              req.Author,
		"helpMarkDown":        "Replace with markdown to show in help",
		"category":            "Utility",
		"visibility":          []string{"Build", "Release"},
		"demands":             []string{},
		"version":             map[string]int{"Major": 0, "Minor": 1, "Patch": 0},
		"minimumAgentVersion": "1.95.0",
		"instanceNameFormat":  fmt.Sprintf("%s $(message)", req.Name),
		"inputs": []map[string]any{
			{
				"name":         "msg",
				"type":         "string",
				"label":        "Message",
				"defaultValue": "Hello World",
				"required":     true,
				"helpMarkDown": "Message to echo out",
			},
		},
		"execution": map[string]any{
			"Node": map[string]string{"target": SampleScript, "argumentFormat": ""},
		},
	}
}
