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

/*
Package cli provides the root command and shared configuration for the tfx CLI.

This package creates the Cobra command tree and handles global concerns like
version information, persistent flags, logging setup and exit codes. Individual
commands are implemented in the internal/commands subpackages on top of
internal/command.

# Command Tree

	tfx
	├── validate      Validate task.json files
	├── tasks
	│   └── create    Scaffold a new build task
	├── login         Store credentials for a collection
	├── logout        Remove stored credentials
	├── version       Show version
	└── help          Show help

# Usage

From main.go:

	cli.SetVersion(version, commit, date)
	os.Exit(cli.Run(ctx, os.Args[1:], os.Stdout, os.Stderr))

# Global Flags

All commands inherit these flags:

	--verbose, -v    Enable verbose output
	--quiet, -q      Suppress non-error output
	--json           Output in JSON format
	--jq             Filter JSON output (implies --json)
	--config         Path to config file

# Exit Codes

  - 0: Success
  - 1: General error
  - 2: Invalid task json
  - 3: Missing required argument
  - 4: Missing file
  - 5: Configuration error
*/
package cli
