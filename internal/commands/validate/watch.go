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

package validate

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/tombee/tfx/internal/commands/shared"
	"github.com/tombee/tfx/internal/log"
	"github.com/tombee/tfx/internal/output"
)

// WatchResult summarizes a watch session once it is interrupted.
type WatchResult struct {
	Runs    int     `json:"runs"`
	Last    *Result `json:"last,omitempty"`
	Stopped string  `json:"stopped"`
}

// watch validates taskPath, then re-validates after every burst of file
// changes until ctx is cancelled.
func (c *Command) watch(ctx context.Context, taskPath, missingMessage string) (any, error) {
	logger := log.WithComponent(c.Log(), "validate.watch")

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	for _, dir := range watchDirs(taskPath) {
		if err := watcher.Add(dir); err != nil {
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		logger.Debug("watching directory", slog.String("path", dir))
	}

	var target string
	if !isPattern(taskPath) {
		target = resolveOne(taskPath)
	}

	summary := &WatchResult{}
	c.report(summary, taskPath, missingMessage)

	debounce := c.Debounce
	if debounce <= 0 {
		debounce = 200 * time.Millisecond
	}
	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	var limiter *rate.Limiter
	if c.MaxRunsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(c.MaxRunsPerMinute)/60.0), 1)
	}

	for {
		select {
		case <-ctx.Done():
			summary.Stopped = time.Now().UTC().Format(time.RFC3339)
			return summary, nil

		case event, ok := <-watcher.Events:
			if !ok {
				return summary, nil
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = watcher.Add(event.Name)
				}
			}
			if !relevant(event, target) {
				continue
			}
			log.Trace(logger, "Task file changed",
				slog.String(log.TaskPathKey, event.Name),
				slog.String("op", event.Op.String()))
			timer.Reset(debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return summary, nil
			}
			logger.Warn("file watcher error", slog.Any("error", err))

		case <-timer.C:
			if limiter != nil && !limiter.Allow() {
				// Over the limit; try again once the next burst settles.
				logger.Warn("rate limit exceeded, delaying validation",
					slog.Int("max_runs_per_minute", c.MaxRunsPerMinute))
				timer.Reset(debounce)
				continue
			}
			c.report(summary, taskPath, missingMessage)
		}
	}
}

// report runs one validation pass and writes it immediately.
func (c *Command) report(summary *WatchResult, taskPath, missingMessage string) {
	summary.Runs++

	result, err := c.Run(taskPath, missingMessage)
	if err != nil {
		if shared.GetJSON() {
			_ = output.EmitJSON(c.out, output.Failure("validate",
				[]output.JSONError{output.ErrorFrom(shared.ErrorCode(err), err)}))
			return
		}
		fmt.Fprintln(c.out, shared.RenderError(err.Error()))
		return
	}
	summary.Last = result

	if shared.GetJSON() {
		_ = output.EmitJSON(c.out, output.Success("validate", result))
		return
	}
	if !shared.GetQuiet() {
		fmt.Fprintln(c.out, shared.Muted.Render(time.Now().Format("15:04:05")))
	}
	_ = writeResult(c.out, result)
}

// relevant reports whether event can change a validation result: any .json
// file, or target itself whatever its extension. target is "" for globs.
func relevant(event fsnotify.Event, target string) bool {
	if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
		return false
	}
	if target != "" && filepath.Clean(event.Name) == filepath.Clean(target) {
		return true
	}
	return filepath.Ext(event.Name) == ".json"
}

// watchDirs lists the directories to watch for taskPath. fsnotify is not
// recursive, so a glob contributes every directory below its static prefix.
func watchDirs(taskPath string) []string {
	if !isPattern(taskPath) {
		target := resolveOne(taskPath)
		return []string{filepath.Dir(target)}
	}

	base, _ := doublestar.SplitPattern(filepath.ToSlash(taskPath))
	base = filepath.FromSlash(base)

	var dirs []string
	_ = filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != base && len(d.Name()) > 1 && d.Name()[0] == '.' {
				return filepath.SkipDir
			}
			dirs = append(dirs, path)
		}
		return nil
	})
	if len(dirs) == 0 {
		dirs = append(dirs, base)
	}
	return dirs
}
