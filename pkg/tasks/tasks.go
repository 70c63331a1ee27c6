// Package tasks builds the command lines for terraform and python3
// skillets and runs them through the process backend.
package tasks

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/systemstart/skillet-runner/pkg/process"
)

// PlanFile is where Plan saves the plan that Apply consumes.
const PlanFile = ".cnc_plan"

// Runner runs tasks. Streaming tasks report progress to Sink.
type Runner struct {
	Sink process.ProgressSink
}

// NewRunner creates a runner. A nil sink discards progress.
func NewRunner(sink process.ProgressSink) *Runner {
	if sink == nil {
		sink = process.Discard
	}
	return &Runner{Sink: sink}
}

func (r *Runner) stream(name string, c process.Command) (*process.Envelope, error) {
	slog.Info("executing task", "task", name, "dir", c.Dir)
	env, err := process.Stream(c, r.Sink)
	if err != nil {
		return nil, fmt.Errorf("task %s: %w", name, err)
	}
	return env, nil
}

func (r *Runner) run(name string, c process.Command) (*process.Envelope, error) {
	slog.Info("executing task", "task", name, "dir", c.Dir)
	env, err := process.Run(c)
	if err != nil {
		return nil, fmt.Errorf("task %s: %w", name, err)
	}
	return env, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
