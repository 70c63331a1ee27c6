// Package process runs external commands for task-style skillets.
//
// Stream runs a command line through the shell and publishes the output
// collected so far after every line. Run executes an argument vector
// directly and returns once it exits. Neither supports cancellation or
// timeouts: a hung process blocks the caller.
package process

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/systemstart/skillet-runner/pkg/metrics"
)

const (
	ModeStream = "stream"
	ModeRun    = "run"

	shell = "/bin/sh"
)

// Command describes one invocation. Env entries override the inherited
// environment. An empty Dir means the current directory.
type Command struct {
	Args []string
	Dir  string
	Env  map[string]string
}

func (c Command) String() string {
	return strings.Join(c.Args, " ")
}

// Stream runs the command through /bin/sh with its arguments joined by
// spaces, so shell operators like && in Args take effect. Stdout and stderr
// share one pipe. Each line is appended to the output and the full output so
// far is sent to sink before the next line is read.
func Stream(c Command, sink ProgressSink) (*Envelope, error) {
	if len(c.Args) == 0 {
		return nil, fmt.Errorf("%w: empty command", ErrStart)
	}
	if sink == nil {
		sink = Discard
	}
	if err := checkDir(c.Dir); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	log := slog.With("invocation", id, "mode", ModeStream)

	cmd := exec.Command(shell, "-c", c.String())
	cmd.Dir = c.Dir
	cmd.Env = environ(c.Env)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStart, err)
	}
	cmd.Stderr = cmd.Stdout

	log.Info("starting process", "command", c.String(), "dir", c.Dir)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStart, err)
	}
	metrics.ObserveProcessStart(ModeStream)

	var out OutputHolder
	r := bufio.NewReader(stdout)
	for {
		line, err := r.ReadString('\n')
		if line != "" {
			out.Add(line)
			metrics.ObserveOutputLine()
			sink.Progress(out.String())
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				log.Warn("reading process output", "error", err)
			}
			break
		}
	}

	code, err := wait(cmd)
	if err != nil {
		return nil, err
	}
	metrics.ObserveProcessExit(ModeStream, code)
	log.Info("process finished", "returncode", code)

	return &Envelope{ReturnCode: code, Out: out.String()}, nil
}

// Run executes Args directly and blocks until the process exits. Stdout and
// stderr are merged into Out.
func Run(c Command) (*Envelope, error) {
	if len(c.Args) == 0 {
		return nil, fmt.Errorf("%w: empty command", ErrStart)
	}
	if err := checkDir(c.Dir); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	log := slog.With("invocation", id, "mode", ModeRun)

	cmd := exec.Command(c.Args[0], c.Args[1:]...)
	cmd.Dir = c.Dir
	cmd.Env = environ(c.Env)

	log.Info("running process", "command", c.String(), "dir", c.Dir)
	metrics.ObserveProcessStart(ModeRun)
	output, err := cmd.CombinedOutput()
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, fmt.Errorf("%w: %w", ErrStart, err)
		}
	}

	code := cmd.ProcessState.ExitCode()
	metrics.ObserveProcessExit(ModeRun, code)
	log.Info("process finished", "returncode", code)

	return &Envelope{ReturnCode: code, Out: string(output)}, nil
}

// wait reaps the process. A process killed by a signal reports -1.
func wait(cmd *exec.Cmd) (int, error) {
	err := cmd.Wait()
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return 0, fmt.Errorf("waiting for process: %w", err)
		}
	}
	return cmd.ProcessState.ExitCode(), nil
}

func checkDir(dir string) error {
	if dir == "" {
		return nil
	}
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWorkDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrWorkDir, dir)
	}
	return nil
}

// environ returns the current environment with overrides applied.
func environ(overrides map[string]string) []string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		k, v, _ := strings.Cut(kv, "=")
		env[k] = v
	}
	for k, v := range overrides {
		env[k] = v
	}

	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := make([]string, 0, len(keys))
	for _, k := range keys {
		result = append(result, k+"="+env[k])
	}
	return result
}
