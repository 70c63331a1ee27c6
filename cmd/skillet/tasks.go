package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/systemstart/skillet-runner/pkg/process"
	"github.com/systemstart/skillet-runner/pkg/progress"
	"github.com/systemstart/skillet-runner/pkg/tasks"
)

// taskFlags are shared by the terraform and python commands.
type taskFlags struct {
	commonFlags
	dir        string
	action     string
	amqpURL    string
	exchange   string
	routingKey string
	taskID     string
	script     string
}

func (t *taskFlags) register(fs *flag.FlagSet, actions []string) {
	t.commonFlags.register(fs)
	fs.StringVar(&t.dir, "dir", ".", "working directory")
	fs.StringVar(&t.action, "action", "", "action to run: "+strings.Join(actions, ", "))
	fs.StringVar(&t.amqpURL, "amqp-url", os.Getenv("SKILLET_AMQP_URL"), "publish progress to this AMQP broker")
	fs.StringVar(&t.exchange, "amqp-exchange", "", "exchange progress is published to")
	fs.StringVar(&t.routingKey, "amqp-routing-key", "skillet.progress", "routing key progress is published with")
	fs.StringVar(&t.taskID, "task-id", "", "task id progress is published under (random if empty)")
}

// runner returns a task runner whose progress goes to the broker when
// -amqp-url is set and is logged at debug level otherwise. The returned
// function closes the broker session.
func (t *taskFlags) runner() (*tasks.Runner, func(), error) {
	if t.amqpURL == "" {
		sink := process.SinkFunc(func(state string) {
			slog.Debug("task progress", "bytes", len(state))
		})
		return tasks.NewRunner(sink), func() {}, nil
	}

	session, err := progress.Dial(t.amqpURL)
	if err != nil {
		return nil, nil, err
	}
	pub := progress.NewPublisher(session.Channel(), t.exchange, t.routingKey, t.taskID)
	slog.Info("publishing progress", "task_id", pub.TaskID(), "exchange", t.exchange, "routing_key", t.routingKey)

	return tasks.NewRunner(pub), func() {
		if err := session.Close(); err != nil {
			slog.Warn("closing broker session", "error", err)
		}
	}, nil
}

type taskAction func(r *tasks.Runner, t *taskFlags, vars map[string]string) (*process.Envelope, error)

func runTask(ctx context.Context, name string, args []string, actions map[string]taskAction, extra func(*flag.FlagSet, *taskFlags)) int {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	var t taskFlags
	t.register(fs, sortedActions(actions))
	if extra != nil {
		extra(fs, &t)
	}
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	stopMetrics, code := t.setup(ctx)
	if code != 0 {
		return code
	}
	defer stopMetrics()

	action, ok := actions[t.action]
	if !ok {
		slog.Error("unknown action", "command", name, "action", t.action, "valid", sortedActions(actions))
		return exitUsage
	}

	vars, code := t.context()
	if code != 0 {
		return code
	}

	r, closeRunner, err := t.runner()
	if err != nil {
		slog.Error("failed to connect to broker", "error", err)
		return exitToolErrors
	}
	defer closeRunner()

	env, err := action(r, &t, vars)
	if err != nil {
		slog.Error("task failed to run", "command", name, "action", t.action, "error", err)
		return exitCode(err)
	}

	if code := printJSON(env); code != 0 {
		return code
	}
	if env.ReturnCode != 0 {
		slog.Error("task exited with non-zero status", "command", name, "action", t.action, "returncode", env.ReturnCode)
		return exitTaskFailed
	}
	return 0
}

func sortedActions(actions map[string]taskAction) []string {
	names := make([]string, 0, len(actions))
	for name := range actions {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

var terraformActions = map[string]taskAction{
	"validate": func(r *tasks.Runner, t *taskFlags, vars map[string]string) (*process.Envelope, error) {
		return r.TerraformValidate(t.dir, vars)
	},
	"init": func(r *tasks.Runner, t *taskFlags, _ map[string]string) (*process.Envelope, error) {
		return r.TerraformInit(t.dir)
	},
	"plan": func(r *tasks.Runner, t *taskFlags, vars map[string]string) (*process.Envelope, error) {
		return r.TerraformPlan(t.dir, vars)
	},
	"apply": func(r *tasks.Runner, t *taskFlags, _ map[string]string) (*process.Envelope, error) {
		return r.TerraformApply(t.dir)
	},
	"destroy": func(r *tasks.Runner, t *taskFlags, vars map[string]string) (*process.Envelope, error) {
		return r.TerraformDestroy(t.dir, vars)
	},
	"refresh": func(r *tasks.Runner, t *taskFlags, vars map[string]string) (*process.Envelope, error) {
		return r.TerraformRefresh(t.dir, vars)
	},
	"output": func(r *tasks.Runner, t *taskFlags, _ map[string]string) (*process.Envelope, error) {
		return r.TerraformOutput(t.dir)
	},
}

func runTerraform(ctx context.Context, args []string) int {
	return runTask(ctx, "terraform", args, terraformActions, nil)
}

func pythonActions() map[string]taskAction {
	withScript := func(fn func(r *tasks.Runner, dir, script string, args map[string]string) (*process.Envelope, error)) taskAction {
		return func(r *tasks.Runner, t *taskFlags, vars map[string]string) (*process.Envelope, error) {
			if t.script == "" {
				return nil, fmt.Errorf("%w: -script is required for action %q", errUsage, t.action)
			}
			return fn(r, t.dir, t.script, vars)
		}
	}

	return map[string]taskAction{
		"init": func(r *tasks.Runner, t *taskFlags, _ map[string]string) (*process.Envelope, error) {
			return r.PythonInitEnv(t.dir)
		},
		"init-deps": func(r *tasks.Runner, t *taskFlags, _ map[string]string) (*process.Envelope, error) {
			return r.PythonInitWithDeps(t.dir)
		},
		"init-existing": func(r *tasks.Runner, t *taskFlags, _ map[string]string) (*process.Envelope, error) {
			return r.PythonInitExisting(t.dir)
		},
		"script":      withScript((*tasks.Runner).PythonExecuteScript),
		"bare-script": withScript((*tasks.Runner).PythonExecuteBareScript),
	}
}

func runPython(ctx context.Context, args []string) int {
	return runTask(ctx, "python", args, pythonActions(), func(fs *flag.FlagSet, t *taskFlags) {
		fs.StringVar(&t.script, "script", "", "script to run for the script and bare-script actions")
	})
}
