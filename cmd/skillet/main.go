package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/systemstart/skillet-runner/pkg/api"
	"github.com/systemstart/skillet-runner/pkg/extract"
	"github.com/systemstart/skillet-runner/pkg/logging"
	"github.com/systemstart/skillet-runner/pkg/process"
	"github.com/systemstart/skillet-runner/pkg/processing"
	"github.com/systemstart/skillet-runner/pkg/render"
)

var version = "dev"

const (
	_ = iota
	exitUsage
	exitDotenvError
	exitLoadContextFailed
	exitMalformedSpec
	exitTemplateError
	exitParserError
	exitStepFailed
	exitProcessError
	exitTaskFailed
	exitToolErrors
	exitOutputFailed
)

const usage = `usage: skillet <command> [flags]

commands:
  rest       run the REST snippets of a manifest against a target
  terraform  run a terraform action in a directory
  python     bootstrap a virtualenv or run a python3 script
  list       list the manifests below a directory

run "skillet <command> -h" for the flags of a command.
`

// errUsage marks invalid command line input detected after flag parsing.
var errUsage = errors.New("usage error")

type command func(ctx context.Context, args []string) int

var commands = map[string]command{
	"rest":      runREST,
	"terraform": runTerraform,
	"python":    runPython,
	"list":      runList,
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		return exitUsage
	}

	switch args[0] {
	case "-version", "--version", "version":
		fmt.Println(version)
		return 0
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
		return 0
	}

	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", args[0], usage)
		return exitUsage
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return cmd(ctx, args[1:])
}

// commonFlags are accepted by every command.
type commonFlags struct {
	loggingType   string
	logLevel      string
	metricsListen string
	contextFile   string
	vars          stringList
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.loggingType, "logging-type", "tint", "logging type: json, text or tint")
	fs.StringVar(&c.logLevel, "log-level", "info", "logging level: debug, info, warn, error")
	fs.StringVar(&c.metricsListen, "metrics-listen", "", "serve Prometheus metrics on this address while running, e.g. :9090")
	fs.StringVar(&c.contextFile, "context-file", "", "YAML file with variables")
	fs.Var(&c.vars, "var", "variable as key=value, may be repeated; overrides -context-file")
}

// setup initialises logging, .env and metrics. The returned function stops
// the metrics server. On failure it returns a non-zero exit code.
func (c *commonFlags) setup(ctx context.Context) (func(), int) {
	if err := logging.Initialize(os.Stderr, c.loggingType, c.logLevel); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return nil, exitUsage
	}
	if code := includeEnv(); code != 0 {
		return nil, code
	}
	return startMetrics(ctx, c.metricsListen), 0
}

// context returns the -context-file variables overlaid with -var pairs.
func (c *commonFlags) context() (render.Context, int) {
	fileVars := render.Context{}
	if c.contextFile != "" {
		var err error
		fileVars, err = processing.LoadContextFile(c.contextFile)
		if err != nil {
			slog.Error("failed to load context file", "filename", c.contextFile, "error", err)
			return nil, exitLoadContextFailed
		}
	}

	vars, err := processing.ParseVars(c.vars)
	if err != nil {
		slog.Error("invalid -var", "error", err)
		return nil, exitUsage
	}
	return processing.MergeContext(fileVars, vars), 0
}

func includeEnv() int {
	err := godotenv.Load()
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Error("failed to load .env", "error", err)
			return exitDotenvError
		}
		slog.Debug("no .env file found")
	} else {
		slog.Info("using .env file")
	}
	return 0
}

// exitCode maps an error returned by the engine to an exit code.
func exitCode(err error) int {
	switch {
	case errors.Is(err, errUsage):
		return exitUsage
	case errors.Is(err, api.ErrMalformedSpec):
		return exitMalformedSpec
	case errors.Is(err, render.ErrTemplate), errors.Is(err, render.ErrEncoding):
		return exitTemplateError
	case errors.Is(err, extract.ErrParser):
		return exitParserError
	case errors.Is(err, process.ErrWorkDir), errors.Is(err, process.ErrStart):
		return exitProcessError
	default:
		return exitToolErrors
	}
}

// stringList is a repeatable string flag.
type stringList []string

func (s *stringList) String() string { return fmt.Sprint([]string(*s)) }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}
