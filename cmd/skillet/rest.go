package main

import (
	"context"
	"flag"
	"log/slog"

	"github.com/systemstart/skillet-runner/pkg/api"
	"github.com/systemstart/skillet-runner/pkg/processing"
	"github.com/systemstart/skillet-runner/pkg/render"
	"github.com/systemstart/skillet-runner/pkg/rest"
)

func runREST(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("rest", flag.ContinueOnError)
	var (
		common      commonFlags
		manifest    string
		appDir      string
		targetsFile string
	)
	common.register(fs)
	fs.StringVar(&manifest, "manifest", api.DefaultManifestFilename, "manifest file")
	fs.StringVar(&appDir, "app-dir", ".", "application directory holding snippets/<name>/ payloads")
	fs.StringVar(&targetsFile, "targets", "", "YAML file with targets to run the manifest against, one after another")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	stopMetrics, code := common.setup(ctx)
	if code != 0 {
		return code
	}
	defer stopMetrics()

	vars, code := common.context()
	if code != 0 {
		return code
	}

	ex := rest.NewExecutor()

	if targetsFile != "" {
		m, err := api.LoadManifest(manifest)
		if err != nil {
			slog.Error("failed to load manifest", "filename", manifest, "error", err)
			return exitCode(err)
		}
		return runRESTTargets(ctx, m, appDir, vars, targetsFile, ex)
	}

	env, err := processing.RunManifest(ctx, manifest, appDir, vars, ex)
	if err != nil {
		slog.Error("manifest failed", "filename", manifest, "error", err)
		return exitCode(err)
	}
	if code := printJSON(env); code != 0 {
		return code
	}
	if env.Status != rest.StatusSuccess {
		return exitStepFailed
	}
	return 0
}

func runRESTTargets(ctx context.Context, m *api.Manifest, appDir string, vars render.Context, targetsFile string, ex *rest.Executor) int {
	cfg, err := api.LoadTargets(targetsFile)
	if err != nil {
		slog.Error("failed to load targets", "filename", targetsFile, "error", err)
		return exitLoadContextFailed
	}

	results, runErr := processing.RunTargets(ctx, m, appDir, vars, cfg.Targets, ex)

	out := make(map[string]any, len(results))
	for _, r := range results {
		if r.Err != nil {
			out[r.Target] = map[string]string{"status": rest.StatusError, "message": r.Err.Error()}
			continue
		}
		out[r.Target] = r.Envelope
	}
	if code := printJSON(out); code != 0 {
		return code
	}

	if runErr != nil {
		slog.Error("targets failed", "error", runErr)
		return exitStepFailed
	}
	return 0
}
