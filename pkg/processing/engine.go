package processing

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/systemstart/skillet-runner/pkg/api"
	"github.com/systemstart/skillet-runner/pkg/render"
	"github.com/systemstart/skillet-runner/pkg/rest"
)

// RunManifest loads the REST manifest at path and executes it with the
// manifest's variable defaults overlaid by vars. Payload files are resolved
// through the manifest's snippet directory under appDir.
func RunManifest(ctx context.Context, path, appDir string, vars render.Context, ex *rest.Executor) (*rest.Envelope, error) {
	m, err := api.LoadManifest(path)
	if err != nil {
		return nil, err
	}
	return Run(ctx, m, appDir, vars, ex)
}

// Run executes an already loaded REST manifest.
func Run(ctx context.Context, m *api.Manifest, appDir string, vars render.Context, ex *rest.Executor) (*rest.Envelope, error) {
	if m.Type != "" && m.Type != api.TypeREST {
		return nil, fmt.Errorf("%w: manifest %q has type %q, not %s", api.ErrMalformedSpec, m.Name, m.Type, api.TypeREST)
	}

	merged := MergeContext(m.Defaults(), vars)
	dir := m.SnippetDir(appDir)

	slog.Info("executing manifest", "name", m.Name, "snippets", len(m.Snippets), "payload_dir", dir)
	env, err := ex.Execute(ctx, m, dir, merged)
	if err != nil {
		return nil, fmt.Errorf("manifest %q: %w", m.Name, err)
	}
	slog.Info("manifest finished", "name", m.Name, "status", env.Status, "state", env.State)
	return env, nil
}

// TargetResult is the outcome of running a manifest against one target.
type TargetResult struct {
	Target   string
	Envelope *rest.Envelope
	Err      error
}

// Failed reports whether the run returned an error or an error envelope.
func (r TargetResult) Failed() bool {
	return r.Err != nil || r.Envelope == nil || r.Envelope.Status != rest.StatusSuccess
}

// RunTargets runs m once per target, each with vars overlaid by the
// target's context. Targets run sequentially; a failing target does not
// stop the others. The returned error summarises the failed targets.
func RunTargets(ctx context.Context, m *api.Manifest, appDir string, vars render.Context, targets []api.Target, ex *rest.Executor) ([]TargetResult, error) {
	results := make([]TargetResult, 0, len(targets))
	var failed []string

	for _, tgt := range targets {
		slog.Info("executing target", "manifest", m.Name, "target", tgt.Name)
		env, err := Run(ctx, m, appDir, MergeContext(vars, tgt.Context), ex)

		res := TargetResult{Target: tgt.Name, Envelope: env, Err: err}
		results = append(results, res)

		if res.Failed() {
			slog.Error("target failed", "target", tgt.Name, "error", err)
			failed = append(failed, tgt.Name)
		} else {
			slog.Info("target succeeded", "target", tgt.Name)
		}
	}

	if len(failed) > 0 {
		return results, fmt.Errorf("%d target(s) failed: %v", len(failed), failed)
	}
	return results, nil
}
