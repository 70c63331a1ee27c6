package processing

import (
	"fmt"
	"maps"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/systemstart/skillet-runner/pkg/render"
)

// LoadContextFile reads a YAML mapping of variables. Scalar values are
// converted to their string form; nested values are rejected.
func LoadContextFile(filename string) (render.Context, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading context file: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing context file: %w", err)
	}

	ctx := make(render.Context, len(raw))
	for k, v := range raw {
		switch v.(type) {
		case map[string]any, []any:
			return nil, fmt.Errorf("context file %s: key %q: nested values are not supported", filename, k)
		case nil:
			ctx[k] = ""
		default:
			ctx[k] = fmt.Sprint(v)
		}
	}
	return ctx, nil
}

// MergeContext performs a shallow merge of override over defaults.
func MergeContext(defaults, override render.Context) render.Context {
	merged := make(render.Context, len(defaults)+len(override))
	maps.Copy(merged, defaults)
	maps.Copy(merged, override)
	return merged
}

// ParseVars turns key=value pairs into a context.
func ParseVars(pairs []string) (render.Context, error) {
	ctx := make(render.Context, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid variable %q: expected key=value", p)
		}
		ctx[k] = v
	}
	return ctx, nil
}
