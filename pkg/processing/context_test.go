package processing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/systemstart/skillet-runner/pkg/render"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestLoadContextFile(t *testing.T) {
	f := filepath.Join(t.TempDir(), "context.yaml")
	writeFile(t, f, "TARGET_IP: https://10.0.0.1\nport: 8080\nenabled: true\nempty:\n")

	ctx, err := LoadContextFile(f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := render.Context{"TARGET_IP": "https://10.0.0.1", "port": "8080", "enabled": "true", "empty": ""}
	for k, v := range want {
		if ctx[k] != v {
			t.Errorf("%s = %q, want %q", k, ctx[k], v)
		}
	}
}

func TestLoadContextFile_Empty(t *testing.T) {
	f := filepath.Join(t.TempDir(), "context.yaml")
	writeFile(t, f, "")

	ctx, err := LoadContextFile(f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ctx == nil || len(ctx) != 0 {
		t.Errorf("expected empty non-nil map, got %v", ctx)
	}
}

func TestLoadContextFile_Errors(t *testing.T) {
	dir := t.TempDir()
	invalid := filepath.Join(dir, "invalid.yaml")
	writeFile(t, invalid, "{{invalid")
	nested := filepath.Join(dir, "nested.yaml")
	writeFile(t, nested, "device:\n  ip: 10.0.0.1\n")

	for _, f := range []string{"/nonexistent/context.yaml", invalid, nested} {
		if _, err := LoadContextFile(f); err == nil {
			t.Errorf("%s: expected error", f)
		}
	}
}

func TestMergeContext(t *testing.T) {
	defaults := render.Context{"a": "1", "b": "2"}
	override := render.Context{"b": "3", "c": "4"}

	merged := MergeContext(defaults, override)

	want := render.Context{"a": "1", "b": "3", "c": "4"}
	if len(merged) != len(want) {
		t.Fatalf("got %v, want %v", merged, want)
	}
	for k, v := range want {
		if merged[k] != v {
			t.Errorf("%s = %q, want %q", k, merged[k], v)
		}
	}
	if defaults["b"] != "2" {
		t.Error("defaults must not be modified")
	}
}

func TestMergeContext_Nil(t *testing.T) {
	if merged := MergeContext(nil, nil); merged == nil || len(merged) != 0 {
		t.Errorf("expected empty map, got %v", merged)
	}
}

func TestParseVars(t *testing.T) {
	ctx, err := ParseVars([]string{"TARGET_IP=https://fw", "query=a=b", "empty="})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ctx["TARGET_IP"] != "https://fw" || ctx["query"] != "a=b" || ctx["empty"] != "" {
		t.Errorf("unexpected context: %v", ctx)
	}

	for _, bad := range []string{"novalue", "=x"} {
		if _, err := ParseVars([]string{bad}); err == nil {
			t.Errorf("%q: expected error", bad)
		}
	}
}
