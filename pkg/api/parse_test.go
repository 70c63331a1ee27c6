package api

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	f := filepath.Join(dir, DefaultManifestFilename)
	if err := os.WriteFile(f, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return f
}

func TestLoadManifest_Valid(t *testing.T) {
	content := `
name: system_info
label: Show system info
type: rest
output_type: xml
variables:
  - name: TARGET_IP
    default: https://192.168.1.1
snippets:
  - name: system_info
    path: /api/?type=op&cmd=<show><system><info></info></system></show>&key={{ .api_key }}
    outputs:
      - name: hostname
        capture_pattern: result/system/hostname
  - name: set_hostname
    path: /api/?type=config
    operation: post
    payload: hostname.xml
    content_type: application/xml
    accepts_type: application/xml
`
	dir := t.TempDir()
	m, err := LoadManifest(writeManifest(t, dir, content))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(m.Snippets) != 2 {
		t.Fatalf("expected 2 snippets, got %d", len(m.Snippets))
	}
	if m.Dir != dir {
		t.Fatalf("expected Dir=%q, got %q", dir, m.Dir)
	}
	if m.OutputType != OutputTypeXML {
		t.Errorf("expected output_type xml, got %q", m.OutputType)
	}
	if got := m.Snippets[0].Outputs[0].CapturePattern; got != "result/system/hostname" {
		t.Errorf("unexpected capture pattern %q", got)
	}
	if m.Snippets[1].AcceptsType != "application/xml" {
		t.Errorf("unexpected accepts_type %q", m.Snippets[1].AcceptsType)
	}
	if m.Defaults()["TARGET_IP"] != "https://192.168.1.1" {
		t.Errorf("unexpected defaults %v", m.Defaults())
	}
}

func TestLoadManifest_MissingPath(t *testing.T) {
	content := `
name: broken
snippets:
  - name: nopath
`
	_, err := LoadManifest(writeManifest(t, t.TempDir(), content))
	if !errors.Is(err, ErrMalformedSpec) {
		t.Fatalf("expected ErrMalformedSpec, got %v", err)
	}
}

func TestLoadManifest_InvalidYAML(t *testing.T) {
	_, err := LoadManifest(writeManifest(t, t.TempDir(), "name: [unclosed"))
	if err == nil || !strings.Contains(err.Error(), "parsing manifest file") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestLoadManifest_MissingFile(t *testing.T) {
	if _, err := LoadManifest(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestManifest_SnippetDir(t *testing.T) {
	tests := []struct {
		name     string
		manifest Manifest
		appDir   string
		want     string
	}{
		{"conventional", Manifest{Name: "demo"}, "/app", filepath.Join("/app", "snippets", "demo")},
		{"absolute snippet_path", Manifest{Name: "demo", SnippetPath: "/opt/payloads", Dir: "/m"}, "/app", "/opt/payloads"},
		{"relative snippet_path", Manifest{Name: "demo", SnippetPath: "payloads", Dir: "/m"}, "/app", filepath.Join("/m", "payloads")},
		{"relative without dir", Manifest{Name: "demo", SnippetPath: "payloads"}, "/app", "payloads"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.manifest.SnippetDir(tt.appDir); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoadTargets(t *testing.T) {
	content := `
targets:
  - name: fw01
    context:
      TARGET_IP: https://10.0.0.1
  - name: fw02
    context:
      TARGET_IP: https://10.0.0.2
`
	f := filepath.Join(t.TempDir(), "targets.yaml")
	if err := os.WriteFile(f, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadTargets(f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Targets) != 2 || cfg.Targets[1].Context["TARGET_IP"] != "https://10.0.0.2" {
		t.Errorf("unexpected targets: %+v", cfg.Targets)
	}
}
