package processing

import (
	"path/filepath"
	"testing"
)

func manifestYAML(name string) string {
	return "name: " + name + "\ntype: rest\noutput_type: xml\nsnippets:\n  - name: info\n    path: /api/?type=op\n"
}

func setupDiscoverTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".meta-cnc.yaml"), manifestYAML("root"))
	writeFile(t, filepath.Join(root, "b", "child", ".meta-cnc.yaml"), manifestYAML("deep"))
	writeFile(t, filepath.Join(root, "a", ".meta-cnc.yaml"), manifestYAML("a"))
	writeFile(t, filepath.Join(root, "a", "other.yaml"), "not: a manifest\n")
	return root
}

func TestDiscoverManifests(t *testing.T) {
	root := setupDiscoverTree(t)

	manifests, err := DiscoverManifests(root, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"root", "a", "deep"}
	if len(manifests) != len(want) {
		t.Fatalf("got %d manifests, want %d", len(manifests), len(want))
	}
	for i, name := range want {
		if manifests[i].Name != name {
			t.Errorf("manifest %d = %q, want %q", i, manifests[i].Name, name)
		}
	}
	if manifests[1].Dir != filepath.Join(root, "a") {
		t.Errorf("dir = %q", manifests[1].Dir)
	}
}

func TestDiscoverManifests_Pattern(t *testing.T) {
	root := setupDiscoverTree(t)

	manifests, err := DiscoverManifests(root, "b/**/.meta-cnc.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(manifests) != 1 || manifests[0].Name != "deep" {
		t.Errorf("unexpected manifests: %v", manifests)
	}
}

func TestDiscoverManifests_InvalidPattern(t *testing.T) {
	if _, err := DiscoverManifests(t.TempDir(), "[unclosed"); err == nil {
		t.Fatal("expected error for invalid pattern")
	}
}

func TestDiscoverManifests_InvalidManifest(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".meta-cnc.yaml"), "label: no name\n")

	if _, err := DiscoverManifests(root, ""); err == nil {
		t.Fatal("expected error for invalid manifest")
	}
}

func TestDiscoverManifests_None(t *testing.T) {
	manifests, err := DiscoverManifests(t.TempDir(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(manifests) != 0 {
		t.Errorf("expected no manifests, got %d", len(manifests))
	}
}
