package render

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRenderer_Render(t *testing.T) {
	r := NewRenderer(nil)
	vars := Context{"host": "fw01", "api_key": "k3y", "secret": "hello"}

	tests := []struct {
		name string
		tmpl string
		want string
	}{
		{"plain", "/api/?type=op", "/api/?type=op"},
		{"variable", "/api/?key={{ .api_key }}", "/api/?key=k3y"},
		{"filter", "{{ .secret | b64encode }}", "aGVsbG8="},
		{"filter chain", "{{ .secret | b64encode | b64decode }}", "hello"},
		{"sprig", "{{ .host | upper }}", "FW01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Render(tt.tmpl, vars)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderer_MissingVariable(t *testing.T) {
	r := NewRenderer(nil)

	_, err1 := r.Render("{{ .missing }}", Context{"present": "x"})
	_, err2 := r.Render("{{ .missing }}", Context{"present": "x"})
	if !errors.Is(err1, ErrTemplate) {
		t.Fatalf("expected ErrTemplate, got %v", err1)
	}
	if err2 == nil || err1.Error() != err2.Error() {
		t.Errorf("expected identical failures, got %v and %v", err1, err2)
	}
}

func TestRenderer_SyntaxError(t *testing.T) {
	r := NewRenderer(nil)
	if _, err := r.Render("{{ .host ", Context{"host": "x"}); !errors.Is(err, ErrTemplate) {
		t.Errorf("expected ErrTemplate, got %v", err)
	}
}

func TestRenderer_FilterError(t *testing.T) {
	r := NewRenderer(nil)
	_, err := r.Render("{{ .v | b64decode }}", Context{"v": "%%%"})
	if !errors.Is(err, ErrTemplate) {
		t.Errorf("expected ErrTemplate, got %v", err)
	}
}

func TestRenderer_Deterministic(t *testing.T) {
	r := NewRenderer(nil)
	vars := Context{"a": "1", "b": "2"}
	tmpl := `{"a": "{{ .a }}", "b": "{{ .b | b64encode }}"}`

	first, err := r.Render(tmpl, vars)
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Render(tmpl, vars)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("renders differ: %q vs %q", first, second)
	}
	if len(vars) != 2 || vars["a"] != "1" {
		t.Errorf("context was modified: %v", vars)
	}
}

func TestRenderer_CustomFilter(t *testing.T) {
	filters := DefaultFilters()
	filters.Register("reverse", func(s string) (string, error) {
		runes := []rune(s)
		for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
			runes[i], runes[j] = runes[j], runes[i]
		}
		return string(runes), nil
	})

	got, err := NewRenderer(filters).Render("{{ .v | reverse }}", Context{"v": "abc"})
	if err != nil {
		t.Fatal(err)
	}
	if got != "cba" {
		t.Errorf("got %q, want %q", got, "cba")
	}
}

func TestRenderer_HashFilters(t *testing.T) {
	r := NewRenderer(nil)
	got, err := r.Render("{{ .pw | md5_hash }}|{{ .pw | sha512_hash }}|{{ .pw | des_hash }}", Context{"pw": "admin"})
	if err != nil {
		t.Fatal(err)
	}
	parts := strings.Split(got, "|")
	if len(parts) != 3 {
		t.Fatalf("unexpected output %q", got)
	}
	if !strings.HasPrefix(parts[0], "$1$") || !strings.HasPrefix(parts[1], "$6$") || len(parts[2]) != 13 {
		t.Errorf("unexpected hash shapes: %q", got)
	}
}

func TestRenderer_RenderFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "payload.xml")
	if err := os.WriteFile(path, []byte("<hostname>{{ .host }}</hostname>"), 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := NewRenderer(nil).RenderFile(path, Context{"host": "fw01"})
	if err != nil {
		t.Fatal(err)
	}
	if got != "<hostname>fw01</hostname>" {
		t.Errorf("got %q", got)
	}

	if _, err := NewRenderer(nil).RenderFile(filepath.Join(dir, "missing"), nil); err == nil {
		t.Error("expected error for missing file")
	}
}
