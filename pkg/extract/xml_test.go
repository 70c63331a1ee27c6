package extract

import (
	"errors"
	"testing"

	"github.com/systemstart/skillet-runner/pkg/api"
)

const panosResponse = `<response status="success"><result><system>` +
	`<hostname>fw01</hostname><sw-version>10.1.0</sw-version>` +
	`<entry name="ethernet1">up</entry></system></result></response>`

func TestXMLExtract(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		pattern string
		want    any
	}{
		{"root tag in pattern", "<result><system><hostname>fw01</hostname></system></result>", "result/system/hostname", "fw01"},
		{"relative to root", panosResponse, "result/system/hostname", "fw01"},
		{"dashed tag", panosResponse, "result/system/sw-version", "10.1.0"},
		{"root attribute", panosResponse, "@status", "success"},
		{"element attribute", panosResponse, "result/system/entry/@name", "ethernet1"},
		{"filter", panosResponse, "result/system/entry[@name='ethernet1']", "up"},
		{"descendant", panosResponse, ".//hostname", "fw01"},
		{"missing element", panosResponse, "result/system/serial", nil},
		{"missing attribute", panosResponse, "result/system/hostname/@nope", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := xmlExtractor{}.Extract(tt.raw, []api.Output{{Name: "v", CapturePattern: tt.pattern}})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got, ok := out["v"]
			if !ok {
				t.Fatal("expected output key to be present")
			}
			if got != tt.want {
				t.Errorf("got %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestXMLExtract_Malformed(t *testing.T) {
	for _, raw := range []string{"<result><system>", "", "not xml at all", "<a></b>"} {
		_, err := xmlExtractor{}.Extract(raw, []api.Output{{Name: "v", CapturePattern: "a"}})
		if !errors.Is(err, ErrParser) {
			t.Errorf("raw %q: expected ErrParser, got %v", raw, err)
		}
	}
}

func TestXMLExtract_SkipsIncompleteOutputs(t *testing.T) {
	out, err := xmlExtractor{}.Extract(panosResponse, []api.Output{
		{Name: "nopattern"},
		{CapturePattern: "result/system/hostname"},
		{Name: "hostname", CapturePattern: "result/system/hostname"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out["hostname"] != "fw01" {
		t.Errorf("unexpected outputs: %v", out)
	}
}

func TestSplitAttribute(t *testing.T) {
	tests := []struct {
		pattern, path, attr string
	}{
		{"a/b", "a/b", ""},
		{"a/b/@id", "a/b", "id"},
		{"@id", "", "id"},
		{"a[@id='1']", "a[@id='1']", ""},
		{"a@b", "a@b", ""},
	}
	for _, tt := range tests {
		path, attr := splitAttribute(tt.pattern)
		if path != tt.path || attr != tt.attr {
			t.Errorf("splitAttribute(%q) = (%q, %q), want (%q, %q)", tt.pattern, path, attr, tt.path, tt.attr)
		}
	}
}
