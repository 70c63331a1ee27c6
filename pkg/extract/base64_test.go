package extract

import (
	"errors"
	"testing"

	"github.com/systemstart/skillet-runner/pkg/api"
)

func TestBase64Extract(t *testing.T) {
	out, err := base64Extractor{}.Extract("hello", []api.Output{
		{Name: "config", CapturePattern: "ignored"},
		{Name: "backup"},
		{CapturePattern: "nameless"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 outputs, got %v", out)
	}
	for _, name := range []string{"config", "backup"} {
		if out[name] != "aGVsbG8=" {
			t.Errorf("%s: got %v, want %q", name, out[name], "aGVsbG8=")
		}
	}
}

func TestBase64Extract_NotEncodable(t *testing.T) {
	_, err := base64Extractor{}.Extract("\xff\xfe", []api.Output{{Name: "v"}})
	if !errors.Is(err, ErrParser) {
		t.Errorf("expected ErrParser, got %v", err)
	}
}
