// Package extract turns raw snippet results into named output values.
//
// Each output format is a separate Extractor: xml (etree paths, parse
// failures are errors), json (JSONPath, parse failures are reported under
// the "system" output) and base64 (the whole body, encoded).
//
// A JSONPath match that is not a string is stored in its JSON form: true,
// false, null, numbers as written, objects with sorted keys. Consumers
// expecting Python-style True/None must convert.
package extract

import (
	"fmt"
	"log/slog"

	"github.com/systemstart/skillet-runner/pkg/api"
)

// SystemOutput is the output key JSON parse failures are reported under.
const SystemOutput = "system"

// Outputs maps output names to captured values. Values are strings, or nil
// when an XML path matched nothing.
type Outputs map[string]any

// Extractor captures outputs from a raw result body.
type Extractor interface {
	Extract(raw string, outputs []api.Output) (Outputs, error)
}

var extractors = map[string]Extractor{
	api.OutputTypeXML:    xmlExtractor{},
	api.OutputTypeJSON:   jsonExtractor{},
	api.OutputTypeBase64: base64Extractor{},
}

// For returns the extractor for an output_type.
func For(outputType string) (Extractor, error) {
	ex, ok := extractors[outputType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOutputType, outputType)
	}
	return ex, nil
}

// Parse extracts the outputs a snippet declares, using the manifest's
// output_type. A snippet without outputs, or a manifest without a known
// output_type, yields empty outputs and a warning.
func Parse(m *api.Manifest, s *api.Snippet, raw string) (Outputs, error) {
	if len(s.Outputs) == 0 {
		slog.Warn("no outputs defined for snippet", "manifest", m.Name, "snippet", s.Name)
		return Outputs{}, nil
	}
	if m.OutputType == "" {
		slog.Warn("no output_type defined in manifest", "manifest", m.Name, "snippet", s.Name)
		return Outputs{}, nil
	}

	ex, err := For(m.OutputType)
	if err != nil {
		slog.Warn("skipping output extraction", "manifest", m.Name, "snippet", s.Name, "error", err)
		return Outputs{}, nil
	}

	outputs, err := ex.Extract(raw, s.Outputs)
	if err != nil {
		return nil, fmt.Errorf("snippet %q: %w", s.Name, err)
	}
	return outputs, nil
}
