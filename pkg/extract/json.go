package extract

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/ohler55/ojg"
	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
	"github.com/systemstart/skillet-runner/pkg/api"
)

type jsonExtractor struct{}

// Extract evaluates each capture pattern as JSONPath. Exactly one match
// stores the value's string form, anything else stores "". Parse failures
// never return an error: the message is stored under SystemOutput and the
// outputs gathered so far are returned.
func (jsonExtractor) Extract(raw string, outputs []api.Output) (Outputs, error) {
	result := Outputs{}

	var (
		doc    any
		parsed bool
	)
	for _, o := range outputs {
		if o.Name == "" {
			slog.Warn("malformed outputs in snippet definition: output without name")
			continue
		}

		if !parsed {
			var err error
			doc, err = parseJSON(raw)
			if err != nil {
				slog.Warn("could not parse results as json", "error", err)
				result[SystemOutput] = err.Error()
				return result, nil
			}
			parsed = true
		}

		expr, err := jp.ParseString(normalizeJSONPath(o.CapturePattern))
		if err != nil {
			slog.Warn("invalid json capture pattern", "name", o.Name, "pattern", o.CapturePattern, "error", err)
			result[SystemOutput] = err.Error()
			return result, nil
		}

		matches := expr.Get(doc)
		if len(matches) == 1 {
			result[o.Name] = stringify(matches[0])
		} else {
			result[o.Name] = ""
		}
	}
	return result, nil
}

func parseJSON(raw string) (any, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, errors.New("empty JSON document")
	}
	return oj.ParseString(raw)
}

// normalizeJSONPath anchors relative patterns such as "a.b" at the root.
func normalizeJSONPath(pattern string) string {
	switch {
	case strings.HasPrefix(pattern, "$"), strings.HasPrefix(pattern, "@"):
		return pattern
	case strings.HasPrefix(pattern, "["):
		return "$" + pattern
	default:
		return "$." + pattern
	}
}

func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return oj.JSON(v, &ojg.Options{Sort: true})
}
