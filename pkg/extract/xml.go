package extract

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/beevik/etree"
	"github.com/systemstart/skillet-runner/pkg/api"
)

type xmlExtractor struct{}

// Extract evaluates each capture pattern as an etree path against the root
// element, falling back to the document node so patterns may also start
// with the root tag. A trailing "/@name" selects an attribute. Patterns
// that match nothing store nil.
func (xmlExtractor) Extract(raw string, outputs []api.Output) (Outputs, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.ValidateInput = true
	if err := doc.ReadFromString(raw); err != nil {
		return nil, fmt.Errorf("%w: could not parse output as XML: %v", ErrParser, err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("%w: could not parse output as XML: no root element", ErrParser)
	}

	result := Outputs{}
	for _, o := range outputs {
		if o.Name == "" || o.CapturePattern == "" {
			slog.Debug("skipping incomplete xml output", "name", o.Name)
			continue
		}

		value, err := findText(doc, root, o.CapturePattern)
		if err != nil {
			return nil, err
		}
		result[o.Name] = value
	}
	return result, nil
}

func findText(doc *etree.Document, root *etree.Element, pattern string) (any, error) {
	elemPath, attr := splitAttribute(pattern)

	var elem *etree.Element
	if elemPath == "" {
		elem = root
	} else {
		path, err := etree.CompilePath(elemPath)
		if err != nil {
			return nil, fmt.Errorf("%w: capture pattern %q: %v", ErrParser, pattern, err)
		}
		elem = root.FindElementPath(path)
		if elem == nil {
			elem = doc.FindElementPath(path)
		}
	}

	if elem == nil {
		return nil, nil
	}
	if attr == "" {
		return elem.Text(), nil
	}
	a := elem.SelectAttr(attr)
	if a == nil {
		return nil, nil
	}
	return a.Value, nil
}

func splitAttribute(pattern string) (string, string) {
	i := strings.LastIndex(pattern, "@")
	if i < 0 || strings.ContainsAny(pattern[i:], "[]='/") {
		return pattern, ""
	}
	if i == 0 {
		return "", pattern[1:]
	}
	if pattern[i-1] != '/' {
		return pattern, ""
	}
	return pattern[:i-1], pattern[i+1:]
}
