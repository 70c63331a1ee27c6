package extract

import (
	"encoding/base64"
	"fmt"
	"unicode/utf8"

	"github.com/systemstart/skillet-runner/pkg/api"
)

type base64Extractor struct{}

// Extract stores the URL-safe base64 encoding of the whole body under every
// named output. Capture patterns are ignored.
func (base64Extractor) Extract(raw string, outputs []api.Output) (Outputs, error) {
	if !utf8.ValidString(raw) {
		return nil, fmt.Errorf("%w: could not base64 encode results: body is not valid UTF-8", ErrParser)
	}

	encoded := base64.URLEncoding.EncodeToString([]byte(raw))
	result := Outputs{}
	for _, o := range outputs {
		if o.Name == "" {
			continue
		}
		result[o.Name] = encoded
	}
	return result, nil
}
