package processing

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/systemstart/skillet-runner/pkg/api"
)

// DefaultManifestPattern matches manifests at any depth.
const DefaultManifestPattern = "**/" + api.DefaultManifestFilename

// DiscoverManifests loads every manifest under root whose relative path
// matches pattern (doublestar syntax, DefaultManifestPattern if empty).
// Results are sorted by path depth, parents before children.
func DiscoverManifests(root, pattern string) ([]*api.Manifest, error) {
	if pattern == "" {
		pattern = DefaultManifestPattern
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid manifest pattern %q", pattern)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving root path: %w", err)
	}

	matches, err := doublestar.Glob(os.DirFS(absRoot), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("searching manifests: %w", err)
	}

	slices.SortStableFunc(matches, func(a, b string) int {
		if d := pathDepth(a) - pathDepth(b); d != 0 {
			return d
		}
		return strings.Compare(a, b)
	})

	manifests := make([]*api.Manifest, 0, len(matches))
	for _, rel := range matches {
		p := filepath.Join(absRoot, filepath.FromSlash(rel))
		m, err := api.LoadManifest(p)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", p, err)
		}
		manifests = append(manifests, m)
	}
	return manifests, nil
}

func pathDepth(p string) int {
	if p == "." {
		return 0
	}
	return strings.Count(filepath.ToSlash(p), "/") + 1
}
