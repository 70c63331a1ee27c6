package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"path/filepath"
	"text/tabwriter"

	"github.com/systemstart/skillet-runner/pkg/processing"
)

func runList(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	var (
		common  commonFlags
		root    string
		pattern string
		asJSON  bool
	)
	common.register(fs)
	fs.StringVar(&root, "root", ".", "directory to search")
	fs.StringVar(&pattern, "pattern", processing.DefaultManifestPattern, "doublestar pattern manifests must match, relative to -root")
	fs.BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	stopMetrics, code := common.setup(ctx)
	if code != 0 {
		return code
	}
	defer stopMetrics()

	manifests, err := processing.DiscoverManifests(root, pattern)
	if err != nil {
		slog.Error("failed to discover manifests", "root", root, "error", err)
		return exitCode(err)
	}
	slog.Debug("discovered manifests", "count", len(manifests))

	type entry struct {
		Name       string `json:"name"`
		Label      string `json:"label"`
		Type       string `json:"type"`
		OutputType string `json:"output_type,omitempty"`
		Snippets   int    `json:"snippets"`
		Path       string `json:"path"`
	}
	absRoot, _ := filepath.Abs(root)
	entries := make([]entry, 0, len(manifests))
	for _, m := range manifests {
		path := m.FilePath
		if rel, err := filepath.Rel(absRoot, m.FilePath); err == nil {
			path = rel
		}
		entries = append(entries, entry{
			Name:       m.Name,
			Label:      m.Label,
			Type:       m.Type,
			OutputType: m.OutputType,
			Snippets:   len(m.Snippets),
			Path:       path,
		})
	}

	if asJSON {
		return printJSON(entries)
	}

	w := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tTYPE\tSNIPPETS\tPATH")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", e.Name, e.Type, e.Snippets, e.Path)
	}
	if err := w.Flush(); err != nil {
		slog.Error("failed to write result", "error", err)
		return exitOutputFailed
	}
	return 0
}
