package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
)

var stdout io.Writer = os.Stdout

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) int {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		slog.Error("failed to write result", "error", err)
		return exitOutputFailed
	}
	return 0
}
