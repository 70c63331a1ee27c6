package api

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadManifest reads a .meta-cnc.yaml file, sets Dir/FilePath, and validates it.
func LoadManifest(filename string) (*Manifest, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading manifest file: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest file: %w", err)
	}

	absPath, err := filepath.Abs(filename)
	if err != nil {
		return nil, fmt.Errorf("resolving absolute path: %w", err)
	}
	m.FilePath = absPath
	m.Dir = filepath.Dir(absPath)

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("validating manifest %s: %w", filename, err)
	}

	return &m, nil
}

// LoadTargets reads a targets YAML file, unmarshals it, and validates.
func LoadTargets(filename string) (*TargetsConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading targets file: %w", err)
	}

	var cfg TargetsConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing targets file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating targets file: %w", err)
	}

	return &cfg, nil
}

// SnippetDir returns the directory payload files are resolved in: the
// manifest's snippet_path when set (relative paths are taken from the
// manifest's directory), otherwise appDir/snippets/<name>.
func (m *Manifest) SnippetDir(appDir string) string {
	if m.SnippetPath != "" {
		if filepath.IsAbs(m.SnippetPath) || m.Dir == "" {
			return m.SnippetPath
		}
		return filepath.Join(m.Dir, m.SnippetPath)
	}
	return filepath.Join(appDir, DefaultSnippetsDir, m.Name)
}

// Defaults returns the declared variable defaults.
func (m *Manifest) Defaults() map[string]string {
	defaults := make(map[string]string, len(m.Variables))
	for _, v := range m.Variables {
		defaults[v.Name] = v.Default
	}
	return defaults
}
