package api

import (
	"fmt"
	"strings"
)

var validOutputTypes = map[string]bool{
	OutputTypeXML:    true,
	OutputTypeJSON:   true,
	OutputTypeBase64: true,
}

var validTypes = map[string]bool{
	TypeREST:      true,
	TypeTerraform: true,
	TypePython3:   true,
}

var validOperations = map[string]bool{
	OperationGet:  true,
	OperationPost: true,
}

// Validate checks the manifest for errors. Snippet checks only apply to
// REST manifests; other manifest types carry no snippets.
func (m *Manifest) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("%w: name is required", ErrMalformedSpec)
	}

	if m.Type != "" && !validTypes[m.Type] {
		return fmt.Errorf("%w: type %q is not valid (valid: %s)",
			ErrMalformedSpec, m.Type, strings.Join([]string{TypeREST, TypeTerraform, TypePython3}, ", "))
	}

	if m.OutputType != "" && !validOutputTypes[m.OutputType] {
		return fmt.Errorf("%w: output_type %q is not valid (valid: %s)",
			ErrMalformedSpec, m.OutputType, strings.Join([]string{OutputTypeXML, OutputTypeJSON, OutputTypeBase64}, ", "))
	}

	vars := make(map[string]bool)
	for i, v := range m.Variables {
		if v.Name == "" {
			return fmt.Errorf("%w: variable %d: name is required", ErrMalformedSpec, i)
		}
		if vars[v.Name] {
			return fmt.Errorf("%w: variable %q: duplicate name", ErrMalformedSpec, v.Name)
		}
		vars[v.Name] = true
	}

	if m.Type != "" && m.Type != TypeREST {
		return nil
	}

	for i, s := range m.Snippets {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("snippet %d (%q): %w", i, s.Name, err)
		}
	}
	return nil
}

// Validate checks the fields the REST executor depends on.
func (s *Snippet) Validate() error {
	if s.Path == "" {
		return fmt.Errorf("%w: path is required", ErrMalformedSpec)
	}
	if s.Operation != "" && !validOperations[s.Operation] {
		return fmt.Errorf("%w: operation %q is not valid (valid: get, post)", ErrMalformedSpec, s.Operation)
	}
	return nil
}

// Validate checks the targets configuration for errors.
func (c *TargetsConfig) Validate() error {
	if len(c.Targets) == 0 {
		return fmt.Errorf("targets list is empty")
	}

	names := make(map[string]bool)
	for i, tgt := range c.Targets {
		if tgt.Name == "" {
			return fmt.Errorf("target %d: name is required", i)
		}
		if names[tgt.Name] {
			return fmt.Errorf("target %q: duplicate name", tgt.Name)
		}
		names[tgt.Name] = true
	}
	return nil
}
