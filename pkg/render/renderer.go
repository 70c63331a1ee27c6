package render

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// Context is the flat variable mapping a template is rendered against.
type Context map[string]string

// Renderer renders text/template sources with the sprig functions and a
// filter table attached. It holds no per-call state.
type Renderer struct {
	funcs template.FuncMap
}

// NewRenderer creates a renderer. A nil table means DefaultFilters.
// Filters shadow sprig functions of the same name.
func NewRenderer(filters Filters) *Renderer {
	if filters == nil {
		filters = DefaultFilters()
	}

	funcs := sprig.TxtFuncMap()
	for name, fn := range filters {
		funcs[name] = fn
	}
	return &Renderer{funcs: funcs}
}

// Render executes text against vars. Referencing a variable that vars does
// not define is an error.
func (r *Renderer) Render(text string, vars Context) (string, error) {
	return r.render("template", text, vars)
}

// RenderFile reads filename and renders its content against vars.
func (r *Renderer) RenderFile(filename string, vars Context) (string, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return "", fmt.Errorf("reading template file: %w", err)
	}
	return r.render(filepath.Base(filename), string(content), vars)
}

func (r *Renderer) render(name, text string, vars Context) (string, error) {
	tmpl, err := template.New(name).
		Option("missingkey=error").
		Funcs(r.funcs).
		Parse(text)
	if err != nil {
		return "", fmt.Errorf("%w: parsing %s: %w", ErrTemplate, name, err)
	}

	if vars == nil {
		vars = Context{}
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vars); err != nil {
		return "", fmt.Errorf("%w: executing %s: %w", ErrTemplate, name, err)
	}
	return buf.String(), nil
}
