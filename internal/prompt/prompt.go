package prompt

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"text/template"
)

// Template names used by the pipeline.
const (
	Classification = "classification"
	Structural     = "structural"
	Financial      = "financial"
	SchemaMapping  = "schema_mapping"
	Audit          = "audit"
)

// Registry renders named prompt templates and reports stable version
// identifiers for reproducibility tracking in extraction metadata.
type Registry struct {
	templates map[string]*template.Template
	versions  map[string]string
}

// NewRegistry builds the registry from the built-in templates.
func NewRegistry() (*Registry, error) {
	r := &Registry{
		templates: make(map[string]*template.Template),
		versions:  make(map[string]string),
	}
	for name, text := range builtinTemplates {
		t, err := template.New(name).Option("missingkey=zero").Parse(text)
		if err != nil {
			return nil, fmt.Errorf("parsing prompt template %s: %w", name, err)
		}
		r.templates[name] = t
		sum := sha256.Sum256([]byte(text))
		r.versions[name] = hex.EncodeToString(sum[:6])
	}
	return r, nil
}

// Render fills the named template with vars.
func (r *Registry) Render(name string, vars map[string]string) (string, error) {
	t, ok := r.templates[name]
	if !ok {
		return "", fmt.Errorf("unknown prompt template: %s", name)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, vars); err != nil {
		return "", fmt.Errorf("rendering prompt template %s: %w", name, err)
	}
	return buf.String(), nil
}

// Version returns a stable identifier for the named template, or "" if the
// template does not exist.
func (r *Registry) Version(name string) string {
	return r.versions[name]
}

// Versions returns all template versions, for extraction metadata.
func (r *Registry) Versions() map[string]string {
	out := make(map[string]string, len(r.versions))
	for k, v := range r.versions {
		out[k] = v
	}
	return out
}
