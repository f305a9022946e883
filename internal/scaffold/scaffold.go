// Package scaffold stamps out new module skeletons: a record type, store
// interface, pipeline services and HTTP handler wired the same way the
// built-in Auth module is. It writes files only; registering the module's
// routes stays a manual step.
package scaffold

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"
	"unicode"
)

// Module describes the module to generate.
type Module struct {
	// Name is the module's package name, e.g. "billing". Lowercase letters
	// and digits only, starting with a letter.
	Name string

	// Entity is the PascalCase record name, e.g. "Invoice".
	Entity string

	// ModulePath is the Go module path generated imports are rooted at.
	ModulePath string
}

// Derived naming used inside templates.
type templateData struct {
	Module
	EntityLower string // invoice
	EntitySnake string // invoice_entry -> invoice_entry
	Table       string // invoices
}

var (
	namePattern   = regexp.MustCompile(`^[a-z][a-z0-9]*$`)
	entityPattern = regexp.MustCompile(`^[A-Z][A-Za-z0-9]*$`)
)

// Validate checks the module description before generation.
func (m Module) Validate() error {
	if !namePattern.MatchString(m.Name) {
		return fmt.Errorf("invalid module name %q: want lowercase letters and digits, starting with a letter", m.Name)
	}
	if !entityPattern.MatchString(m.Entity) {
		return fmt.Errorf("invalid entity name %q: want PascalCase", m.Entity)
	}
	if m.ModulePath == "" {
		return fmt.Errorf("module path cannot be empty")
	}
	return nil
}

// Generate renders the module skeleton under root (the repository root) and
// returns the created file paths. Existing files are never overwritten;
// a collision aborts the whole generation before anything is written.
func Generate(root string, m Module) ([]string, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	data := templateData{
		Module:      m,
		EntityLower: lowerFirst(m.Entity),
		EntitySnake: snake(m.Entity),
		Table:       snake(m.Entity) + "s",
	}

	type rendered struct {
		path    string
		content []byte
	}

	files := make([]rendered, 0, len(moduleTemplates))
	for _, ft := range moduleTemplates {
		path, err := renderString(ft.Path, data)
		if err != nil {
			return nil, fmt.Errorf("failed to render path template: %w", err)
		}

		content, err := renderString(ft.Content, data)
		if err != nil {
			return nil, fmt.Errorf("failed to render %s: %w", path, err)
		}

		full := filepath.Join(root, path)
		if _, err := os.Stat(full); err == nil {
			return nil, fmt.Errorf("refusing to overwrite existing file %s", path)
		}
		files = append(files, rendered{path: full, content: []byte(content)})
	}

	created := make([]string, 0, len(files))
	for _, f := range files {
		if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory for %s: %w", f.path, err)
		}
		if err := os.WriteFile(f.path, f.content, 0o644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", f.path, err)
		}
		created = append(created, f.path)
	}

	return created, nil
}

func renderString(text string, data templateData) (string, error) {
	tmpl, err := template.New("scaffold").Parse(text)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

// snake converts PascalCase to snake_case. Acronym runs stay together,
// so APIKey becomes api_key rather than a_p_i_key.
func snake(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			startsWord := i > 0 &&
				(!unicode.IsUpper(runes[i-1]) ||
					(i+1 < len(runes) && unicode.IsLower(runes[i+1])))
			if startsWord {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
