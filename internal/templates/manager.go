package templates

import (
	"bytes"
	"fmt"
	"html/template"
	"path/filepath"
	"sync"
)

// Manager lazily parses and caches templates by name. Safe for concurrent use
// since handlers render from multiple goroutines.
type Manager struct {
	dir string

	mu    sync.Mutex
	cache map[string]*template.Template
}

func NewManager(dir string) *Manager {
	return &Manager{
		dir:   dir,
		cache: make(map[string]*template.Template),
	}
}

func (m *Manager) Render(name string, data any) (string, error) {
	m.mu.Lock()
	tmpl, ok := m.cache[name]
	if !ok {
		var err error
		tmpl, err = template.ParseFiles(filepath.Join(m.dir, name))
		if err != nil {
			m.mu.Unlock()
			return "", fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		m.cache[name] = tmpl
	}
	m.mu.Unlock()

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return buf.String(), nil
}
