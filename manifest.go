package tailstyle

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// ManifestVersion is the schema version written by WriteManifest.
const ManifestVersion = "1.0"

// Manifest is the JSON export of a populated cache. A later process can
// restore it with NewStyleInjectorFromManifest instead of recompiling.
type Manifest struct {
	Version    string              `json:"version"`
	Timestamp  string              `json:"timestamp"`
	BaseCSS    string              `json:"base_css"`
	Components []ManifestComponent `json:"components"`
	Warnings   []string            `json:"warnings,omitempty"`
}

// ManifestComponent is a single cached component
type ManifestComponent struct {
	Name    string   `json:"name"`
	Source  string   `json:"source,omitempty"`
	Classes []string `json:"classes,omitempty"`
	Rules   int      `json:"rules"`
	CSS     string   `json:"css"`
}

// BuildManifest converts a generation result to its JSON export.
func BuildManifest(result *GenerateResult) (*Manifest, error) {
	if result == nil || result.Injector == nil || !result.Injector.Loaded() {
		return nil, fmt.Errorf("build manifest: components not loaded")
	}

	cache := result.Injector.Cache()
	components := make([]ManifestComponent, 0, len(result.Components))
	for _, stats := range result.Components {
		css, _ := cache.Get(stats.Name)
		components = append(components, ManifestComponent{
			Name:    stats.Name,
			Source:  filepath.ToSlash(stats.Source),
			Classes: stats.Classes,
			Rules:   stats.Rules,
			CSS:     css,
		})
	}

	return &Manifest{
		Version:    ManifestVersion,
		Timestamp:  time.Now().Format(time.RFC3339),
		BaseCSS:    result.Injector.BaseCSS(),
		Components: components,
		Warnings:   result.Warnings,
	}, nil
}

// WriteManifest writes m as indented JSON
func WriteManifest(w io.Writer, m *Manifest) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(m)
}

// WriteManifestFile writes m to path, creating parent directories.
func WriteManifestFile(path string, m *Manifest) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create manifest dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create manifest: %w", err)
	}
	if err := WriteManifest(f, m); err != nil {
		f.Close()
		return fmt.Errorf("write manifest: %w", err)
	}
	return f.Close()
}

// ReadManifest decodes a manifest written by WriteManifest.
func ReadManifest(r io.Reader) (*Manifest, error) {
	var m Manifest
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	if m.Version != ManifestVersion {
		return nil, fmt.Errorf("unsupported manifest version %q", m.Version)
	}
	return &m, nil
}

// ReadManifestFile reads the manifest at path.
func ReadManifestFile(path string) (*Manifest, error) {
	// #nosec G304 - path comes from trusted configuration
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("manifest not found at %s: %w", path, err)
	}
	defer f.Close()
	return ReadManifest(f)
}

// NewStyleInjectorFromManifest returns an injector whose cache is already
// populated from m. ComponentsLoaded on it returns ErrAlreadyLoaded.
func NewStyleInjectorFromManifest(m *Manifest, opts InjectorOptions) (*StyleInjector, error) {
	if m == nil {
		return nil, fmt.Errorf("restore manifest: manifest is nil")
	}

	entries := make(map[string]string, len(m.Components))
	names := make([]string, 0, len(m.Components))
	for _, c := range m.Components {
		if _, exists := entries[c.Name]; exists {
			return nil, fmt.Errorf("%w in manifest: %s", ErrDuplicateComponent, c.Name)
		}
		entries[c.Name] = c.CSS
		names = append(names, c.Name)
	}

	s := NewStyleInjector(nil, opts)
	s.state.Store(&snapshot{
		cache:    newCache(names, entries),
		baseCSS:  m.BaseCSS,
		warnings: m.Warnings,
	})
	return s, nil
}
