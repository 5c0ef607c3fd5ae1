package tailstyle

import (
	"fmt"

	"github.com/yacobolo/tailstyle/internal/tailstyle"
)

// ScanStats tracks template discovery statistics.
type ScanStats = tailstyle.ScanStats

// Components is an ordered, in-memory ComponentSet.
type Components struct {
	names   []string
	markup  map[string]string
	sources map[string]string
}

// NewComponents returns an empty set.
func NewComponents() *Components {
	return &Components{
		markup:  make(map[string]string),
		sources: make(map[string]string),
	}
}

// Add registers a template. Names must be unique.
func (c *Components) Add(name, markup string) error {
	return c.add(name, markup, "")
}

func (c *Components) add(name, markup, source string) error {
	if name == "" {
		return fmt.Errorf("component name is empty")
	}
	if _, exists := c.markup[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateComponent, name)
	}
	c.names = append(c.names, name)
	c.markup[name] = markup
	if source != "" {
		c.sources[name] = source
	}
	return nil
}

// Names returns component names in registration order.
func (c *Components) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Markup returns the template markup for name.
func (c *Components) Markup(name string) (string, bool) {
	m, ok := c.markup[name]
	return m, ok
}

// Source returns the file a component was loaded from.
func (c *Components) Source(name string) string {
	return c.sources[name]
}

// Len returns the number of components.
func (c *Components) Len() int {
	return len(c.names)
}

// LoadComponents scans config.ComponentsDir for templates matching config.Includes.
// Names are slash-separated paths relative to the directory without extension.
func LoadComponents(config Config) (*Components, ScanStats, error) {
	files, stats, err := tailstyle.ScanComponents(config.ComponentsDir, config.Includes)
	if err != nil {
		return nil, stats, fmt.Errorf("scan failed: %w", err)
	}

	components := NewComponents()
	for _, f := range files {
		if err := components.add(f.Name, f.Markup, f.Path); err != nil {
			return nil, stats, err
		}
	}
	return components, stats, nil
}
