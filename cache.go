package tailstyle

// Cache maps component names to generated CSS.
// It is immutable once built and safe for concurrent reads.
type Cache struct {
	entries map[string]string
	names   []string
}

func newCache(names []string, entries map[string]string) *Cache {
	return &Cache{
		entries: entries,
		names:   names,
	}
}

// Get returns the CSS cached for name. An empty string with ok=true means the
// component was compiled but produced no rules.
func (c *Cache) Get(name string) (string, bool) {
	if c == nil {
		return "", false
	}
	css, ok := c.entries[name]
	return css, ok
}

// Names returns cached component names in generation order.
func (c *Cache) Names() []string {
	if c == nil {
		return nil
	}
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Len returns the number of cached components.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}
