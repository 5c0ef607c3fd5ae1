// Package page is a minimal rendering host: it owns component templates,
// builds documents from them and emits the lifecycle events that
// tailstyle.StyleInjector subscribes to.
package page

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/yacobolo/tailstyle"
)

var (
	// ErrUnknownComponent is returned when a document instantiates a
	// component the host does not know.
	ErrUnknownComponent = errors.New("unknown component")
	// ErrComponentsLoaded is returned when LoadComponents runs twice.
	ErrComponentsLoaded = errors.New("components already loaded")
)

// Host dispatches lifecycle events to registered handlers.
type Host struct {
	components tailstyle.ComponentSet

	mu               sync.Mutex
	loaded           bool
	loadedHandlers   []func(ctx context.Context, components tailstyle.ComponentSet) error
	documentHandlers []func(doc tailstyle.Document)
}

var _ tailstyle.Host = (*Host)(nil)

// NewHost creates a host serving components.
func NewHost(components tailstyle.ComponentSet) *Host {
	return &Host{components: components}
}

// OnComponentsLoaded registers fn for the components-loaded event.
func (h *Host) OnComponentsLoaded(fn func(ctx context.Context, components tailstyle.ComponentSet) error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.loadedHandlers = append(h.loadedHandlers, fn)
}

// OnDocumentCreated registers fn for every new document.
func (h *Host) OnDocumentCreated(fn func(doc tailstyle.Document)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.documentHandlers = append(h.documentHandlers, fn)
}

// LoadComponents fires the components-loaded event once. Handlers run in
// registration order; the first error stops dispatch.
func (h *Host) LoadComponents(ctx context.Context) error {
	h.mu.Lock()
	if h.loaded {
		h.mu.Unlock()
		return ErrComponentsLoaded
	}
	h.loaded = true
	handlers := slices.Clone(h.loadedHandlers)
	h.mu.Unlock()

	for _, fn := range handlers {
		if err := fn(ctx, h.components); err != nil {
			return fmt.Errorf("components loaded: %w", err)
		}
	}
	return nil
}

// NewDocument creates a document and fires the document-created event.
func (h *Host) NewDocument(title string) *Document {
	doc := newDocument(title, h.components)

	h.mu.Lock()
	handlers := slices.Clone(h.documentHandlers)
	h.mu.Unlock()

	for _, fn := range handlers {
		fn(doc)
	}
	return doc
}
