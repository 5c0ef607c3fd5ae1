package page

import (
	"fmt"
	"html"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/yacobolo/tailstyle"
)

// Head collects head fragments in append order.
type Head struct {
	mu        sync.Mutex
	fragments []string
}

// Add appends a fragment.
func (h *Head) Add(fragment string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.fragments = append(h.fragments, fragment)
}

// Fragments returns a copy of the appended fragments.
func (h *Head) Fragments() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.fragments))
	copy(out, h.fragments)
	return out
}

// Document is one page composed from component templates.
//
// Component events are delivered one at a time, so handlers for one document
// never run concurrently. Handlers may register further handlers but must
// not call Instantiate on the same document.
type Document struct {
	title      string
	head       *Head
	components tailstyle.ComponentSet

	emitMu sync.Mutex // serializes event delivery

	mu       sync.Mutex
	body     []string
	handlers []func(name string)
}

var _ tailstyle.Document = (*Document)(nil)

func newDocument(title string, components tailstyle.ComponentSet) *Document {
	return &Document{
		title:      title,
		head:       &Head{},
		components: components,
	}
}

// Head returns the document head.
func (d *Document) Head() tailstyle.Head {
	return d.head
}

// HeadFragments returns what has been appended to the head so far.
func (d *Document) HeadFragments() []string {
	return d.head.Fragments()
}

// OnComponentCreated registers fn for components instantiated in d.
func (d *Document) OnComponentCreated(fn func(name string)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers = append(d.handlers, fn)
}

// Instantiate appends the component's markup to the body and emits the
// component-created event.
func (d *Document) Instantiate(name string) error {
	markup, ok := d.components.Markup(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownComponent, name)
	}

	d.emitMu.Lock()
	defer d.emitMu.Unlock()

	d.mu.Lock()
	d.body = append(d.body, markup)
	handlers := slices.Clone(d.handlers)
	d.mu.Unlock()

	for _, fn := range handlers {
		fn(name)
	}
	return nil
}

// Render writes the document as HTML.
func (d *Document) Render(w io.Writer) error {
	d.mu.Lock()
	body := append([]string(nil), d.body...)
	d.mu.Unlock()

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	b.WriteString("<meta charset=\"utf-8\">\n")
	if d.title != "" {
		fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(d.title))
	}
	for _, fragment := range d.head.Fragments() {
		b.WriteString(fragment)
		b.WriteByte('\n')
	}
	b.WriteString("</head>\n<body>\n")
	for _, markup := range body {
		b.WriteString(markup)
		b.WriteByte('\n')
	}
	b.WriteString("</body>\n</html>\n")

	_, err := io.WriteString(w, b.String())
	return err
}
