package tailstyle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCompiler returns base rules for empty scans and one rule per class
// token for content scans.
func fakeCompiler() GeneratorFunc {
	return func(_ context.Context, markup string, mode ScanMode) (string, error) {
		if mode == ScanEmpty {
			return "*{margin:0}", nil
		}
		var rules []string
		for _, field := range strings.FieldsFunc(markup, func(r rune) bool {
			return r == '\'' || r == '"' || r == ' '
		}) {
			if strings.HasPrefix(field, "px-") || strings.HasPrefix(field, "py-") {
				rules = append(rules, fmt.Sprintf(".%s{padding:1rem}", field))
			}
		}
		return strings.Join(rules, "\n"), nil
	}
}

type fakeHead struct {
	fragments []string
}

func (h *fakeHead) Add(fragment string) {
	h.fragments = append(h.fragments, fragment)
}

type fakeDocument struct {
	head     fakeHead
	handlers []func(string)
}

func (d *fakeDocument) Head() Head { return &d.head }

func (d *fakeDocument) OnComponentCreated(fn func(name string)) {
	d.handlers = append(d.handlers, fn)
}

func (d *fakeDocument) create(names ...string) {
	for _, name := range names {
		for _, fn := range d.handlers {
			fn(name)
		}
	}
}

type fakeHost struct {
	loaded   []func(context.Context, ComponentSet) error
	document []func(Document)
}

func (h *fakeHost) OnComponentsLoaded(fn func(context.Context, ComponentSet) error) {
	h.loaded = append(h.loaded, fn)
}

func (h *fakeHost) OnDocumentCreated(fn func(Document)) {
	h.document = append(h.document, fn)
}

func mustComponents(t *testing.T, pairs ...string) *Components {
	t.Helper()
	c := NewComponents()
	for i := 0; i+1 < len(pairs); i += 2 {
		require.NoError(t, c.Add(pairs[i], pairs[i+1]))
	}
	return c
}

func loadedInjector(t *testing.T, gen Generator, opts InjectorOptions, components ComponentSet) *StyleInjector {
	t.Helper()
	s := NewStyleInjector(gen, opts)
	require.NoError(t, s.ComponentsLoaded(context.Background(), components))
	return s
}

func TestComponentsLoaded_CachesByName(t *testing.T) {
	s := loadedInjector(t, fakeCompiler(), InjectorOptions{},
		mustComponents(t, "Button", "<button class='px-4'>"))

	css, ok := s.Cache().Get("Button")
	require.True(t, ok)
	assert.Contains(t, css, ".px-4")

	_, ok = s.Cache().Get("Card")
	assert.False(t, ok)

	assert.Equal(t, "*{margin:0}", s.BaseCSS())
	assert.Equal(t, []string{"Button"}, s.Cache().Names())
	assert.Empty(t, s.Warnings())
}

func TestComponentsLoaded_Idempotent(t *testing.T) {
	components := mustComponents(t, "Button", "<button class='px-4 py-2'>")
	a := loadedInjector(t, fakeCompiler(), InjectorOptions{}, components)
	b := loadedInjector(t, fakeCompiler(), InjectorOptions{}, components)

	cssA, _ := a.Cache().Get("Button")
	cssB, _ := b.Cache().Get("Button")
	assert.Equal(t, cssA, cssB)
}

func TestComponentsLoaded_OnlyOnce(t *testing.T) {
	s := loadedInjector(t, fakeCompiler(), InjectorOptions{}, mustComponents(t, "Button", "<button class='px-4'>"))

	err := s.ComponentsLoaded(context.Background(), mustComponents(t, "Card", "<div class='px-2'>"))
	require.ErrorIs(t, err, ErrAlreadyLoaded)

	_, ok := s.Cache().Get("Card")
	assert.False(t, ok)
}

func TestComponentsLoaded_LenientFailure(t *testing.T) {
	boom := errors.New("unknown utility")
	gen := GeneratorFunc(func(ctx context.Context, markup string, mode ScanMode) (string, error) {
		if strings.Contains(markup, "broken") {
			return "", boom
		}
		return fakeCompiler()(ctx, markup, mode)
	})

	s := loadedInjector(t, gen, InjectorOptions{}, mustComponents(t,
		"Button", "<button class='px-4'>",
		"Broken", "<div class='broken'>",
	))

	css, ok := s.Cache().Get("Broken")
	require.True(t, ok)
	assert.Empty(t, css)

	warnings := s.Warnings()
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "component Broken")
	assert.Contains(t, warnings[0], "unknown utility")
}

func TestComponentsLoaded_StrictFailure(t *testing.T) {
	boom := errors.New("unknown utility")
	gen := GeneratorFunc(func(ctx context.Context, markup string, mode ScanMode) (string, error) {
		if strings.Contains(markup, "broken") {
			return "", boom
		}
		return fakeCompiler()(ctx, markup, mode)
	})

	s := NewStyleInjector(gen, InjectorOptions{Strict: true})
	err := s.ComponentsLoaded(context.Background(), mustComponents(t,
		"Button", "<button class='px-4'>",
		"Broken", "<div class='broken'>",
	))
	require.ErrorIs(t, err, ErrGenerate)
	require.ErrorIs(t, err, boom)

	var genErr *GenerateError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, "Broken", genErr.Component)

	assert.False(t, s.Loaded())
	assert.Nil(t, s.Cache())
}

func TestComponentsLoaded_StrictStopsScheduling(t *testing.T) {
	var calls atomic.Int32
	gen := GeneratorFunc(func(_ context.Context, _ string, mode ScanMode) (string, error) {
		if mode == ScanEmpty {
			return "*{margin:0}", nil
		}
		calls.Add(1)
		return "", errors.New("unknown utility")
	})

	components := NewComponents()
	for i := 0; i < 50; i++ {
		require.NoError(t, components.Add(fmt.Sprintf("C%d", i), "<p class='broken'>"))
	}

	s := NewStyleInjector(gen, InjectorOptions{Strict: true, Concurrency: 1})
	err := s.ComponentsLoaded(context.Background(), components)
	require.ErrorIs(t, err, ErrGenerate)
	assert.Equal(t, int32(1), calls.Load())
}

// sparseSet lists names that Markup does not resolve.
type sparseSet struct {
	*Components
	extra []string
}

func (s sparseSet) Names() []string {
	return append(s.Components.Names(), s.extra...)
}

func TestComponentsLoaded_SkipsNamesWithoutMarkup(t *testing.T) {
	set := sparseSet{
		Components: mustComponents(t, "Button", "<button class='px-4'>"),
		extra:      []string{"Ghost"},
	}

	s := loadedInjector(t, fakeCompiler(), InjectorOptions{}, set)

	_, ok := s.Cache().Get("Ghost")
	assert.False(t, ok)
	assert.Equal(t, []string{"Button"}, s.Cache().Names())
	assert.Empty(t, s.Warnings())
}

func TestComponentsLoaded_BaseFailureAborts(t *testing.T) {
	boom := errors.New("bad preset")
	gen := GeneratorFunc(func(_ context.Context, _ string, mode ScanMode) (string, error) {
		if mode == ScanEmpty {
			return "", boom
		}
		return ".x{}", nil
	})

	s := NewStyleInjector(gen, InjectorOptions{})
	err := s.ComponentsLoaded(context.Background(), mustComponents(t, "Button", "<button>"))
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "base css")
	assert.False(t, s.Loaded())

	// A failed load can be retried.
	s.generator = fakeCompiler()
	require.NoError(t, s.ComponentsLoaded(context.Background(), mustComponents(t, "Button", "<button>")))
}

func TestComponentsLoaded_BoundedConcurrency(t *testing.T) {
	var active, peak atomic.Int32
	gen := GeneratorFunc(func(ctx context.Context, markup string, mode ScanMode) (string, error) {
		n := active.Add(1)
		defer active.Add(-1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		return fakeCompiler()(ctx, markup, mode)
	})

	components := NewComponents()
	for i := 0; i < 20; i++ {
		require.NoError(t, components.Add(fmt.Sprintf("C%d", i), fmt.Sprintf("<p class='px-%d'>", i)))
	}

	s := loadedInjector(t, gen, InjectorOptions{Concurrency: 2}, components)
	assert.LessOrEqual(t, peak.Load(), int32(2))
	assert.Equal(t, 20, s.Cache().Len())

	// Cache order follows enumeration order, not completion order.
	assert.Equal(t, components.Names(), s.Cache().Names())
}

func TestComponentsLoaded_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	gen := GeneratorFunc(func(ctx context.Context, _ string, _ ScanMode) (string, error) {
		return "", ctx.Err()
	})
	s := NewStyleInjector(gen, InjectorOptions{})
	err := s.ComponentsLoaded(ctx, mustComponents(t, "Button", "<button>"))
	require.ErrorIs(t, err, context.Canceled)
}

func TestDocumentCreated_InjectsOncePerComponent(t *testing.T) {
	s := loadedInjector(t, fakeCompiler(), InjectorOptions{}, mustComponents(t,
		"Button", "<button class='px-4'>",
		"Plain", "<div>",
	))

	doc := &fakeDocument{}
	s.DocumentCreated(doc)
	doc.create("Button", "Card", "Button", "Plain", "Button")

	require.Len(t, doc.head.fragments, 2)
	assert.Equal(t, StyleBlock("*{margin:0}"), doc.head.fragments[0])
	assert.Equal(t, StyleBlock(".px-4{padding:1rem}"), doc.head.fragments[1])
}

func TestDocumentCreated_FirstOccurrenceOrder(t *testing.T) {
	s := loadedInjector(t, fakeCompiler(), InjectorOptions{}, mustComponents(t,
		"Button", "<button class='px-4'>",
		"Card", "<div class='py-2'>",
	))

	doc := &fakeDocument{}
	s.DocumentCreated(doc)
	doc.create("Card", "Button", "Card")

	require.Len(t, doc.head.fragments, 3)
	assert.Contains(t, doc.head.fragments[1], ".py-2")
	assert.Contains(t, doc.head.fragments[2], ".px-4")
}

func TestDocumentCreated_BeforeLoad(t *testing.T) {
	s := NewStyleInjector(fakeCompiler(), InjectorOptions{})

	doc := &fakeDocument{}
	s.DocumentCreated(doc)
	doc.create("Button")
	assert.Empty(t, doc.head.fragments)
}

func TestDocumentCreated_EmptyBaseSkipped(t *testing.T) {
	gen := GeneratorFunc(func(_ context.Context, _ string, mode ScanMode) (string, error) {
		if mode == ScanEmpty {
			return "", nil
		}
		return ".px-4{padding:1rem}", nil
	})
	s := loadedInjector(t, gen, InjectorOptions{}, mustComponents(t, "Button", "<button class='px-4'>"))

	doc := &fakeDocument{}
	s.DocumentCreated(doc)
	doc.create("Button")
	assert.Equal(t, []string{StyleBlock(".px-4{padding:1rem}")}, doc.head.fragments)
}

func TestDocumentCreated_ConcurrentDocuments(t *testing.T) {
	s := loadedInjector(t, fakeCompiler(), InjectorOptions{}, mustComponents(t, "Button", "<button class='px-4'>"))

	docs := make([]*fakeDocument, 8)
	var wg sync.WaitGroup
	for i := range docs {
		docs[i] = &fakeDocument{}
		wg.Add(1)
		go func(doc *fakeDocument) {
			defer wg.Done()
			s.DocumentCreated(doc)
			doc.create("Button", "Button")
		}(docs[i])
	}
	wg.Wait()

	for _, doc := range docs {
		assert.Equal(t, []string{
			StyleBlock("*{margin:0}"),
			StyleBlock(".px-4{padding:1rem}"),
		}, doc.head.fragments)
	}
}

func TestAttach(t *testing.T) {
	s := NewStyleInjector(fakeCompiler(), InjectorOptions{})
	host := &fakeHost{}
	s.Attach(host)

	require.Len(t, host.loaded, 1)
	require.Len(t, host.document, 1)

	require.NoError(t, host.loaded[0](context.Background(), mustComponents(t, "Button", "<button class='px-4'>")))

	doc := &fakeDocument{}
	host.document[0](doc)
	doc.create("Button")
	assert.Len(t, doc.head.fragments, 2)
}

func TestStyleBlock(t *testing.T) {
	assert.Equal(t, `<style type="text/css">.a{color:red}</style>`, StyleBlock(".a{color:red}"))
}
