package tailstyle

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

var (
	// ErrAlreadyLoaded is returned when components are loaded into an injector twice.
	ErrAlreadyLoaded = errors.New("components already loaded")
	// ErrGenerate wraps every failure reported by a Generator.
	ErrGenerate = errors.New("css generation failed")
	// ErrDuplicateComponent is returned when two templates share a name.
	ErrDuplicateComponent = errors.New("duplicate component")
)

// ComponentSet enumerates the component templates known to a rendering host.
type ComponentSet interface {
	// Names returns component names in enumeration order.
	Names() []string
	// Markup returns the template markup for name.
	Markup(name string) (string, bool)
}

// Head is the append-only head region of a document.
type Head interface {
	Add(fragment string)
}

// Document is one page being built by a rendering host.
type Document interface {
	Head() Head
	// OnComponentCreated registers fn for every component instantiated in
	// this document. Handlers run to completion before the next event.
	OnComponentCreated(fn func(name string))
}

// Host exposes the lifecycle hooks of a rendering host.
type Host interface {
	OnComponentsLoaded(fn func(ctx context.Context, components ComponentSet) error)
	OnDocumentCreated(fn func(doc Document))
}

// Config holds generation configuration
type Config struct {
	ComponentsDir string   `validate:"required"`
	Includes      []string `validate:"required,min=1,dive,required"`

	// TailwindBin is the compiler executable (default: tailwindcss).
	TailwindBin string
	// TailwindConfig is the shared preset passed unmodified to every compile.
	TailwindConfig string
	Minify         bool

	// Concurrency bounds parallel compiles. 0 means runtime.NumCPU().
	Concurrency int `validate:"gte=0"`
	// Strict aborts generation on the first component failure instead of
	// caching empty CSS and recording a warning.
	Strict bool

	// Generator overrides the tailwindcss CLI.
	Generator Generator       `validate:"-"`
	Logger    *zerolog.Logger `validate:"-"`
}

// ComponentStats describes the CSS generated for one component
type ComponentStats struct {
	Name    string
	Source  string   // Template file, empty for in-memory components
	Classes []string // Class tokens referenced by the markup
	Rules   int      // Rulesets in the generated CSS
	Bytes   int
}

// GenerateResult contains generation stats
type GenerateResult struct {
	ComponentsScanned int
	ComponentsWithCSS int
	FilesSkipped      int
	BaseCSSBytes      int
	BaseRules         int
	Components        []ComponentStats
	Warnings          []string

	// Injector holds the populated cache, ready for DocumentCreated.
	Injector *StyleInjector
	// ComponentSet is the set of templates that was compiled.
	ComponentSet *Components
}

// GenerateError reports a compiler failure for a single component.
type GenerateError struct {
	Component string
	Err       error
}

func (e *GenerateError) Error() string {
	if e.Component == "" {
		return fmt.Sprintf("base css: %v", e.Err)
	}
	return fmt.Sprintf("component %s: %v", e.Component, e.Err)
}

func (e *GenerateError) Unwrap() []error {
	return []error{ErrGenerate, e.Err}
}
