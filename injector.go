package tailstyle

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// InjectorOptions configures a StyleInjector.
type InjectorOptions struct {
	// Strict aborts ComponentsLoaded on the first component failure.
	// Otherwise the component is cached with empty CSS and a warning is kept.
	Strict bool
	// Concurrency bounds parallel compiles. 0 means runtime.NumCPU().
	Concurrency int
	Logger      *zerolog.Logger
}

// snapshot is the read-only state published after components load.
type snapshot struct {
	cache    *Cache
	baseCSS  string
	warnings []string
}

// StyleInjector owns the component CSS cache and injects it into documents.
//
// The cache starts empty, is populated exactly once by ComponentsLoaded and
// is read-only afterwards, so DocumentCreated may be called from any number
// of goroutines.
type StyleInjector struct {
	generator   Generator
	strict      bool
	concurrency int
	log         zerolog.Logger

	loadMu sync.Mutex
	state  atomic.Pointer[snapshot]
}

// NewStyleInjector creates an injector that compiles with gen.
func NewStyleInjector(gen Generator, opts InjectorOptions) *StyleInjector {
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}
	return &StyleInjector{
		generator:   gen,
		strict:      opts.Strict,
		concurrency: concurrency,
		log:         log.With().Str("component", "injector").Logger(),
	}
}

// Attach registers the injector on the host's lifecycle hooks.
func (s *StyleInjector) Attach(host Host) {
	host.OnComponentsLoaded(s.ComponentsLoaded)
	host.OnDocumentCreated(s.DocumentCreated)
}

// Loaded reports whether the cache has been populated.
func (s *StyleInjector) Loaded() bool {
	return s.state.Load() != nil
}

// Cache returns the populated cache, or nil before ComponentsLoaded succeeds.
func (s *StyleInjector) Cache() *Cache {
	if snap := s.state.Load(); snap != nil {
		return snap.cache
	}
	return nil
}

// BaseCSS returns the global base stylesheet.
func (s *StyleInjector) BaseCSS() string {
	if snap := s.state.Load(); snap != nil {
		return snap.baseCSS
	}
	return ""
}

// Warnings returns component failures tolerated in lenient mode.
func (s *StyleInjector) Warnings() []string {
	snap := s.state.Load()
	if snap == nil {
		return nil
	}
	out := make([]string, len(snap.warnings))
	copy(out, snap.warnings)
	return out
}

// ComponentsLoaded compiles the base CSS and one stylesheet per component.
// It succeeds at most once; later calls return ErrAlreadyLoaded. A failed
// call leaves the injector empty so the load can be retried.
func (s *StyleInjector) ComponentsLoaded(ctx context.Context, components ComponentSet) error {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	if s.Loaded() {
		return ErrAlreadyLoaded
	}

	baseCSS, err := s.generator.Generate(ctx, "", ScanEmpty)
	if err != nil {
		return &GenerateError{Err: err}
	}
	s.log.Debug().Int("bytes", len(baseCSS)).Msg("generated base css")

	names := components.Names()
	results := make([]string, len(names))
	found := make([]bool, len(names))
	failures := make([]error, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, name := range names {
		// A strict failure cancels gctx; stop scheduling compiles.
		if gctx.Err() != nil {
			break
		}
		markup, ok := components.Markup(name)
		if !ok {
			s.log.Warn().Str("name", name).Msg("component listed without markup")
			continue
		}
		found[i] = true

		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			css, err := s.generator.Generate(gctx, markup, ScanContent)
			if err != nil {
				genErr := &GenerateError{Component: name, Err: err}
				if s.strict {
					return genErr
				}
				failures[i] = genErr
				return nil
			}
			results[i] = css
			s.log.Debug().Str("name", name).Int("bytes", len(css)).Msg("generated component css")
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("load components: %w", err)
	}

	entries := make(map[string]string, len(names))
	cached := make([]string, 0, len(names))
	var warnings []string
	for i, name := range names {
		if !found[i] {
			continue
		}
		if failures[i] != nil {
			s.log.Warn().Err(failures[i]).Str("name", name).Msg("caching empty css")
			warnings = append(warnings, failures[i].Error())
		}
		entries[name] = results[i]
		cached = append(cached, name)
	}

	s.state.Store(&snapshot{
		cache:    newCache(cached, entries),
		baseCSS:  baseCSS,
		warnings: warnings,
	})
	s.log.Info().Int("components", len(cached)).Int("warnings", len(warnings)).Msg("css cache ready")
	return nil
}

// DocumentCreated appends the base CSS to doc's head and subscribes to its
// component events. Each component's CSS is appended the first time that
// component is created in doc; components without cached CSS are skipped.
func (s *StyleInjector) DocumentCreated(doc Document) {
	head := doc.Head()

	if snap := s.state.Load(); snap == nil {
		s.log.Debug().Msg("document created before components loaded")
	} else if snap.baseCSS != "" {
		head.Add(StyleBlock(snap.baseCSS))
	}

	included := make(map[string]struct{})
	doc.OnComponentCreated(func(name string) {
		if _, seen := included[name]; seen {
			return
		}
		css, ok := s.state.Load().lookup(name)
		if !ok || css == "" {
			return
		}
		head.Add(StyleBlock(css))
		included[name] = struct{}{}
	})
}

func (snap *snapshot) lookup(name string) (string, bool) {
	if snap == nil {
		return "", false
	}
	return snap.cache.Get(name)
}

// StyleBlock wraps css in a style element.
func StyleBlock(css string) string {
	return `<style type="text/css">` + css + `</style>`
}
