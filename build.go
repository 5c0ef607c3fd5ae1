package tailstyle

import (
	"context"
	"fmt"

	"github.com/yacobolo/tailstyle/internal/tailstyle"
)

// Generate is the main entry point: it scans templates, compiles their CSS
// and returns the populated injector with per-component stats.
func Generate(ctx context.Context, config Config) (*GenerateResult, error) {
	if err := ValidateConfig(&config); err != nil {
		return nil, err
	}

	// 1. Scan component templates
	components, stats, err := LoadComponents(config)
	if err != nil {
		return nil, err
	}

	result := &GenerateResult{
		ComponentsScanned: components.Len(),
		FilesSkipped:      stats.FilesSkipped,
		ComponentSet:      components,
	}

	// 2. Compile base and component CSS
	injector := NewStyleInjector(NewGenerator(config), InjectorOptions{
		Strict:      config.Strict,
		Concurrency: config.Concurrency,
		Logger:      config.Logger,
	})
	if err := injector.ComponentsLoaded(ctx, components); err != nil {
		return nil, fmt.Errorf("generation failed: %w", err)
	}
	result.Injector = injector
	result.Warnings = injector.Warnings()

	// 3. Collect stats
	base := injector.BaseCSS()
	result.BaseCSSBytes = len(base)
	if result.BaseRules, err = tailstyle.CountRules(base); err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("base css: %v", err))
	}

	cache := injector.Cache()
	for _, name := range cache.Names() {
		css, _ := cache.Get(name)
		markup, _ := components.Markup(name)

		rules, err := tailstyle.CountRules(css)
		if err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("component %s: %v", name, err))
		}
		if css != "" {
			result.ComponentsWithCSS++
		}

		result.Components = append(result.Components, ComponentStats{
			Name:    name,
			Source:  components.Source(name),
			Classes: tailstyle.ExtractClasses(markup),
			Rules:   rules,
			Bytes:   len(css),
		})
	}

	return result, nil
}
