// Package tailstyle injects per-component utility CSS into rendered documents.
//
// tailstyle compiles each component template with an external utility CSS
// compiler (the tailwindcss CLI by default), caches the result by component
// name, and appends the cached CSS to a document's head the first time a
// component appears in that document.
//
// # Generation
//
// Scan a directory of component templates and compile their CSS:
//
//	config := tailstyle.Config{
//		ComponentsDir:  "web/components",
//		Includes:       []string{"**/*.html"},
//		TailwindConfig: "tailwind.config.js",
//	}
//	result, err := tailstyle.Generate(ctx, config)
//
// # Injection
//
// Wire a StyleInjector into a rendering host's lifecycle hooks:
//
//	injector := tailstyle.NewStyleInjector(tailstyle.NewGenerator(config), tailstyle.InjectorOptions{})
//	injector.Attach(host)
//
// The host calls the components-loaded hook once, then the document-created
// hook for every page it builds. Each document gets the base CSS once and one
// style block per distinct component it instantiates.
//
// # CLI Tool
//
// tailstyle also provides a CLI tool. Install with:
//
//	go install github.com/yacobolo/tailstyle/cmd/tailstyle@latest
package tailstyle
