package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/yacobolo/tailstyle"
	"github.com/yacobolo/tailstyle/internal/page"
)

var renderCmd = &cobra.Command{
	Use:   "render COMPONENT...",
	Short: "Render a page composed of components with injected CSS",
	Long: `Build a page from the named components, in order, and print its HTML.
The head receives the base stylesheet once and one <style> block per distinct component.
With --manifest the CSS comes from a previous generate run instead of the compiler.`,
	Args: cobra.MinimumNArgs(1),
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runRender,
}

func init() {
	f := renderCmd.Flags()
	f.String("manifest", "", "Manifest written by generate (skips compilation)")
	f.String("title", "", "Page title")
	f.StringP("out", "o", "", "Output file (default: stdout)")
}

func runRender(cmd *cobra.Command, args []string) error {
	log, err := buildLogger(cmd)
	if err != nil {
		return err
	}
	config := buildConfig(log)
	if err := tailstyle.ValidateConfig(&config); err != nil {
		return err
	}

	components, _, err := tailstyle.LoadComponents(config)
	if err != nil {
		return err
	}
	host := page.NewHost(components)

	opts := tailstyle.InjectorOptions{
		Strict:      config.Strict,
		Concurrency: config.Concurrency,
		Logger:      config.Logger,
	}

	if manifestPath := getStringWithFallback("manifest", "render.manifest", ""); manifestPath != "" {
		manifest, err := tailstyle.ReadManifestFile(manifestPath)
		if err != nil {
			return err
		}
		injector, err := tailstyle.NewStyleInjectorFromManifest(manifest, opts)
		if err != nil {
			return err
		}
		host.OnDocumentCreated(injector.DocumentCreated)
	} else {
		injector := tailstyle.NewStyleInjector(tailstyle.NewGenerator(config), opts)
		injector.Attach(host)
		if err := host.LoadComponents(commandContext(cmd)); err != nil {
			return err
		}
	}

	doc := host.NewDocument(getStringWithFallback("title", "render.title", ""))
	for _, name := range args {
		if err := doc.Instantiate(name); err != nil {
			return err
		}
	}

	var w io.Writer = cmd.OutOrStdout()
	if out := getStringWithFallback("out", "render.out", ""); out != "" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		w = f
	}

	return doc.Render(w)
}

// commandContext returns the command's context, or Background when the
// command was invoked outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
