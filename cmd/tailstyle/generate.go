package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yacobolo/tailstyle"
	cli "github.com/yacobolo/tailstyle/internal/tailstyle"
)

var generateCmd = &cobra.Command{
	Use:     "generate",
	Aliases: []string{"gen"},
	Short:   "Compile CSS for every component template",
	Long: `Scan component templates, compile base and per-component utility CSS
with the tailwindcss CLI, and write the cache to a JSON manifest.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runGenerate,
}

func init() {
	f := generateCmd.Flags()
	f.StringP("output", "o", ".tailstyle/manifest.json", "Manifest output file")
	f.Bool("list", false, "List every component with its rule count")
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	log, err := buildLogger(cmd)
	if err != nil {
		return err
	}
	config := buildConfig(log)
	quiet := getBoolWithFallback("quiet", "quiet", false)
	reporter := cli.NewReporter(cmd.OutOrStdout(), getBoolWithFallback("color", "color", false))

	result, err := tailstyle.Generate(commandContext(cmd), config)
	if err != nil {
		if !quiet {
			reporter.PrintError(err)
		}
		return err
	}

	manifest, err := tailstyle.BuildManifest(result)
	if err != nil {
		return err
	}
	output := getStringWithFallback("output", "generate.output", ".tailstyle/manifest.json")
	if err := tailstyle.WriteManifestFile(output, manifest); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}

	if !quiet {
		summary := buildSummary(result, output)
		reporter.PrintSummary(summary)
		if getBoolWithFallback("list", "generate.list", false) {
			reporter.PrintComponents(summary.Components)
		}
	}

	return nil
}

// buildSummary converts the library result into the reporter's view.
func buildSummary(result *tailstyle.GenerateResult, output string) cli.Summary {
	summary := cli.Summary{
		OutputFile:        output,
		ComponentsScanned: result.ComponentsScanned,
		ComponentsWithCSS: result.ComponentsWithCSS,
		FilesSkipped:      result.FilesSkipped,
		BaseCSSBytes:      result.BaseCSSBytes,
		BaseRules:         result.BaseRules,
		Warnings:          result.Warnings,
	}
	for _, c := range result.Components {
		summary.Components = append(summary.Components, cli.ComponentSummary{
			Name:    c.Name,
			Classes: len(c.Classes),
			Rules:   c.Rules,
			Bytes:   c.Bytes,
		})
	}
	return summary
}
