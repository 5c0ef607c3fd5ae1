package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tailstyle",
	Short: "Per-component Tailwind CSS generation and injection",
	Long: `Compile utility CSS once per component template and inject it into pages.
Each page gets the base stylesheet once and one <style> block per distinct component.`,
	// Default behavior: run generate when no subcommand is given.
	// We must call loadConfig here because PreRunE of generateCmd
	// is not triggered when delegating via rootCmd.RunE.
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := loadConfig(cmd); err != nil {
			return err
		}
		return runGenerate(cmd, nil)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global persistent flags (inherited by all subcommands)
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().Bool("quiet", false, "Suppress all output (exit code only)")
	rootCmd.PersistentFlags().Bool("color", false, "Force color output")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug|info|warn|error")
	rootCmd.PersistentFlags().String("config", ".tailstyle.yaml", "Config file path")
	rootCmd.PersistentFlags().String("components", "web/components", "Component template directory")
	rootCmd.PersistentFlags().StringSlice("include", nil, "Glob patterns for templates to include")
	rootCmd.PersistentFlags().String("tailwind-bin", "tailwindcss", "Tailwind CSS executable")
	rootCmd.PersistentFlags().String("tailwind-config", "", "Shared Tailwind config/preset file")
	rootCmd.PersistentFlags().Bool("minify", false, "Minify generated CSS")
	rootCmd.PersistentFlags().Int("concurrency", 0, "Parallel compiles (0=number of CPUs)")
	rootCmd.PersistentFlags().Bool("strict", false, "Fail on the first component that does not compile")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
}
