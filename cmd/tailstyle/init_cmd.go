package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default .tailstyle.yaml config file",
	Long:  `Create a .tailstyle.yaml configuration file in the current directory with sensible defaults.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		force, _ := cmd.Flags().GetBool("force")
		path, _ := cmd.Flags().GetString("config")
		if path == "" {
			path = ".tailstyle.yaml"
		}

		if _, err := os.Stat(path); err == nil && !force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}

		if err := os.WriteFile(path, []byte(defaultConfig), 0o644); err != nil {
			return fmt.Errorf("writing config file: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
		return nil
	},
}

const defaultConfig = `# tailstyle configuration

# Shared settings
verbose: false
log-level: warn

# Generation settings
generate:
  components: web/components
  include:
    - "**/*.html"
  tailwind-bin: tailwindcss
  tailwind-config: tailwind.config.js   # shared preset for every component
  minify: false
  concurrency: 0                        # 0 = number of CPUs
  strict: false                         # true = fail on the first broken component
  output: .tailstyle/manifest.json

# Rendering settings
render:
  manifest: ""                          # reuse a generate manifest instead of compiling
`

func init() {
	initCmd.Flags().Bool("force", false, "Overwrite existing config file")
}
