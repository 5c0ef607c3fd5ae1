package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/yacobolo/tailstyle"
	"github.com/yacobolo/tailstyle/internal/logger"
)

var k = koanf.New(".")

// loadConfig loads configuration with precedence: flags > env > file > defaults.
// It must be called after cobra parses flags (in PreRunE or RunE).
func loadConfig(cmd *cobra.Command) error {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = ".tailstyle.yaml"
	}

	if err := loadConfigFromPath(configPath); err != nil {
		return err
	}

	// CLI flags (highest precedence, only flags that were explicitly set)
	flags := cmd.Flags()
	provider := posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
		// Unchanged defaults must not shadow config file keys.
		if !f.Changed {
			return "", nil
		}
		return f.Name, posflag.FlagVal(flags, f)
	})
	if err := k.Load(provider, nil); err != nil {
		return fmt.Errorf("loading command flags: %w", err)
	}

	return nil
}

// loadConfigFromPath loads configuration from a file and environment variables.
// This is separated from loadConfig to allow testing without a cobra command.
func loadConfigFromPath(configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return fmt.Errorf("loading config file %s: %w", configPath, err)
		}
	}

	// Environment variables (TAILSTYLE_* prefix)
	if err := k.Load(env.Provider("TAILSTYLE_", ".", envKey), nil); err != nil {
		return fmt.Errorf("loading environment variables: %w", err)
	}

	return nil
}

// configSections are the nested blocks of the config file.
var configSections = []string{"generate", "render"}

// envKey maps an environment variable to its config key. The first word
// selects the section when it names one; remaining underscores become hyphens:
//
//	TAILSTYLE_GENERATE_TAILWIND_BIN -> generate.tailwind-bin
//	TAILSTYLE_RENDER_MANIFEST       -> render.manifest
//	TAILSTYLE_LOG_LEVEL             -> log-level
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, "TAILSTYLE_"))
	for _, section := range configSections {
		if rest, ok := strings.CutPrefix(key, section+"_"); ok {
			return section + "." + strings.ReplaceAll(rest, "_", "-")
		}
	}
	return strings.ReplaceAll(key, "_", "-")
}

// buildConfig constructs the library's Config struct from koanf state.
func buildConfig(log zerolog.Logger) tailstyle.Config {
	config := tailstyle.Config{
		ComponentsDir:  getStringWithFallback("components", "generate.components", "web/components"),
		TailwindBin:    getStringWithFallback("tailwind-bin", "generate.tailwind-bin", tailstyle.DefaultTailwindBin),
		TailwindConfig: getStringWithFallback("tailwind-config", "generate.tailwind-config", ""),
		Minify:         getBoolWithFallback("minify", "generate.minify", false),
		Concurrency:    getIntWithFallback("concurrency", "generate.concurrency", 0),
		Strict:         getBoolWithFallback("strict", "generate.strict", false),
		Logger:         &log,
	}

	// Handle includes: check flag key first, then config key
	if includes := k.Strings("include"); len(includes) > 0 {
		config.Includes = includes
	} else if includes := k.Strings("generate.include"); len(includes) > 0 {
		config.Includes = includes
	} else {
		config.Includes = []string{"**/*.html"}
	}

	return config
}

// buildLogger creates the CLI logger. --verbose wins over log-level.
func buildLogger(cmd *cobra.Command) (zerolog.Logger, error) {
	level := getStringWithFallback("log-level", "log-level", "warn")
	if getBoolWithFallback("verbose", "verbose", false) {
		level = "debug"
	}
	if getBoolWithFallback("quiet", "quiet", false) {
		level = "disabled"
	}
	return logger.New(logger.Options{
		Level:         level,
		HumanReadable: true,
		Writer:        cmd.ErrOrStderr(),
	})
}

// getStringWithFallback checks the flag key first, then the config file key, then returns the default.
func getStringWithFallback(flagKey, configKey, defaultVal string) string {
	if v := k.String(flagKey); v != "" {
		return v
	}
	if v := k.String(configKey); v != "" {
		return v
	}
	return defaultVal
}

// getBoolWithFallback checks the flag key first, then the config file key, then returns the default.
func getBoolWithFallback(flagKey, configKey string, defaultVal bool) bool {
	if k.Exists(flagKey) {
		return k.Bool(flagKey)
	}
	if k.Exists(configKey) {
		return k.Bool(configKey)
	}
	return defaultVal
}

// getIntWithFallback checks the flag key first, then the config file key, then returns the default.
func getIntWithFallback(flagKey, configKey string, defaultVal int) int {
	if k.Exists(flagKey) {
		return k.Int(flagKey)
	}
	if k.Exists(configKey) {
		return k.Int(configKey)
	}
	return defaultVal
}
