package tailstyle

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ScanMode selects what the compiler scans for utility class usage.
type ScanMode int

const (
	// ScanContent scans the component markup and emits component and utility rules.
	ScanContent ScanMode = iota
	// ScanEmpty scans nothing and emits base rules only.
	ScanEmpty
)

func (m ScanMode) String() string {
	switch m {
	case ScanContent:
		return "content"
	case ScanEmpty:
		return "empty"
	}
	return fmt.Sprintf("ScanMode(%d)", int(m))
}

// SourceCSS returns the directive stylesheet fed to the compiler.
func (m ScanMode) SourceCSS() string {
	if m == ScanEmpty {
		return "@tailwind base;"
	}
	return "@tailwind components; @tailwind utilities;"
}

// Generator compiles utility CSS for a markup fragment.
// Implementations must be safe for concurrent use.
type Generator interface {
	Generate(ctx context.Context, markup string, mode ScanMode) (string, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, markup string, mode ScanMode) (string, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, markup string, mode ScanMode) (string, error) {
	return f(ctx, markup, mode)
}

// DefaultTailwindBin is the compiler executable used when none is configured.
const DefaultTailwindBin = "tailwindcss"

// TailwindCLI runs the tailwindcss executable once per compile.
type TailwindCLI struct {
	Bin        string // Defaults to DefaultTailwindBin
	ConfigFile string // Passed as --config when set
	Minify     bool
	TempDir    string // Parent for scratch files, os.TempDir() when empty
}

// NewGenerator returns the generator described by config.
func NewGenerator(config Config) Generator {
	if config.Generator != nil {
		return config.Generator
	}
	return &TailwindCLI{
		Bin:        config.TailwindBin,
		ConfigFile: config.TailwindConfig,
		Minify:     config.Minify,
	}
}

// Generate writes the directive stylesheet and markup to scratch files and
// returns the CSS the compiler prints to stdout.
func (t *TailwindCLI) Generate(ctx context.Context, markup string, mode ScanMode) (string, error) {
	dir, err := os.MkdirTemp(t.TempDir, "tailstyle-*")
	if err != nil {
		return "", fmt.Errorf("create scratch dir: %w", err)
	}
	defer os.RemoveAll(dir)

	input := filepath.Join(dir, "input.css")
	if err := os.WriteFile(input, []byte(mode.SourceCSS()), 0o600); err != nil {
		return "", fmt.Errorf("write input: %w", err)
	}

	if mode == ScanEmpty {
		markup = ""
	}
	content := filepath.Join(dir, "content.html")
	if err := os.WriteFile(content, []byte(markup), 0o600); err != nil {
		return "", fmt.Errorf("write content: %w", err)
	}

	args := []string{"--input", input, "--content", content}
	if t.ConfigFile != "" {
		args = append(args, "--config", t.ConfigFile)
	}
	if t.Minify {
		args = append(args, "--minify")
	}

	bin := t.Bin
	if bin == "" {
		bin = DefaultTailwindBin
	}

	// #nosec G204 - binary and config come from trusted configuration
	cmd := exec.CommandContext(ctx, bin, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("%s: %w: %s", bin, err, msg)
		}
		return "", fmt.Errorf("%s: %w", bin, err)
	}

	return strings.TrimSpace(stdout.String()), nil
}
