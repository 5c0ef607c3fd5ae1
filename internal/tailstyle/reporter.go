package tailstyle

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Terminal styles shared by the reporter. Lipgloss degrades colors to what
// the terminal supports.
var (
	StyleHeading = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	StyleFailure = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	StyleWarning = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))
	StyleSuccess = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	StyleMuted   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// RenderStyle applies style to text when colors are enabled.
func RenderStyle(style lipgloss.Style, text string, useColors bool) string {
	if !useColors {
		return text
	}
	return style.Render(text)
}

// Summary is the printable outcome of a generate run
type Summary struct {
	OutputFile        string
	ComponentsScanned int
	ComponentsWithCSS int
	FilesSkipped      int
	BaseCSSBytes      int
	BaseRules         int
	Components        []ComponentSummary
	Warnings          []string
}

// ComponentSummary is one row of the per-component table
type ComponentSummary struct {
	Name    string
	Classes int
	Rules   int
	Bytes   int
}

// Reporter handles formatting and outputting generation results
type Reporter struct {
	w         io.Writer
	useColors bool
}

// NewReporter creates a new reporter
func NewReporter(w io.Writer, forceColors bool) *Reporter {
	return &Reporter{
		w:         w,
		useColors: ShouldUseColors(forceColors),
	}
}

// ShouldUseColors determines if colors should be enabled
func ShouldUseColors(force bool) bool {
	// Explicit flag wins
	if force {
		return true
	}

	// Check for FORCE_COLOR environment variable (GitHub Actions, etc.)
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}

	// GitHub Actions supports colors
	if os.Getenv("GITHUB_ACTIONS") == "true" {
		return true
	}

	// Auto-detect TTY
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// PrintSummary outputs totals followed by warnings
func (r *Reporter) PrintSummary(s Summary) {
	fmt.Fprintln(r.w, RenderStyle(StyleSuccess, "✓ Generated component CSS", r.useColors))
	if s.OutputFile != "" {
		fmt.Fprintf(r.w, "  Manifest:            %s\n", s.OutputFile)
	}
	fmt.Fprintf(r.w, "  Components scanned:  %d\n", s.ComponentsScanned)
	fmt.Fprintf(r.w, "  Components with CSS: %d\n", s.ComponentsWithCSS)
	if s.FilesSkipped > 0 {
		fmt.Fprintf(r.w, "  Files skipped:       %d\n", s.FilesSkipped)
	}
	fmt.Fprintf(r.w, "  Base CSS:            %s, %s\n",
		formatBytes(s.BaseCSSBytes), pluralizeCount(s.BaseRules, "rule", "rules"))

	r.PrintWarnings(s.Warnings)
}

// PrintComponents outputs one line per component
func (r *Reporter) PrintComponents(components []ComponentSummary) {
	if len(components) == 0 {
		return
	}

	width := 0
	for _, c := range components {
		if len(c.Name) > width {
			width = len(c.Name)
		}
	}

	fmt.Fprintln(r.w, "")
	fmt.Fprintln(r.w, RenderStyle(StyleHeading, "Components", r.useColors))
	fmt.Fprintln(r.w, "----------")

	for _, c := range components {
		name := c.Name + strings.Repeat(" ", width-len(c.Name))
		line := fmt.Sprintf("%s  %s, %s, %s", name,
			pluralizeCount(c.Classes, "class", "classes"),
			pluralizeCount(c.Rules, "rule", "rules"),
			formatBytes(c.Bytes))
		if c.Bytes == 0 {
			line = RenderStyle(StyleMuted, line+" (no css)", r.useColors)
		}
		fmt.Fprintln(r.w, line)
	}
}

// PrintWarnings shows component failures tolerated during generation
func (r *Reporter) PrintWarnings(warnings []string) {
	if len(warnings) == 0 {
		return
	}

	fmt.Fprintln(r.w, "")
	fmt.Fprintln(r.w, RenderStyle(StyleWarning, "Warnings", r.useColors))
	fmt.Fprintln(r.w, "-----------")

	for _, warning := range warnings {
		fmt.Fprintf(r.w, "• %s\n", warning)
	}
}

// PrintError outputs a build failure
func (r *Reporter) PrintError(err error) {
	fmt.Fprintf(r.w, "%s %v\n", RenderStyle(StyleFailure, "✗ Build failed:", r.useColors), err)
}

// UseColors returns whether colors are enabled
func (r *Reporter) UseColors() bool {
	return r.useColors
}

// pluralizeCount returns a formatted string with count and singular/plural form
func pluralizeCount(count int, singular, plural string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, singular)
	}
	return fmt.Sprintf("%d %s", count, plural)
}

func formatBytes(n int) string {
	if n < 1024 {
		return fmt.Sprintf("%d B", n)
	}
	return fmt.Sprintf("%.1f KiB", float64(n)/1024)
}
