package tailstyle

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
)

// ComponentFile is a template discovered on disk
type ComponentFile struct {
	Name   string // "cards/Product"
	Path   string // "web/components/cards/Product.html"
	Markup string
}

// ScanStats tracks file scanning statistics
type ScanStats struct {
	FilesDiscovered int // Total files found by glob patterns
	FilesScanned    int // Files actually read (after filtering)
	FilesSkipped    int // Files skipped by .gitignore or partial prefix
}

// ScanComponents finds templates under dir matching the include patterns.
// Results follow pattern order, then lexical order within a pattern.
func ScanComponents(dir string, includes []string) ([]ComponentFile, ScanStats, error) {
	stats := ScanStats{}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, stats, fmt.Errorf("components dir: %w", err)
	}
	if !info.IsDir() {
		return nil, stats, fmt.Errorf("components dir %s is not a directory", dir)
	}

	gi := loadGitIgnore(dir)

	var files []ComponentFile
	seen := make(map[string]bool)
	names := make(map[string]string)

	for _, pattern := range includes {
		// Use doublestar for ** glob support
		matches, err := doublestar.FilepathGlob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, stats, fmt.Errorf("glob pattern %q: %w", pattern, err)
		}

		for _, match := range matches {
			if seen[match] {
				continue
			}
			seen[match] = true

			fi, err := os.Stat(match)
			if err != nil || fi.IsDir() {
				continue
			}
			stats.FilesDiscovered++

			rel, err := filepath.Rel(dir, match)
			if err != nil {
				return nil, stats, fmt.Errorf("relative path for %s: %w", match, err)
			}
			rel = filepath.ToSlash(rel)

			if shouldSkipFile(rel, gi) {
				stats.FilesSkipped++
				continue
			}

			name := ComponentName(rel)
			if prev, exists := names[name]; exists {
				return nil, stats, fmt.Errorf("component %s defined by both %s and %s", name, prev, match)
			}
			names[name] = match

			// #nosec G304 - path comes from trusted configuration
			content, err := os.ReadFile(match)
			if err != nil {
				return nil, stats, fmt.Errorf("read file: %w", err)
			}

			files = append(files, ComponentFile{
				Name:   name,
				Path:   match,
				Markup: string(content),
			})
			stats.FilesScanned++
		}
	}

	return files, stats, nil
}

// ComponentName derives a component name from a slash-separated relative path
// by dropping the extension: "cards/Product.html" -> "cards/Product".
func ComponentName(rel string) string {
	return strings.TrimSuffix(rel, path.Ext(rel))
}

// loadGitIgnore compiles dir/.gitignore.
// Gracefully degrades if .gitignore doesn't exist
func loadGitIgnore(dir string) *ignore.GitIgnore {
	gi, err := ignore.CompileIgnoreFile(filepath.Join(dir, ".gitignore"))
	if err != nil {
		return nil
	}
	return gi
}

// shouldSkipFile determines if a template should be excluded from scanning
//
// Two-layer filtering:
// 1. Pattern check (fast): skip partials whose base name starts with "_"
// 2. Gitignore check: skip files ignored by the directory's .gitignore
func shouldSkipFile(rel string, gi *ignore.GitIgnore) bool {
	if strings.HasPrefix(path.Base(rel), "_") {
		return true
	}
	return gi != nil && gi.MatchesPath(rel)
}
