package tailstyle

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	reporter := &Reporter{w: &buf}

	reporter.PrintSummary(Summary{
		OutputFile:        ".tailstyle/manifest.json",
		ComponentsScanned: 3,
		ComponentsWithCSS: 2,
		FilesSkipped:      1,
		BaseCSSBytes:      2048,
		BaseRules:         1,
		Warnings:          []string{"component Card: compile error"},
	})

	out := buf.String()
	assert.Contains(t, out, "Manifest:            .tailstyle/manifest.json")
	assert.Contains(t, out, "Components scanned:  3")
	assert.Contains(t, out, "Components with CSS: 2")
	assert.Contains(t, out, "Files skipped:       1")
	assert.Contains(t, out, "Base CSS:            2.0 KiB, 1 rule")
	assert.Contains(t, out, "Warnings")
	assert.Contains(t, out, "• component Card: compile error")
}

func TestPrintComponents(t *testing.T) {
	var buf bytes.Buffer
	reporter := &Reporter{w: &buf}

	reporter.PrintComponents([]ComponentSummary{
		{Name: "Button", Classes: 2, Rules: 2, Bytes: 40},
		{Name: "cards/Card", Classes: 0, Rules: 0, Bytes: 0},
	})

	out := buf.String()
	assert.Contains(t, out, "Button      2 classes, 2 rules, 40 B\n")
	assert.Contains(t, out, "cards/Card  0 classes, 0 rules, 0 B (no css)\n")
}

func TestPrintComponents_Empty(t *testing.T) {
	var buf bytes.Buffer
	(&Reporter{w: &buf}).PrintComponents(nil)
	assert.Empty(t, buf.String())
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	(&Reporter{w: &buf}).PrintError(errors.New("base css: bad preset"))
	require.Equal(t, "✗ Build failed: base css: bad preset\n", buf.String())
}

func TestPluralizeCount(t *testing.T) {
	tests := []struct {
		count int
		want  string
	}{
		{0, "0 rules"},
		{1, "1 rule"},
		{2, "2 rules"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, pluralizeCount(tt.count, "rule", "rules"))
	}
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "0 B", formatBytes(0))
	assert.Equal(t, "1023 B", formatBytes(1023))
	assert.Equal(t, "1.5 KiB", formatBytes(1536))
}

func TestShouldUseColors_Forced(t *testing.T) {
	assert.True(t, ShouldUseColors(true))

	t.Setenv("FORCE_COLOR", "1")
	assert.True(t, ShouldUseColors(false))
}
