package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"floorforge/pkg/schema"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Styles
// =============================================================================

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleError   = lipgloss.NewStyle().Foreground(colorRed)
	styleField   = lipgloss.NewStyle().Foreground(colorWhite)
	styleDim     = lipgloss.NewStyle().Foreground(colorDim)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
)

// printValidation renders a validation result as a human-readable report.
func printValidation(w io.Writer, name string, result schema.Result) {
	fmt.Fprintln(w, styleTitle.Render("Validation: "+name))

	for _, e := range result.Errors {
		fmt.Fprintf(w, "  %s %s %s\n",
			styleError.Render(iconError),
			styleField.Render(e.Field),
			styleDim.Render(e.Message))
	}
	for _, warn := range result.Warnings {
		fmt.Fprintf(w, "  %s %s %s\n",
			styleWarning.Render(iconWarning),
			styleField.Render(warn.Field),
			styleDim.Render(warn.Message))
	}

	if result.Valid {
		fmt.Fprintf(w, "  %s %s\n", styleSuccess.Render(iconSuccess), "document is valid")
	} else {
		fmt.Fprintf(w, "  %s %s\n", styleError.Render(iconError),
			fmt.Sprintf("%d error(s)", len(result.Errors)))
	}
}
