package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

var (
	// out receives all user-facing output except errors
	out io.Writer = color.Output

	successColor = color.New(color.FgGreen, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	infoColor    = color.New(color.FgCyan)
	headerColor  = color.New(color.FgBlue, color.Bold)
	labelColor   = color.New(color.FgWhite, color.Bold)
	valueColor   = color.New(color.FgHiBlack)
	dimColor     = color.New(color.FgHiBlack)
)

// setOutput redirects user-facing output, e.g. to a command's writer.
func setOutput(w io.Writer) {
	if w == os.Stdout {
		w = color.Output
	}
	out = w
}

// PrintSection prints a section header
func PrintSection(title string) {
	fmt.Fprintln(out)
	_, _ = headerColor.Fprintf(out, "▸ %s\n", title)
	fmt.Fprintln(out)
}

// PrintSubsection prints a subsection header
func PrintSubsection(title string) {
	_, _ = infoColor.Fprintf(out, "  %s\n", title)
}

// PrintSuccess prints a success message with a checkmark
func PrintSuccess(msg string) {
	_, _ = successColor.Fprintf(out, "✓ %s\n", msg)
}

// PrintWarning prints a warning message with a warning symbol
func PrintWarning(msg string) {
	_, _ = warningColor.Fprintf(out, "⚠ %s\n", msg)
}

// PrintError prints an error message to stderr
func PrintError(msg string) {
	_, _ = errorColor.Fprintf(color.Error, "✗ %s\n", msg)
}

// PrintInfo prints an informational message
func PrintInfo(msg string) {
	fmt.Fprintln(out, msg)
}

// PrintLabelValue prints a label-value pair with proper formatting
func PrintLabelValue(label, value string) {
	_, _ = labelColor.Fprintf(out, "  %s: ", label)
	_, _ = valueColor.Fprintln(out, value)
}

// PrintList prints a list of items with bullet points
func PrintList(items []string, indent int) {
	indentStr := strings.Repeat("  ", indent)
	for _, item := range items {
		_, _ = infoColor.Fprintf(out, "%s• %s\n", indentStr, item)
	}
}

// PrintTable prints a simple column table
func PrintTable(headers []string, rows [][]string) {
	if len(headers) == 0 || len(rows) == 0 {
		return
	}

	colWidths := make([]int, len(headers))
	for i, header := range headers {
		colWidths[i] = len(header)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(colWidths) && len(cell) > colWidths[i] {
				colWidths[i] = len(cell)
			}
		}
	}

	fmt.Fprint(out, "  ")
	for i, header := range headers {
		if i > 0 {
			fmt.Fprint(out, "  ")
		}
		_, _ = headerColor.Fprintf(out, "%-*s", colWidths[i], header)
	}
	fmt.Fprintln(out)

	fmt.Fprint(out, "  ")
	for i, width := range colWidths {
		if i > 0 {
			fmt.Fprint(out, "  ")
		}
		fmt.Fprint(out, strings.Repeat("-", width))
	}
	fmt.Fprintln(out)

	for _, row := range rows {
		fmt.Fprint(out, "  ")
		for i, cell := range row {
			if i >= len(colWidths) {
				break
			}
			if i > 0 {
				fmt.Fprint(out, "  ")
			}
			_, _ = valueColor.Fprintf(out, "%-*s", colWidths[i], cell)
		}
		fmt.Fprintln(out)
	}
}

// PrintEmptyState prints a message when there's no data to show
func PrintEmptyState(msg string) {
	_, _ = dimColor.Fprintf(out, "  %s\n", msg)
}

// PrintCount prints a count with proper formatting
func PrintCount(count int, singular, plural string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, singular)
	}
	return fmt.Sprintf("%d %s", count, plural)
}
