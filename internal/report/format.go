package report

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// printer formats numbers with thousands separators.
var printer = message.NewPrinter(language.English)

// titleCaser capitalizes stage names for display.
var titleCaser = cases.Title(language.English)

// formatCount formats an integer with thousands separators.
func formatCount[T ~int | ~int64](n T) string {
	return printer.Sprintf("%d", n)
}

// formatBytes formats a byte count with a binary unit suffix.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return printer.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return printer.Sprintf("%.1f %siB", float64(n)/float64(div), string("KMGTPE"[exp]))
}

// formatPercent formats a ratio in [0, 1] as a percentage.
func formatPercent(ratio float64) string {
	return fmt.Sprintf("%.1f%%", ratio*100)
}

// stageTitle returns the display form of a stage name ("extractor" -> "Extractor").
func stageTitle(stage string) string {
	if stage == "" {
		return "-"
	}
	return titleCaser.String(stage)
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// orDash returns s, or "-" when s is blank.
func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
