// -----------------------------------------------------------------------
// RenderMarkdown turns a finished Report into a human-readable Markdown
// document. This supplements the plain-data report() with something an
// operator can actually read or hand to internal/pdfreport for export.
// -----------------------------------------------------------------------

package report

import (
	"fmt"
	"strings"
)

func RenderMarkdown(rep Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Batch Job Report: %s\n\n", rep.JobSummary.ID)
	fmt.Fprintf(&b, "**Operation:** %s\n\n", rep.JobSummary.Operation)
	fmt.Fprintf(&b, "**Status:** %s\n\n", rep.JobSummary.Status)
	fmt.Fprintf(&b, "**Files:** %d total, success rate %.1f%%, duration %.2fs\n\n",
		rep.JobSummary.TotalFiles, rep.JobSummary.SuccessRate, rep.JobSummary.ExecutionTime)

	b.WriteString("## File Results\n\n")
	b.WriteString("| # | File | Success | Time (s) | Warnings | Errors |\n")
	b.WriteString("|---|---|---|---|---|---|\n")
	for _, fr := range rep.FileResults {
		fmt.Fprintf(&b, "| %d | %s | %v | %.2f | %d | %d |\n",
			fr.FileIndex, fr.FilePath, fr.Success, fr.ExecutionTime, fr.WarningsCount, fr.ErrorsCount)
	}
	b.WriteString("\n")

	b.WriteString("## Error Summary\n\n")
	fmt.Fprintf(&b, "- Total errors: %d\n", rep.ErrorSummary.TotalErrors)
	fmt.Fprintf(&b, "- Total warnings: %d\n", rep.ErrorSummary.TotalWarnings)
	fmt.Fprintf(&b, "- Failed files: %d\n", rep.ErrorSummary.FailedFiles)
	for category, count := range rep.ErrorSummary.ErrorTypes {
		fmt.Fprintf(&b, "  - %s: %d\n", category, count)
	}
	b.WriteString("\n")

	b.WriteString("## Performance\n\n")
	fmt.Fprintf(&b, "- Average processing time: %.2fs\n", rep.PerformanceMetrics.AverageProcessingTimeSeconds)
	fmt.Fprintf(&b, "- Total processing time: %.2fs\n", rep.PerformanceMetrics.TotalProcessingTimeSeconds)
	fmt.Fprintf(&b, "- Throughput: %.2f files/s\n\n", rep.PerformanceMetrics.ThroughputFilesPerSecond)

	if len(rep.Recommendations) > 0 {
		b.WriteString("## Recommendations\n\n")
		for _, r := range rep.Recommendations {
			fmt.Fprintf(&b, "- %s\n", r)
		}
	}

	return b.String()
}
