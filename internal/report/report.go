// -----------------------------------------------------------------------
// ReportBuilder: aggregates a finished (or in-flight) job's per-file
// results into statistics and a structured report tree.
// -----------------------------------------------------------------------

package report

import (
	"strings"
	"time"

	"github.com/ternarybob/batchpdf/internal/jobtypes"
)

// Statistics mirrors the fields spec.md §4.6 requires of statistics().
type Statistics struct {
	TotalFiles                   int
	ProcessedFiles               int
	FailedFiles                  int
	SuccessRate                  float64
	JobDurationSeconds           float64
	TotalProcessingTimeSeconds   float64
	AverageProcessingTimeSeconds float64
	TotalWarnings                int
	TotalErrors                  int
	CreatedAt                    string
	StartedAt                    *string
	CompletedAt                  *string
}

// ComputeStatistics computes the derived counts, times, and ISO-8601
// timestamps for a job snapshot, as of "now" for jobs that have not yet
// completed.
func ComputeStatistics(snap jobtypes.Snapshot, now time.Time) Statistics {
	s := Statistics{
		TotalFiles:     snap.TotalFiles,
		ProcessedFiles: snap.ProcessedFiles,
		FailedFiles:    snap.FailedFiles,
		CreatedAt:      snap.CreatedAt.Format(time.RFC3339),
	}
	if snap.TotalFiles > 0 {
		s.SuccessRate = float64(snap.ProcessedFiles) / float64(snap.TotalFiles) * 100
	}

	if snap.StartedAt != nil {
		str := snap.StartedAt.Format(time.RFC3339)
		s.StartedAt = &str
		end := now
		if snap.CompletedAt != nil {
			end = *snap.CompletedAt
		}
		s.JobDurationSeconds = end.Sub(*snap.StartedAt).Seconds()
	}
	if snap.CompletedAt != nil {
		str := snap.CompletedAt.Format(time.RFC3339)
		s.CompletedAt = &str
	}

	var totalTime float64
	var warnings, errs int
	for _, o := range snap.Results {
		totalTime += o.ExecutionTimeSeconds
		warnings += len(o.Warnings)
		errs += len(o.Errors)
	}
	s.TotalProcessingTimeSeconds = totalTime
	s.TotalWarnings = warnings
	s.TotalErrors = errs
	if len(snap.Results) > 0 {
		s.AverageProcessingTimeSeconds = totalTime / float64(len(snap.Results))
	}
	return s
}

// FileResult is one entry of report().file_results.
type FileResult struct {
	FileIndex    int
	FilePath     string
	Success      bool
	ExecutionTime float64
	OutputFiles  []string
	WarningsCount int
	ErrorsCount  int
	ErrorMessage *string
}

// ErrorSummary is report().error_summary.
type ErrorSummary struct {
	TotalErrors   int
	TotalWarnings int
	FailedFiles   int
	ErrorTypes    map[string]int
}

// PerformanceMetrics is report().performance_metrics.
type PerformanceMetrics struct {
	AverageProcessingTimeSeconds float64
	TotalProcessingTimeSeconds   float64
	ThroughputFilesPerSecond     float64
}

// JobSummary is report().job_summary.
type JobSummary struct {
	ID            string
	Operation     string
	Status        jobtypes.Status
	TotalFiles    int
	SuccessRate   float64
	ExecutionTime float64
}

// Report is the full structured tree returned by report().
type Report struct {
	JobSummary         JobSummary
	FileResults        []FileResult
	ErrorSummary       ErrorSummary
	PerformanceMetrics PerformanceMetrics
	Recommendations    []string
}

// error categories, first match wins, ordering as specified in §4.6.
var categoryMatchers = []struct {
	name     string
	patterns []string
}{
	{"file_not_found", []string{"file not found", "does not exist"}},
	{"permission_error", []string{"permission", "access"}},
	{"corrupted_file", []string{"corrupted", "invalid pdf"}},
	{"memory_error", []string{"memory", "out of memory"}},
	{"timeout_error", []string{"timeout", "timed out"}},
}

// categorize classifies a per-file failure message into exactly one of
// the six fixed categories; every non-empty message maps somewhere.
func categorize(message string) string {
	lower := strings.ToLower(message)
	for _, m := range categoryMatchers {
		for _, p := range m.patterns {
			if strings.Contains(lower, p) {
				return m.name
			}
		}
	}
	return "unknown_error"
}

// Build constructs the full report tree for a job snapshot.
func Build(snap jobtypes.Snapshot, now time.Time) Report {
	stats := ComputeStatistics(snap, now)

	fileResults := make([]FileResult, 0, len(snap.Results))
	errorTypes := make(map[string]int)
	for i, o := range snap.Results {
		fr := FileResult{
			FileIndex:     i + 1,
			Success:       o.Success,
			ExecutionTime: o.ExecutionTimeSeconds,
			OutputFiles:   append([]string(nil), o.OutputFiles...),
			WarningsCount: len(o.Warnings),
			ErrorsCount:   len(o.Errors),
		}
		if i < len(snap.Files) {
			fr.FilePath = snap.Files[i]
		}
		if !o.Success {
			msg := o.Message
			if msg == "" && len(o.Errors) > 0 {
				msg = o.Errors[0]
			}
			if msg != "" {
				fr.ErrorMessage = &msg
				errorTypes[categorize(msg)]++
			} else {
				errorTypes["unknown_error"]++
			}
		}
		fileResults = append(fileResults, fr)
	}

	throughput := 0.0
	if stats.JobDurationSeconds > 0 {
		throughput = float64(snap.TotalFiles) / stats.JobDurationSeconds
	}

	rep := Report{
		JobSummary: JobSummary{
			ID:            snap.ID,
			Operation:     snap.Operation,
			Status:        snap.Status,
			TotalFiles:    snap.TotalFiles,
			SuccessRate:   stats.SuccessRate,
			ExecutionTime: stats.JobDurationSeconds,
		},
		FileResults: fileResults,
		ErrorSummary: ErrorSummary{
			TotalErrors:   stats.TotalErrors,
			TotalWarnings: stats.TotalWarnings,
			FailedFiles:   snap.FailedFiles,
			ErrorTypes:    errorTypes,
		},
		PerformanceMetrics: PerformanceMetrics{
			AverageProcessingTimeSeconds: stats.AverageProcessingTimeSeconds,
			TotalProcessingTimeSeconds:   stats.TotalProcessingTimeSeconds,
			ThroughputFilesPerSecond:     throughput,
		},
	}
	rep.Recommendations = recommendations(snap, stats)
	return rep
}

// recommendations implements the advisory heuristics from spec.md §7.
func recommendations(snap jobtypes.Snapshot, stats Statistics) []string {
	var out []string
	if snap.TotalFiles > 0 && stats.SuccessRate < 50 {
		out = append(out, "Success rate below 50%: check input file integrity")
	}
	if stats.AverageProcessingTimeSeconds > 10 {
		out = append(out, "Average processing time above 10s: consider smaller batches")
	}
	if snap.TotalFiles > 0 {
		errorRate := float64(stats.TotalErrors) / float64(snap.TotalFiles) * 100
		if errorRate > 20 {
			out = append(out, "Error rate above 20% of total files: review inputs")
		}
	}
	if snap.Operation == "compress" && stats.SuccessRate > 90 {
		out = append(out, "High compress success rate: consider a higher compression level")
	}
	if snap.Operation == "ocr" && snap.FailedFiles > 0 {
		out = append(out, "OCR failures detected: consider image preprocessing")
	}
	return out
}
