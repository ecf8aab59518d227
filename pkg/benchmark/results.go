package benchmark

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mlfqbench/models"
	"mlfqbench/pkg/app/pretty_log"
	"sort"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
)

// SaveReport saves the report of one workload process and returns its URL.
// It saves the report to {dir}/{program}_{profile}_{pid}_{date}.json
func SaveReport(ctx context.Context, fs afs.Service, dir string, report models.WorkloadReport) (string, error) {
	if dir == "" {
		return "", fmt.Errorf("no output directory")
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}

	name := fmt.Sprintf("%s_%s_%d_%s.json",
		strings.ToLower(report.Program),
		strings.ToLower(report.Profile),
		report.PID,
		report.Timestamp.Format("2006-01-02-15-04-05"),
	)
	URL := url.Join(url.Normalize(dir, file.Scheme), name)

	if err = fs.Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("failed to save report to %s: %w", URL, err)
	}
	return URL, nil
}

// LoadReports reads every report saved in dir, optionally only those of runID.
func LoadReports(ctx context.Context, fs afs.Service, dir, runID string) ([]models.WorkloadReport, error) {
	base := url.Normalize(dir, file.Scheme)
	objects, err := fs.List(ctx, base)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	var reports []models.WorkloadReport
	for _, object := range objects {
		if object.IsDir() || !strings.HasSuffix(object.Name(), ".json") {
			continue
		}
		data, err := fs.Download(ctx, object)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", object.URL(), err)
		}
		var report models.WorkloadReport
		if err = json.Unmarshal(data, &report); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", object.URL(), err)
		}
		if runID != "" && report.RunID != runID {
			continue
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// SummaryLines renders one line per report, ordered by program then PID.
func SummaryLines(reports []models.WorkloadReport) []string {
	sorted := make([]models.WorkloadReport, len(reports))
	copy(sorted, reports)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Program != sorted[j].Program {
			return sorted[i].Program < sorted[j].Program
		}
		return sorted[i].PID < sorted[j].PID
	})

	lines := make([]string, 0, len(sorted))
	for _, r := range sorted {
		line := fmt.Sprintf("%s/%s (PID: %d): %d ticks", r.Program, r.Profile, r.PID, r.Run.Elapsed())
		if r.Stats != nil {
			line += fmt.Sprintf(", queue %d, %d CPU ticks, scheduled %d times", r.Stats.PriorityLevel, r.Stats.TotalTicks, r.Stats.TimesScheduled)
		} else if r.StatsError != "" {
			line += ", no statistics"
		}
		lines = append(lines, line)
	}
	return lines
}

// PrintSummary prints the reports collected for a run.
func PrintSummary(reports []models.WorkloadReport) {
	if len(reports) == 0 {
		pretty_log.TaskResultBad("No workload reports were saved")
		return
	}
	pretty_log.TaskGroup("Workload reports")
	pretty_log.TaskResultList(SummaryLines(reports))
}
