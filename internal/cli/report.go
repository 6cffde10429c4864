package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/danieljhkim/nbfix/internal/engine"
)

// reportRun prints the per-file results followed by the aggregate summary.
func reportRun(result *engine.RunResult, mode engine.Mode) {
	for _, file := range result.Files {
		reportFile(file, mode)
	}

	PrintSection("Summary")
	PrintLabelValue("Files processed", fmt.Sprintf("%d", result.FilesProcessed))
	PrintLabelValue("Files with issues", fmt.Sprintf("%d", result.FilesWithIssues))
	if mode == engine.ModeFix {
		PrintLabelValue("Files fixed", fmt.Sprintf("%d", result.FilesFixed))
	}
	if result.FilesErrored > 0 {
		PrintLabelValue("Files errored", fmt.Sprintf("%d", result.FilesErrored))
	}
	PrintDetail(fmt.Sprintf("completed in %s", result.Elapsed.Round(time.Millisecond)))
}

// reportFile prints one file's outcome.
func reportFile(file engine.FileResult, mode engine.Mode) {
	PrintInfo(fmt.Sprintf("\nProcessing: %s", file.Path))

	if file.Err != nil {
		PrintError(file.Err.Error())
		return
	}

	if !file.WidgetsPresent {
		PrintDetail("no widget metadata found")
		return
	}

	if len(file.AffectedIDs) == 0 {
		PrintSuccess(fmt.Sprintf("all %s have required \"state\" keys",
			PrintCount(file.TotalWidgets, "widget", "widgets")))
		return
	}

	PrintWarning(fmt.Sprintf("%s missing \"state\" key",
		PrintCount(len(file.AffectedIDs), "widget", "widgets")))
	PrintDetail(fmt.Sprintf("affected widgets: %s", strings.Join(file.AffectedIDs, ", ")))

	if mode != engine.ModeFix {
		return
	}
	for _, id := range file.FixedIDs {
		PrintSuccess(fmt.Sprintf("fixed widget %s", id))
	}
	if file.BackupPath != "" {
		PrintDetail(fmt.Sprintf("created backup: %s", file.BackupPath))
	}
}

// jsonFileReport is the JSON shape of one file's result.
type jsonFileReport struct {
	Path           string   `json:"path"`
	WidgetsPresent bool     `json:"widgetsPresent"`
	TotalWidgets   int      `json:"totalWidgets"`
	AffectedIDs    []string `json:"affectedWidgets,omitempty"`
	FixedIDs       []string `json:"fixedWidgets,omitempty"`
	BackupPath     string   `json:"backupPath,omitempty"`
	Error          string   `json:"error,omitempty"`
}

// jsonRunReport is the JSON shape of the whole run.
type jsonRunReport struct {
	Mode            string           `json:"mode"`
	Files           []jsonFileReport `json:"files"`
	FilesProcessed  int              `json:"filesProcessed"`
	FilesWithIssues int              `json:"filesWithIssues"`
	FilesFixed      int              `json:"filesFixed"`
	FilesErrored    int              `json:"filesErrored"`
	ElapsedMs       int64            `json:"elapsedMs"`
}

// reportJSON emits the aggregate report as JSON to stdout.
func reportJSON(result *engine.RunResult, mode engine.Mode) error {
	report := jsonRunReport{
		Mode:            string(mode),
		Files:           make([]jsonFileReport, 0, len(result.Files)),
		FilesProcessed:  result.FilesProcessed,
		FilesWithIssues: result.FilesWithIssues,
		FilesFixed:      result.FilesFixed,
		FilesErrored:    result.FilesErrored,
		ElapsedMs:       result.Elapsed.Milliseconds(),
	}
	for _, file := range result.Files {
		entry := jsonFileReport{
			Path:           file.Path,
			WidgetsPresent: file.WidgetsPresent,
			TotalWidgets:   file.TotalWidgets,
			AffectedIDs:    file.AffectedIDs,
			FixedIDs:       file.FixedIDs,
			BackupPath:     file.BackupPath,
		}
		if file.Err != nil {
			entry.Error = file.Err.Error()
		}
		report.Files = append(report.Files, entry)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
