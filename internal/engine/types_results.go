package engine

import "time"

// FileResult represents the outcome of processing a single notebook.
type FileResult struct {
	// Path is the notebook path as given in the request.
	Path string

	// WidgetsPresent reports whether the file has a widget-state section.
	WidgetsPresent bool

	// TotalWidgets is the number of widget entries found.
	TotalWidgets int

	// AffectedIDs lists widgets missing a usable state, in document order.
	AffectedIDs []string

	// FixedIDs lists widgets actually repaired (fix mode only).
	FixedIDs []string

	// BackupPath is the backup file written before overwriting, if any.
	BackupPath string

	// Err is the per-file failure, if any. Matchable against ErrParse,
	// ErrBackup and ErrWrite with errors.Is.
	Err error
}

// RunResult represents the aggregate outcome of one run.
type RunResult struct {
	// Files holds per-file results in processing order.
	Files []FileResult

	// FilesProcessed is the number of files attempted.
	FilesProcessed int

	// FilesWithIssues is the number of files with affected widgets.
	FilesWithIssues int

	// FilesFixed is the number of files successfully repaired.
	FilesFixed int

	// FilesErrored is the number of files that failed to process.
	FilesErrored int

	// Elapsed is the wall-clock duration of the run.
	Elapsed time.Duration
}
