// Package engine orchestrates notebook processing for the CLI.
//
// The engine walks the file list sequentially, scanning each notebook and,
// in fix mode, repairing it in place. Every per-file failure is recorded in
// that file's result; one file's failure never aborts the rest of the run.
//
// The fix path is ordered for safety: the original bytes are backed up and
// the backup verified by hash before the notebook itself is atomically
// overwritten. A failed or unverifiable backup aborts that file's fix with
// the original untouched.
package engine

import (
	"fmt"
	"os"

	"github.com/danieljhkim/nbfix/internal/clock"
	"github.com/danieljhkim/nbfix/internal/fsops"
	"github.com/danieljhkim/nbfix/internal/hash"
	"github.com/danieljhkim/nbfix/internal/notebook"
)

// Mode selects between reporting issues and repairing them.
type Mode string

const (
	// ModeCheck scans and reports; files are never written.
	ModeCheck Mode = "check"

	// ModeFix scans and repairs files in place.
	ModeFix Mode = "fix"
)

// Engine coordinates scanning and repairing notebook files.
type Engine struct {
	fs           fsops.FS
	hasher       hash.Hasher
	clock        clock.Clock
	backupSuffix string
}

// New creates a new Engine with the given dependencies. backupSuffix is
// appended to a notebook's path to form its backup path.
func New(fs fsops.FS, hasher hash.Hasher, clk clock.Clock, backupSuffix string) *Engine {
	return &Engine{
		fs:           fs,
		hasher:       hasher,
		clock:        clk,
		backupSuffix: backupSuffix,
	}
}

// Request describes one run over a list of notebook files.
type Request struct {
	// Paths are the notebook files to process, already glob-expanded.
	Paths []string

	// Mode is check or fix.
	Mode Mode

	// Backup controls backup creation before overwriting in fix mode.
	Backup bool
}

// Run processes every file in the request in order and returns the
// accumulated results. Per-file errors are recorded in the file's result.
func (e *Engine) Run(req *Request) *RunResult {
	start := e.clock.Now()
	result := &RunResult{}

	for _, path := range req.Paths {
		fileResult := e.processFile(path, req.Mode, req.Backup)
		result.Files = append(result.Files, fileResult)

		result.FilesProcessed++
		if fileResult.Err != nil {
			result.FilesErrored++
		}
		if len(fileResult.AffectedIDs) > 0 {
			result.FilesWithIssues++
		}
		if len(fileResult.FixedIDs) > 0 {
			result.FilesFixed++
		}
	}

	result.Elapsed = e.clock.Now().Sub(start)
	return result
}

// processFile scans one notebook and, in fix mode, repairs it.
func (e *Engine) processFile(path string, mode Mode, backup bool) FileResult {
	result := FileResult{Path: path}

	data, err := e.fs.ReadFile(path)
	if err != nil {
		result.Err = fmt.Errorf("failed to read notebook: %w", err)
		return result
	}

	doc, err := notebook.Parse(data)
	if err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrParse, err)
		return result
	}

	scan := notebook.Scan(doc)
	result.WidgetsPresent = scan.WidgetsPresent
	result.TotalWidgets = scan.TotalWidgets
	result.AffectedIDs = scan.AffectedIDs()

	if mode != ModeFix || !scan.HasIssues() {
		return result
	}

	if backup {
		backupPath, err := e.writeBackup(path, data)
		if err != nil {
			result.Err = fmt.Errorf("%w: %v", ErrBackup, err)
			return result
		}
		result.BackupPath = backupPath
	}

	fixed, repairedIDs, err := notebook.Repair(doc, scan)
	if err != nil {
		result.Err = err
		return result
	}

	perm := defaultFileMode
	if info, err := e.fs.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	if err := e.fs.AtomicWrite(path, fixed.Bytes(), perm); err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrWrite, err)
		return result
	}

	result.FixedIDs = repairedIDs
	return result
}

// writeBackup writes the original bytes next to the notebook and verifies
// the copy by hash before the caller may overwrite the original.
func (e *Engine) writeBackup(path string, data []byte) (string, error) {
	backupPath := path + e.backupSuffix

	if err := e.fs.AtomicWrite(backupPath, data, defaultFileMode); err != nil {
		return "", err
	}

	written, err := e.hasher.HashFile(backupPath)
	if err != nil {
		return "", fmt.Errorf("failed to verify backup: %w", err)
	}
	if written != e.hasher.HashBytes(data) {
		return "", fmt.Errorf("backup %s does not match original content", backupPath)
	}

	return backupPath, nil
}

// defaultFileMode is used for backups and when the original's mode cannot
// be read.
const defaultFileMode os.FileMode = 0644
