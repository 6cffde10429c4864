package engine

import "errors"

var (
	// ErrParse indicates a file is not a valid notebook document.
	ErrParse = errors.New("notebook parse failed")

	// ErrBackup indicates the backup could not be written or verified.
	ErrBackup = errors.New("backup failed")

	// ErrWrite indicates the repaired notebook could not be written back.
	ErrWrite = errors.New("write failed")
)
