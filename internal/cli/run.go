package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/nbfix/internal/clock"
	"github.com/danieljhkim/nbfix/internal/config"
	"github.com/danieljhkim/nbfix/internal/engine"
	"github.com/danieljhkim/nbfix/internal/fsops"
	"github.com/danieljhkim/nbfix/internal/hash"
)

// newEngine creates an engine with real implementations of all dependencies.
func newEngine(cfg *config.Config) *engine.Engine {
	return engine.New(
		fsops.NewRealFS(),
		hash.NewSHA256Hasher(),
		&clock.RealClock{},
		cfg.BackupSuffix,
	)
}

func runRoot(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		_ = cmd.Help()
		return fmt.Errorf("no notebook files given")
	}
	if checkMode == fixMode {
		return fmt.Errorf("specify exactly one of --check or --fix")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	applyColorMode(cfg.Color)

	files, skipped, err := expandArgs(args)
	if err != nil {
		return err
	}
	for _, path := range skipped {
		PrintWarning(fmt.Sprintf("skipping non-notebook file: %s", path))
	}
	if len(files) == 0 {
		return fmt.Errorf("no notebook files matched the given arguments")
	}

	mode := engine.ModeCheck
	if fixMode {
		mode = engine.ModeFix
	}

	result := newEngine(cfg).Run(&engine.Request{
		Paths:  files,
		Mode:   mode,
		Backup: !noBackup,
	})

	if jsonOutput {
		if err := reportJSON(result, mode); err != nil {
			return err
		}
	} else {
		reportRun(result, mode)
	}

	if result.FilesErrored > 0 {
		return ErrIssuesFound
	}
	if mode == engine.ModeCheck && result.FilesWithIssues > 0 {
		return ErrIssuesFound
	}
	return nil
}

// expandArgs turns CLI arguments into a notebook file list. Arguments with
// glob meta characters are expanded with filepath.Glob; plain paths pass
// through untouched so a missing file still surfaces as a per-file read
// error. Paths without the .ipynb extension are returned in skipped.
func expandArgs(args []string) (files, skipped []string, err error) {
	for _, arg := range args {
		matches := []string{arg}
		if strings.ContainsAny(arg, "*?[") {
			matches, err = filepath.Glob(arg)
			if err != nil {
				return nil, nil, fmt.Errorf("invalid glob pattern %q: %w", arg, err)
			}
		}
		for _, path := range matches {
			if !strings.HasSuffix(path, ".ipynb") {
				skipped = append(skipped, path)
				continue
			}
			files = append(files, path)
		}
	}
	return files, skipped, nil
}
