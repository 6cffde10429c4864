package engine

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/danieljhkim/nbfix/internal/clock"
	"github.com/danieljhkim/nbfix/internal/fsops"
	"github.com/danieljhkim/nbfix/internal/hash"
)

const brokenNotebook = `{"cells": [], "metadata": {"widgets": {"application/vnd.jupyter.widget-state+json": {` +
	`"w1": {"model_module": "@jupyter-widgets/controls", "model_name": "HBoxModel", "model_module_version": "1.5.0"}, ` +
	`"w2": {"state": {}}}}}, "nbformat": 4}`

const cleanNotebook = `{"cells": [], "metadata": {}, "nbformat": 4}`

func newTestEngine() *Engine {
	return New(fsops.NewRealFS(), hash.NewSHA256Hasher(), &clock.RealClock{}, ".bak")
}

func writeNotebook(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write notebook: %v", err)
	}
	return path
}

func TestRun_CheckMode(t *testing.T) {
	dir := t.TempDir()
	path := writeNotebook(t, dir, "a.ipynb", brokenNotebook)

	eng := newTestEngine()
	result := eng.Run(&Request{Paths: []string{path}, Mode: ModeCheck, Backup: true})

	if result.FilesProcessed != 1 || result.FilesWithIssues != 1 || result.FilesFixed != 0 {
		t.Errorf("aggregates = %d/%d/%d, want 1/1/0",
			result.FilesProcessed, result.FilesWithIssues, result.FilesFixed)
	}

	file := result.Files[0]
	if file.Err != nil {
		t.Fatalf("unexpected error: %v", file.Err)
	}
	if !file.WidgetsPresent || file.TotalWidgets != 2 {
		t.Errorf("WidgetsPresent=%v TotalWidgets=%d, want true/2", file.WidgetsPresent, file.TotalWidgets)
	}
	if !reflect.DeepEqual(file.AffectedIDs, []string{"w1"}) {
		t.Errorf("AffectedIDs = %v, want [w1]", file.AffectedIDs)
	}

	// Check mode never writes.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to re-read notebook: %v", err)
	}
	if string(data) != brokenNotebook {
		t.Error("check mode modified the file")
	}
	if _, err := os.Stat(path + ".bak"); !errors.Is(err, os.ErrNotExist) {
		t.Error("check mode wrote a backup")
	}
}

func TestRun_FixMode(t *testing.T) {
	dir := t.TempDir()
	path := writeNotebook(t, dir, "a.ipynb", brokenNotebook)

	eng := newTestEngine()
	result := eng.Run(&Request{Paths: []string{path}, Mode: ModeFix, Backup: true})

	file := result.Files[0]
	if file.Err != nil {
		t.Fatalf("unexpected error: %v", file.Err)
	}
	if !reflect.DeepEqual(file.FixedIDs, []string{"w1"}) {
		t.Errorf("FixedIDs = %v, want [w1]", file.FixedIDs)
	}
	if result.FilesFixed != 1 {
		t.Errorf("FilesFixed = %d, want 1", result.FilesFixed)
	}

	// Backup holds the exact original bytes.
	if file.BackupPath != path+".bak" {
		t.Errorf("BackupPath = %q, want %q", file.BackupPath, path+".bak")
	}
	backup, err := os.ReadFile(file.BackupPath)
	if err != nil {
		t.Fatalf("failed to read backup: %v", err)
	}
	if !bytes.Equal(backup, []byte(brokenNotebook)) {
		t.Error("backup does not contain the original bytes")
	}

	// A second pass finds nothing to do and changes nothing.
	fixed, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read fixed notebook: %v", err)
	}
	again := eng.Run(&Request{Paths: []string{path}, Mode: ModeFix, Backup: true})
	if again.FilesWithIssues != 0 || again.FilesFixed != 0 {
		t.Errorf("second pass found issues: %+v", again.Files[0])
	}
	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to re-read notebook: %v", err)
	}
	if !bytes.Equal(fixed, after) {
		t.Error("second pass changed the file")
	}
}

func TestRun_FixModeNoBackup(t *testing.T) {
	dir := t.TempDir()
	path := writeNotebook(t, dir, "a.ipynb", brokenNotebook)

	eng := newTestEngine()
	result := eng.Run(&Request{Paths: []string{path}, Mode: ModeFix, Backup: false})

	file := result.Files[0]
	if file.Err != nil {
		t.Fatalf("unexpected error: %v", file.Err)
	}
	if file.BackupPath != "" {
		t.Errorf("BackupPath = %q, want empty", file.BackupPath)
	}
	if _, err := os.Stat(path + ".bak"); !errors.Is(err, os.ErrNotExist) {
		t.Error("backup written despite Backup=false")
	}
	if len(file.FixedIDs) != 1 {
		t.Errorf("FixedIDs = %v, want one entry", file.FixedIDs)
	}
}

func TestRun_NoWidgetsFileUntouched(t *testing.T) {
	dir := t.TempDir()
	path := writeNotebook(t, dir, "plain.ipynb", cleanNotebook)

	eng := newTestEngine()
	result := eng.Run(&Request{Paths: []string{path}, Mode: ModeFix, Backup: true})

	file := result.Files[0]
	if file.Err != nil || file.WidgetsPresent || len(file.AffectedIDs) != 0 {
		t.Errorf("unexpected result for widgetless notebook: %+v", file)
	}
	if result.FilesWithIssues != 0 || result.FilesFixed != 0 {
		t.Errorf("aggregates = %d issues / %d fixed, want 0/0", result.FilesWithIssues, result.FilesFixed)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to re-read notebook: %v", err)
	}
	if string(data) != cleanNotebook {
		t.Error("widgetless notebook was modified")
	}
	if _, err := os.Stat(path + ".bak"); !errors.Is(err, os.ErrNotExist) {
		t.Error("backup written for widgetless notebook")
	}
}

func TestRun_ErrorsDoNotAbortTheRun(t *testing.T) {
	dir := t.TempDir()
	bad := writeNotebook(t, dir, "bad.ipynb", "not json at all")
	missing := filepath.Join(dir, "missing.ipynb")
	good := writeNotebook(t, dir, "good.ipynb", brokenNotebook)

	eng := newTestEngine()
	result := eng.Run(&Request{Paths: []string{bad, missing, good}, Mode: ModeCheck, Backup: true})

	if result.FilesProcessed != 3 || result.FilesErrored != 2 {
		t.Errorf("processed=%d errored=%d, want 3/2", result.FilesProcessed, result.FilesErrored)
	}
	if !errors.Is(result.Files[0].Err, ErrParse) {
		t.Errorf("bad file error = %v, want ErrParse", result.Files[0].Err)
	}
	if result.Files[1].Err == nil {
		t.Error("missing file produced no error")
	}
	if result.Files[2].Err != nil {
		t.Errorf("good file errored: %v", result.Files[2].Err)
	}
	if !reflect.DeepEqual(result.Files[2].AffectedIDs, []string{"w1"}) {
		t.Errorf("good file AffectedIDs = %v, want [w1]", result.Files[2].AffectedIDs)
	}
}

func TestRun_BackupFailureAbortsFix(t *testing.T) {
	dir := t.TempDir()
	path := writeNotebook(t, dir, "a.ipynb", brokenNotebook)

	// A directory at the backup path makes the backup rename fail.
	if err := os.Mkdir(path+".bak", 0755); err != nil {
		t.Fatalf("failed to create blocking dir: %v", err)
	}

	eng := newTestEngine()
	result := eng.Run(&Request{Paths: []string{path}, Mode: ModeFix, Backup: true})

	file := result.Files[0]
	if !errors.Is(file.Err, ErrBackup) {
		t.Fatalf("error = %v, want ErrBackup", file.Err)
	}
	if len(file.FixedIDs) != 0 {
		t.Errorf("FixedIDs = %v, want none", file.FixedIDs)
	}

	// The original must be untouched after a failed backup.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to re-read notebook: %v", err)
	}
	if string(data) != brokenNotebook {
		t.Error("original modified despite backup failure")
	}
}

func TestRun_PreservesFileMode(t *testing.T) {
	dir := t.TempDir()
	path := writeNotebook(t, dir, "a.ipynb", brokenNotebook)
	if err := os.Chmod(path, 0600); err != nil {
		t.Fatalf("failed to chmod: %v", err)
	}

	eng := newTestEngine()
	result := eng.Run(&Request{Paths: []string{path}, Mode: ModeFix, Backup: false})
	if result.Files[0].Err != nil {
		t.Fatalf("unexpected error: %v", result.Files[0].Err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("failed to stat: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("mode = %o, want 0600", info.Mode().Perm())
	}
}

func TestRun_ElapsedUsesClock(t *testing.T) {
	dir := t.TempDir()
	path := writeNotebook(t, dir, "a.ipynb", cleanNotebook)

	clk := clock.NewFakeClock(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	eng := New(fsops.NewRealFS(), hash.NewSHA256Hasher(), clk, ".bak")

	result := eng.Run(&Request{Paths: []string{path}, Mode: ModeCheck})
	if result.Elapsed != 0 {
		t.Errorf("Elapsed = %v, want 0 with a fixed clock", result.Elapsed)
	}
}

func TestRun_CustomBackupSuffix(t *testing.T) {
	dir := t.TempDir()
	path := writeNotebook(t, dir, "a.ipynb", brokenNotebook)

	eng := New(fsops.NewRealFS(), hash.NewSHA256Hasher(), &clock.RealClock{}, ".orig")
	result := eng.Run(&Request{Paths: []string{path}, Mode: ModeFix, Backup: true})

	file := result.Files[0]
	if file.Err != nil {
		t.Fatalf("unexpected error: %v", file.Err)
	}
	if file.BackupPath != path+".orig" {
		t.Errorf("BackupPath = %q, want %q", file.BackupPath, path+".orig")
	}
	if _, err := os.Stat(path + ".orig"); err != nil {
		t.Errorf("backup missing: %v", err)
	}
}
