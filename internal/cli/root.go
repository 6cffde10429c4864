// Package cli implements the nbfix command line interface.
package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var (
	checkMode  bool
	fixMode    bool
	noBackup   bool
	jsonOutput bool
)

// ErrIssuesFound signals a run that completed but must exit non-zero:
// check mode found issues, or some file failed to process. The report has
// already been printed when this is returned.
var ErrIssuesFound = errors.New("issues found")

// rootCmd is the root command for nbfix.
var rootCmd = &cobra.Command{
	Use:     "nbfix [flags] <notebook files or globs>",
	Version: "dev",
	Short:   "Repair Jupyter notebook widget metadata",
	Long: `nbfix repairs Jupyter notebooks whose widget entries under
metadata.widgets are missing their required "state" key, a defect that
breaks downstream notebook renderers.

Affected entries get a minimal placeholder state synthesized from the
entry's own model fields. Everything else in the file - key order, cell
content, unrelated metadata - is preserved byte-for-byte.`,
	Example: `  Check notebooks for issues:
    nbfix --check notebook.ipynb

  Fix issues in place (writes a .bak backup first):
    nbfix --fix notebook.ipynb

  Fix a whole directory without backups:
    nbfix --fix --no-backup 'notebooks/*.ipynb'`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

// SetVersion overrides the version reported by --version.
func SetVersion(v string) {
	if v == "" {
		return
	}
	rootCmd.Version = v
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

func init() {
	rootCmd.Flags().BoolVar(&checkMode, "check", false, "Report issues without fixing")
	rootCmd.Flags().BoolVar(&fixMode, "fix", false, "Fix issues in the notebooks")
	rootCmd.Flags().BoolVar(&noBackup, "no-backup", false, "Don't create backup files when fixing")
	rootCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the report in JSON format")
}

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}
