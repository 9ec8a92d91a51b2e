package cmd

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cottand/shift/cell"
	"github.com/cottand/shift/internal/log"
	"github.com/cottand/shift/script"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var RunCmd = &cobra.Command{
	Use:          "run file.shift",
	Short:        "Run a cell script",
	RunE:         runRun,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
}

var (
	continueOnError *bool
	strictAssign    *bool
	dumpFormat      *string
	logLevel        *int
)

func init() {
	continueOnError = RunCmd.Flags().BoolP("continue", "c", false, "report failed statements and keep running")
	strictAssign = RunCmd.Flags().Bool("strict", false, "fail when assigning from an uninitialized cell")
	dumpFormat = RunCmd.Flags().String("dump", dumpNone, "print the final cells ("+dumpNone+"|"+dumpYAML+")")
	logLevel = RunCmd.Flags().IntP("log-level", "l", int(slog.LevelWarn), "log level")
}

func runRun(cmd *cobra.Command, args []string) error {
	log.SetLevel(slog.Level(*logLevel))

	target, err := filepath.Abs(args[0])
	if err != nil {
		return errors.Wrap(err, "could not get absolute path of script")
	}
	f, err := os.Open(target)
	if err != nil {
		return errors.Wrap(err, "could not open script")
	}
	defer func() {
		_ = f.Close()
	}()

	settings := script.RunSettings{
		Cell:            cell.Settings{StrictCellAssign: *strictAssign},
		ContinueOnError: *continueOnError,
	}
	return runScript(cmd, filepath.Base(target), f, settings, *dumpFormat)
}
