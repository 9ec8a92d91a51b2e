package cmd

import (
	_ "embed"
	"strings"

	"github.com/cottand/shift/script"
	"github.com/spf13/cobra"
)

//go:embed demo.shift
var demoScript string

var DemoCmd = &cobra.Command{
	Use:          "demo",
	Short:        "Run a showcase of cell assignments and transfers",
	RunE:         runDemo,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
}

var demoShowSource *bool

func init() {
	demoShowSource = DemoCmd.Flags().Bool("source", false, "print the showcase script instead of running it")
}

func runDemo(cmd *cobra.Command, _ []string) error {
	if *demoShowSource {
		_, err := cmd.OutOrStdout().Write([]byte(demoScript))
		return err
	}
	settings := script.RunSettings{ContinueOnError: true}
	return runScript(cmd, "demo.shift", strings.NewReader(demoScript), settings, dumpNone)
}
