//go:build !(js || wasm)

package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/cottand/shift/cmd"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "shift [subcommand]",
	Short:        "shift <<\n runtime-typed cells, assigned with << and transferred with >>",
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(cmd.RunCmd)
	rootCmd.AddCommand(cmd.DemoCmd)
	rootCmd.AddCommand(cmd.TypesCmd)
}
