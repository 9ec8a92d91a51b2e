package cmd

import (
	"fmt"

	"github.com/cottand/shift/cell"
	"github.com/spf13/cobra"
)

var TypesCmd = &cobra.Command{
	Use:          "types",
	Short:        "List the type names cells can be declared with",
	RunE:         runTypes,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
}

func runTypes(cmd *cobra.Command, _ []string) error {
	u := cell.Builtins()
	for _, name := range u.Names() {
		t, err := u.Lookup(name)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%-12s %s\n", name, t); err != nil {
			return err
		}
	}
	return nil
}
