package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/thirteen37/keycase/internal/casing"
)

const caseExample = "myKeyName"

func newCasesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cases",
		Short: "List the supported naming conventions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "NAME\t%s\n", caseExample)
			for _, c := range casing.All() {
				fmt.Fprintf(tw, "%s\t%s\n", c, c.Apply(caseExample))
			}
			return tw.Flush()
		},
	}
}
