package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thirteen37/keycase/internal/path"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the settings and renames in the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, configPath, err := a.loadConfig(true)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "Config %s:\n", configPath)
			fmt.Fprintf(out, "  case: %s\n", cfg.Case)
			fmt.Fprintf(out, "  rename_mode: %s\n", cfg.RenameMode)
			for _, p := range cfg.Skip {
				fmt.Fprintf(out, "  skip: %s\n", path.NewArrayPath(p))
			}

			if len(cfg.Renames) == 0 {
				fmt.Fprintln(out, "No renames configured")
				return nil
			}

			fmt.Fprintln(out, "Renames:")
			for _, r := range cfg.Renames {
				fmt.Fprintf(out, "  %s -> %s\n", r.Key, r.Value)
			}
			return nil
		},
	}
}
