package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAddRenameCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add-rename <key> <value>",
		Short: "Add a manual rename to the config file",
		Long: `Add a manual rename to the config file, creating the file if needed.

With rename_mode "key", input key <key> becomes <value>.
With rename_mode "value", input key <value> becomes <key>.

Example:
  keycase add-rename id userId`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]
			if key == "" {
				return fmt.Errorf("rename key must not be empty")
			}

			cfg, configPath, err := a.loadConfig(false)
			if err != nil {
				return err
			}

			if !cfg.AddRename(key, value) {
				fmt.Fprintf(cmd.OutOrStdout(), "Rename %s -> %s already exists\n", key, value)
				return nil
			}

			if err := cfg.Save(configPath); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added rename %s -> %s\n", key, value)
			return nil
		},
	}
}

func newRemoveRenameCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove-rename <key>",
		Short: "Remove a manual rename from the config file",
		Long: `Remove the manual rename whose key side is <key>.

Example:
  keycase remove-rename id`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]

			cfg, configPath, err := a.loadConfig(true)
			if err != nil {
				return err
			}

			if !cfg.RemoveRename(key) {
				fmt.Fprintf(cmd.OutOrStdout(), "Rename %s not found\n", key)
				return nil
			}

			if err := cfg.Save(configPath); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Removed rename %s\n", key)
			return nil
		},
	}
}
