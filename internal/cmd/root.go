// Package cmd provides the CLI commands for keycase.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/thirteen37/keycase/internal/config"
)

// app holds state shared by every subcommand.
type app struct {
	configFile string
	verbose    bool
	logger     *slog.Logger
}

// NewRootCmd builds the keycase command tree.
func NewRootCmd() *cobra.Command {
	a := &app{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}

	root := &cobra.Command{
		Use:   "keycase",
		Short: "Rewrite the keys of structured documents into one naming convention",
		Long: `keycase converts every object key in a JSON, YAML, TOML or INI document
to a single naming convention such as snake_case or camelCase.

Values are never touched. Manual renames override the convention for
individual keys, and skip paths leave whole subtrees alone.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.logger = newLogger(cmd.ErrOrStderr(), a.verbose)
		},
	}

	root.PersistentFlags().StringVar(&a.configFile, "config", "", "Path to config file (default "+config.DefaultFile+" if present)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Log debug output to stderr")

	root.AddCommand(newConvertCmd(a))
	root.AddCommand(newCasesCmd())
	root.AddCommand(newAddRenameCmd(a))
	root.AddCommand(newRemoveRenameCmd(a))
	root.AddCommand(newListCmd(a))
	return root
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "keycase: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// configPath returns the config file to use and whether it was given
// explicitly.
func (a *app) configPath() (string, bool) {
	if a.configFile != "" {
		return a.configFile, true
	}
	return config.DefaultFile, false
}

// loadConfig loads the config file. A missing file yields the defaults
// unless it was named explicitly and mustExist is set.
func (a *app) loadConfig(mustExist bool) (*config.Config, string, error) {
	filename, explicit := a.configPath()

	cfg, err := config.Load(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && (!explicit || !mustExist) {
			a.logger.Debug("no config file, using defaults", slog.String("file", filename))
			return config.Default(), filename, nil
		}
		return nil, "", fmt.Errorf("failed to load config: %w", err)
	}

	a.logger.Debug("loaded config", slog.String("file", filename))
	return cfg, filename, nil
}
