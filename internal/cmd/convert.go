package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/thirteen37/keycase/internal/casing"
	"github.com/thirteen37/keycase/internal/config"
	"github.com/thirteen37/keycase/internal/format"
	"github.com/thirteen37/keycase/internal/format/registry"
	"github.com/thirteen37/keycase/internal/keycase"
	"github.com/thirteen37/keycase/internal/path"
	"github.com/thirteen37/keycase/internal/report"
	"github.com/thirteen37/keycase/internal/watch"
)

// stdinName is the file argument that means standard input.
const stdinName = "-"

type convertOptions struct {
	caseName          string
	renames           []string
	renameMode        string
	formatName        string
	output            string
	write             bool
	requireObjectRoot bool
	skip              []string
	indent            string
	stripComments     bool
	explain           bool
	diff              bool
	watch             bool
}

func newConvertCmd(a *app) *cobra.Command {
	opts := &convertOptions{}

	cmd := &cobra.Command{
		Use:   "convert [file...]",
		Short: "Convert the keys of one or more documents",
		Long: `Convert every object key in a document to the chosen naming convention.

With no file, or "-", the document is read from stdin. The result goes to
stdout unless --output or --write is given.

Flags override the config file, which overrides the defaults.

Examples:
  keycase convert -c snake settings.json
  keycase convert -c camel --rename id=userId -o out.yaml in.yaml
  keycase convert -c kebab -w a.toml b.toml c.toml
  echo '{"userId": 1}' | keycase convert -c snake`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, a, opts, args)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.caseName, "case", "c", "", "Target naming convention (see 'keycase cases')")
	f.StringArrayVar(&opts.renames, "rename", nil, "Manual rename key=value (repeatable)")
	f.StringVar(&opts.renameMode, "rename-mode", "", `How renames are read: "key" or "value"`)
	f.StringVarP(&opts.formatName, "format", "f", "", "Document format: "+strings.Join(registry.Names(), ", "))
	f.StringVarP(&opts.output, "output", "o", "", "Write the result to this file")
	f.BoolVarP(&opts.write, "write", "w", false, "Rewrite each file in place")
	f.BoolVar(&opts.requireObjectRoot, "require-object-root", false, "Reject documents whose root is not an object or array of objects")
	f.StringArrayVar(&opts.skip, "skip", nil, `Leave keys under this path alone, e.g. '["dependencies"]' (repeatable)`)
	f.StringVar(&opts.indent, "indent", "", "Indentation for formats that support it")
	f.BoolVar(&opts.stripComments, "strip-comments", false, "Strip // comments from JSON")
	f.BoolVar(&opts.explain, "explain", false, "Print every renamed key to stderr")
	f.BoolVar(&opts.diff, "diff", false, "Print a diff instead of the converted document")
	f.BoolVar(&opts.watch, "watch", false, "Convert again whenever the input changes")

	return cmd
}

// settings is the merged result of flags, config file and defaults.
type settings struct {
	convention        casing.Convention
	mode              keycase.RenameMode
	table             *keycase.RenameTable
	skip              []path.Path
	format            string
	requireObjectRoot bool
	indent            string
	stripComments     bool
	diff              bool
	// plan records renames and collisions. Building it costs a key path
	// per renamed key, so it is only done when something reads it.
	plan bool
}

func (o *convertOptions) resolve(cmd *cobra.Command, cfg *config.Config, verbose bool) (*settings, error) {
	flags := cmd.Flags()

	if flags.Changed("case") {
		cfg.Case = o.caseName
	}
	if flags.Changed("rename-mode") {
		cfg.RenameMode = o.renameMode
	}
	if flags.Changed("format") {
		cfg.Format = o.formatName
	}
	if flags.Changed("require-object-root") {
		cfg.RequireObjectRoot = o.requireObjectRoot
	}
	if flags.Changed("indent") {
		cfg.Indent = o.indent
	}
	for _, r := range o.renames {
		key, value, ok := strings.Cut(r, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid rename %q: want key=value", r)
		}
		cfg.Renames = append(cfg.Renames, config.Rename{Key: key, Value: value})
	}
	for _, s := range o.skip {
		p, err := path.ParseArrayPath(s)
		if err != nil {
			return nil, fmt.Errorf("invalid skip path %q: %w", s, err)
		}
		cfg.Skip = append(cfg.Skip, p.Segments())
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	convention, _ := cfg.Convention()
	mode, _ := cfg.Mode()

	return &settings{
		convention:        convention,
		mode:              mode,
		table:             cfg.RenameTable(),
		skip:              cfg.SkipPaths(),
		format:            cfg.Format,
		requireObjectRoot: cfg.RequireObjectRoot,
		indent:            cfg.Indent,
		stripComments:     o.stripComments,
		diff:              o.diff,
		plan:              o.explain || verbose,
	}, nil
}

func (o *convertOptions) validate(files []string) error {
	readsStdin := len(files) == 0 || (len(files) == 1 && files[0] == stdinName)
	switch {
	case o.write && o.output != "":
		return fmt.Errorf("--write and --output cannot be combined")
	case o.write && readsStdin:
		return fmt.Errorf("--write needs at least one file")
	case !o.write && len(files) > 1:
		return fmt.Errorf("multiple files need --write")
	case o.watch && (readsStdin || len(files) != 1):
		return fmt.Errorf("--watch needs exactly one file")
	case o.watch && o.output == "":
		return fmt.Errorf("--watch needs --output")
	case o.watch && sameFile(o.output, files[0]):
		return fmt.Errorf("--watch cannot write to the file it watches")
	}
	for _, f := range files {
		if f == stdinName && len(files) > 1 {
			return fmt.Errorf("%q cannot be mixed with files", stdinName)
		}
	}
	return nil
}

func runConvert(cmd *cobra.Command, a *app, opts *convertOptions, files []string) error {
	if err := opts.validate(files); err != nil {
		return err
	}

	cfg, _, err := a.loadConfig(true)
	if err != nil {
		return err
	}
	s, err := opts.resolve(cmd, cfg, a.verbose)
	if err != nil {
		return err
	}
	a.logger.Debug("converting",
		slog.String("case", s.convention.String()),
		slog.String("rename_mode", s.mode.String()),
		slog.Int("renames", s.table.Len()),
		slog.Int("skip", len(s.skip)),
	)

	if opts.write {
		return a.convertInPlace(cmd, s, opts, files)
	}

	name := stdinName
	if len(files) == 1 {
		name = files[0]
	}

	if err := a.convertOne(cmd, s, opts, name); err != nil {
		return err
	}
	if !opts.watch {
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	a.logger.Info("watching for changes", slog.String("file", name))
	return watch.Watch(ctx, name, a.logger, func() {
		if err := a.convertOne(cmd, s, opts, name); err != nil {
			a.logger.LogAttrs(ctx, slog.LevelError, "conversion failed",
				slog.String("file", name),
				slog.Any("error", err),
			)
		}
	})
}

// convertOne converts a single input to stdout or --output.
func (a *app) convertOne(cmd *cobra.Command, s *settings, opts *convertOptions, name string) error {
	data, err := readInput(cmd.InOrStdin(), name)
	if err != nil {
		return err
	}

	res, err := s.convert(data, name)
	if err != nil {
		return err
	}
	a.logResult(cmd.Context(), res)

	if opts.explain {
		if err := printExplain(cmd.ErrOrStderr(), res, false); err != nil {
			return err
		}
	}
	if opts.diff {
		return printDiff(cmd.OutOrStdout(), res, false)
	}

	if opts.output != "" {
		return writeIfChanged(opts.output, res.output)
	}
	_, err = cmd.OutOrStdout().Write(res.output)
	return err
}

// convertInPlace converts every file concurrently and rewrites those that
// changed. Reports are printed afterwards in argument order.
func (a *app) convertInPlace(cmd *cobra.Command, s *settings, opts *convertOptions, files []string) error {
	results := make([]*result, len(files))

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, name := range files {
		i, name := i, name
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(name)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", name, err)
			}
			res, err := s.convert(data, name)
			if err != nil {
				return err
			}
			results[i] = res
			return writeIfChanged(name, res.output)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	multi := len(files) > 1
	for _, res := range results {
		a.logResult(cmd.Context(), res)
		if opts.explain {
			if err := printExplain(cmd.ErrOrStderr(), res, multi); err != nil {
				return err
			}
		}
		if opts.diff {
			if err := printDiff(cmd.OutOrStdout(), res, multi); err != nil {
				return err
			}
		}
	}
	return nil
}

// result is one converted document.
type result struct {
	name   string
	before []byte // re-serialised input, set only for diffs
	output []byte
	plan   keycase.Plan
}

// formatFor picks the format: explicit setting, then extension, then JSON.
func (s *settings) formatFor(name string) string {
	if s.format != "" {
		return s.format
	}
	if detected := registry.Detect(name); detected != "" {
		return detected
	}
	return registry.Default
}

func (s *settings) convert(data []byte, name string) (*result, error) {
	formatName := s.formatFor(name)
	handler, err := registry.Lookup(formatName)
	if err != nil {
		return nil, err
	}

	parseOpts := format.ParseOptions{
		StripComments: s.stripComments || registry.IsComments(formatName),
	}
	tree, err := handler.Parse(data, parseOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", displayName(name), err)
	}

	var conv *keycase.Converter
	if s.requireObjectRoot {
		conv, err = keycase.NewObjectRoot(tree, s.convention)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", displayName(name), err)
		}
	} else {
		conv = keycase.New(tree, s.convention)
	}
	conv.WithManualRenames(s.table).WithRenameMode(s.mode).WithSkipPaths(s.skip...)

	var (
		converted any
		plan      keycase.Plan
	)
	if s.plan {
		converted, plan = conv.Explain()
	} else {
		converted = conv.Convert()
	}

	serializeOpts := format.SerializeOptions{Indent: s.indent}
	output, err := handler.Serialize(converted, serializeOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize %s: %w", displayName(name), err)
	}

	res := &result{name: name, output: output, plan: plan}
	if s.diff {
		res.before, err = handler.Serialize(tree, serializeOpts)
		if err != nil {
			return nil, fmt.Errorf("failed to serialize %s: %w", displayName(name), err)
		}
	}
	return res, nil
}

func (a *app) logResult(ctx context.Context, res *result) {
	for _, c := range res.plan.Collisions {
		a.logger.LogAttrs(ctx, slog.LevelWarn, "key collision, later value wins",
			slog.String("file", displayName(res.name)),
			slog.String("path", path.NewArrayPath(c.Path).String()),
			slog.String("key", c.Key),
			slog.String("from", c.From),
		)
	}
	a.logger.LogAttrs(ctx, slog.LevelDebug, "converted",
		slog.String("file", displayName(res.name)),
		slog.Int("renamed", len(res.plan.Renames)),
	)
}

func printExplain(w io.Writer, res *result, header bool) error {
	if header {
		if _, err := fmt.Fprintf(w, "%s:\n", displayName(res.name)); err != nil {
			return err
		}
	}
	return report.Explain(w, res.plan, colorFor(w))
}

func printDiff(w io.Writer, res *result, header bool) error {
	if header {
		if _, err := fmt.Fprintf(w, "--- %s\n", displayName(res.name)); err != nil {
			return err
		}
	}
	diff := report.Diff(res.before, res.output)
	if colorFor(w) {
		diff = report.Colorize(diff)
	}
	_, err := io.WriteString(w, diff)
	return err
}

func colorFor(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && report.UseColor(f)
}

// writeIfChanged writes data to name unless the file already holds exactly
// data. An existing file keeps its permissions.
func writeIfChanged(name string, data []byte) error {
	perm := os.FileMode(0o644)
	if info, err := os.Stat(name); err == nil {
		perm = info.Mode().Perm()
		if existing, err := os.ReadFile(name); err == nil && bytes.Equal(existing, data) {
			return nil
		}
	}
	if err := os.WriteFile(name, data, perm); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

// sameFile reports whether a and b name the same file, following symlinks
// when both exist.
func sameFile(a, b string) bool {
	infoA, errA := os.Stat(a)
	infoB, errB := os.Stat(b)
	if errA == nil && errB == nil {
		return os.SameFile(infoA, infoB)
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}

func readInput(stdin io.Reader, name string) ([]byte, error) {
	if name == stdinName {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, nil
}

func displayName(name string) string {
	if name == stdinName {
		return "stdin"
	}
	return name
}
