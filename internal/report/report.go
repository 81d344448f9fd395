// Package report renders conversion plans and diffs for humans.
package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/thirteen37/keycase/internal/keycase"
	"github.com/thirteen37/keycase/internal/path"
)

// UseColor reports whether output to f should be coloured.
func UseColor(f *os.File) bool {
	if color.NoColor {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

type palette struct {
	path, from, to, manual, warn *color.Color
}

func newPalette(colored bool) palette {
	p := palette{
		path:   color.New(color.FgCyan),
		from:   color.New(color.FgRed),
		to:     color.New(color.FgGreen),
		manual: color.New(color.FgMagenta),
		warn:   color.New(color.FgYellow, color.Bold),
	}
	for _, c := range []*color.Color{p.path, p.from, p.to, p.manual, p.warn} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Explain writes one line per renamed key and one warning per collision.
//
//	["profile"] displayName -> display_name
//	[] userId -> id (manual)
//	warning: ["profile"] display_name overwritten by "display_name"
func Explain(w io.Writer, plan keycase.Plan, colored bool) error {
	p := newPalette(colored)

	for _, r := range plan.Renames {
		line := fmt.Sprintf("%s %s -> %s",
			p.path.Sprint(path.NewArrayPath(r.Path).String()),
			p.from.Sprint(r.From),
			p.to.Sprint(r.To))
		if r.Manual {
			line += " " + p.manual.Sprint("(manual)")
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	for _, c := range plan.Collisions {
		_, err := fmt.Fprintf(w, "%s %s %s overwritten by %q\n",
			p.warn.Sprint("warning:"),
			p.path.Sprint(path.NewArrayPath(c.Path).String()),
			c.Key, c.From)
		if err != nil {
			return err
		}
	}
	return nil
}

// Diff returns a line diff of before and after. Each line is prefixed with
// "-", "+" or two spaces. Identical inputs give an empty string.
func Diff(before, after []byte) string {
	if string(before) == string(after) {
		return ""
	}

	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(string(before), string(after))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var sb strings.Builder
	for _, d := range diffs {
		prefix := "  "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		}
		for _, line := range splitLines(d.Text) {
			sb.WriteString(prefix)
			sb.WriteString(line)
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// splitLines splits text into lines without their terminators.
func splitLines(text string) []string {
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return []string{""}
	}
	return strings.Split(text, "\n")
}

// Colorize colours the "-" and "+" lines of a Diff.
func Colorize(diff string) string {
	del := color.New(color.FgRed)
	ins := color.New(color.FgGreen)
	del.EnableColor()
	ins.EnableColor()

	lines := strings.SplitAfter(diff, "\n")
	var sb strings.Builder
	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "-"):
			sb.WriteString(del.Sprint(strings.TrimSuffix(line, "\n")))
		case strings.HasPrefix(line, "+"):
			sb.WriteString(ins.Sprint(strings.TrimSuffix(line, "\n")))
		default:
			sb.WriteString(line)
			continue
		}
		if strings.HasSuffix(line, "\n") {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
