// Package output writes the tool's user-facing messages. Info and success
// lines go to stdout, warnings and errors to stderr, optionally colored.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

func ParseColorMode(s string) (ColorMode, error) {
	switch m := ColorMode(strings.ToLower(strings.TrimSpace(s))); m {
	case ColorAuto, ColorAlways, ColorNever:
		return m, nil
	case "":
		return ColorAuto, nil
	}
	return "", fmt.Errorf("invalid color mode %q (want auto, always or never)", s)
}

// Printer is the sink for progress and result messages.
type Printer interface {
	Info(format string, args ...any)
	Success(format string, args ...any)
	Warning(format string, args ...any)
	Error(format string, args ...any)
}

// New picks the printer for mode. Each stream is colored on its own, so
// piping stdout keeps stderr colored on a terminal.
func New(mode ColorMode, stdout, stderr io.Writer) Printer {
	return newPrinter(mode, stdout, stderr, os.LookupEnv)
}

func newPrinter(mode ColorMode, stdout, stderr io.Writer, lookup func(string) (string, bool)) Printer {
	outColor := useColor(mode, stdout, lookup)
	errColor := useColor(mode, stderr, lookup)
	if !outColor && !errColor {
		return &Plain{Out: stdout, Err: stderr}
	}
	return newANSI(wrap(stdout, outColor), wrap(stderr, errColor), outColor, errColor)
}

func useColor(mode ColorMode, w io.Writer, lookup func(string) (string, bool)) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	if v, ok := lookup("NO_COLOR"); ok && v != "" {
		return false
	}
	if v, ok := lookup("FORCE_COLOR"); ok && v != "" && v != "0" && !strings.EqualFold(v, "false") {
		return true
	}
	return IsTerminal(w)
}

// IsTerminal reports whether w is backed by a terminal file descriptor.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// wrap routes ANSI sequences through go-colorable for real files so Windows
// consoles render them.
func wrap(w io.Writer, enabled bool) io.Writer {
	if f, ok := w.(*os.File); ok && enabled {
		return colorable.NewColorable(f)
	}
	return w
}

// Plain prints messages without styling.
type Plain struct {
	Out io.Writer
	Err io.Writer
}

func (p *Plain) Info(format string, args ...any)    { fmt.Fprintf(p.Out, format+"\n", args...) }
func (p *Plain) Success(format string, args ...any) { fmt.Fprintf(p.Out, format+"\n", args...) }
func (p *Plain) Warning(format string, args ...any) { fmt.Fprintf(p.Err, format+"\n", args...) }
func (p *Plain) Error(format string, args ...any)   { fmt.Fprintf(p.Err, format+"\n", args...) }

// ANSI prints messages with fatih/color attributes. Colors are toggled per
// instance; the package-level color.NoColor is never touched.
type ANSI struct {
	out, err io.Writer

	info, success, warning, failure *color.Color
}

func newANSI(stdout, stderr io.Writer, outColor, errColor bool) *ANSI {
	a := &ANSI{
		out:     stdout,
		err:     stderr,
		info:    color.New(color.FgCyan),
		success: color.New(color.FgGreen),
		warning: color.New(color.FgYellow),
		failure: color.New(color.FgRed, color.Bold),
	}
	toggle(outColor, a.info, a.success)
	toggle(errColor, a.warning, a.failure)
	return a
}

func toggle(on bool, cs ...*color.Color) {
	for _, c := range cs {
		if on {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
}

func (a *ANSI) Info(format string, args ...any)    { fmt.Fprintln(a.out, a.info.Sprintf(format, args...)) }
func (a *ANSI) Success(format string, args ...any) { fmt.Fprintln(a.out, a.success.Sprintf(format, args...)) }
func (a *ANSI) Warning(format string, args ...any) { fmt.Fprintln(a.err, a.warning.Sprintf(format, args...)) }
func (a *ANSI) Error(format string, args ...any)   { fmt.Fprintln(a.err, a.failure.Sprintf(format, args...)) }

// Quiet drops everything except errors.
func Quiet(p Printer) Printer { return quiet{p} }

type quiet struct{ inner Printer }

func (quiet) Info(string, ...any)                {}
func (quiet) Success(string, ...any)             {}
func (quiet) Warning(string, ...any)             {}
func (q quiet) Error(format string, args ...any) { q.inner.Error(format, args...) }

// Discard prints nothing.
var Discard Printer = discard{}

type discard struct{}

func (discard) Info(string, ...any)    {}
func (discard) Success(string, ...any) {}
func (discard) Warning(string, ...any) {}
func (discard) Error(string, ...any)   {}
