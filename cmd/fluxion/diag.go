package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/zephyrtronium/fluxion"
)

// diagPrinter writes syntax errors with the offending source line and a caret
// under the error position.
type diagPrinter struct {
	w     io.Writer
	pos   *color.Color
	kind  *color.Color
	caret *color.Color
}

func newDiagPrinter(w io.Writer, useColor bool) *diagPrinter {
	p := &diagPrinter{
		w:     w,
		pos:   color.New(color.Bold),
		kind:  color.New(color.FgRed, color.Bold),
		caret: color.New(color.FgGreen, color.Bold),
	}
	for _, c := range []*color.Color{p.pos, p.kind, p.caret} {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// report prints the error from parsing the named source.
func (p *diagPrinter) report(name, src string, err error) {
	var errs fluxion.ErrorList
	if !errors.As(err, &errs) {
		fmt.Fprintf(p.w, "%s %s %v\n", p.pos.Sprint(name+":"), p.kind.Sprint("error:"), err)
		return
	}
	lines := strings.Split(src, "\n")
	for _, e := range errs {
		fmt.Fprintf(p.w, "%s %s %s\n", p.pos.Sprintf("%s:%d:%d:", name, e.Line, e.Col), p.kind.Sprint(e.Kind.String()+":"), e.Msg)
		if e.Line < 1 || e.Line > len(lines) {
			continue
		}
		text := strings.TrimRight(lines[e.Line-1], "\r")
		fmt.Fprintf(p.w, "    %s\n    %s%s\n", text, caretPad(text, e.Col), p.caret.Sprint("^"))
	}
}

// errorf prints a message that isn't about any source.
func (p *diagPrinter) errorf(format string, args ...any) {
	fmt.Fprintf(p.w, "%s %s\n", p.kind.Sprint("error:"), fmt.Sprintf(format, args...))
}

// caretPad returns the whitespace that puts a caret under column col of line.
// Tabs are kept so the terminal expands them the same way in both lines.
func caretPad(line string, col int) string {
	var b strings.Builder
	n := 1
	for _, r := range line {
		if n >= col {
			break
		}
		if r == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
		}
		n++
	}
	return b.String()
}
