package executor

import (
	"fmt"
	"io"
	"strings"
)

// noopProgress discards every call; used when output style is Disabled.
type noopProgress struct{}

func (noopProgress) Inc(int)         {}
func (noopProgress) FinishAndClear() {}

// NewNoopProgressFactory returns a ProgressFactory whose Progress values
// do nothing, for drivers with no terminal to report to.
func NewNoopProgressFactory() ProgressFactory {
	return func(int, string) Progress { return noopProgress{} }
}

// textProgress is a minimal terminal-free progress reporter: one '.'
// per Inc'd unit and a label line up front, writer-based like
// pkg/ui.Reporter.
type textProgress struct {
	writer io.Writer
	done   int
	total  int
}

// NewTextProgressFactory returns a ProgressFactory that writes a label
// line followed by one '.' per completed unit to w, and a trailing
// newline on FinishAndClear.
func NewTextProgressFactory(w io.Writer) ProgressFactory {
	return func(total int, label string) Progress {
		fmt.Fprintf(w, "%s ", label)
		return &textProgress{writer: w, total: total}
	}
}

func (p *textProgress) Inc(delta int) {
	p.done += delta
	if delta > 0 {
		fmt.Fprint(p.writer, strings.Repeat(".", delta))
	}
}

func (p *textProgress) FinishAndClear() {
	fmt.Fprintln(p.writer)
}
