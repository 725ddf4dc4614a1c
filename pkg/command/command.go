// Package command provides an immutable, already-expanded view of a
// benchmarked command: a spawnable process description plus its
// canonical printable form.
package command

import "strings"

// ProcessSpec is the description required to spawn a child process.
type ProcessSpec struct {
	Path string
	Args []string
	Dir  string
	// EnvOverlay holds additional KEY=VALUE entries layered on top of the
	// parent environment at spawn time; it never mutates the parent
	// process's own environment.
	EnvOverlay map[string]string
}

// Command is a read-only view of a fully expanded command. It performs
// no I/O; both of its accessors are pure.
type Command struct {
	executable string
	args       []string
	dir        string
	envOverlay map[string]string
	// line, when set, overrides the derived printable form. This is how
	// the empty command used during shell calibration is represented:
	// an empty printable line with no executable of its own, since it
	// denotes "run the shell with nothing after -c".
	line    string
	useLine bool
}

// New constructs a Command for directly spawning executable with args.
func New(executable string, args []string, dir string, envOverlay map[string]string) Command {
	return Command{executable: executable, args: args, dir: dir, envOverlay: envOverlay}
}

// NewFromLine constructs a Command whose printable form is exactly line,
// used for mock commands (e.g. "sleep 0.1") and for the empty command
// used during shell calibration.
func NewFromLine(line string) Command {
	return Command{line: line, useLine: true}
}

// GetCommand returns the spawnable process description for direct
// (non-shell) invocation. It is meaningless for a line-only Command
// (those are only ever run through a ShellExecutor or MockExecutor).
func (c Command) GetCommand() ProcessSpec {
	return ProcessSpec{
		Path:       c.executable,
		Args:       c.args,
		Dir:        c.dir,
		EnvOverlay: c.envOverlay,
	}
}

// GetCommandLine returns the canonical printable form used for shell
// invocation, reporting, and hashing.
func (c Command) GetCommandLine() string {
	if c.useLine {
		return c.line
	}
	parts := make([]string, 0, len(c.args)+1)
	parts = append(parts, quoteArg(c.executable))
	for _, a := range c.args {
		parts = append(parts, quoteArg(a))
	}
	return strings.Join(parts, " ")
}

// quoteArg wraps an argument in single quotes when it contains
// whitespace or shell metacharacters, leaving plain tokens untouched.
func quoteArg(arg string) string {
	if arg == "" {
		return "''"
	}
	if !strings.ContainsAny(arg, " \t\n'\"$`\\|&;<>()") {
		return arg
	}
	return "'" + strings.ReplaceAll(arg, "'", `'\''`) + "'"
}
