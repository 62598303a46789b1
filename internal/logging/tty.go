package logging

import (
	"io"
	"os"

	"golang.org/x/term"
)

// IsTTY reports whether w is a terminal. Anything with an Fd method is
// checked, which covers *os.File and most wrappers around it.
func IsTTY(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}

// SupportsColor reports whether ANSI colors should be written to w.
// NO_COLOR (any value) and TERM=dumb turn colors off. FORCE_COLOR turns
// them on for a non-terminal, e.g. when paging through less -R.
func SupportsColor(w io.Writer) bool {
	return colorAllowed(os.LookupEnv, IsTTY(w))
}

func colorAllowed(lookup func(string) (string, bool), tty bool) bool {
	if _, off := lookup("NO_COLOR"); off {
		return false
	}
	if t, _ := lookup("TERM"); t == "dumb" {
		return false
	}
	if v, on := lookup("FORCE_COLOR"); on && v != "" && v != "0" {
		return true
	}
	return tty
}
