package commands

import (
	"fmt"
	"io"

	"github.com/thoreinstein/mcptoggle/internal/cli"
)

// ANSI sequences for table headers and status words.
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorCyan   = "\033[36m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
)

// truncate cuts s to at most n runes, ending in "..." when anything was
// dropped and there is room for it.
func truncate(s string, n int) string {
	r := []rune(s)
	switch {
	case len(r) <= n:
		return s
	case n <= 3:
		return string(r[:max(n, 0)])
	default:
		return string(r[:n-3]) + "..."
	}
}

// printHeader writes the tool and scope a command operates on.
func printHeader(w io.Writer, v *cli.View) {
	fmt.Fprintf(w, "%s%s%s %s(%s)%s\n",
		colorCyan+colorBold, v.Adapter.DisplayName(), colorReset,
		colorGray, v.Resolution, colorReset)
}
