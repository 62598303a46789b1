// Package main is the entry point for the mcptoggle CLI.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/thoreinstein/mcptoggle/cmd/mcptoggle/commands"
	"github.com/thoreinstein/mcptoggle/internal/errors"
)

func main() {
	os.Exit(run())
}

func run() int {
	err := commands.Execute()
	if err == nil {
		return errors.ExitSuccess
	}

	red := color.New(color.FgRed, color.Bold)
	red.Fprint(os.Stderr, "Error: ")
	fmt.Fprintln(os.Stderr, err)
	if s := errors.Suggest(err); s != "" {
		fmt.Fprintf(os.Stderr, "  %s\n", s)
	}

	var exitErr *errors.ExitError
	if errors.As(err, &exitErr) && exitErr.Code != errors.ExitSuccess {
		return exitErr.Code
	}
	return errors.ExitUser
}
