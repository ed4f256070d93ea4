package main

import (
	"os"

	"github.com/fatih/color"

	"github.com/kubev2v/sqltoolkit/cmd"
)

func main() {
	if err := cmd.NewRootCommand().Execute(); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
