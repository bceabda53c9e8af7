package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/jweekley-ucsc/skillscope/cmd"
)

const version = "0.2.0"

func main() {
	root := cmd.NewRootCmd()

	// fang wraps the command tree with completions, manpages and --version.
	if err := fang.Execute(
		context.Background(),
		root,
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt, os.Kill),
	); err != nil {
		os.Exit(1)
	}
}
