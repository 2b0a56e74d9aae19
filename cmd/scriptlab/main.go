// Package main is the entry point for the scriptlab command-line tool.
package main

import (
	"os"

	"github.com/roguepikachu/scriptlab/internal/cli/command"
)

func main() {
	if err := command.App().Run(os.Args); err != nil {
		command.PrintError("%v", err)
		os.Exit(1)
	}
}
