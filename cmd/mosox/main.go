package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

func main() {
	cmd := &cli.Command{
		Name:  "mosox",
		Usage: "Compile GMPL-style mathematical programs to MPS",
		Commands: []*cli.Command{
			checkCommand(),
			compCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, render(colorEnabled(""), errStyle, err.Error()))
		os.Exit(1)
	}
}
