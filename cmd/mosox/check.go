package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/urfave/cli/v3"

	mosox "github.com/lgsolve/mosox"
	"github.com/lgsolve/mosox/model"
	"github.com/lgsolve/mosox/resolve"
)

func checkCommand() *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "Parse and bind a model without compiling or emitting MPS",
		ArgsUsage: "<model_path> [data_path]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "print a styled, field-by-field dump of the bound model",
				Sources: cli.EnvVars("MOSOX_VERBOSE"),
			},
		},
		Action: runCheck,
	}
}

// runCheck parses, matches, and binds a model — set resolution only, per
// resolve.Model — without expanding or compiling it. comp performs the same
// two steps before going on to compile and emit MPS.
func runCheck(ctx context.Context, cmd *cli.Command) error {
	modelPath := cmd.Args().Get(0)
	if modelPath == "" {
		return errMissingModelArg
	}

	dataPath := cmd.Args().Get(1)

	cfg, _ := mosox.LoadConfig(filepath.Dir(modelPath))
	if cfg == nil {
		cfg = &mosox.Config{Color: mosox.ColorAuto}
	}

	m, err := loadModel(modelPath, dataPath)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	lk, err := resolve.Model(m)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	enabled := colorEnabled(cfg.Color)
	verbose := cmd.Bool("verbose") || cfg.Verbose

	if verbose {
		printBoundModelStyled(m, lk, enabled)
	} else {
		fmt.Print(m.String())
	}

	return nil
}

// printBoundModelStyled renders the same declarations as model.Model's
// plain Display-style dump, but field-by-field under styled section
// headings and annotated with each set's resolved cardinality — the debug
// counterpart to the plain human-readable dump.
func printBoundModelStyled(m *model.Model, lk *resolve.Lookups, enabled bool) {
	fmt.Println(render(enabled, headingStyle, "objective"))
	fmt.Printf("  %s\n", m.Objective.String())

	fmt.Println(render(enabled, headingStyle, "sets"))

	for _, s := range m.Sets {
		fmt.Printf("  %s\n", s.Decl.String())

		rs, err := lk.Set(s.Decl.Name, nil)
		if err == nil {
			fmt.Printf("    %s %d\n", render(enabled, dimStyle, "resolved:"), len(rs.Elements))
		}
	}

	fmt.Println(render(enabled, headingStyle, "params"))

	for _, p := range m.Params {
		fmt.Printf("  %s\n", p.Decl.String())
	}

	fmt.Println(render(enabled, headingStyle, "vars"))

	for _, v := range m.Vars {
		fmt.Printf("  %s\n", v.String())
	}

	fmt.Println(render(enabled, headingStyle, "constraints"))

	for _, c := range m.Constraints {
		fmt.Printf("  %s\n", c.String())
	}

	fmt.Println(render(enabled, okStyle, "ok"))
}
