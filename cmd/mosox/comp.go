package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	mosox "github.com/lgsolve/mosox"
	"github.com/lgsolve/mosox/compile"
	"github.com/lgsolve/mosox/mpsfmt"
)

func compCommand() *cli.Command {
	return &cli.Command{
		Name:      "comp",
		Usage:     "Compile a model to MPS format",
		ArgsUsage: "<model_path> [data_path]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "output file (default: stdout)",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log compile progress to stderr",
				Sources: cli.EnvVars("MOSOX_VERBOSE"),
			},
			&cli.BoolFlag{
				Name:  "parallel",
				Usage: "expand constraints across a worker pool",
			},
		},
		Action: runComp,
	}
}

func runComp(ctx context.Context, cmd *cli.Command) error {
	modelPath := cmd.Args().Get(0)
	if modelPath == "" {
		return errMissingModelArg
	}

	dataPath := cmd.Args().Get(1)

	cfg, _ := mosox.LoadConfig(filepath.Dir(modelPath))
	if cfg == nil {
		cfg = &mosox.Config{}
	}

	verbose := cmd.Bool("verbose") || cfg.Verbose

	logger := zap.NewNop()
	if verbose {
		if l, err := zap.NewProduction(); err == nil {
			logger = l
		}
	}
	defer logger.Sync() //nolint:errcheck

	m, err := loadModel(modelPath, dataPath)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	c, err := compile.Compile(m, compile.Options{
		Parallel: cmd.Bool("parallel"),
		Logger:   logger.Sugar(),
	})
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	out := os.Stdout

	if outPath := cmd.String("out"); outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return cli.Exit(fmt.Sprintf("creating %s: %v", outPath, err), 1)
		}
		defer f.Close()

		if err := mpsfmt.Write(f, c); err != nil {
			return cli.Exit(err.Error(), 1)
		}

		return nil
	}

	if err := mpsfmt.Write(out, c); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	return nil
}
