// Copyright 2026 The json-archive Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/streamhist/jsonarchive/internal/config"
	"github.com/streamhist/jsonarchive/lib/ops"
)

func newCreateCommand(cfg *config.Config) *Command {
	var out string
	var force bool
	var source string
	var snapshotInterval int
	var removeSourceFiles bool

	flags := func() *pflag.FlagSet {
		fs := pflag.NewFlagSet("create", pflag.ContinueOnError)
		fs.StringVarP(&out, "out", "o", "", "output archive path (default: <first input>.archive)")
		fs.BoolVar(&force, "force", false, "overwrite an existing output archive")
		fs.StringVar(&source, "source", "", "source label recorded in the header")
		fs.IntVarP(&snapshotInterval, "snapshot-interval", "s", cfg.SnapshotInterval, "observations between additive snapshots")
		fs.BoolVar(&removeSourceFiles, "remove-source-files", false, "remove input files after a successful create")
		return fs
	}

	return &Command{
		Name:    "create",
		Summary: "Create a new archive from one or more JSON documents",
		Usage:   "json-archive [create] <inputs...> [-o OUT] [--force] [--source S] [-s N]",
		Flags:   flags,
		Run: func(args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("create: at least one input document is required")
			}
			outPath, err := ops.Create(ops.CreateOptions{
				Inputs:           args,
				OutPath:          out,
				Force:            force,
				Source:           source,
				SnapshotInterval: snapshotInterval,
			})
			if err != nil {
				return err
			}
			if removeSourceFiles {
				for _, input := range args {
					if err := os.Remove(input); err != nil {
						fmt.Fprintf(os.Stderr, "warning: removing %s: %v\n", input, err)
					}
				}
			}
			fmt.Println(outPath)
			return nil
		},
	}
}
