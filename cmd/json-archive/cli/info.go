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

func newInfoCommand(cfg *config.Config) *Command {
	var output string
	flags := func() *pflag.FlagSet {
		fs := pflag.NewFlagSet("info", pflag.ContinueOnError)
		fs.StringVar(&output, "output", string(cfg.Output), "output format: human or json")
		return fs
	}

	return &Command{
		Name:    "info",
		Summary: "Show archive metadata and per-observation rows",
		Usage:   "json-archive info <archive> [--output human|json]",
		Flags:   flags,
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("info: expected exactly one archive path")
			}
			result, err := ops.Info(args[0])
			if err != nil {
				return err
			}
			if output == "json" {
				printInfoJSON(os.Stdout, result)
				return nil
			}
			printInfoHuman(os.Stdout, result, cfg.Color)
			return nil
		},
	}
}
