// Copyright 2026 The json-archive Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/streamhist/jsonarchive/internal/config"
	"github.com/streamhist/jsonarchive/lib/archive"
)

// Execute implements json-archive's CLI surface (spec §6). The
// top-level dispatch is irregular — append has no subcommand name of
// its own, an archive path in the first argument's place is enough —
// so it is handled here rather than forced into the generic Command
// tree used by the other four subcommands.
func Execute(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if len(args) == 0 || isHelpFlag(args[0]) {
		printRootHelp(os.Stderr)
		if len(args) == 0 {
			return fmt.Errorf("a command or archive path is required")
		}
		return nil
	}

	switch args[0] {
	case "version", "--version":
		return newVersionCommand().Execute(args[1:])
	case "info":
		return newInfoCommand(cfg).Execute(args[1:])
	case "state":
		return newStateCommand(cfg).Execute(args[1:])
	case "create":
		return newCreateCommand(cfg).Execute(args[1:])
	default:
		if strings.Contains(args[0], ".archive") || archive.Sniff(args[0]) {
			return runAppend(cfg, args[0], args[1:])
		}
		return newCreateCommand(cfg).Execute(args)
	}
}

func printRootHelp(w *os.File) {
	fmt.Fprint(w, `json-archive maintains an append-only, human-readable history of a
JSON document's evolution.

Usage:
  json-archive [create] <inputs...> [-o OUT] [--force] [--source S] [-s N]
  json-archive <archive> <inputs...>
  json-archive info <archive> [--output human|json]
  json-archive state <archive> (--id ID | --index N | --as-of TS | --before TS | --after TS | --latest)
  json-archive version
`)
}
