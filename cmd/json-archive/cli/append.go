// Copyright 2026 The json-archive Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/streamhist/jsonarchive/internal/config"
	"github.com/streamhist/jsonarchive/lib/ops"
)

// runAppend implements spec §6's append form: `json-archive <archive>
// <inputs...>`, where <archive> is identified by containing
// ".archive" — it has no subcommand name of its own, so its flags are
// parsed directly here rather than through the Command tree.
func runAppend(cfg *config.Config, archivePath string, args []string) error {
	var source string
	var snapshotInterval int

	fs := pflag.NewFlagSet("append", pflag.ContinueOnError)
	fs.StringVar(&source, "source", "", "source label checked against the archive's header")
	fs.IntVarP(&snapshotInterval, "snapshot-interval", "s", cfg.SnapshotInterval, "observations between additive snapshots")
	if err := fs.Parse(args); err != nil {
		return err
	}
	inputs := fs.Args()
	if len(inputs) == 0 {
		return fmt.Errorf("%s: at least one input document is required", archivePath)
	}

	return ops.Append(ops.AppendOptions{
		ArchivePath:      archivePath,
		Inputs:           inputs,
		Source:           source,
		SnapshotInterval: snapshotInterval,
	})
}
