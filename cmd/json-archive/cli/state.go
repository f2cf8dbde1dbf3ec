// Copyright 2026 The json-archive Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/streamhist/jsonarchive/internal/config"
	"github.com/streamhist/jsonarchive/lib/archive"
	"github.com/streamhist/jsonarchive/lib/ops"
)

func newStateCommand(cfg *config.Config) *Command {
	var id string
	var index int
	var asOf, before, after string
	var latest bool

	flags := func() *pflag.FlagSet {
		fs := pflag.NewFlagSet("state", pflag.ContinueOnError)
		fs.StringVar(&id, "id", "", "select the observation with this id")
		fs.IntVar(&index, "index", -1, "select the observation at this index")
		fs.StringVar(&asOf, "as-of", "", "select the latest observation at or before this timestamp")
		fs.StringVar(&before, "before", "", "select the latest observation strictly before this timestamp")
		fs.StringVar(&after, "after", "", "select the earliest observation strictly after this timestamp")
		fs.BoolVar(&latest, "latest", false, "select the most recent observation")
		return fs
	}

	return &Command{
		Name:    "state",
		Summary: "Reconstruct the document at a selected observation",
		Usage:   "json-archive state <archive> (--id ID | --index N | --as-of TS | --before TS | --after TS | --latest)",
		Flags:   flags,
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("state: expected exactly one archive path")
			}

			sel, err := buildSelector(id, index, asOf, before, after, latest)
			if err != nil {
				return err
			}

			v, err := ops.State(args[0], sel)
			if err != nil {
				if opsErr, ok := err.(*ops.Error); ok && opsErr.Code == "E051" {
					fmt.Fprintln(os.Stderr, opsErr.Error())
					return &ExitError{Code: 1}
				}
				return err
			}
			return printState(os.Stdout, v, cfg.Color)
		},
	}
}

func buildSelector(id string, index int, asOf, before, after string, latest bool) (archive.Selector, error) {
	var sel archive.Selector
	set := 0

	if id != "" {
		sel.ID = id
		set++
	}
	if index >= 0 {
		idx := index
		sel.Index = &idx
		set++
	}
	if asOf != "" {
		ts, err := parseTimestamp(asOf)
		if err != nil {
			return sel, fmt.Errorf("state: --as-of: %w", err)
		}
		sel.AsOf = &ts
		set++
	}
	if before != "" {
		ts, err := parseTimestamp(before)
		if err != nil {
			return sel, fmt.Errorf("state: --before: %w", err)
		}
		sel.Before = &ts
		set++
	}
	if after != "" {
		ts, err := parseTimestamp(after)
		if err != nil {
			return sel, fmt.Errorf("state: --after: %w", err)
		}
		sel.After = &ts
		set++
	}
	if latest {
		sel.Latest = true
		set++
	}

	if set > 1 {
		return sel, fmt.Errorf("state: only one of --id, --index, --as-of, --before, --after, --latest may be given")
	}
	if set == 0 {
		// original_source/src/flags.rs: --latest is the default selector
		// when none of the others is given.
		sel.Latest = true
	}
	return sel, nil
}

// parseTimestamp accepts ISO-8601 with a "Z" or explicit offset,
// sub-second precision optional (spec §6's timestamp format).
func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
