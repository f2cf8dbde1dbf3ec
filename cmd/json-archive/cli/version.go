// Copyright 2026 The json-archive Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"

	"github.com/streamhist/jsonarchive/lib/version"
)

func newVersionCommand() *Command {
	return &Command{
		Name:    "version",
		Summary: "Print version information",
		Usage:   "json-archive version",
		Run: func(args []string) error {
			fmt.Println(version.Full())
			return nil
		},
	}
}
