// Copyright 2026 The json-archive Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import "fmt"

// ExitError signals a non-zero exit without an extra "error:" line —
// the command has already written its own diagnostic. Adapted from
// the teacher's cmd/bureau/cli/exit.go for the one case spec.md
// treats as a normal empty-result outcome rather than an unexpected
// failure: `state` finding no observation for its selector.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string { return fmt.Sprintf("exit code %d", e.Code) }
func (e *ExitError) ExitCode() int { return e.Code }
