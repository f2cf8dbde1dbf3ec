// Copyright 2026 The json-archive Authors
// SPDX-License-Identifier: Apache-2.0

// Package ops implements the four public operations json-archive
// exposes (spec §4.8): create, append, info, state. It sits between
// lib/archive/lib/diff and cmd/json-archive, translating library
// errors into a single categorized Error type the CLI layer maps to
// exit codes (spec §7), following the teacher's ToolError pattern
// (cmd/bureau/cli/toolerror.go) of classifying by category rather than
// leaving callers to type-switch on every library error directly.
package ops

import (
	"errors"
	"fmt"
	"os"

	"github.com/streamhist/jsonarchive/lib/archive"
	"github.com/streamhist/jsonarchive/lib/event"
	"github.com/streamhist/jsonarchive/lib/jsonvalue"
	"github.com/streamhist/jsonarchive/lib/replay"
)

// Category classifies an Error for programmatic handling, matching
// spec §7's propagation rule: every class here except NotFound (when
// it is state's "no observation matches selector" result) is fatal.
type Category string

const (
	CategoryValidation Category = "validation"
	CategoryNotFound   Category = "not_found"
	CategoryConflict   Category = "conflict"
	CategoryInternal   Category = "internal"
)

// Error is the categorized error every ops function returns. Code is
// the E0xx/W0xx string from spec §7 where the table assigns one; a few
// error classes the table describes but does not number (source
// mismatch, overwrite refused, pointer and replay errors) get a short
// symbolic code instead; input parse failures and internal errors carry
// an empty Code.
type Error struct {
	Code     string
	Category Category
	Err      error
}

func (e *Error) Error() string { return e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }

func newError(code string, cat Category, format string, args ...any) *Error {
	return &Error{Code: code, Category: cat, Err: fmt.Errorf(format, args...)}
}

// wrap classifies an error from lib/archive, lib/event, lib/replay,
// lib/jsonvalue, or the filesystem into an *Error. Errors already
// wrapped are returned unchanged.
func wrap(err error) error {
	if err == nil {
		return nil
	}
	var opsErr *Error
	if errors.As(err, &opsErr) {
		return err
	}

	var parseErr *archive.ParseError
	if errors.As(err, &parseErr) {
		return &Error{Code: "E003", Category: CategoryValidation, Err: err}
	}
	var hdrMalformed *event.ErrHeaderMalformed
	if errors.As(err, &hdrMalformed) {
		return &Error{Code: "E003", Category: CategoryValidation, Err: err}
	}
	var unknownEvt *event.ErrUnknownEvent
	if errors.As(err, &unknownEvt) {
		return &Error{Code: "E022", Category: CategoryValidation, Err: err}
	}
	var wrongCount *event.ErrWrongFieldCount
	if errors.As(err, &wrongCount) {
		return &Error{Code: "E022", Category: CategoryValidation, Err: err}
	}

	var srcMismatch *archive.ErrSourceMismatch
	if errors.As(err, &srcMismatch) {
		return &Error{Code: "source-mismatch", Category: CategoryConflict, Err: err}
	}

	var notFound *archive.ObservationNotFoundError
	if errors.As(err, &notFound) {
		if notFound.ID != "" {
			return &Error{Code: "E030", Category: CategoryNotFound, Err: err}
		}
		return &Error{Code: "E053", Category: CategoryNotFound, Err: err}
	}
	var noMatch *archive.ErrNoMatch
	if errors.As(err, &noMatch) {
		return &Error{Code: "E051", Category: CategoryNotFound, Err: err}
	}

	var unknownObs *replay.ErrUnknownObservation
	if errors.As(err, &unknownObs) {
		return &Error{Code: "pointer-error", Category: CategoryValidation, Err: err}
	}
	var dupObs *replay.ErrDuplicateObservation
	if errors.As(err, &dupObs) {
		return &Error{Code: "pointer-error", Category: CategoryValidation, Err: err}
	}
	var notFoundPtr *jsonvalue.ErrNotFound
	if errors.As(err, &notFoundPtr) {
		return &Error{Code: "pointer-error", Category: CategoryValidation, Err: err}
	}
	var notContainer *jsonvalue.ErrNotContainer
	if errors.As(err, &notContainer) {
		return &Error{Code: "pointer-error", Category: CategoryValidation, Err: err}
	}
	var idxRange *jsonvalue.ErrIndexOutOfRange
	if errors.As(err, &idxRange) {
		return &Error{Code: "pointer-error", Category: CategoryValidation, Err: err}
	}

	if errors.Is(err, os.ErrNotExist) {
		return &Error{Code: "E051", Category: CategoryNotFound, Err: err}
	}
	return &Error{Category: CategoryInternal, Err: err}
}
