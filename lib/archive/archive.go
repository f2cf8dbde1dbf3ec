// Copyright 2026 The json-archive Authors
// SPDX-License-Identifier: Apache-2.0

// Package archive implements the line-oriented archive file format: the
// reader that parses a header and observation stream into queryable
// metadata (spec §4.6), and the writer that implements the
// create/append protocol (spec §4.7). Both sit on top of lib/codec for
// transparent compression and lib/event/lib/replay for the wire model
// and state reconstruction.
package archive

import (
	"strconv"

	"github.com/streamhist/jsonarchive/lib/jsonvalue"
)

// Kind distinguishes the two ways an observation is materialized on
// disk: as a delta group (observe + N mutation events) or as a single
// self-contained snapshot.
type Kind int

const (
	KindDelta Kind = iota
	KindSnapshot
)

// ObservationMeta describes one observation in file order, as produced
// by a full metadata pass (spec §4.6's first pass, used by `info`).
type ObservationMeta struct {
	Index           int
	ID              string
	Timestamp       string
	Kind            Kind
	ChangeCount     uint32 // meaningful only for KindDelta
	DerivedJSONSize int    // byte length of the reconstructed JSON at this observation
}

// ParseError reports a malformed archive line with enough context to
// locate it in the source file, following original_source/'s
// diagnostics (line number, byte offset) rather than naming only the
// offending field (spec §7's "replay aborts with context").
type ParseError struct {
	LineNumber int
	ByteOffset int64
	Err        error
}

func (e *ParseError) Error() string {
	return "archive: line " + strconv.Itoa(e.LineNumber) + " (offset " +
		strconv.FormatInt(e.ByteOffset, 10) + "): " + e.Err.Error()
}

func (e *ParseError) Unwrap() error { return e.Err }

// sizeOf returns the canonical-JSON byte length of v, used for
// ObservationMeta.DerivedJSONSize.
func sizeOf(v jsonvalue.Value) int {
	return len(jsonvalue.EncodeString(v))
}
