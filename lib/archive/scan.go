// Copyright 2026 The json-archive Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/streamhist/jsonarchive/lib/event"
	"github.com/streamhist/jsonarchive/lib/jsonvalue"
)

// maxLineBytes bounds a single archive line. A document's full state
// can legitimately be large (a snapshot embeds it whole), so this is
// generous rather than tight.
const maxLineBytes = 256 << 20

// rawLine is one physical line of a decompressed archive stream.
type rawLine struct {
	number  int
	offset  int64
	content []byte // trimmed of the trailing newline; not of surrounding whitespace
}

func isBlankOrComment(content []byte) bool {
	trimmed := bytes.TrimSpace(content)
	return len(trimmed) == 0 || trimmed[0] == '#'
}

// scanLines walks r line by line, reporting every line (including
// comments and blanks) to fn. It stops at the first error fn returns,
// or at a final line with no trailing newline, which spec §4.7 treats
// as a truncated tail rather than a malformed one.
func scanLines(r io.Reader, fn func(rawLine) error) error {
	br := bufio.NewReaderSize(r, 64<<10)
	lineNo := 0
	var offset int64

	for {
		lineNo++
		startOffset := offset
		line, err := br.ReadBytes('\n')
		offset += int64(len(line))

		if err != nil && err != io.EOF {
			return err
		}
		if len(line) == 0 {
			return nil
		}
		if line[len(line)-1] != '\n' {
			// A final line with no newline is a truncated write in
			// progress (spec §4.7's crash-safety clause); ignore it
			// rather than failing the whole read.
			return nil
		}
		trimmed := bytes.TrimSuffix(line[:len(line)-1], []byte("\r"))

		if len(trimmed) > maxLineBytes {
			return &ParseError{LineNumber: lineNo, ByteOffset: startOffset,
				Err: fmt.Errorf("line exceeds %d bytes", maxLineBytes)}
		}
		if err := fn(rawLine{number: lineNo, offset: startOffset, content: trimmed}); err != nil {
			return err
		}
	}
}

// parseHeaderLine decodes a non-comment line as the archive header.
func parseHeaderLine(l rawLine) (event.Header, error) {
	v, err := jsonvalue.Decode(l.content)
	if err != nil {
		return event.Header{}, &ParseError{LineNumber: l.number, ByteOffset: l.offset,
			Err: fmt.Errorf("invalid JSON: %w", err)}
	}
	h, err := event.UnmarshalHeader(v)
	if err != nil {
		return event.Header{}, &ParseError{LineNumber: l.number, ByteOffset: l.offset, Err: err}
	}
	return h, nil
}

// parseEventLine decodes a non-comment line as an event record.
func parseEventLine(l rawLine) (event.Record, error) {
	v, err := jsonvalue.Decode(l.content)
	if err != nil {
		return event.Record{}, &ParseError{LineNumber: l.number, ByteOffset: l.offset,
			Err: fmt.Errorf("invalid JSON: %w", err)}
	}
	r, err := event.UnmarshalRecord(v)
	if err != nil {
		return event.Record{}, &ParseError{LineNumber: l.number, ByteOffset: l.offset, Err: err}
	}
	return r, nil
}
