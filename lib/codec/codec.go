// Copyright 2026 The json-archive Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec wraps an archive's byte stream so that every layer
// above it (reader, writer, CLI) works against a plain io.Reader /
// io.WriteCloser regardless of whether the file on disk is stored
// uncompressed or transparently compressed (spec §4.2). Format
// selection follows the teacher's compression-tag dispatch pattern
// (lib/artifactstore/compress.go) adapted from block-mode chunk
// compression to streaming file compression.
package codec

import (
	"bufio"
	"compress/flate"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/pierrec/lz4/v4"
)

// Format identifies one of the archive's supported on-disk encodings.
type Format int

const (
	// FormatPlain stores archive lines with no wrapping.
	FormatPlain Format = iota
	FormatGzip
	FormatZlib
	FormatBrotli
	// FormatLZ4 is a supplemental codec (spec §9) grounded on the
	// teacher's lz4 dependency, offered alongside gzip/zlib/brotli for
	// archives where decode speed matters more than ratio.
	FormatLZ4
)

func (f Format) String() string {
	switch f {
	case FormatPlain:
		return "plain"
	case FormatGzip:
		return "gzip"
	case FormatZlib:
		return "zlib"
	case FormatBrotli:
		return "brotli"
	case FormatLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// magic byte prefixes used to detect format when a file's extension is
// absent or ambiguous (spec §4.2's "detect by extension, falling back
// to magic bytes").
var (
	magicGzip  = []byte{0x1f, 0x8b}
	magicZlib0 = []byte{0x78, 0x01} // zlib "no compression / low"
	magicZlib1 = []byte{0x78, 0x9c} // zlib "default"
	magicZlib2 = []byte{0x78, 0xda} // zlib "best compression"
	magicLZ4   = []byte{0x04, 0x22, 0x4d, 0x18}
)

// DetectByExtension maps a filename's suffix to a Format. Extensions
// compose: "archive.json.gz" and "archive.jsonl.gz" both detect as
// FormatGzip. An unrecognized or absent extension returns FormatPlain.
func DetectByExtension(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".gz", ".gzip":
		return FormatGzip
	case ".zz", ".zlib":
		return FormatZlib
	case ".br":
		return FormatBrotli
	case ".lz4":
		return FormatLZ4
	default:
		return FormatPlain
	}
}

// DetectByMagic inspects up to the first 4 bytes already read from a
// stream and reports which Format they indicate, for archives whose
// extension was stripped or renamed. Brotli has no reliable magic
// number, so it is never returned here — callers that need to
// distinguish brotli from plain text without an extension must fall
// back to DetectByExtension.
func DetectByMagic(prefix []byte) Format {
	switch {
	case hasPrefix(prefix, magicGzip):
		return FormatGzip
	case hasPrefix(prefix, magicZlib0), hasPrefix(prefix, magicZlib1), hasPrefix(prefix, magicZlib2):
		return FormatZlib
	case hasPrefix(prefix, magicLZ4):
		return FormatLZ4
	default:
		return FormatPlain
	}
}

func hasPrefix(data, prefix []byte) bool {
	return len(data) >= len(prefix) && string(data[:len(prefix)]) == string(prefix)
}

// NewReader wraps r so reads return the archive's decompressed
// content, per format.
func NewReader(r io.Reader, format Format) (io.Reader, error) {
	switch format {
	case FormatPlain:
		return r, nil
	case FormatGzip:
		return gzip.NewReader(r)
	case FormatZlib:
		return zlib.NewReader(r)
	case FormatBrotli:
		return brotli.NewReader(r), nil
	case FormatLZ4:
		return lz4.NewReader(r), nil
	default:
		return nil, fmt.Errorf("codec: unsupported format %v", format)
	}
}

// WriteCloser is the subset of compression writers the archive writer
// needs: Write, and a Close that flushes any trailing frame footer
// (checksums, end-of-stream markers) to the underlying stream.
type WriteCloser = io.WriteCloser

// NewWriter wraps w so writes are transparently compressed per format.
// The caller must Close the returned writer to flush trailing frame
// data — it does not close the underlying w.
func NewWriter(w io.Writer, format Format) (WriteCloser, error) {
	switch format {
	case FormatPlain:
		return nopWriteCloser{bufio.NewWriter(w), w}, nil
	case FormatGzip:
		return gzip.NewWriterLevel(w, gzip.DefaultCompression)
	case FormatZlib:
		return zlib.NewWriterLevel(w, flate.DefaultCompression)
	case FormatBrotli:
		return brotli.NewWriter(w), nil
	case FormatLZ4:
		return lz4.NewWriter(w), nil
	default:
		return nil, fmt.Errorf("codec: unsupported format %v", format)
	}
}

// nopWriteCloser buffers plain-format writes and flushes them to the
// underlying writer on Close, giving FormatPlain the same buffered
// throughput as the compressing codecs without actually compressing.
type nopWriteCloser struct {
	buf *bufio.Writer
	w   io.Writer
}

func (n nopWriteCloser) Write(p []byte) (int, error) { return n.buf.Write(p) }
func (n nopWriteCloser) Close() error                { return n.buf.Flush() }
