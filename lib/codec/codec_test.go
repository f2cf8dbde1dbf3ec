// Copyright 2026 The json-archive Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"io"
	"testing"
)

func TestDetectByExtension(t *testing.T) {
	cases := map[string]Format{
		"archive.jsonl":    FormatPlain,
		"archive.jsonl.gz": FormatGzip,
		"ARCHIVE.JSONL.GZ": FormatGzip,
		"archive.zlib":     FormatZlib,
		"archive.jsonl.br": FormatBrotli,
		"archive.lz4":      FormatLZ4,
		"noextension":      FormatPlain,
	}
	for name, want := range cases {
		if got := DetectByExtension(name); got != want {
			t.Errorf("DetectByExtension(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestRoundTripAllFormats(t *testing.T) {
	payload := []byte(`{"version":1,"created":"2026-01-01T00:00:00Z","initial":{}}` + "\n")

	for _, format := range []Format{FormatPlain, FormatGzip, FormatZlib, FormatBrotli, FormatLZ4} {
		t.Run(format.String(), func(t *testing.T) {
			var buf bytes.Buffer
			w, err := NewWriter(&buf, format)
			if err != nil {
				t.Fatalf("NewWriter: %v", err)
			}
			if _, err := w.Write(payload); err != nil {
				t.Fatalf("write: %v", err)
			}
			if err := w.Close(); err != nil {
				t.Fatalf("close: %v", err)
			}

			r, err := NewReader(&buf, format)
			if err != nil {
				t.Fatalf("NewReader: %v", err)
			}
			got, err := io.ReadAll(r)
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			if !bytes.Equal(got, payload) {
				t.Fatalf("round trip mismatch: got %q want %q", got, payload)
			}
		})
	}
}

func TestDetectByMagicGzip(t *testing.T) {
	var buf bytes.Buffer
	w, _ := NewWriter(&buf, FormatGzip)
	_, _ = w.Write([]byte("hello"))
	_ = w.Close()

	if got := DetectByMagic(buf.Bytes()[:4]); got != FormatGzip {
		t.Fatalf("DetectByMagic gzip = %v, want FormatGzip", got)
	}
}
