// Copyright 2026 The json-archive Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/streamhist/jsonarchive/lib/clock"
	"github.com/streamhist/jsonarchive/lib/codec"
	"github.com/streamhist/jsonarchive/lib/diff"
	"github.com/streamhist/jsonarchive/lib/event"
	"github.com/streamhist/jsonarchive/lib/jsonvalue"
)

// defaultSnapshotInterval is spec §4.7 step 7's default of 100
// observations between additive snapshots.
const defaultSnapshotInterval = 100

// Options configures Create and Append. The zero value is valid: it
// uses the real clock, the default snapshot interval, and a
// freshly-generated observation id.
type Options struct {
	// Source, if non-empty, is recorded in a new header (Create) or
	// checked against an existing header (Append, spec §4.7 step 3).
	Source string

	// SnapshotInterval overrides the default of 100. Non-positive
	// means use the default.
	SnapshotInterval int

	// ObservationID overrides the generated "obs-"-prefixed UUIDv4
	// (spec §4.7 step 5's "callers may supply one").
	ObservationID string

	// Clock supplies Now() for header/observation timestamps. Nil
	// means clock.Real().
	Clock clock.Clock
}

func (o Options) clock() clock.Clock {
	if o.Clock != nil {
		return o.Clock
	}
	return clock.Real()
}

func (o Options) snapshotInterval() int {
	if o.SnapshotInterval > 0 {
		return o.SnapshotInterval
	}
	return defaultSnapshotInterval
}

// ErrSourceMismatch reports an Append whose --source label does not
// match the archive's header source (spec §4.7 step 3, §7's "source
// label mismatch").
type ErrSourceMismatch struct {
	Header string
	Given  string
}

func (e *ErrSourceMismatch) Error() string {
	return fmt.Sprintf("archive: --source %q does not match archive source %q", e.Given, e.Header)
}

func timestamp(c clock.Clock) string {
	return c.Now().UTC().Format(time.RFC3339Nano)
}

// Create writes a brand new archive at path with initial as its
// header's initial state (spec §4.7's "Create").
func Create(path string, initial jsonvalue.Value, opts Options) error {
	h := event.Header{
		Version: event.HeaderVersion,
		Created: timestamp(opts.clock()),
		Initial: initial,
		Source:  opts.Source,
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("archive: creating %s: %w", path, err)
	}
	defer f.Close()

	w, err := codec.NewWriter(f, codec.DetectByExtension(path))
	if err != nil {
		return fmt.Errorf("archive: opening codec for %s: %w", path, err)
	}
	if _, err := io.WriteString(w, jsonvalue.EncodeString(event.MarshalHeader(h))+"\n"); err != nil {
		return fmt.Errorf("archive: writing header: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("archive: flushing %s: %w", path, err)
	}
	return f.Sync()
}

// Append diffs doc against the archive's current state and appends
// the resulting observation (spec §4.7's "Append"). The whole
// locate-diff-append sequence runs under an advisory lock on path.
func Append(path string, doc jsonvalue.Value, opts Options) error {
	lock, err := AcquireLock(path)
	if err != nil {
		return err
	}
	defer lock.Release()

	a, err := Open(path)
	if err != nil {
		return err
	}
	if opts.Source != "" && a.Header.Source != "" && a.Header.Source != opts.Source {
		return &ErrSourceMismatch{Header: a.Header.Source, Given: opts.Source}
	}

	metas := a.Observations()
	lastIndex := 0
	if len(metas) > 0 {
		lastIndex = metas[len(metas)-1].Index
	}
	current, err := a.StateAt(lastIndex)
	if err != nil {
		return fmt.Errorf("archive: locating current state: %w", err)
	}

	records := diff.Diff(current, doc)

	c := opts.clock()
	obsID := opts.ObservationID
	if obsID == "" {
		obsID = "obs-" + uuid.NewString()
	}
	ts := timestamp(c)

	var buf bytes.Buffer
	writeLine := func(r event.Record) {
		buf.WriteString(jsonvalue.EncodeString(event.MarshalRecord(r)))
		buf.WriteByte('\n')
	}

	writeLine(event.Observe(obsID, ts, uint32(len(records))))
	for _, r := range records {
		r.ObsID = obsID
		writeLine(r)
	}

	// Snapshots are additive (spec §9): the observation that triggers
	// one still keeps its own observe/delta lines above.
	if (len(metas)+1)%opts.snapshotInterval() == 0 {
		writeLine(event.Snapshot("obs-"+uuid.NewString(), ts, doc))
	}

	format := codec.DetectByExtension(path)
	if format == codec.FormatPlain {
		return appendPlain(path, buf.Bytes())
	}
	return rewriteCompressed(path, format, buf.Bytes())
}

// appendPlain opens path for appending and writes data at EOF,
// fsyncing before return (spec §4.7 step 6's plain-file path, and the
// crash-safety clause's "flush and fsync after the final newline").
func appendPlain(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("archive: opening %s for append: %w", path, err)
	}
	defer f.Close()
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("archive: appending to %s: %w", path, err)
	}
	return f.Sync()
}

// rewriteCompressed decompresses the existing archive, writes it plus
// newLines through a fresh compressing writer into a temp file beside
// path, fsyncs, and renames over path (spec §4.7 step 6's compressed
// path). The temp-file-then-rename shape follows the teacher's
// MetadataStore.Write (lib/artifact/metadata.go), here fsyncing before
// the rename rather than after per the crash-safety clause.
func rewriteCompressed(path string, format codec.Format, newLines []byte) error {
	src, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("archive: reopening %s: %w", path, err)
	}
	defer src.Close()

	r, err := codec.NewReader(src, format)
	if err != nil {
		return fmt.Errorf("archive: opening codec for %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("archive: creating temp file for %s: %w", path, err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	w, err := codec.NewWriter(tmp, format)
	if err != nil {
		tmp.Close()
		return fmt.Errorf("archive: opening codec for %s: %w", tmpPath, err)
	}
	if _, err := io.Copy(w, r); err != nil {
		tmp.Close()
		return fmt.Errorf("archive: copying existing content to %s: %w", tmpPath, err)
	}
	if _, err := w.Write(newLines); err != nil {
		tmp.Close()
		return fmt.Errorf("archive: writing new observation to %s: %w", tmpPath, err)
	}
	if err := w.Close(); err != nil {
		tmp.Close()
		return fmt.Errorf("archive: flushing %s: %w", tmpPath, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("archive: fsyncing %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("archive: closing %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("archive: renaming %s to %s: %w", tmpPath, path, err)
	}
	success = true
	return nil
}
