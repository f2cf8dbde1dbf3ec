// Copyright 2026 The json-archive Authors
// SPDX-License-Identifier: Apache-2.0

package ops

import (
	"fmt"
	"os"

	"github.com/streamhist/jsonarchive/lib/archive"
	"github.com/streamhist/jsonarchive/lib/clock"
	"github.com/streamhist/jsonarchive/lib/event"
	"github.com/streamhist/jsonarchive/lib/jsonvalue"
)

// CreateOptions configures the create operation (spec §4.8's
// `create(inputs…, out_path?, force, source?, snapshot_interval)`).
type CreateOptions struct {
	Inputs           []string
	OutPath          string // empty infers "<first input>.archive"
	Force            bool
	Source           string
	SnapshotInterval int
	Clock            clock.Clock
}

// Create writes a new archive from Inputs[0], then appends Inputs[1:]
// in order (spec §4.7's "Create... if additional inputs are provided,
// enter append path for each"). It returns the archive path written.
func Create(opts CreateOptions) (string, error) {
	if len(opts.Inputs) == 0 {
		return "", newError("", CategoryValidation, "create: at least one input document is required")
	}

	outPath := opts.OutPath
	if outPath == "" {
		outPath = opts.Inputs[0] + ".archive"
	}

	if !opts.Force {
		if _, err := os.Stat(outPath); err == nil {
			return "", newError("overwrite-refused", CategoryConflict,
				"create: %s already exists (use --force to overwrite)", outPath)
		} else if !os.IsNotExist(err) {
			return "", wrap(err)
		}
	}

	initial, err := readDocument(opts.Inputs[0])
	if err != nil {
		return "", err
	}

	if err := archive.Create(outPath, initial, archive.Options{
		Source: opts.Source,
		Clock:  opts.Clock,
	}); err != nil {
		return "", wrap(err)
	}

	for _, input := range opts.Inputs[1:] {
		doc, err := readDocument(input)
		if err != nil {
			return "", err
		}
		if err := archive.Append(outPath, doc, archive.Options{
			Source:           opts.Source,
			SnapshotInterval: opts.SnapshotInterval,
			Clock:            opts.Clock,
		}); err != nil {
			return "", wrap(err)
		}
	}
	return outPath, nil
}

// AppendOptions configures the append operation (spec §4.8's
// `append(archive, inputs…, source?, snapshot_interval)`).
type AppendOptions struct {
	ArchivePath      string
	Inputs           []string
	Source           string
	SnapshotInterval int
	Clock            clock.Clock
}

// Append diffs each input against the archive's running state, in
// order, appending one observation per input.
func Append(opts AppendOptions) error {
	if len(opts.Inputs) == 0 {
		return newError("", CategoryValidation, "append: at least one input document is required")
	}
	for _, input := range opts.Inputs {
		doc, err := readDocument(input)
		if err != nil {
			return err
		}
		if err := archive.Append(opts.ArchivePath, doc, archive.Options{
			Source:           opts.Source,
			SnapshotInterval: opts.SnapshotInterval,
			Clock:            opts.Clock,
		}); err != nil {
			return wrap(err)
		}
	}
	return nil
}

// InfoResult is the metadata `info` reports: the header, one row per
// observation (spec §4.8's "metadata and per-observation rows"), and a
// few size figures original_source/src/cmd/info.rs reports alongside
// them to let a reader judge the archive's delta-compression payoff.
type InfoResult struct {
	Path          string
	Header        event.Header
	Observations  []archive.ObservationMeta
	FileSize      int64 // bytes on disk, as stored (possibly compressed)
	SnapshotCount int
	TotalJSONSize int64 // sum of each observation's reconstructed JSON size
}

// Info opens path and reports its header, full observation list, and
// derived size figures.
func Info(path string) (*InfoResult, error) {
	a, err := archive.Open(path)
	if err != nil {
		return nil, wrap(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, wrap(err)
	}

	observations := a.Observations()
	result := &InfoResult{
		Path:         path,
		Header:       a.Header,
		Observations: observations,
		FileSize:     info.Size(),
	}
	for _, obs := range observations {
		result.TotalJSONSize += int64(obs.DerivedJSONSize)
		if obs.Kind == archive.KindSnapshot {
			result.SnapshotCount++
		}
	}
	return result, nil
}

// State resolves sel against path's observation sequence and returns
// the reconstructed document at that point (spec §4.8's
// `state(archive, selector)`).
func State(path string, sel archive.Selector) (jsonvalue.Value, error) {
	a, err := archive.Open(path)
	if err != nil {
		return jsonvalue.Value{}, wrap(err)
	}
	idx, err := a.Resolve(sel)
	if err != nil {
		return jsonvalue.Value{}, wrap(err)
	}
	state, err := a.StateAt(idx)
	if err != nil {
		return jsonvalue.Value{}, wrap(err)
	}
	return state, nil
}

func readDocument(path string) (jsonvalue.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return jsonvalue.Value{}, wrap(fmt.Errorf("reading %s: %w", path, err))
	}
	v, err := jsonvalue.Decode(data)
	if err != nil {
		return jsonvalue.Value{}, newError("", CategoryValidation, "parsing %s: %w", path, err)
	}
	return v, nil
}
