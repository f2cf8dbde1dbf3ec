// Copyright 2026 The json-archive Authors
// SPDX-License-Identifier: Apache-2.0

package ops

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/streamhist/jsonarchive/lib/archive"
	"github.com/streamhist/jsonarchive/lib/clock"
	"github.com/streamhist/jsonarchive/lib/jsonvalue"
)

func writeJSON(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCreateInfersOutPathAndAppendsRemainingInputs(t *testing.T) {
	dir := t.TempDir()
	fc := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	a := writeJSON(t, dir, "a.json", `{"n":1}`)
	b := writeJSON(t, dir, "b.json", `{"n":2}`)

	outPath, err := Create(CreateOptions{Inputs: []string{a, b}, Clock: fc})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if outPath != a+".archive" {
		t.Errorf("outPath = %s, want %s", outPath, a+".archive")
	}

	info, err := Info(outPath)
	if err != nil {
		t.Fatalf("Info: %v", err)
	}
	if len(info.Observations) != 1 {
		t.Fatalf("expected 1 observation from the second input, got %d", len(info.Observations))
	}
	if info.FileSize <= 0 {
		t.Errorf("FileSize = %d, want > 0", info.FileSize)
	}
	if info.SnapshotCount != 0 {
		t.Errorf("SnapshotCount = %d, want 0 (no interval reached yet)", info.SnapshotCount)
	}
	if info.TotalJSONSize <= 0 {
		t.Errorf("TotalJSONSize = %d, want > 0", info.TotalJSONSize)
	}
}

func TestCreateRefusesExistingTargetWithoutForce(t *testing.T) {
	dir := t.TempDir()
	fc := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	a := writeJSON(t, dir, "a.json", `{"n":1}`)

	if _, err := Create(CreateOptions{Inputs: []string{a}, Clock: fc}); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	_, err := Create(CreateOptions{Inputs: []string{a}, Clock: fc})
	opsErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *ops.Error, got %T", err)
	}
	if opsErr.Category != CategoryConflict {
		t.Errorf("category = %v, want conflict", opsErr.Category)
	}

	if _, err := Create(CreateOptions{Inputs: []string{a}, Force: true, Clock: fc}); err != nil {
		t.Errorf("Create with Force=true should succeed, got %v", err)
	}
}

func TestStateResolvesLatestAndByID(t *testing.T) {
	dir := t.TempDir()
	fc := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	a := writeJSON(t, dir, "a.json", `{"n":1}`)

	outPath, err := Create(CreateOptions{Inputs: []string{a}, Clock: fc})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	b := writeJSON(t, dir, "b.json", `{"n":2}`)
	if err := Append(AppendOptions{ArchivePath: outPath, Inputs: []string{b}, Clock: fc}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	got, err := State(outPath, archive.Selector{Latest: true})
	if err != nil {
		t.Fatalf("State(Latest): %v", err)
	}
	want, _ := jsonvalue.Decode([]byte(`{"n":2}`))
	if !jsonvalue.DeepEqual(got, want) {
		t.Errorf("State(Latest) = %s, want %s", jsonvalue.EncodeString(got), jsonvalue.EncodeString(want))
	}

	_, err = State(outPath, archive.Selector{ID: "no-such-id"})
	opsErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *ops.Error, got %T", err)
	}
	if opsErr.Category != CategoryNotFound || opsErr.Code != "E030" {
		t.Errorf("got code=%s category=%v, want E030/not_found", opsErr.Code, opsErr.Category)
	}
}

func TestAppendSourceMismatchIsConflict(t *testing.T) {
	dir := t.TempDir()
	fc := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	a := writeJSON(t, dir, "a.json", `{"n":1}`)

	outPath, err := Create(CreateOptions{Inputs: []string{a}, Source: "feed-1", Clock: fc})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	b := writeJSON(t, dir, "b.json", `{"n":2}`)
	err = Append(AppendOptions{ArchivePath: outPath, Inputs: []string{b}, Source: "feed-2", Clock: fc})
	opsErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *ops.Error, got %T", err)
	}
	if opsErr.Category != CategoryConflict {
		t.Errorf("category = %v, want conflict", opsErr.Category)
	}
}
