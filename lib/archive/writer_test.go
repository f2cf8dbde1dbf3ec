// Copyright 2026 The json-archive Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/streamhist/jsonarchive/lib/clock"
	"github.com/streamhist/jsonarchive/lib/jsonvalue"
)

func mustDecode(t *testing.T, s string) jsonvalue.Value {
	t.Helper()
	v, err := jsonvalue.Decode([]byte(s))
	if err != nil {
		t.Fatalf("decode %q: %v", s, err)
	}
	return v
}

func TestCreateThenAppendRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.archive")
	fc := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	initial := mustDecode(t, `{"a":1,"xs":["A","B","C","D"]}`)
	if err := Create(path, initial, Options{Source: "unit-test", Clock: fc}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	next := mustDecode(t, `{"a":2,"xs":["A","D","B","C"]}`)
	if err := Append(path, next, Options{Source: "unit-test", Clock: fc}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	a, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	metas := a.Observations()
	if len(metas) != 1 {
		t.Fatalf("expected 1 observation, got %d", len(metas))
	}
	if metas[0].ChangeCount != 2 {
		t.Errorf("expected change_count 2 (a change + xs move), got %d", metas[0].ChangeCount)
	}

	state, err := a.StateAt(1)
	if err != nil {
		t.Fatalf("StateAt: %v", err)
	}
	if !jsonvalue.DeepEqual(state, next) {
		t.Errorf("StateAt(1) = %s, want %s", jsonvalue.EncodeString(state), jsonvalue.EncodeString(next))
	}
}

func TestAppendRejectsMismatchedSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.archive")
	fc := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	if err := Create(path, mustDecode(t, `{}`), Options{Source: "stream-a", Clock: fc}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	err := Append(path, mustDecode(t, `{"x":1}`), Options{Source: "stream-b", Clock: fc})
	if _, ok := err.(*ErrSourceMismatch); !ok {
		t.Fatalf("expected *ErrSourceMismatch, got %v (%T)", err, err)
	}
}

func TestAppendEmitsZeroChangeObservationOnNoDiff(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.archive")
	fc := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	doc := mustDecode(t, `{"a":1}`)
	if err := Create(path, doc, Options{Clock: fc}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := Append(path, doc, Options{Clock: fc}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	a, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	metas := a.Observations()
	if len(metas) != 1 || metas[0].ChangeCount != 0 {
		t.Fatalf("expected a single zero-change observation, got %+v", metas)
	}
}

func TestAppendPlacesAdditiveSnapshotAtInterval(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.archive")
	fc := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	if err := Create(path, mustDecode(t, `{"n":0}`), Options{Clock: fc}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	for i := 1; i <= 3; i++ {
		doc := mustDecode(t, `{"n":`+string(rune('0'+i))+`}`)
		if err := Append(path, doc, Options{Clock: fc, SnapshotInterval: 3}); err != nil {
			t.Fatalf("Append %d: %v", i, err)
		}
	}

	a, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	metas := a.Observations()
	if len(metas) != 4 {
		t.Fatalf("expected 3 delta observations + 1 additive snapshot, got %d: %+v", len(metas), metas)
	}
	if metas[3].Kind != KindSnapshot {
		t.Errorf("expected 4th observation to be a snapshot, got %v", metas[3].Kind)
	}
	if metas[2].Kind != KindDelta {
		t.Errorf("expected the 3rd observation's own delta to remain (snapshots are additive), got %v", metas[2].Kind)
	}
}

func TestAppendRewritesCompressedArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.archive.gz")
	fc := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	if err := Create(path, mustDecode(t, `{"a":1}`), Options{Clock: fc}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := Append(path, mustDecode(t, `{"a":2}`), Options{Clock: fc}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	a, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	state, err := a.StateAt(1)
	if err != nil {
		t.Fatalf("StateAt: %v", err)
	}
	if !jsonvalue.DeepEqual(state, mustDecode(t, `{"a":2}`)) {
		t.Errorf("unexpected state after compressed append: %s", jsonvalue.EncodeString(state))
	}
}

func TestSniffDetectsArchiveEvenWithoutExpectedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.tmp")
	fc := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	if err := Create(path, mustDecode(t, `{"a":1}`), Options{Clock: fc}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if !Sniff(path) {
		t.Errorf("Sniff(%s) = false, want true", path)
	}
}

func TestSniffRejectsPlainJSONInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.json")
	if err := os.WriteFile(path, []byte(`{"a":1}`+"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if Sniff(path) {
		t.Errorf("Sniff(%s) = true, want false (not a header line)", path)
	}
}
