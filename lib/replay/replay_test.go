// Copyright 2026 The json-archive Authors
// SPDX-License-Identifier: Apache-2.0

package replay

import (
	"testing"

	"github.com/streamhist/jsonarchive/lib/diff"
	"github.com/streamhist/jsonarchive/lib/event"
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

// TestReplayRoundTripsDiff is the universal property from spec §8: for
// any old/new pair, replaying Diff(old, new) against old reproduces new
// exactly, once each delta is stamped with a live observation id.
func TestReplayRoundTripsDiff(t *testing.T) {
	cases := []struct{ old, new string }{
		{`{"a":1,"b":2}`, `{"a":1,"c":3}`},
		{`{"xs":["A","B","C","D"]}`, `{"xs":["A","D","B","C"]}`},
		{`["A","B","C"]`, `["C","A","Z"]`},
		{`{"n":{"deep":{"v":1}}}`, `{"n":{"deep":{"v":2}}}`},
		{`[1,2,3]`, `[1,2,3]`},
	}
	for _, c := range cases {
		old := mustDecode(t, c.old)
		new := mustDecode(t, c.new)

		records := diff.Diff(old, new)
		stamped := make([]event.Record, 0, len(records)+1)
		stamped = append(stamped, event.Observe("obs-1", "2026-01-01T00:00:00Z", uint32(len(records))))
		for _, r := range records {
			stamped = append(stamped, stampObsID(r, "obs-1"))
		}

		got, err := Records(old, stamped)
		if err != nil {
			t.Fatalf("replay failed for %s -> %s: %v", c.old, c.new, err)
		}
		if !jsonvalue.DeepEqual(got, new) {
			t.Fatalf("replay(%s, diff) = %s, want %s", c.old, jsonvalue.EncodeString(got), c.new)
		}
	}
}

func TestApplyRejectsUnknownObservation(t *testing.T) {
	s := New(mustDecode(t, `{"a":1}`))
	path, _ := jsonvalue.ParsePointer("/a")
	err := s.Apply(event.Change(path, jsonvalue.Number(2), "obs-missing"))
	if _, ok := err.(*ErrUnknownObservation); !ok {
		t.Fatalf("expected ErrUnknownObservation, got %v", err)
	}
}

func TestApplyRejectsDuplicateObservation(t *testing.T) {
	s := New(mustDecode(t, `{}`))
	if err := s.Apply(event.Observe("obs-1", "2026-01-01T00:00:00Z", 0)); err != nil {
		t.Fatalf("first observe: %v", err)
	}
	err := s.Apply(event.Observe("obs-1", "2026-01-01T00:00:01Z", 0))
	if _, ok := err.(*ErrDuplicateObservation); !ok {
		t.Fatalf("expected ErrDuplicateObservation, got %v", err)
	}
}

func TestSnapshotResetsDocument(t *testing.T) {
	s := New(mustDecode(t, `{"a":1}`))
	snap := mustDecode(t, `{"a":99,"b":2}`)
	if err := s.Apply(event.Snapshot("obs-2", "2026-01-02T00:00:00Z", snap)); err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if !jsonvalue.DeepEqual(s.Document, snap) {
		t.Fatalf("snapshot did not reset document: %s", jsonvalue.EncodeString(s.Document))
	}
}

func stampObsID(r event.Record, obsID string) event.Record {
	switch r.Kind {
	case event.KindAdd, event.KindChange, event.KindRemove, event.KindMove:
		r.ObsID = obsID
	}
	return r
}
