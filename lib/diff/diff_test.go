// Copyright 2026 The json-archive Authors
// SPDX-License-Identifier: Apache-2.0

package diff

import (
	"testing"

	"github.com/streamhist/jsonarchive/lib/arraymove"
	"github.com/streamhist/jsonarchive/lib/event"
	"github.com/streamhist/jsonarchive/lib/jsonvalue"
)

func mustParse(t *testing.T, s string) jsonvalue.Value {
	t.Helper()
	v, err := jsonvalue.Decode([]byte(s))
	if err != nil {
		t.Fatalf("decode %q: %v", s, err)
	}
	return v
}

// TestAddRemoveKeys covers spec §8 scenario S3: a key disappears and a
// new one appears at the same level.
func TestAddRemoveKeys(t *testing.T) {
	old := mustParse(t, `{"a":1,"b":2}`)
	new := mustParse(t, `{"a":1,"c":3}`)

	records := Diff(old, new)
	if len(records) != 2 {
		t.Fatalf("expected 2 events, got %d: %+v", len(records), records)
	}
	if records[0].Kind != event.KindRemove || records[0].Path.String() != "/b" {
		t.Fatalf("expected remove /b first, got %+v", records[0])
	}
	if records[1].Kind != event.KindAdd || records[1].Path.String() != "/c" {
		t.Fatalf("expected add /c second, got %+v", records[1])
	}
}

// TestArrayReorderIsPureMove covers spec §8 scenario S4: reordering an
// array without changing its contents produces exactly one move event
// and no add/remove.
func TestArrayReorderIsPureMove(t *testing.T) {
	old := mustParse(t, `{"xs":["A","B","C","D"]}`)
	new := mustParse(t, `{"xs":["A","D","B","C"]}`)

	records := Diff(old, new)
	if len(records) != 1 {
		t.Fatalf("expected exactly 1 event, got %d: %+v", len(records), records)
	}
	rec := records[0]
	if rec.Kind != event.KindMove || rec.Path.String() != "/xs" {
		t.Fatalf("expected a move at /xs, got %+v", rec)
	}
	if len(rec.Moves) != 1 || rec.Moves[0] != (event.Move{From: 3, To: 1}) {
		t.Fatalf("expected moves [[3,1]], got %+v", rec.Moves)
	}

	applied := applyMoves(t, []string{"A", "B", "C", "D"}, rec.Moves)
	wantApplied := []string{"A", "D", "B", "C"}
	if !stringSlicesEqual(applied, wantApplied) {
		t.Fatalf("replaying moves gave %v, want %v", applied, wantApplied)
	}
}

func TestArrayAddRemoveAndReorderTogether(t *testing.T) {
	old := mustParse(t, `["A","B","C"]`)
	new := mustParse(t, `["C","A","Z"]`)

	records := Diff(old, new)

	var removes, adds, moves int
	for _, r := range records {
		switch r.Kind {
		case event.KindRemove:
			removes++
		case event.KindAdd:
			adds++
		case event.KindMove:
			moves++
		default:
			t.Fatalf("unexpected event kind %v in array diff", r.Kind)
		}
	}
	if removes != 1 || adds != 1 || moves != 1 {
		t.Fatalf("expected 1 remove, 1 add, 1 move; got %d/%d/%d: %+v", removes, adds, moves, records)
	}

	replayed := replay(t, old, records)
	if !jsonvalue.DeepEqual(replayed, new) {
		t.Fatalf("replay mismatch: got %s want %s", jsonvalue.EncodeString(replayed), jsonvalue.EncodeString(new))
	}
}

func TestDiffOfEqualValuesIsEmpty(t *testing.T) {
	v := mustParse(t, `{"a":[1,2,{"b":"c"}]}`)
	if records := Diff(v, v.Clone()); len(records) != 0 {
		t.Fatalf("expected no events for equal values, got %+v", records)
	}
}

// TestDiffMinimalityWeak is the universal law from spec §8: no emitted
// event set contains a remove immediately followed by an add of the
// same value at the same path.
func TestDiffMinimalityWeak(t *testing.T) {
	cases := []struct{ old, new string }{
		{`{"a":1}`, `{"a":2}`},
		{`{"a":{"b":1}}`, `{"a":{"b":2}}`},
		{`["A","B","C"]`, `["A","X","C"]`},
	}
	for _, c := range cases {
		state := mustParse(t, c.old)
		records := Diff(state, mustParse(t, c.new))
		for i := 0; i+1 < len(records); i++ {
			r, a := records[i], records[i+1]
			if r.Kind == event.KindRemove && a.Kind == event.KindAdd &&
				r.Path.String() == a.Path.String() {
				removed, err := jsonvalue.Resolve(state, r.Path)
				if err != nil {
					t.Fatalf("resolve removed value at %q: %v", r.Path.String(), err)
				}
				if jsonvalue.DeepEqual(removed, a.Value) {
					t.Fatalf("remove/add pair of the same value at path %q: %+v", r.Path.String(), records)
				}
			}
			state = replay(t, state, records[i:i+1])
		}
	}
}

// replay applies records to old using the same insert-then-remove move
// semantics the reader uses, to confirm the diff's move list is correct
// (spec §8's move-correctness law) without depending on lib/replay.
func replay(t *testing.T, old jsonvalue.Value, records []event.Record) jsonvalue.Value {
	t.Helper()
	state := old.Clone()
	for _, r := range records {
		switch r.Kind {
		case event.KindAdd:
			if err := jsonvalue.Insert(&state, r.Path, r.Value); err != nil {
				t.Fatalf("replay add %s: %v", r.Path.String(), err)
			}
		case event.KindChange:
			if err := jsonvalue.Set(&state, r.Path, r.Value); err != nil {
				t.Fatalf("replay change %s: %v", r.Path.String(), err)
			}
		case event.KindRemove:
			if err := jsonvalue.Remove(&state, r.Path); err != nil {
				t.Fatalf("replay remove %s: %v", r.Path.String(), err)
			}
		case event.KindMove:
			target, err := jsonvalue.Resolve(state, r.Path)
			if err != nil {
				t.Fatalf("replay move %s: %v", r.Path.String(), err)
			}
			elems := append([]jsonvalue.Value(nil), target.Elems()...)
			for _, m := range r.Moves {
				elems = arraymove.Apply(elems, m.From, m.To)
			}
			if err := jsonvalue.Set(&state, r.Path, jsonvalue.Array(elems)); err != nil {
				t.Fatalf("replay move set %s: %v", r.Path.String(), err)
			}
		}
	}
	return state
}

func applyMoves(t *testing.T, arr []string, moves []event.Move) []string {
	t.Helper()
	out := append([]string(nil), arr...)
	for _, m := range moves {
		out = arraymove.Apply(out, m.From, m.To)
	}
	return out
}

func stringSlicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
