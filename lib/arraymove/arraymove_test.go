// Copyright 2026 The json-archive Authors
// SPDX-License-Identifier: Apache-2.0

package arraymove

import "testing"

func TestApplyMoveForwardAndBackward(t *testing.T) {
	cases := []struct {
		name       string
		arr        []string
		from, to   int
		want       []string
	}{
		{"move-back", []string{"A", "B", "C", "D"}, 3, 1, []string{"A", "D", "B", "C"}},
		{"move-forward", []string{"A", "B", "C", "D"}, 0, 2, []string{"B", "A", "C", "D"}},
		{"no-op", []string{"A", "B", "C"}, 1, 1, []string{"A", "B", "C"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Apply(append([]string(nil), c.arr...), c.from, c.to)
			if len(got) != len(c.want) {
				t.Fatalf("length mismatch: got %v want %v", got, c.want)
			}
			for i := range got {
				if got[i] != c.want[i] {
					t.Fatalf("got %v want %v", got, c.want)
				}
			}
		})
	}
}

func TestInsertRemoveRoundTrip(t *testing.T) {
	arr := []int{1, 2, 3}
	inserted := Insert(arr, 1, 99)
	want := []int{1, 99, 2, 3}
	for i := range want {
		if inserted[i] != want[i] {
			t.Fatalf("insert: got %v want %v", inserted, want)
		}
	}
	removed := Remove(inserted, 1)
	for i := range arr {
		if removed[i] != arr[i] {
			t.Fatalf("remove: got %v want %v", removed, arr)
		}
	}
}
