// Copyright 2026 The json-archive Authors
// SPDX-License-Identifier: Apache-2.0

// Package diff turns two jsonvalue.Values into a minimal, ordered
// sequence of add/change/remove/move events (spec §4.4). The sequence
// carries no obs_id — the writer stamps that once per observation.
package diff

import (
	"sort"
	"strconv"

	"github.com/streamhist/jsonarchive/lib/arraymove"
	"github.com/streamhist/jsonarchive/lib/event"
	"github.com/streamhist/jsonarchive/lib/jsonvalue"
)

// Diff produces the ordered event sequence that transforms old into
// new. The root path is the empty Pointer.
func Diff(old, new jsonvalue.Value) []event.Record {
	var out []event.Record
	diffAt(jsonvalue.Pointer{}, old, new, &out)
	return out
}

func diffAt(path jsonvalue.Pointer, old, new jsonvalue.Value, out *[]event.Record) {
	if jsonvalue.DeepEqual(old, new) {
		return
	}
	if old.Kind() == jsonvalue.KindObject && new.Kind() == jsonvalue.KindObject {
		diffObject(path, old, new, out)
		return
	}
	if old.Kind() == jsonvalue.KindArray && new.Kind() == jsonvalue.KindArray {
		diffArray(path, old, new, out)
		return
	}
	// Different shapes, or equal shapes but scalar values that differ:
	// a single change record replaces the whole subtree.
	*out = append(*out, event.Change(path, new, ""))
}

// diffObject implements spec §4.4's per-key object diff: removes for
// keys that disappear, recurse-or-change for keys in both, then adds
// for new keys — in that order, so replay never addresses a stale
// path (a later add can reuse a key a same-level remove just freed).
func diffObject(path jsonvalue.Pointer, old, new jsonvalue.Value, out *[]event.Record) {
	oldObj, newObj := old.Object(), new.Object()

	for _, key := range oldObj.Keys() {
		if !newObj.Has(key) {
			*out = append(*out, event.Remove(path.Child(key), ""))
		}
	}

	for _, key := range oldObj.Keys() {
		if !newObj.Has(key) {
			continue
		}
		oldVal, _ := oldObj.Get(key)
		newVal, _ := newObj.Get(key)
		diffAt(path.Child(key), oldVal, newVal, out)
	}

	for _, key := range newObj.Keys() {
		if !oldObj.Has(key) {
			newVal, _ := newObj.Get(key)
			*out = append(*out, event.Add(path.Child(key), newVal, ""))
		}
	}
}

// diffArray implements spec §4.4's array diff: a longest common
// subsequence (by deep equality) forms the backbone of elements that
// neither move nor change. Elements the backbone leaves unmatched are
// paired up by value — an element present in both old and new but
// outside the backbone is a reposition, not a remove-then-add — and
// whatever remains truly unmatched is emitted as remove (old, then new)
// and add (new). All repositions collapse into a single move event
// whose move list is computed by walking the array left to right and
// relocating whichever element belongs at each position, exactly
// mirroring how a reader applies move (arraymove.Apply).
func diffArray(path jsonvalue.Pointer, old, new jsonvalue.Value, out *[]event.Record) {
	oldElems, newElems := old.Elems(), new.Elems()

	matchedOld := make([]bool, len(oldElems))
	matchedNew := make([]bool, len(newElems))

	// target[i] records, for the old element at index i, the new index
	// it corresponds to once matched (by the LCS or by value below).
	target := make([]int, len(oldElems))

	for _, pair := range longestCommonSubsequence(oldElems, newElems) {
		matchedOld[pair.oldIdx] = true
		matchedNew[pair.newIdx] = true
		target[pair.oldIdx] = pair.newIdx
	}

	// Pair off remaining unmatched elements by content: the same value
	// (under deep equality) appearing in both arrays outside the LCS
	// backbone is a move, not an unrelated remove/add. Each new element
	// takes the first still-unmatched equal old element, so duplicate
	// values are matched in array order.
	for j, v := range newElems {
		if matchedNew[j] {
			continue
		}
		for i, o := range oldElems {
			if !matchedOld[i] && jsonvalue.DeepEqual(o, v) {
				matchedOld[i] = true
				matchedNew[j] = true
				target[i] = j
				break
			}
		}
	}

	// Elements old retains but new does not are removed, in descending
	// index order so earlier removals never shift a later one's index.
	for i := len(oldElems) - 1; i >= 0; i-- {
		if !matchedOld[i] {
			*out = append(*out, event.Remove(path.Child(strconv.Itoa(i)), ""))
		}
	}

	// carried holds the target new-index of every matched element, in
	// old relative order — the array a reader has once removes are
	// applied but moves and adds are not yet.
	carried := make([]int, 0, len(oldElems))
	for i := range oldElems {
		if matchedOld[i] {
			carried = append(carried, target[i])
		}
	}

	// Elements new introduces are added, in ascending index order, at
	// their final position — inserting ascending keeps each insertion
	// point correct relative to elements already placed.
	added := make([]int, 0)
	for j := range newElems {
		if !matchedNew[j] {
			added = append(added, j)
		}
	}
	sort.Ints(added)
	for _, j := range added {
		*out = append(*out, event.Add(path.Child(strconv.Itoa(j)), newElems[j], ""))
		carried = arraymove.Insert(carried, j, j)
	}

	// carried now has length len(newElems); carried[p] names the new
	// index that belongs at position p. Walk left to right, relocating
	// whichever element belongs at each position — exactly the sequence
	// of (from, to) steps a reader replays with arraymove.Apply.
	var moves []event.Move
	for pos := 0; pos < len(carried); pos++ {
		if carried[pos] == pos {
			continue
		}
		from := pos
		for carried[from] != pos {
			from++
		}
		carried = arraymove.Apply(carried, from, pos)
		moves = append(moves, event.Move{From: from, To: pos})
	}
	if len(moves) > 0 {
		*out = append(*out, event.MoveEvent(path, moves, ""))
	}
}
