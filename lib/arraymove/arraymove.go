// Copyright 2026 The json-archive Authors
// SPDX-License-Identifier: Apache-2.0

// Package arraymove implements the single normative operation the
// archive format's wire semantics define for reordering an array: for
// each (from, to) pair, insert a copy of the element at from at index
// to, then remove the original (spec §6, "Move semantics on the
// wire"). Both the diff engine (to compute a move list) and the replay
// engine (to apply one) share this single implementation so the two
// can never disagree about index arithmetic.
package arraymove

// Apply performs one (from, to) move step against arr and returns the
// resulting slice. from and to must be valid indices into arr
// (0 <= from, to < len(arr)). from == to is a no-op.
func Apply[T any](arr []T, from, to int) []T {
	if from == to {
		return arr
	}
	value := arr[from]

	inserted := make([]T, 0, len(arr)+1)
	inserted = append(inserted, arr[:to]...)
	inserted = append(inserted, value)
	inserted = append(inserted, arr[to:]...)

	removeIdx := from
	if from >= to {
		removeIdx++
	}
	out := make([]T, 0, len(arr))
	out = append(out, inserted[:removeIdx]...)
	out = append(out, inserted[removeIdx+1:]...)
	return out
}

// Insert returns arr with value inserted at index idx (0 <= idx <= len(arr)).
func Insert[T any](arr []T, idx int, value T) []T {
	out := make([]T, 0, len(arr)+1)
	out = append(out, arr[:idx]...)
	out = append(out, value)
	out = append(out, arr[idx:]...)
	return out
}

// Remove returns arr with the element at idx removed.
func Remove[T any](arr []T, idx int) []T {
	out := make([]T, 0, len(arr)-1)
	out = append(out, arr[:idx]...)
	out = append(out, arr[idx+1:]...)
	return out
}
