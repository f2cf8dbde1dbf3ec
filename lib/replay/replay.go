// Copyright 2026 The json-archive Authors
// SPDX-License-Identifier: Apache-2.0

// Package replay applies a sequence of event.Records to an in-memory
// jsonvalue.Value, reconstructing the document state at any point in an
// archive's history (spec §4.5).
package replay

import (
	"fmt"

	"github.com/streamhist/jsonarchive/lib/arraymove"
	"github.com/streamhist/jsonarchive/lib/event"
	"github.com/streamhist/jsonarchive/lib/jsonvalue"
)

// ErrUnknownObservation is returned when a delta event's obs_id does
// not match any observe record seen so far (lib/ops reports it as
// "pointer-error").
type ErrUnknownObservation struct{ ObsID string }

func (e *ErrUnknownObservation) Error() string {
	return fmt.Sprintf("replay: event references unknown observation %q", e.ObsID)
}

// ErrDuplicateObservation is returned when two observe records in the
// same stream share an id (lib/ops reports it as "pointer-error").
type ErrDuplicateObservation struct{ ObsID string }

func (e *ErrDuplicateObservation) Error() string {
	return fmt.Sprintf("replay: duplicate observation id %q", e.ObsID)
}

// State is the mutable result of applying a record sequence: the
// current document plus the bookkeeping needed to validate obs_id
// references as later records arrive.
type State struct {
	Document jsonvalue.Value
	seen     map[string]bool
}

// New starts a State from an initial document (the archive header's
// "initial" field, or a prior snapshot's "state" field).
func New(initial jsonvalue.Value) *State {
	return &State{Document: initial.Clone(), seen: map[string]bool{event.InitialObservationID: true}}
}

// Apply replays a single record against s, mutating s.Document in
// place and returning an error if the record is structurally invalid
// (an unknown or duplicate obs_id, or a malformed pointer target).
func (s *State) Apply(r event.Record) error {
	switch r.Kind {
	case event.KindObserve:
		if s.seen[r.ObservationID] {
			return &ErrDuplicateObservation{ObsID: r.ObservationID}
		}
		s.seen[r.ObservationID] = true
		return nil

	case event.KindSnapshot:
		s.Document = r.State.Clone()
		s.seen[r.SnapshotID] = true
		return nil

	case event.KindAdd:
		if !s.seen[r.ObsID] {
			return &ErrUnknownObservation{ObsID: r.ObsID}
		}
		return jsonvalue.Insert(&s.Document, r.Path, r.Value)

	case event.KindChange:
		if !s.seen[r.ObsID] {
			return &ErrUnknownObservation{ObsID: r.ObsID}
		}
		return jsonvalue.Set(&s.Document, r.Path, r.Value)

	case event.KindRemove:
		if !s.seen[r.ObsID] {
			return &ErrUnknownObservation{ObsID: r.ObsID}
		}
		return jsonvalue.Remove(&s.Document, r.Path)

	case event.KindMove:
		if !s.seen[r.ObsID] {
			return &ErrUnknownObservation{ObsID: r.ObsID}
		}
		return s.applyMove(r)

	default:
		return fmt.Errorf("replay: unhandled event kind %v", r.Kind)
	}
}

// applyMove replays a move event's (from, to) steps sequentially: each
// step inserts a copy of the array's current element at from, at index
// to, then removes the original element (spec §6's wire semantics for
// move, shared verbatim with the diff engine via lib/arraymove so the
// two can never disagree on index arithmetic).
func (s *State) applyMove(r event.Record) error {
	target, err := jsonvalue.Resolve(s.Document, r.Path)
	if err != nil {
		return err
	}
	if target.Kind() != jsonvalue.KindArray {
		return &jsonvalue.ErrNotContainer{Pointer: r.Path, Kind: target.Kind()}
	}
	elems := append([]jsonvalue.Value(nil), target.Elems()...)
	for _, m := range r.Moves {
		if m.From < 0 || m.From >= len(elems) || m.To < 0 || m.To >= len(elems) {
			return &jsonvalue.ErrIndexOutOfRange{Pointer: r.Path, Index: m.From, Length: len(elems)}
		}
		elems = arraymove.Apply(elems, m.From, m.To)
	}
	return jsonvalue.Set(&s.Document, r.Path, jsonvalue.Array(elems))
}

// Records replays a whole sequence starting from an initial document,
// returning the resulting document or the first error encountered.
func Records(initial jsonvalue.Value, records []event.Record) (jsonvalue.Value, error) {
	s := New(initial)
	for _, r := range records {
		if err := s.Apply(r); err != nil {
			return jsonvalue.Value{}, err
		}
	}
	return s.Document, nil
}
