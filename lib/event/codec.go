// Copyright 2026 The json-archive Authors
// SPDX-License-Identifier: Apache-2.0

package event

import (
	"fmt"

	"github.com/streamhist/jsonarchive/lib/jsonvalue"
)

// ErrHeaderMalformed reports a missing or unparseable header object
// (E003). UnmarshalRecord also returns it for an event line that is not
// a non-empty JSON array.
type ErrHeaderMalformed struct{ Reason string }

func (e *ErrHeaderMalformed) Error() string {
	return fmt.Sprintf("malformed archive header: %s", e.Reason)
}

// ErrUnknownEvent reports an unrecognized event tag (E022).
type ErrUnknownEvent struct{ Tag string }

func (e *ErrUnknownEvent) Error() string {
	return fmt.Sprintf("unknown event tag %q", e.Tag)
}

// ErrWrongFieldCount reports an event array with the wrong arity for
// its tag (E022).
type ErrWrongFieldCount struct {
	Tag  string
	Got  int
	Want int
}

func (e *ErrWrongFieldCount) Error() string {
	return fmt.Sprintf("event %q has %d fields, want %d", e.Tag, e.Got, e.Want)
}

// MarshalHeader renders h as the JSON object stored on an archive's
// first line.
func MarshalHeader(h Header) jsonvalue.Value {
	obj := jsonvalue.NewOrderedObject()
	obj.Set("version", jsonvalue.Number(float64(h.Version)))
	obj.Set("created", jsonvalue.String(h.Created))
	obj.Set("initial", h.Initial)
	if h.Source != "" {
		obj.Set("source", jsonvalue.String(h.Source))
	}
	if !h.Metadata.IsNull() {
		obj.Set("metadata", h.Metadata)
	}
	return jsonvalue.NewObject(obj)
}

// UnmarshalHeader parses a Header from a decoded JSON value.
func UnmarshalHeader(v jsonvalue.Value) (Header, error) {
	if v.Kind() != jsonvalue.KindObject {
		return Header{}, &ErrHeaderMalformed{Reason: "header line is not a JSON object"}
	}
	obj := v.Object()

	versionVal, ok := obj.Get("version")
	if !ok || versionVal.Kind() != jsonvalue.KindNumber {
		return Header{}, &ErrHeaderMalformed{Reason: "missing or non-numeric \"version\" field"}
	}
	version := int(versionVal.Num())
	if version != HeaderVersion {
		return Header{}, &ErrHeaderMalformed{Reason: fmt.Sprintf("unsupported version %d", version)}
	}

	createdVal, ok := obj.Get("created")
	if !ok || createdVal.Kind() != jsonvalue.KindString {
		return Header{}, &ErrHeaderMalformed{Reason: "missing or non-string \"created\" field"}
	}

	initialVal, ok := obj.Get("initial")
	if !ok {
		return Header{}, &ErrHeaderMalformed{Reason: "missing \"initial\" field"}
	}

	h := Header{
		Version: version,
		Created: createdVal.Str(),
		Initial: initialVal,
	}
	if sourceVal, ok := obj.Get("source"); ok {
		if sourceVal.Kind() != jsonvalue.KindString || sourceVal.Str() == "" {
			return Header{}, &ErrHeaderMalformed{Reason: "\"source\" must be a non-empty string"}
		}
		h.Source = sourceVal.Str()
	}
	if metaVal, ok := obj.Get("metadata"); ok {
		h.Metadata = metaVal
	}
	return h, nil
}

// MarshalRecord renders r as the JSON array stored on its archive line.
func MarshalRecord(r Record) jsonvalue.Value {
	switch r.Kind {
	case KindObserve:
		return jsonvalue.Array([]jsonvalue.Value{
			jsonvalue.String(r.Kind.String()),
			jsonvalue.String(r.ObservationID),
			jsonvalue.String(r.Timestamp),
			jsonvalue.Number(float64(r.ChangeCount)),
		})
	case KindAdd, KindChange:
		return jsonvalue.Array([]jsonvalue.Value{
			jsonvalue.String(r.Kind.String()),
			jsonvalue.String(r.Path.String()),
			r.Value,
			jsonvalue.String(r.ObsID),
		})
	case KindRemove:
		return jsonvalue.Array([]jsonvalue.Value{
			jsonvalue.String(r.Kind.String()),
			jsonvalue.String(r.Path.String()),
			jsonvalue.String(r.ObsID),
		})
	case KindMove:
		moveElems := make([]jsonvalue.Value, len(r.Moves))
		for i, m := range r.Moves {
			moveElems[i] = jsonvalue.Array([]jsonvalue.Value{
				jsonvalue.Number(float64(m.From)),
				jsonvalue.Number(float64(m.To)),
			})
		}
		return jsonvalue.Array([]jsonvalue.Value{
			jsonvalue.String(r.Kind.String()),
			jsonvalue.String(r.Path.String()),
			jsonvalue.Array(moveElems),
			jsonvalue.String(r.ObsID),
		})
	case KindSnapshot:
		return jsonvalue.Array([]jsonvalue.Value{
			jsonvalue.String(r.Kind.String()),
			jsonvalue.String(r.SnapshotID),
			jsonvalue.String(r.Timestamp),
			r.State,
		})
	default:
		panic(fmt.Sprintf("event: MarshalRecord: unknown kind %v", r.Kind))
	}
}

// UnmarshalRecord parses a Record from a decoded JSON array.
func UnmarshalRecord(v jsonvalue.Value) (Record, error) {
	if v.Kind() != jsonvalue.KindArray || len(v.Elems()) == 0 {
		return Record{}, &ErrHeaderMalformed{Reason: "event line is not a non-empty JSON array"}
	}
	elems := v.Elems()
	tagVal := elems[0]
	if tagVal.Kind() != jsonvalue.KindString {
		return Record{}, fmt.Errorf("event tag is not a string")
	}
	kind, ok := ParseKind(tagVal.Str())
	if !ok {
		return Record{}, &ErrUnknownEvent{Tag: tagVal.Str()}
	}

	switch kind {
	case KindObserve:
		if len(elems) != 4 {
			return Record{}, &ErrWrongFieldCount{Tag: "observe", Got: len(elems), Want: 4}
		}
		return Observe(elems[1].Str(), elems[2].Str(), uint32(elems[3].Num())), nil

	case KindAdd, KindChange:
		if len(elems) != 4 {
			return Record{}, &ErrWrongFieldCount{Tag: kind.String(), Got: len(elems), Want: 4}
		}
		path, err := jsonvalue.ParsePointer(elems[1].Str())
		if err != nil {
			return Record{}, err
		}
		if kind == KindAdd {
			return Add(path, elems[2], elems[3].Str()), nil
		}
		return Change(path, elems[2], elems[3].Str()), nil

	case KindRemove:
		if len(elems) != 3 {
			return Record{}, &ErrWrongFieldCount{Tag: "remove", Got: len(elems), Want: 3}
		}
		path, err := jsonvalue.ParsePointer(elems[1].Str())
		if err != nil {
			return Record{}, err
		}
		return Remove(path, elems[2].Str()), nil

	case KindMove:
		if len(elems) != 4 {
			return Record{}, &ErrWrongFieldCount{Tag: "move", Got: len(elems), Want: 4}
		}
		path, err := jsonvalue.ParsePointer(elems[1].Str())
		if err != nil {
			return Record{}, err
		}
		if elems[2].Kind() != jsonvalue.KindArray {
			return Record{}, fmt.Errorf("move event's move list is not an array")
		}
		moves := make([]Move, len(elems[2].Elems()))
		for i, pair := range elems[2].Elems() {
			if pair.Kind() != jsonvalue.KindArray || len(pair.Elems()) != 2 {
				return Record{}, fmt.Errorf("move event's move list entry %d is not a [from,to] pair", i)
			}
			moves[i] = Move{From: int(pair.Elems()[0].Num()), To: int(pair.Elems()[1].Num())}
		}
		return MoveEvent(path, moves, elems[3].Str()), nil

	case KindSnapshot:
		if len(elems) != 4 {
			return Record{}, &ErrWrongFieldCount{Tag: "snapshot", Got: len(elems), Want: 4}
		}
		return Snapshot(elems[1].Str(), elems[2].Str(), elems[3]), nil

	default:
		return Record{}, &ErrUnknownEvent{Tag: tagVal.Str()}
	}
}
