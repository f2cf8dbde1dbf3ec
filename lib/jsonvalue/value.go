// Copyright 2026 The json-archive Authors
// SPDX-License-Identifier: Apache-2.0

// Package jsonvalue implements an in-memory JSON value that preserves
// object key insertion order, RFC-6901 JSON Pointer addressing, and
// deep structural equality by value rather than by serialized form.
//
// A Go map does not preserve insertion order, so the archive's diff
// engine (which must emit deterministic, ordered event sequences) cannot
// use encoding/json's default map[string]any decoding. Value and Object
// exist to fill that gap.
package jsonvalue

import (
	"fmt"
	"math"
)

// Kind identifies the concrete shape a Value holds.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is a recursive JSON value. The zero Value is JSON null.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
	arr  []Value
	obj  *Object
}

// Null returns the JSON null value.
func Null() Value { return Value{kind: KindNull} }

// Bool returns a JSON boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number returns a JSON number value.
func Number(n float64) Value { return Value{kind: KindNumber, n: n} }

// String returns a JSON string value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Array returns a JSON array value wrapping the given elements. The
// slice is taken by reference, not copied — callers that retain it
// elsewhere should Clone first.
func Array(elems []Value) Value {
	if elems == nil {
		elems = []Value{}
	}
	return Value{kind: KindArray, arr: elems}
}

// NewObject returns a JSON object value wrapping o. A nil o is treated
// as an empty object.
func NewObject(o *Object) Value {
	if o == nil {
		o = NewOrderedObject()
	}
	return Value{kind: KindObject, obj: o}
}

// Kind reports the value's shape.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is JSON null (including the zero Value).
func (v Value) IsNull() bool { return v.kind == KindNull }

// Bool returns the boolean payload. Only meaningful when Kind() == KindBool.
func (v Value) Bool() bool { return v.b }

// Num returns the numeric payload. Only meaningful when Kind() == KindNumber.
func (v Value) Num() float64 { return v.n }

// Str returns the string payload. Only meaningful when Kind() == KindString.
func (v Value) Str() string { return v.s }

// Elems returns the array payload. Only meaningful when Kind() == KindArray.
// The returned slice aliases v's storage; callers must not mutate it
// in place — use Array(append(...)) or Clone instead.
func (v Value) Elems() []Value { return v.arr }

// Object returns the object payload. Only meaningful when Kind() == KindObject.
// The returned Object aliases v's storage.
func (v Value) Object() *Object { return v.obj }

// Clone returns a deep, alias-free copy of v.
func (v Value) Clone() Value {
	switch v.kind {
	case KindArray:
		cloned := make([]Value, len(v.arr))
		for i, e := range v.arr {
			cloned[i] = e.Clone()
		}
		return Array(cloned)
	case KindObject:
		return NewObject(v.obj.Clone())
	default:
		return v
	}
}

// DeepEqual reports whether a and b represent the same JSON value:
// numbers compared by magnitude (not representation), objects compared
// by key set plus recursive equality regardless of key order, arrays
// compared element-wise in order.
func DeepEqual(a, b Value) bool {
	if a.kind != b.kind {
		// null/bool/number/string/array/object are mutually exclusive
		// shapes in JSON; a type mismatch is never equal.
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindNumber:
		return numbersEqual(a.n, b.n)
	case KindString:
		return a.s == b.s
	case KindArray:
		if len(a.arr) != len(b.arr) {
			return false
		}
		for i := range a.arr {
			if !DeepEqual(a.arr[i], b.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		return objectsEqual(a.obj, b.obj)
	default:
		return false
	}
}

func numbersEqual(a, b float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return false
	}
	return a == b
}

func objectsEqual(a, b *Object) bool {
	if a.Len() != b.Len() {
		return false
	}
	for _, key := range a.Keys() {
		bv, ok := b.Get(key)
		if !ok {
			return false
		}
		av, _ := a.Get(key)
		if !DeepEqual(av, bv) {
			return false
		}
	}
	return true
}
