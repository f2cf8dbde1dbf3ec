// Copyright 2026 The json-archive Authors
// SPDX-License-Identifier: Apache-2.0

package jsonvalue

import (
	"fmt"
	"strconv"
	"strings"
)

// Pointer is a parsed RFC-6901 JSON Pointer: a sequence of decoded
// tokens. The empty Pointer denotes the root document.
type Pointer []string

// ParsePointer parses s into a Pointer. An empty string denotes the
// root. A non-empty pointer must start with "/"; each "/"-separated
// segment is unescaped ("~1" -> "/", "~0" -> "~") in a single left-to-
// right pass, so "~01" decodes to "~1" rather than "/" — the same
// result as replacing every ~1 before every ~0.
func ParsePointer(s string) (Pointer, error) {
	if s == "" {
		return Pointer{}, nil
	}
	if s[0] != '/' {
		return nil, fmt.Errorf("jsonvalue: pointer %q must start with '/'", s)
	}
	rawTokens := strings.Split(s[1:], "/")
	tokens := make(Pointer, len(rawTokens))
	for i, raw := range rawTokens {
		tokens[i] = unescapeToken(raw)
	}
	return tokens, nil
}

// String renders the Pointer back to its RFC-6901 wire form.
func (p Pointer) String() string {
	if len(p) == 0 {
		return ""
	}
	var b strings.Builder
	for _, tok := range p {
		b.WriteByte('/')
		b.WriteString(escapeToken(tok))
	}
	return b.String()
}

// Child returns a new Pointer with token appended. p is not mutated.
func (p Pointer) Child(token string) Pointer {
	out := make(Pointer, len(p)+1)
	copy(out, p)
	out[len(p)] = token
	return out
}

func escapeToken(tok string) string {
	if !strings.ContainsAny(tok, "~/") {
		return tok
	}
	tok = strings.ReplaceAll(tok, "~", "~0")
	tok = strings.ReplaceAll(tok, "/", "~1")
	return tok
}

func unescapeToken(tok string) string {
	if !strings.Contains(tok, "~") {
		return tok
	}
	var b strings.Builder
	b.Grow(len(tok))
	for i := 0; i < len(tok); i++ {
		if tok[i] == '~' && i+1 < len(tok) {
			switch tok[i+1] {
			case '1':
				b.WriteByte('/')
				i++
				continue
			case '0':
				b.WriteByte('~')
				i++
				continue
			}
		}
		b.WriteByte(tok[i])
	}
	return b.String()
}

// ErrNotFound is returned by Resolve and Remove when the pointer's
// target does not exist.
type ErrNotFound struct{ Pointer Pointer }

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("jsonvalue: no value at pointer %q", e.Pointer.String())
}

// ErrNotContainer is returned when a pointer addresses through a
// scalar (null/bool/number/string) as though it were an array or object.
type ErrNotContainer struct {
	Pointer Pointer
	Kind    Kind
}

func (e *ErrNotContainer) Error() string {
	return fmt.Sprintf("jsonvalue: cannot address into %s at pointer %q", e.Kind, e.Pointer.String())
}

// ErrIndexOutOfRange is returned when an array token is out of bounds
// for the operation being performed.
type ErrIndexOutOfRange struct {
	Pointer Pointer
	Index   int
	Length  int
}

func (e *ErrIndexOutOfRange) Error() string {
	return fmt.Sprintf("jsonvalue: index %d out of range (len %d) at pointer %q",
		e.Index, e.Length, e.Pointer.String())
}

// Resolve returns the value addressed by ptr within root.
func Resolve(root Value, ptr Pointer) (Value, error) {
	current := root
	for i, token := range ptr {
		prefix := ptr[:i+1]
		switch current.Kind() {
		case KindObject:
			v, ok := current.Object().Get(token)
			if !ok {
				return Value{}, &ErrNotFound{Pointer: prefix}
			}
			current = v
		case KindArray:
			idx, err := arrayIndex(token, prefix)
			if err != nil {
				return Value{}, err
			}
			if idx < 0 || idx >= len(current.Elems()) {
				return Value{}, &ErrNotFound{Pointer: prefix}
			}
			current = current.Elems()[idx]
		default:
			return Value{}, &ErrNotContainer{Pointer: ptr[:i], Kind: current.Kind()}
		}
	}
	return current, nil
}

func arrayIndex(token string, ptr Pointer) (int, error) {
	if token == "-" {
		return -1, fmt.Errorf("jsonvalue: array index token \"-\" is not supported at pointer %q", ptr.String())
	}
	idx, err := strconv.Atoi(token)
	if err != nil || idx < 0 || strconv.Itoa(idx) != token {
		return -1, fmt.Errorf("jsonvalue: invalid array index %q at pointer %q", token, ptr.String())
	}
	return idx, nil
}

// Set replaces the value already present at ptr. The target must
// already exist; Set never creates missing segments. The root itself
// can be replaced by passing an empty Pointer.
func Set(root *Value, ptr Pointer, value Value) error {
	if len(ptr) == 0 {
		*root = value
		return nil
	}
	parent, err := Resolve(*root, ptr[:len(ptr)-1])
	if err != nil {
		return err
	}
	last := ptr[len(ptr)-1]
	switch parent.Kind() {
	case KindObject:
		if !parent.Object().Has(last) {
			return &ErrNotFound{Pointer: ptr}
		}
		parent.Object().Set(last, value)
	case KindArray:
		idx, err := arrayIndex(last, ptr)
		if err != nil {
			return err
		}
		elems := parent.Elems()
		if idx < 0 || idx >= len(elems) {
			return &ErrIndexOutOfRange{Pointer: ptr, Index: idx, Length: len(elems)}
		}
		elems[idx] = value
	default:
		return &ErrNotContainer{Pointer: ptr[:len(ptr)-1], Kind: parent.Kind()}
	}
	return nil
}

// Insert adds value as a new key (object) or at a new index (array) at
// ptr. All segments up to the terminal one must already exist — only
// the terminal segment may be missing. For objects this behaves like
// Set if the key already exists (replace). For arrays, idx must satisfy
// 0 <= idx <= len(array); the value is inserted, shifting later
// elements up by one.
func Insert(root *Value, ptr Pointer, value Value) error {
	if len(ptr) == 0 {
		*root = value
		return nil
	}
	parentPtr := ptr[:len(ptr)-1]
	parent, err := Resolve(*root, parentPtr)
	if err != nil {
		return err
	}
	last := ptr[len(ptr)-1]
	switch parent.Kind() {
	case KindObject:
		parent.Object().Set(last, value)
	case KindArray:
		idx, err := arrayIndex(last, ptr)
		if err != nil {
			return err
		}
		elems := parent.Elems()
		if idx < 0 || idx > len(elems) {
			return &ErrIndexOutOfRange{Pointer: ptr, Index: idx, Length: len(elems)}
		}
		elems = append(elems, Value{})
		copy(elems[idx+1:], elems[idx:])
		elems[idx] = value
		if err := Set(root, parentPtr, Array(elems)); err != nil {
			return err
		}
	default:
		return &ErrNotContainer{Pointer: parentPtr, Kind: parent.Kind()}
	}
	return nil
}

// Remove deletes the value at ptr. The target must already exist.
func Remove(root *Value, ptr Pointer) error {
	if len(ptr) == 0 {
		return fmt.Errorf("jsonvalue: cannot remove the document root")
	}
	parentPtr := ptr[:len(ptr)-1]
	parent, err := Resolve(*root, parentPtr)
	if err != nil {
		return err
	}
	last := ptr[len(ptr)-1]
	switch parent.Kind() {
	case KindObject:
		if !parent.Object().Has(last) {
			return &ErrNotFound{Pointer: ptr}
		}
		parent.Object().Delete(last)
	case KindArray:
		idx, err := arrayIndex(last, ptr)
		if err != nil {
			return err
		}
		elems := parent.Elems()
		if idx < 0 || idx >= len(elems) {
			return &ErrNotFound{Pointer: ptr}
		}
		elems = append(elems[:idx], elems[idx+1:]...)
		if err := Set(root, parentPtr, Array(elems)); err != nil {
			return err
		}
	default:
		return &ErrNotContainer{Pointer: parentPtr, Kind: parent.Kind()}
	}
	return nil
}
